// Package encoding converts object and texture names between UTF-8 and the
// Windows-1252 code page used by 4x4 Evolution files.
package encoding

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Windows1252ToUTF8 decodes a name read from an SMF file. Every byte maps to
// a rune, so decoding cannot fail.
func Windows1252ToUTF8(s string) string {
	if isASCII(s) {
		return s
	}
	result, _, err := transform.String(charmap.Windows1252.NewDecoder(), s)
	if err != nil {
		return s
	}
	return result
}

// UTF8ToWindows1252 encodes a host name for writing into an SMF file. Runes
// outside the code page are replaced with '?'.
func UTF8ToWindows1252(s string) string {
	if isASCII(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}

// SanitizeName makes a name safe for one SMF line. Line breaks end a record
// and commas split material fields, so both are replaced. It works on bytes,
// so Windows-1252 input is left intact.
func SanitizeName(s string) string {
	if !strings.ContainsAny(s, "\r\n,") {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		switch c {
		case '\r', '\n':
			b[i] = ' '
		case ',':
			b[i] = '_'
		}
	}
	return string(b)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
