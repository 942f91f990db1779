package formats

import (
	"fmt"
	"strings"
)

// MaterialDialect selects the on-disk encoding of an object's material block.
type MaterialDialect int

const (
	// DialectLegacy is the single-line block referencing a .RAW texture.
	DialectLegacy MaterialDialect = iota
	// DialectV1 is the "v1" block referencing .TIF textures plus a bump map.
	DialectV1
)

// String returns the dialect name.
func (d MaterialDialect) String() string {
	switch d {
	case DialectLegacy:
		return "legacy"
	case DialectV1:
		return "v1"
	default:
		return fmt.Sprintf("Unknown(%d)", int(d))
	}
}

// TextureExt returns the texture file extension the dialect references.
func (d MaterialDialect) TextureExt() string {
	if d == DialectV1 {
		return ".TIF"
	}
	return ".RAW"
}

const (
	materialV1Marker = "v1"
	nullTexture      = "NULL"

	// specular, glossiness, shininess. Always written as constants.
	materialConstants = "1.000000,1.000000,32.000000"
)

// MaterialDescriptor is the material data an SMF object carries.
// Empty texture names mean "no texture".
type MaterialDescriptor struct {
	Diffuse     string // diffuse texture base name, without extension
	Bump        string // bump texture base name, v1 dialect only
	Reflective  bool
	Transparent bool
}

// TextureBaseName strips the extension from a texture file name by cutting at
// the first '.', so "foo.bar.RAW" yields "foo".
func TextureBaseName(file string) string {
	if i := strings.IndexByte(file, '.'); i >= 0 {
		return file[:i]
	}
	return file
}

func writeMaterial(lw *lineWriter, m MaterialDescriptor, dialect MaterialDialect) {
	ext := dialect.TextureExt()

	diffuse := nullTexture + ext
	if m.Diffuse != "" {
		diffuse = m.Diffuse + ext
	}

	if dialect == DialectV1 {
		lw.line(materialV1Marker)
	}
	lw.linef("%s,%s,%s,%s", materialConstants, boolFlag(m.Transparent), boolFlag(m.Reflective), diffuse)
	if dialect == DialectV1 {
		bump := ""
		if m.Bump != "" {
			bump = m.Bump + ext
		}
		lw.line(`"` + bump + `"`)
	}
}

func readMaterial(lr *LineReader) (MaterialDescriptor, MaterialDialect, error) {
	var m MaterialDescriptor
	dialect := DialectLegacy

	line, err := lr.Next()
	if err != nil {
		return m, dialect, err
	}

	if strings.TrimSpace(line) == materialV1Marker {
		dialect = DialectV1
		if line, err = lr.Next(); err != nil {
			return m, dialect, err
		}
		bumpLine, err := lr.Next()
		if err != nil {
			return m, dialect, err
		}
		m.Bump = TextureBaseName(unquote(bumpLine))
	}

	// The file name is the remainder so it may contain commas.
	fields := strings.SplitN(line, ",", 6)
	if len(fields) < 6 {
		return m, dialect, lr.errorf(ErrMalformedMaterial, "expected 6 fields, got %d", len(fields))
	}
	m.Transparent = strings.TrimSpace(fields[3]) == "1"
	m.Reflective = strings.TrimSpace(fields[4]) == "1"
	if name := TextureBaseName(fields[5]); name != nullTexture {
		m.Diffuse = name
	}

	return m, dialect, nil
}

func unquote(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}
