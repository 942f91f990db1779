package formats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxSMFLine bounds a single SMF line. Vertex lines are well under 200 bytes;
// the limit only guards against binary input.
const maxSMFLine = 1 << 20

// LineReader reads an SMF stream one LF-terminated line at a time and tracks
// the current line number for error messages. CR before LF is dropped.
type LineReader struct {
	scanner *bufio.Scanner
	line    int
}

// NewLineReader wraps r for line-oriented reading.
func NewLineReader(r io.Reader) *LineReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), maxSMFLine)
	return &LineReader{scanner: s}
}

// Next returns the next line without its terminator.
func (lr *LineReader) Next() (string, error) {
	if !lr.scanner.Scan() {
		if err := lr.scanner.Err(); err != nil {
			return "", fmt.Errorf("%w: line %d: %v", ErrTruncatedSMFData, lr.line+1, err)
		}
		return "", fmt.Errorf("%w: unexpected end of file after line %d", ErrTruncatedSMFData, lr.line)
	}
	lr.line++
	return strings.TrimSuffix(lr.scanner.Text(), "\r"), nil
}

// Skip discards n lines without parsing them.
func (lr *LineReader) Skip(n int) error {
	for i := 0; i < n; i++ {
		if _, err := lr.Next(); err != nil {
			return err
		}
	}
	return nil
}

// errorf wraps a sentinel error with the current line number.
func (lr *LineReader) errorf(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: line %d: %s", sentinel, lr.line, fmt.Sprintf(format, args...))
}

// nextInt reads a line holding a single integer.
func (lr *LineReader) nextInt(what string) (int, error) {
	s, err := lr.Next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, lr.errorf(ErrMalformedRecord, "%s %q is not an integer", what, s)
	}
	return v, nil
}

// nextInts reads a comma-separated integer line.
func (lr *LineReader) nextInts(what string) ([]int, error) {
	s, err := lr.Next()
	if err != nil {
		return nil, err
	}
	fields := strings.Split(s, ",")
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, lr.errorf(ErrMalformedRecord, "%s field %d %q is not an integer", what, i, f)
		}
		out[i] = v
	}
	return out, nil
}

// nextFloats reads a comma-separated line of exactly n floats.
func (lr *LineReader) nextFloats(what string, n int) ([]float32, error) {
	s, err := lr.Next()
	if err != nil {
		return nil, err
	}
	fields := strings.Split(s, ",")
	if len(fields) != n {
		return nil, lr.errorf(ErrMalformedRecord, "%s has %d fields, expected %d", what, len(fields), n)
	}
	out := make([]float32, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return nil, lr.errorf(ErrMalformedRecord, "%s field %d %q is not a number", what, i, f)
		}
		out[i] = float32(v)
	}
	return out, nil
}

// lineWriter writes LF-terminated lines and keeps the first write error.
type lineWriter struct {
	w   *bufio.Writer
	err error
}

func newLineWriter(w io.Writer) *lineWriter {
	return &lineWriter{w: bufio.NewWriter(w)}
}

func (lw *lineWriter) line(s string) {
	if lw.err != nil {
		return
	}
	if _, lw.err = lw.w.WriteString(s); lw.err == nil {
		lw.err = lw.w.WriteByte('\n')
	}
}

func (lw *lineWriter) linef(format string, args ...interface{}) {
	lw.line(fmt.Sprintf(format, args...))
}

func (lw *lineWriter) flush() error {
	if lw.err != nil {
		return lw.err
	}
	return lw.w.Flush()
}

// formatFloat renders a value with the fixed 6 decimal places SMF uses.
func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', 6, 64)
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
