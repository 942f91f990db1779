package formats

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// SMF format errors.
var (
	ErrMalformedHeader          = errors.New("malformed SMF header: expected 'C3DModel'")
	ErrUnsupportedObjectVersion = errors.New("unsupported SMF object version")
	ErrTruncatedSMFData         = errors.New("truncated SMF data")
	ErrMalformedRecord          = errors.New("malformed SMF record")
	ErrMalformedMaterial        = errors.New("malformed SMF material block")
)

// Face errors. These are recovered: the face is skipped and the object kept.
var (
	ErrDegenerateFace = errors.New("degenerate face")
	ErrFaceIndexRange = errors.New("face index out of range")
	ErrDuplicateFace  = errors.New("duplicate face")
)

const (
	// SMFMagic is the first line of every SMF file.
	SMFMagic = "C3DModel"
	// SMFVersion is the container version written by this package.
	SMFVersion = 4

	// maxPrealloc caps slice capacity taken from counts in a file; larger
	// records grow as their lines are read.
	maxPrealloc = 1024
)

// SMFModel is a parsed SMF container.
type SMFModel struct {
	Version int
	// LOD switching metadata (version 4+). Parsed but not applied.
	LODSwitch    bool
	SwitchHeight float32
	Objects      []*SMFObject
}

// readSMFHeader reads the container header and returns the declared object count.
func readSMFHeader(lr *LineReader) (*SMFModel, int, error) {
	magic, err := lr.Next()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: got empty file", ErrMalformedHeader)
	}
	if magic != SMFMagic {
		return nil, 0, fmt.Errorf("%w: got %q", ErrMalformedHeader, magic)
	}

	version, err := lr.nextInt("version")
	if err != nil {
		return nil, 0, err
	}
	count, err := lr.nextInt("object count")
	if err != nil {
		return nil, 0, err
	}
	if count < 0 {
		return nil, 0, lr.errorf(ErrMalformedRecord, "negative object count %d", count)
	}

	model := &SMFModel{Version: version}
	if version >= 4 {
		lod, err := lr.Next()
		if err != nil {
			return nil, 0, err
		}
		model.LODSwitch, model.SwitchHeight = parseLODLine(lod)
	}
	return model, count, nil
}

// parseLODLine is lenient: the line is informational only.
func parseLODLine(s string) (bool, float32) {
	fields := strings.Split(s, ",")
	enabled := strings.TrimSpace(fields[0]) == "1"
	var height float32
	if len(fields) > 1 {
		if h, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 32); err == nil {
			height = float32(h)
		}
	}
	return enabled, height
}

// ReadSMF parses an SMF container from r.
func ReadSMF(r io.Reader) (*SMFModel, error) {
	lr := NewLineReader(r)
	model, count, err := readSMFHeader(lr)
	if err != nil {
		return nil, err
	}

	model.Objects = make([]*SMFObject, 0, min(count, maxPrealloc))
	for i := 0; i < count; i++ {
		obj, err := readSMFObject(lr, model.Version)
		if err != nil {
			return nil, fmt.Errorf("reading object %d: %w", i, err)
		}
		model.Objects = append(model.Objects, obj)
	}
	return model, nil
}

// ParseSMF parses an SMF container from raw bytes.
func ParseSMF(data []byte) (*SMFModel, error) {
	return ReadSMF(bytes.NewReader(data))
}

// ParseSMFFile parses an SMF file from disk.
func ParseSMFFile(path string) (*SMFModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading SMF file: %w", err)
	}
	return ParseSMF(data)
}

// Write encodes the model as an SMF container. The output is always
// version 4, whatever version the model was read from.
func (m *SMFModel) Write(w io.Writer) error {
	lw := newLineWriter(w)
	lw.line(SMFMagic)
	lw.line(strconv.Itoa(SMFVersion))
	lw.line(strconv.Itoa(len(m.Objects)))
	lw.linef("%s,%s", boolFlag(m.LODSwitch), formatFloat(m.SwitchHeight))
	for _, obj := range m.Objects {
		writeSMFObject(lw, obj)
	}
	return lw.flush()
}

// WriteFile encodes the model to path. A failed write leaves a truncated file.
func (m *SMFModel) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating SMF file: %w", err)
	}
	if err := m.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing SMF file: %w", err)
	}
	return f.Close()
}

// EncodeContainer splits every host object and writes the SMF container.
func EncodeContainer(w io.Writer, objects []*MeshObject, opts EncodeOptions) error {
	model := &SMFModel{
		Version:      SMFVersion,
		LODSwitch:    opts.LODSwitch,
		SwitchHeight: opts.SwitchHeight,
		Objects:      make([]*SMFObject, 0, len(objects)),
	}
	for _, src := range objects {
		model.Objects = append(model.Objects, SplitObject(src, opts))
	}
	return model.Write(w)
}

// DecodeContainer reads an SMF container and welds each object. Decoding is
// not transactional: on a fatal error the objects decoded so far are returned
// along with the error.
func DecodeContainer(r io.Reader, opts DecodeOptions) ([]*WeldedMesh, error) {
	lr := NewLineReader(r)
	model, count, err := readSMFHeader(lr)
	if err != nil {
		return nil, err
	}

	meshes := make([]*WeldedMesh, 0, min(count, maxPrealloc))
	for i := 0; i < count; i++ {
		mesh, err := DecodeObject(lr, model.Version, opts)
		if err != nil {
			return meshes, fmt.Errorf("decoding object %d: %w", i, err)
		}
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}
