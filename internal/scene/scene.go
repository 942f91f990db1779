// Package scene converts between glTF documents and SMF containers. It
// plays the host side of the codecs in pkg/formats: it enumerates glTF mesh
// nodes for export, extracts and builds materials, and assembles imported
// objects into a document.
package scene

import (
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/evo-smf/internal/logger"
	"github.com/Faultbox/evo-smf/pkg/formats"
)

func componentLogger(log *zap.Logger) *zap.Logger {
	if log != nil {
		return log
	}
	return logger.Named("scene")
}

// ExportOptions controls Export.
type ExportOptions struct {
	Encode formats.EncodeOptions
	Log    *zap.Logger
}

// ExportResult summarizes an export.
type ExportResult struct {
	Objects   int
	Triangles int
	Elapsed   time.Duration
}

// Export writes every mesh node of doc as one SMF object.
func Export(doc *gltf.Document, w io.Writer, opts ExportOptions) (*ExportResult, error) {
	log := componentLogger(opts.Log)
	start := time.Now()

	objects, err := Enumerate(doc, log)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to enumerate scene")
	}

	res := &ExportResult{Objects: len(objects)}
	for _, obj := range objects {
		res.Triangles += len(obj.Triangles)
		if len(obj.Materials) > 1 {
			log.Warn("object has several materials, only the first is exported",
				zap.String("object", obj.Name), zap.Int("materials", len(obj.Materials)))
		}
	}

	if err := formats.EncodeContainer(w, objects, opts.Encode); err != nil {
		return nil, errors.Wrapf(err, "failed to write SMF")
	}

	res.Elapsed = time.Since(start)
	log.Info("export done",
		zap.Int("objects", res.Objects),
		zap.Int("triangles", res.Triangles),
		zap.Stringer("dialect", opts.Encode.Dialect),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

// ExportFile exports doc to an SMF file at path.
func ExportFile(doc *gltf.Document, path string, opts ExportOptions) (*ExportResult, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", path)
	}
	res, err := Export(doc, f, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	return res, f.Close()
}

// ImportOptions controls Import.
type ImportOptions struct {
	// ArtDir is searched for textures. Empty means the ART directory next to
	// the directory holding the SMF file.
	ArtDir string
	Decode formats.DecodeOptions
	Log    *zap.Logger
}

// ImportResult summarizes an import.
type ImportResult struct {
	Objects      int
	SkippedFaces int
	Materials    int
	Textures     int // distinct texture files looked up
	ArtDir       string
	SourceVerts  int // vertices on disk
	WeldedVerts  int // vertices after welding
	Elapsed      time.Duration
}

// DefaultArtDir returns the texture directory used for an SMF file when none
// is configured: <dir of smf>/../ART.
func DefaultArtDir(smfPath string) string {
	return filepath.Join(filepath.Dir(smfPath), "..", "ART")
}

// Import reads an SMF container into doc. Decoding is not transactional: when
// a fatal error stops the decode, the objects read before it are still added
// and the error is returned with the partial result.
func Import(r io.Reader, doc *gltf.Document, opts ImportOptions) (*ImportResult, error) {
	log := componentLogger(opts.Log)
	start := time.Now()

	res := &ImportResult{ArtDir: opts.ArtDir}
	meshes, decodeErr := formats.DecodeContainer(r, opts.Decode)

	builder := NewBuilder(doc)
	materials := NewMaterialCache(doc, log)
	for _, mesh := range meshes {
		for _, w := range mesh.Warnings {
			log.Warn("skipped face", zap.String("object", mesh.Name), zap.Error(w))
		}

		mat, err := materials.FindOrCreate(mesh.Material, mesh.Dialect, opts.ArtDir)
		if err != nil {
			return res, errors.Wrapf(err, "object %q", mesh.Name)
		}
		builder.AddObject(mesh, &mat)

		res.Objects++
		res.SkippedFaces += len(mesh.Warnings)
		res.SourceVerts += mesh.SourceCount
		res.WeldedVerts += len(mesh.Vertices)
		log.Debug("imported object",
			zap.String("object", mesh.Name),
			zap.Bool("visible", mesh.Visible),
			zap.Int("vertices", mesh.SourceCount),
			zap.Int("welded", len(mesh.Vertices)),
			zap.Int("faces", len(mesh.Faces)))
	}
	res.Materials = materials.Len()
	var texHits, texMisses int
	res.Textures, texHits, texMisses = materials.TextureStats()
	log.Debug("texture cache",
		zap.Int("files", res.Textures),
		zap.Int("hits", texHits),
		zap.Int("misses", texMisses))
	res.Elapsed = time.Since(start)

	if decodeErr != nil {
		return res, errors.Wrapf(decodeErr, "failed to read SMF after %d objects", len(meshes))
	}

	log.Info("import done",
		zap.Int("objects", res.Objects),
		zap.Int("skipped_faces", res.SkippedFaces),
		zap.Int("vertices", res.SourceVerts),
		zap.Int("welded", res.WeldedVerts),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

// ImportFile imports an SMF file into a new document. opts.ArtDir defaults to
// DefaultArtDir(path).
func ImportFile(path string, opts ImportOptions) (*gltf.Document, *ImportResult, error) {
	if opts.ArtDir == "" {
		opts.ArtDir = DefaultArtDir(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	doc := gltf.NewDocument()
	res, err := Import(f, doc, opts)
	return doc, res, err
}

// Load opens a .gltf or .glb file.
func Load(path string) (*gltf.Document, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read gltf %s", path)
	}
	return doc, nil
}

// Save writes doc to path. Files ending in .gltf are written as JSON with
// embedded buffers; .glb, or any other name when binary is set, as binary
// glTF.
func Save(doc *gltf.Document, path string, binary bool) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb":
		binary = true
	case ".gltf":
		binary = false
	}

	if binary {
		if err := gltf.SaveBinary(doc, path); err != nil {
			return errors.Wrapf(err, "failed to write glb %s", path)
		}
		return nil
	}

	for _, buf := range doc.Buffers {
		if buf.URI == "" && len(buf.Data) > 0 {
			buf.URI = "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(buf.Data)
		}
	}
	if err := gltf.Save(doc, path); err != nil {
		return errors.Wrapf(err, "failed to write gltf %s", path)
	}
	return nil
}
