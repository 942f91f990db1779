package formats

import (
	"fmt"
	"io"
	"sort"

	"github.com/Faultbox/evo-smf/pkg/math"
)

// Corner holds the attributes of one triangle corner in host space.
type Corner struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
}

// Triangle is three corners in host (front-facing) winding order.
type Triangle [3]Corner

// MeshObject is a triangulated host mesh ready for export. Positions are
// expected in world space.
type MeshObject struct {
	Name      string
	Visible   bool
	Triangles []Triangle
	// Materials lists the object's material slots. Only the first is exported.
	Materials []MaterialDescriptor
}

// EncodeOptions controls how host meshes are written.
type EncodeOptions struct {
	Dialect MaterialDialect
	// SkipTransform writes positions and normals unchanged instead of
	// converting them to SMF space. V is flipped either way.
	SkipTransform bool
	LODSwitch     bool
	SwitchHeight  float32
}

// SplitObject converts a host mesh into an SMF object record. Every distinct
// (position, normal, uv) corner becomes one vertex, in first-seen order.
func SplitObject(src *MeshObject, opts EncodeOptions) *SMFObject {
	obj := &SMFObject{
		Name:       src.Name,
		Visible:    src.Visible,
		FrameCount: 1,
		Dialect:    opts.Dialect,
		Faces:      make([]SMFFace, 0, len(src.Triangles)),
	}
	if len(src.Materials) > 0 {
		obj.Material = src.Materials[0]
	}

	index := NewVertexIndex[SplitKey](len(src.Triangles) * 3)
	for _, tri := range src.Triangles {
		var corners [3]int
		for i, c := range tri {
			v := SMFVertex{
				Position: c.Position,
				Normal:   c.Normal,
				UV:       math.Vec2{X: c.UV.X, Y: FlipV(c.UV.Y)},
			}
			if !opts.SkipTransform {
				v.Position = ToContainerPosition(c.Position)
				v.Normal = ToContainerNormal(c.Normal)
			}

			slot, isNew := index.Intern(SplitKey(vertexLine(v)))
			if isNew {
				obj.Vertices = append(obj.Vertices, v)
			}
			corners[i] = slot
		}
		obj.Faces = append(obj.Faces, SMFFace(ReverseWinding(corners)))
	}

	return obj
}

// EncodeObject writes one object record for src.
func EncodeObject(w io.Writer, src *MeshObject, opts EncodeOptions) error {
	lw := newLineWriter(w)
	writeSMFObject(lw, SplitObject(src, opts))
	return lw.flush()
}

// WeldedVertex is an imported vertex shared by every face corner that has the
// same position and normal.
type WeldedVertex struct {
	Position math.Vec3
	Normal   math.Vec3
}

// WeldedFace is a host-winding triangle over welded vertices. UVs are per
// corner, taken from the on-disk vertex each corner referenced.
type WeldedFace struct {
	Vertices [3]int
	UVs      [3]math.Vec2
}

// FaceWarning records a face that was skipped during import.
type FaceWarning struct {
	Face    int     // index in the object's face block
	Indices SMFFace // on-disk indices
	Err     error
}

func (w FaceWarning) Error() string {
	return fmt.Sprintf("face %d %v: %v", w.Face, w.Indices, w.Err)
}

func (w FaceWarning) Unwrap() error {
	return w.Err
}

// WeldedMesh is an imported object in host space.
type WeldedMesh struct {
	Name        string
	Visible     bool
	Dialect     MaterialDialect
	Material    MaterialDescriptor
	Vertices    []WeldedVertex
	Faces       []WeldedFace
	SourceCount int // vertices in the SMF record before welding
	Warnings    []FaceWarning
}

// DecodeOptions controls how SMF records are converted to host meshes.
type DecodeOptions struct {
	// SkipTransform keeps positions and normals in SMF space.
	SkipTransform bool
}

// WeldObject converts an SMF object record to host space and welds vertices
// that share position and normal. Faces that cannot be built are skipped and
// reported in Warnings.
func WeldObject(obj *SMFObject, opts DecodeOptions) *WeldedMesh {
	mesh := &WeldedMesh{
		Name:        obj.Name,
		Visible:     obj.Visible,
		Dialect:     obj.Dialect,
		Material:    obj.Material,
		SourceCount: len(obj.Vertices),
		Faces:       make([]WeldedFace, 0, len(obj.Faces)),
	}

	remap := make([]int, len(obj.Vertices))
	uvs := make([]math.Vec2, len(obj.Vertices))
	index := NewVertexIndex[WeldKey](len(obj.Vertices))

	for i, v := range obj.Vertices {
		uvs[i] = math.Vec2{X: v.UV.X, Y: FlipV(v.UV.Y)}

		pos, normal := v.Position, v.Normal
		if !opts.SkipTransform {
			pos = FromContainerPosition(pos)
			normal = FromContainerNormal(normal)
		}

		slot, isNew := index.Intern(NewWeldKey(pos, normal))
		if isNew {
			mesh.Vertices = append(mesh.Vertices, WeldedVertex{Position: pos, Normal: normal})
		}
		remap[i] = slot
	}

	seen := make(map[[3]int]struct{}, len(obj.Faces))
	for fi, f := range obj.Faces {
		corners := ReverseWinding(f)

		face, err := buildFace(corners, remap, uvs)
		if err == nil {
			key := face.Vertices
			sort.Ints(key[:])
			if _, dup := seen[key]; dup {
				err = ErrDuplicateFace
			} else {
				seen[key] = struct{}{}
			}
		}
		if err != nil {
			mesh.Warnings = append(mesh.Warnings, FaceWarning{Face: fi, Indices: f, Err: err})
			continue
		}
		mesh.Faces = append(mesh.Faces, face)
	}

	return mesh
}

func buildFace(corners [3]int, remap []int, uvs []math.Vec2) (WeldedFace, error) {
	var face WeldedFace
	for i, src := range corners {
		if src < 0 || src >= len(remap) {
			return face, fmt.Errorf("%w: index %d, %d vertices", ErrFaceIndexRange, src, len(remap))
		}
		face.Vertices[i] = remap[src]
		face.UVs[i] = uvs[src]
	}
	v := face.Vertices
	if v[0] == v[1] || v[1] == v[2] || v[0] == v[2] {
		return face, fmt.Errorf("%w: welded vertices %v", ErrDegenerateFace, v)
	}
	return face, nil
}

// DecodeObject reads one object record and welds it.
func DecodeObject(lr *LineReader, version int, opts DecodeOptions) (*WeldedMesh, error) {
	obj, err := readSMFObject(lr, version)
	if err != nil {
		return nil, err
	}
	return WeldObject(obj, opts), nil
}
