package formats

import (
	gomath "math"
	"strconv"

	"github.com/Faultbox/evo-smf/pkg/math"
)

// smfObjectVersion is the only object record version the format defines.
const smfObjectVersion = 1

// SMFVertex is one vertex as stored on disk, in SMF space with V flipped.
type SMFVertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
}

// SMFFace is a triangle as stored on disk: indices into the object's vertex
// block, wound opposite to the host convention.
type SMFFace [3]int

// SMFObject is one object record of an SMF container.
type SMFObject struct {
	Name       string
	Visible    bool
	FrameCount int // frames on disk; only the first frame's vertices are kept
	Dialect    MaterialDialect
	Material   MaterialDescriptor
	Vertices   []SMFVertex
	Faces      []SMFFace
}

// vertexLine serializes a vertex exactly as it is written to disk.
func vertexLine(v SMFVertex) string {
	buf := make([]byte, 0, 96)
	for i, f := range [8]float32{
		v.Position.X, v.Position.Y, v.Position.Z,
		v.Normal.X, v.Normal.Y, v.Normal.Z,
		v.UV.X, v.UV.Y,
	} {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendFloat(buf, float64(f), 'f', 6, 64)
	}
	return string(buf)
}

func writeSMFObject(lw *lineWriter, obj *SMFObject) {
	lw.line(obj.Name)
	lw.line(boolFlag(obj.Visible))
	lw.line(strconv.Itoa(smfObjectVersion))

	// Only one frame is ever written.
	lw.linef("%d,1,%d,0", len(obj.Vertices), len(obj.Faces))

	writeMaterial(lw, obj.Material, obj.Dialect)

	for _, v := range obj.Vertices {
		lw.line(vertexLine(v))
	}
	for _, f := range obj.Faces {
		lw.linef("%d,%d,%d", f[0], f[1], f[2])
	}
}

// readSMFObject reads one object record. version is the container version,
// which decides whether the visibility line is present.
func readSMFObject(lr *LineReader, version int) (*SMFObject, error) {
	name, err := lr.Next()
	if err != nil {
		return nil, err
	}
	obj := &SMFObject{Name: name, Visible: true}

	if version >= 2 {
		visible, err := lr.nextInt("visibility flag")
		if err != nil {
			return nil, err
		}
		obj.Visible = visible != 0
	}

	objVersion, err := lr.nextInt("object version")
	if err != nil {
		return nil, err
	}
	if objVersion != smfObjectVersion {
		return nil, lr.errorf(ErrUnsupportedObjectVersion, "object %q has version %d, expected %d", name, objVersion, smfObjectVersion)
	}

	counts, err := lr.nextInts("geometry info")
	if err != nil {
		return nil, err
	}
	if len(counts) < 3 {
		return nil, lr.errorf(ErrMalformedRecord, "geometry info has %d fields, expected at least 3", len(counts))
	}
	numVerts, numFrames, numFaces := counts[0], counts[1], counts[2]
	if numVerts < 0 || numFaces < 0 {
		return nil, lr.errorf(ErrMalformedRecord, "negative vertex or face count (%d, %d)", numVerts, numFaces)
	}
	if numFrames < 1 {
		return nil, lr.errorf(ErrMalformedRecord, "frame count %d, expected at least 1", numFrames)
	}
	if numVerts > 0 && numFrames-1 > gomath.MaxInt/numVerts {
		return nil, lr.errorf(ErrMalformedRecord, "%d frames of %d vertices", numFrames, numVerts)
	}
	obj.FrameCount = numFrames

	if obj.Material, obj.Dialect, err = readMaterial(lr); err != nil {
		return nil, err
	}

	obj.Vertices = make([]SMFVertex, 0, min(numVerts, maxPrealloc))
	for i := 0; i < numVerts; i++ {
		f, err := lr.nextFloats("vertex", 8)
		if err != nil {
			return nil, err
		}
		obj.Vertices = append(obj.Vertices, SMFVertex{
			Position: math.Vec3{X: f[0], Y: f[1], Z: f[2]},
			Normal:   math.Vec3{X: f[3], Y: f[4], Z: f[5]},
			UV:       math.Vec2{X: f[6], Y: f[7]},
		})
	}

	// Animation frames are skipped unparsed.
	if numFrames > 1 {
		if err := lr.Skip((numFrames - 1) * numVerts); err != nil {
			return nil, err
		}
	}

	obj.Faces = make([]SMFFace, 0, min(numFaces, maxPrealloc))
	for i := 0; i < numFaces; i++ {
		idx, err := lr.nextInts("face")
		if err != nil {
			return nil, err
		}
		if len(idx) != 3 {
			return nil, lr.errorf(ErrMalformedRecord, "face has %d indices, expected 3", len(idx))
		}
		obj.Faces = append(obj.Faces, SMFFace{idx[0], idx[1], idx[2]})
	}

	return obj, nil
}
