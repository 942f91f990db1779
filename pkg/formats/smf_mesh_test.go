package formats

import (
	"errors"
	"testing"

	"github.com/Faultbox/evo-smf/pkg/math"
)

var up = math.Vec3{X: 0, Y: 0, Z: 1}

func corner(x, y, z, u, v float32) Corner {
	return Corner{Position: math.Vec3{X: x, Y: y, Z: z}, Normal: up, UV: math.Vec2{X: u, Y: v}}
}

func TestSplitObjectSharedCorner(t *testing.T) {
	a := corner(0, 0, 0, 0, 0)
	b := corner(1, 0, 0, 1, 0)
	c := corner(0, 1, 0, 0, 1)
	d := corner(1, 1, 0, 1, 1)

	src := &MeshObject{Name: "quad", Visible: true, Triangles: []Triangle{{a, b, c}, {b, d, c}}}
	obj := SplitObject(src, EncodeOptions{})

	if len(obj.Vertices) != 4 {
		t.Fatalf("expected 4 vertices for shared corners, got %d", len(obj.Vertices))
	}
	if len(obj.Faces) != 2 {
		t.Fatalf("expected 2 faces, got %d", len(obj.Faces))
	}
	// Second triangle corners b, d, c resolve to slots 1, 3, 2 and are written reversed.
	if obj.Faces[1] != (SMFFace{2, 3, 1}) {
		t.Errorf("second face = %v, want [2 3 1]", obj.Faces[1])
	}
}

func TestSplitObjectUVSeam(t *testing.T) {
	a := corner(0, 0, 0, 0, 0)
	b := corner(1, 0, 0, 1, 0)
	c := corner(0, 1, 0, 0, 1)
	// Same position and normal as b, different UV.
	bSeam := corner(1, 0, 0, 0.5, 0)
	d := corner(1, 1, 0, 1, 1)

	src := &MeshObject{Triangles: []Triangle{{a, b, c}, {bSeam, d, c}}}
	obj := SplitObject(src, EncodeOptions{})

	if len(obj.Vertices) != 5 {
		t.Fatalf("expected 5 vertices with a UV seam, got %d", len(obj.Vertices))
	}
	if obj.Vertices[1].Position != obj.Vertices[3].Position {
		t.Errorf("seam vertices should share position: %v vs %v", obj.Vertices[1].Position, obj.Vertices[3].Position)
	}
}

func TestSplitObjectTransformsAndFlips(t *testing.T) {
	src := &MeshObject{Triangles: []Triangle{{
		{Position: math.Vec3{X: 1, Y: 2, Z: 3}, Normal: math.Vec3{X: 1, Y: 2, Z: 3}, UV: math.Vec2{X: 0.25, Y: 0.25}},
		corner(4, 5, 6, 0, 0),
		corner(7, 8, 9, 0, 0),
	}}}

	v := SplitObject(src, EncodeOptions{}).Vertices[0]
	if v.Position != (math.Vec3{X: -1, Y: 3, Z: -2}) {
		t.Errorf("position = %v, want {-1 3 -2}", v.Position)
	}
	if v.Normal != (math.Vec3{X: -1, Y: -3, Z: 2}) {
		t.Errorf("normal = %v, want {-1 -3 2}", v.Normal)
	}
	if v.UV != (math.Vec2{X: 0.25, Y: 0.75}) {
		t.Errorf("uv = %v, want {0.25 0.75}", v.UV)
	}

	raw := SplitObject(src, EncodeOptions{SkipTransform: true}).Vertices[0]
	if raw.Position != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("untransformed position = %v, want {1 2 3}", raw.Position)
	}
	if raw.UV.Y != 0.75 {
		t.Errorf("V should be flipped even without transform, got %v", raw.UV.Y)
	}
}

func TestSplitObjectFirstMaterialOnly(t *testing.T) {
	src := &MeshObject{
		Materials: []MaterialDescriptor{{Diffuse: "first"}, {Diffuse: "second"}},
	}
	obj := SplitObject(src, EncodeOptions{Dialect: DialectV1})
	if obj.Material.Diffuse != "first" {
		t.Errorf("material = %q, want first", obj.Material.Diffuse)
	}
	if obj.Dialect != DialectV1 {
		t.Errorf("dialect = %s, want v1", obj.Dialect)
	}
	if SplitObject(&MeshObject{}, EncodeOptions{}).Material != (MaterialDescriptor{}) {
		t.Error("object without materials should get the empty descriptor")
	}
}

func TestWindingRoundTrip(t *testing.T) {
	a := corner(0, 0, 0, 0, 0)
	b := corner(1, 0, 0, 1, 0)
	c := corner(0, 1, 0, 0, 1)

	obj := SplitObject(&MeshObject{Triangles: []Triangle{{a, b, c}}}, EncodeOptions{})
	if obj.Faces[0] != (SMFFace{2, 1, 0}) {
		t.Fatalf("written face = %v, want [2 1 0]", obj.Faces[0])
	}

	mesh := WeldObject(obj, DecodeOptions{})
	if len(mesh.Faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(mesh.Faces))
	}
	face := mesh.Faces[0]
	for i, want := range []Corner{a, b, c} {
		got := mesh.Vertices[face.Vertices[i]]
		if got.Position != want.Position {
			t.Errorf("corner %d position = %v, want %v", i, got.Position, want.Position)
		}
		if got.Normal != want.Normal {
			t.Errorf("corner %d normal = %v, want %v", i, got.Normal, want.Normal)
		}
		if face.UVs[i] != want.UV {
			t.Errorf("corner %d uv = %v, want %v", i, face.UVs[i], want.UV)
		}
	}
}

func TestWeldObjectPerCornerUV(t *testing.T) {
	n := math.Vec3{X: 0, Y: 1, Z: 0}
	obj := &SMFObject{
		Vertices: []SMFVertex{
			{Position: math.Vec3{X: 1}, Normal: n, UV: math.Vec2{X: 0.25, Y: 0.75}},
			{Position: math.Vec3{X: 1}, Normal: n, UV: math.Vec2{X: 0.5, Y: 0.5}},
			{Position: math.Vec3{Y: 1}, Normal: n},
			{Position: math.Vec3{Z: 1}, Normal: n},
			{Position: math.Vec3{X: 2}, Normal: n},
		},
		Faces: []SMFFace{{0, 2, 3}, {1, 4, 2}},
	}

	mesh := WeldObject(obj, DecodeOptions{})

	if len(mesh.Vertices) != 4 {
		t.Fatalf("expected 4 welded vertices, got %d", len(mesh.Vertices))
	}
	if mesh.SourceCount != 5 {
		t.Errorf("SourceCount = %d, want 5", mesh.SourceCount)
	}
	if len(mesh.Faces) != 2 {
		t.Fatalf("expected 2 faces, got %d (warnings %v)", len(mesh.Faces), mesh.Warnings)
	}

	// Disk face {0,2,3} is reversed, so source vertex 0 is the last corner.
	first, second := mesh.Faces[0], mesh.Faces[1]
	if first.Vertices[2] != second.Vertices[2] {
		t.Errorf("both faces should share welded vertex: %d vs %d", first.Vertices[2], second.Vertices[2])
	}
	if first.UVs[2] != (math.Vec2{X: 0.25, Y: 0.25}) {
		t.Errorf("first face uv = %v, want {0.25 0.25}", first.UVs[2])
	}
	if second.UVs[2] != (math.Vec2{X: 0.5, Y: 0.5}) {
		t.Errorf("second face uv = %v, want {0.5 0.5}", second.UVs[2])
	}
}

func TestWeldObjectSkipsBadFaces(t *testing.T) {
	n := math.Vec3{X: 0, Y: 1, Z: 0}
	obj := &SMFObject{
		Vertices: []SMFVertex{
			{Position: math.Vec3{X: 0}, Normal: n},
			{Position: math.Vec3{X: 1}, Normal: n},
			{Position: math.Vec3{Y: 1}, Normal: n},
			{Position: math.Vec3{Z: 1}, Normal: n},
		},
		Faces: []SMFFace{
			{0, 1, 2},
			{0, 0, 1}, // repeated index
			{1, 2, 3},
			{1, 2, 9}, // out of range
			{2, 1, 0}, // same vertices as face 0
			{0, 2, 3},
		},
	}

	mesh := WeldObject(obj, DecodeOptions{})

	if len(mesh.Faces) != 3 {
		t.Fatalf("expected 3 faces, got %d", len(mesh.Faces))
	}
	if len(mesh.Warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %d: %v", len(mesh.Warnings), mesh.Warnings)
	}

	tests := []struct {
		face int
		err  error
	}{
		{1, ErrDegenerateFace},
		{3, ErrFaceIndexRange},
		{4, ErrDuplicateFace},
	}
	for i, tt := range tests {
		w := mesh.Warnings[i]
		if w.Face != tt.face {
			t.Errorf("warning %d: face = %d, want %d", i, w.Face, tt.face)
		}
		if !errors.Is(w, tt.err) {
			t.Errorf("warning %d: err = %v, want %v", i, w.Err, tt.err)
		}
	}
}

func TestWeldObjectDegenerateAfterWeld(t *testing.T) {
	// Vertices 0 and 1 differ only by UV, so the face collapses once welded.
	n := math.Vec3{X: 0, Y: 1, Z: 0}
	obj := &SMFObject{
		Vertices: []SMFVertex{
			{Position: math.Vec3{X: 1}, Normal: n, UV: math.Vec2{X: 0}},
			{Position: math.Vec3{X: 1}, Normal: n, UV: math.Vec2{X: 1}},
			{Position: math.Vec3{Y: 1}, Normal: n},
		},
		Faces: []SMFFace{{0, 1, 2}},
	}

	mesh := WeldObject(obj, DecodeOptions{})
	if len(mesh.Faces) != 0 || len(mesh.Warnings) != 1 {
		t.Fatalf("expected the face to be skipped, got %d faces %d warnings", len(mesh.Faces), len(mesh.Warnings))
	}
	if !errors.Is(mesh.Warnings[0], ErrDegenerateFace) {
		t.Errorf("expected ErrDegenerateFace, got %v", mesh.Warnings[0].Err)
	}
}
