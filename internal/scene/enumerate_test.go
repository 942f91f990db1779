package scene

import (
	"encoding/json"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/evo-smf/pkg/math"
)

const eps = 1e-5

func TestEnumerateQuad(t *testing.T) {
	objects, err := Enumerate(quadDoc("floor"), zap.NewNop())
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if len(objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(objects))
	}

	obj := objects[0]
	if obj.Name != "floor" || !obj.Visible {
		t.Errorf("unexpected object header: %q visible=%v", obj.Name, obj.Visible)
	}
	if len(obj.Triangles) != 2 {
		t.Fatalf("expected 2 triangles, got %d", len(obj.Triangles))
	}
	if len(obj.Materials) != 1 {
		t.Errorf("expected one material slot, got %d", len(obj.Materials))
	}

	// glTF (1,1,0) is host (1,0,1); glTF +Z normal is host -Y.
	c := obj.Triangles[0][2]
	if !c.Position.ApproxEqual(math.Vec3{X: 1, Y: 0, Z: 1}, eps) {
		t.Errorf("position = %v, want (1,0,1)", c.Position)
	}
	if !c.Normal.ApproxEqual(math.Vec3{X: 0, Y: -1, Z: 0}, eps) {
		t.Errorf("normal = %v, want (0,-1,0)", c.Normal)
	}
	// glTF uv (1,1) is host (1,0).
	if c.UV != (math.Vec2{X: 1, Y: 0}) {
		t.Errorf("uv = %v, want (1,0)", c.UV)
	}
}

func TestEnumerateWorldTransform(t *testing.T) {
	doc := gltf.NewDocument()
	child := addMeshNode(doc, "child", quadPositions, quadNormals, nil, quadIndices)
	childIdx := uint32(len(doc.Nodes) - 1)
	doc.Scenes[0].Nodes = nil

	parent := &gltf.Node{Name: "parent", Translation: [3]float32{10, 0, 0}, Children: []uint32{childIdx}}
	doc.Nodes = append(doc.Nodes, parent)
	doc.Scenes[0].Nodes = []uint32{uint32(len(doc.Nodes) - 1)}
	child.Scale = [3]float32{2, 2, 2}

	objects, err := Enumerate(doc, zap.NewNop())
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if len(objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(objects))
	}

	// glTF (1,1,0) scaled by 2 and moved by +10 X is (12,2,0), host (12,0,2).
	c := objects[0].Triangles[0][2]
	if !c.Position.ApproxEqual(math.Vec3{X: 12, Y: 0, Z: 2}, eps) {
		t.Errorf("position = %v, want (12,0,2)", c.Position)
	}
	// Uniform scale keeps unit normals.
	if !c.Normal.ApproxEqual(math.Vec3{X: 0, Y: -1, Z: 0}, eps) {
		t.Errorf("normal = %v, want (0,-1,0)", c.Normal)
	}
	// Missing UVs are zero, host V flipped.
	if c.UV != (math.Vec2{X: 0, Y: 1}) {
		t.Errorf("uv = %v, want (0,1)", c.UV)
	}
}

func TestEnumerateComputedNormals(t *testing.T) {
	doc := gltf.NewDocument()
	addMeshNode(doc, "flat", quadPositions, nil, nil, quadIndices)

	objects, err := Enumerate(doc, zap.NewNop())
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	for _, tri := range objects[0].Triangles {
		for _, c := range tri {
			if !c.Normal.ApproxEqual(math.Vec3{X: 0, Y: -1, Z: 0}, eps) {
				t.Errorf("computed normal = %v, want (0,-1,0)", c.Normal)
			}
		}
	}
}

func TestEnumerateMirroredNodeKeepsFrontFace(t *testing.T) {
	doc := gltf.NewDocument()
	node := addMeshNode(doc, "mirror", quadPositions, nil, nil, quadIndices)
	node.Scale = [3]float32{-1, 1, 1}

	objects, err := Enumerate(doc, zap.NewNop())
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	tri := objects[0].Triangles[0]
	a, b, c := mgl32.Vec3(tri[0].Position.Array()), mgl32.Vec3(tri[1].Position.Array()), mgl32.Vec3(tri[2].Position.Array())
	face := b.Sub(a).Cross(c.Sub(a))
	// The front face still points along glTF +Z, host -Y.
	if face.Y() >= 0 {
		t.Errorf("mirrored triangle faces %v, want negative Y", face)
	}
	if !tri[0].Normal.ApproxEqual(math.Vec3{X: 0, Y: -1, Z: 0}, eps) {
		t.Errorf("normal = %v, want (0,-1,0)", tri[0].Normal)
	}
}

func TestEnumerateNonIndexed(t *testing.T) {
	doc := gltf.NewDocument()
	addMeshNode(doc, "soup", quadPositions[:3], quadNormals[:3], quadUVs[:3], nil)

	objects, err := Enumerate(doc, zap.NewNop())
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if len(objects[0].Triangles) != 1 {
		t.Errorf("expected 1 triangle, got %d", len(objects[0].Triangles))
	}
}

func TestEnumerateSkipsNonTrianglePrimitives(t *testing.T) {
	doc := quadDoc("mixed")
	lines := &gltf.Primitive{
		Mode:       gltf.PrimitiveLines,
		Attributes: map[string]uint32{"POSITION": modeler.WritePosition(doc, quadPositions)},
	}
	doc.Meshes[0].Primitives = append(doc.Meshes[0].Primitives, lines)

	log, logs := observedLogger(t)
	objects, err := Enumerate(doc, log)
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if len(objects[0].Triangles) != 2 || len(objects[0].Materials) != 1 {
		t.Errorf("expected only the triangle primitive, got %d triangles, %d materials",
			len(objects[0].Triangles), len(objects[0].Materials))
	}
	if n := logs.FilterMessage("skipping non-triangle primitive").Len(); n != 1 {
		t.Errorf("expected 1 warning, got %d", n)
	}
}

func TestEnumerateNames(t *testing.T) {
	doc := gltf.NewDocument()
	addMeshNode(doc, "", quadPositions, quadNormals, quadUVs, quadIndices)
	addMeshNode(doc, "", quadPositions, quadNormals, quadUVs, quadIndices)
	named := addMeshNode(doc, "Café,1", quadPositions, quadNormals, quadUVs, quadIndices)
	named.Extras = map[string]interface{}{"visible": false}

	objects, err := Enumerate(doc, zap.NewNop())
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if len(objects) != 3 {
		t.Fatalf("expected 3 objects, got %d", len(objects))
	}
	if objects[0].Name == "" || objects[0].Name == objects[1].Name {
		t.Errorf("generated names should be unique and non-empty: %q %q", objects[0].Name, objects[1].Name)
	}
	if objects[2].Name != "Caf\xe9_1" {
		t.Errorf("name = %q, want Windows-1252 with comma replaced", objects[2].Name)
	}
	if objects[2].Visible {
		t.Error("expected node with visible=false extras to be hidden")
	}
}

func TestNodeVisible(t *testing.T) {
	tests := []struct {
		name   string
		extras interface{}
		want   bool
	}{
		{"no extras", nil, true},
		{"map hidden", map[string]interface{}{"visible": false}, false},
		{"raw hidden", json.RawMessage(`{"visible":false}`), false},
		{"raw visible", json.RawMessage(`{"visible":true}`), true},
		{"raw invalid", json.RawMessage(`{"visible":`), true},
		{"raw not an object", json.RawMessage(`[false]`), true},
		{"wrong type", map[string]interface{}{"visible": "no"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nodeVisible(&gltf.Node{Extras: tt.extras}); got != tt.want {
				t.Errorf("nodeVisible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnumerateBadIndex(t *testing.T) {
	doc := gltf.NewDocument()
	addMeshNode(doc, "broken", quadPositions[:3], nil, nil, []uint32{0, 1, 7})

	if _, err := Enumerate(doc, zap.NewNop()); err == nil {
		t.Error("expected error for out-of-range index")
	}
}
