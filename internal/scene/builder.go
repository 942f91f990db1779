package scene

import (
	gomath "math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/evo-smf/pkg/encoding"
	"github.com/Faultbox/evo-smf/pkg/formats"
)

// Builder appends imported SMF objects to a glTF document, one node and mesh
// per object.
type Builder struct {
	doc *gltf.Document
}

// NewBuilder returns a builder writing into doc. The document must have at
// least one scene.
func NewBuilder(doc *gltf.Document) *Builder {
	if len(doc.Scenes) == 0 {
		doc.Scenes = append(doc.Scenes, &gltf.Scene{Name: "Scene"})
		doc.Scene = gltf.Index(0)
	}
	return &Builder{doc: doc}
}

// cornerKey identifies a glTF vertex: a welded vertex with one UV.
type cornerKey struct {
	vertex int
	u, v   uint32
}

// AddObject writes mesh as a new node. glTF stores UVs per vertex, so a welded
// vertex is split again for every distinct UV its corners use. A nil material
// leaves the primitive without one. Objects without faces get a node but no
// mesh. It returns the node index.
func (b *Builder) AddObject(mesh *formats.WeldedMesh, material *uint32) uint32 {
	node := &gltf.Node{Name: encoding.Windows1252ToUTF8(mesh.Name)}
	if !mesh.Visible {
		node.Extras = map[string]interface{}{"visible": false}
	}

	if len(mesh.Faces) > 0 {
		node.Mesh = gltf.Index(b.addMesh(node.Name, mesh, material))
	}

	idx := uint32(len(b.doc.Nodes))
	b.doc.Nodes = append(b.doc.Nodes, node)
	scene := b.doc.Scenes[0]
	if b.doc.Scene != nil && int(*b.doc.Scene) < len(b.doc.Scenes) {
		scene = b.doc.Scenes[*b.doc.Scene]
	}
	scene.Nodes = append(scene.Nodes, idx)
	return idx
}

func (b *Builder) addMesh(name string, mesh *formats.WeldedMesh, material *uint32) uint32 {
	index := formats.NewVertexIndex[cornerKey](len(mesh.Vertices))
	var (
		positions [][3]float32
		normals   [][3]float32
		uvs       [][2]float32
	)
	indices := make([]uint32, 0, len(mesh.Faces)*3)

	for _, face := range mesh.Faces {
		for c, vi := range face.Vertices {
			uv := gltfUV(face.UVs[c])
			key := cornerKey{vertex: vi, u: gomath.Float32bits(uv[0]), v: gomath.Float32bits(uv[1])}
			slot, isNew := index.Intern(key)
			if isNew {
				v := mesh.Vertices[vi]
				positions = append(positions, gltfFromHost(v.Position))
				normals = append(normals, gltfFromHost(v.Normal))
				uvs = append(uvs, uv)
			}
			indices = append(indices, uint32(slot))
		}
	}

	prim := &gltf.Primitive{
		Mode:    gltf.PrimitiveTriangles,
		Indices: gltf.Index(modeler.WriteIndices(b.doc, indices)),
		Attributes: map[string]uint32{
			"POSITION":   modeler.WritePosition(b.doc, positions),
			"NORMAL":     modeler.WriteNormal(b.doc, normals),
			"TEXCOORD_0": modeler.WriteTextureCoord(b.doc, uvs),
		},
		Material: material,
	}

	idx := uint32(len(b.doc.Meshes))
	b.doc.Meshes = append(b.doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{prim}})
	return idx
}
