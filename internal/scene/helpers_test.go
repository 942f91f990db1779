package scene

import (
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// addMeshNode appends a single-primitive mesh and a root node using it.
// Nil normals or uvs leave the attribute out.
func addMeshNode(doc *gltf.Document, name string, positions, normals [][3]float32, uvs [][2]float32, indices []uint32) *gltf.Node {
	attrs := map[string]uint32{"POSITION": modeler.WritePosition(doc, positions)}
	if normals != nil {
		attrs["NORMAL"] = modeler.WriteNormal(doc, normals)
	}
	if uvs != nil {
		attrs["TEXCOORD_0"] = modeler.WriteTextureCoord(doc, uvs)
	}
	prim := &gltf.Primitive{Mode: gltf.PrimitiveTriangles, Attributes: attrs}
	if indices != nil {
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, indices))
	}

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{prim}})
	node := &gltf.Node{Name: name, Mesh: gltf.Index(uint32(len(doc.Meshes) - 1))}
	doc.Nodes = append(doc.Nodes, node)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
	return node
}

var (
	quadPositions = [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	quadNormals   = [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}}
	quadUVs       = [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	quadIndices   = []uint32{0, 1, 2, 0, 2, 3}
)

func quadDoc(name string) *gltf.Document {
	doc := gltf.NewDocument()
	addMeshNode(doc, name, quadPositions, quadNormals, quadUVs, quadIndices)
	return doc
}

func observedLogger(t *testing.T) (*zap.Logger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}
