package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/evo-smf/pkg/encoding"
	"github.com/Faultbox/evo-smf/pkg/formats"
)

// Enumerate walks the document's default scene and returns one triangulated
// mesh object per mesh node, in depth-first order, with world transforms
// applied. Only triangle primitives are read; others are skipped with a
// warning. Each primitive contributes one entry to the object's material list.
func Enumerate(doc *gltf.Document, log *zap.Logger) ([]*formats.MeshObject, error) {
	log = componentLogger(log)

	names := newNameGenerator()
	for _, node := range doc.Nodes {
		if node.Name != "" {
			names.reserve(node.Name)
		}
	}

	var objects []*formats.MeshObject
	visited := make(map[uint32]bool, len(doc.Nodes))

	var walk func(idx uint32, parent mgl32.Mat4) error
	walk = func(idx uint32, parent mgl32.Mat4) error {
		if int(idx) >= len(doc.Nodes) {
			return errors.Errorf("node index %d out of range (%d nodes)", idx, len(doc.Nodes))
		}
		if visited[idx] {
			return errors.Errorf("node %d is reachable twice", idx)
		}
		visited[idx] = true

		node := doc.Nodes[idx]
		world := parent.Mul4(localMatrix(node))

		if node.Mesh != nil {
			obj, err := meshObject(doc, node, world, names, log)
			if err != nil {
				return errors.Wrapf(err, "node %d %q", idx, node.Name)
			}
			objects = append(objects, obj)
		}
		for _, child := range node.Children {
			if err := walk(child, world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range rootNodes(doc) {
		if err := walk(root, mgl32.Ident4()); err != nil {
			return nil, err
		}
	}
	return objects, nil
}

// rootNodes returns the nodes of the default scene. Documents without scenes
// fall back to every node that is nobody's child.
func rootNodes(doc *gltf.Document) []uint32 {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 {
		return doc.Scenes[0].Nodes
	}

	isChild := make(map[uint32]bool)
	for _, node := range doc.Nodes {
		for _, c := range node.Children {
			isChild[c] = true
		}
	}
	var roots []uint32
	for i := range doc.Nodes {
		if !isChild[uint32(i)] {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

// localMatrix returns the node's local transform. A zero or identity matrix
// means the TRS properties apply; zero TRS arrays are treated as defaults.
func localMatrix(node *gltf.Node) mgl32.Mat4 {
	m := mgl32.Mat4(node.Matrix)
	if m != (mgl32.Mat4{}) && m != mgl32.Ident4() {
		return m
	}

	t, r, s := node.Translation, node.Rotation, node.Scale
	if s == [3]float32{} {
		s = [3]float32{1, 1, 1}
	}
	q := mgl32.QuatIdent()
	if r != [4]float32{} {
		q = mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize()
	}

	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(q.Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

// nodeVisible reads the "visible" flag from node extras. Nodes without it are
// visible.
func nodeVisible(node *gltf.Node) bool {
	if v, ok := extrasMap(node.Extras)["visible"].(bool); ok {
		return v
	}
	return true
}

func meshObject(doc *gltf.Document, node *gltf.Node, world mgl32.Mat4, names nameGenerator, log *zap.Logger) (*formats.MeshObject, error) {
	if int(*node.Mesh) >= len(doc.Meshes) {
		return nil, errors.Errorf("mesh index %d out of range", *node.Mesh)
	}
	mesh := doc.Meshes[*node.Mesh]

	name := node.Name
	if name == "" {
		name = mesh.Name
	}
	if name == "" {
		name = names.next()
		log.Debug("generated name for unnamed node", zap.String("name", name))
	}

	obj := &formats.MeshObject{
		Name:    encoding.SanitizeName(encoding.UTF8ToWindows1252(name)),
		Visible: nodeVisible(node),
	}

	xf := newWorldTransform(world)
	for pi, prim := range mesh.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			log.Warn("skipping non-triangle primitive",
				zap.String("object", name), zap.Int("primitive", pi), zap.Any("mode", prim.Mode))
			continue
		}
		tris, err := primitiveTriangles(doc, prim, xf)
		if err != nil {
			return nil, errors.Wrapf(err, "mesh %q primitive %d", mesh.Name, pi)
		}
		obj.Triangles = append(obj.Triangles, tris...)
		obj.Materials = append(obj.Materials, ExtractParameters(doc, prim.Material))
	}
	return obj, nil
}

type worldTransform struct {
	world    mgl32.Mat4
	normal   mgl32.Mat3
	mirrored bool
}

func newWorldTransform(world mgl32.Mat4) worldTransform {
	return worldTransform{
		world:    world,
		normal:   world.Mat3().Inv().Transpose(),
		mirrored: world.Det() < 0,
	}
}

func (xf worldTransform) position(p [3]float32) mgl32.Vec3 {
	return xf.world.Mul4x1(mgl32.Vec3(p).Vec4(1)).Vec3()
}

func (xf worldTransform) direction(n [3]float32) mgl32.Vec3 {
	return safeNormalize(xf.normal.Mul3x1(mgl32.Vec3(n)))
}

func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	if l := v.Len(); l > 0 {
		return v.Mul(1 / l)
	}
	return v
}

func accessor(doc *gltf.Document, idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(doc.Accessors) {
		return nil, errors.Errorf("accessor index %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}

func primitiveTriangles(doc *gltf.Document, prim *gltf.Primitive, xf worldTransform) ([]formats.Triangle, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, errors.New("primitive has no POSITION attribute")
	}
	acc, err := accessor(doc, posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(doc, acc, make([][3]float32, 0))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read positions")
	}

	var indices []uint32
	if prim.Indices != nil {
		if acc, err = accessor(doc, *prim.Indices); err != nil {
			return nil, err
		}
		if indices, err = modeler.ReadIndices(doc, acc, make([]uint32, 0)); err != nil {
			return nil, errors.Wrapf(err, "failed to read indices")
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return nil, errors.Errorf("%d indices is not a whole number of triangles", len(indices))
	}
	for _, i := range indices {
		if int(i) >= len(positions) {
			return nil, errors.Errorf("index %d out of range (%d vertices)", i, len(positions))
		}
	}

	world := make([]mgl32.Vec3, len(positions))
	for i, p := range positions {
		world[i] = xf.position(p)
	}

	var normals []mgl32.Vec3
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if acc, err = accessor(doc, idx); err != nil {
			return nil, err
		}
		raw, err := modeler.ReadNormal(doc, acc, make([][3]float32, 0))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read normals")
		}
		if len(raw) != len(positions) {
			return nil, errors.Errorf("%d normals for %d positions", len(raw), len(positions))
		}
		normals = make([]mgl32.Vec3, len(raw))
		for i, n := range raw {
			normals[i] = xf.direction(n)
		}
	} else {
		normals = vertexNormals(world, indices)
		if xf.mirrored {
			for i := range normals {
				normals[i] = normals[i].Mul(-1)
			}
		}
	}

	uvs := make([][2]float32, len(positions))
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if acc, err = accessor(doc, idx); err != nil {
			return nil, err
		}
		raw, err := modeler.ReadTextureCoord(doc, acc, make([][2]float32, 0))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read texture coordinates")
		}
		copy(uvs, raw)
	}

	corner := func(i uint32) formats.Corner {
		return formats.Corner{
			Position: hostFromGLTF(world[i]),
			Normal:   hostFromGLTF(normals[i]),
			UV:       hostUV(uvs[i]),
		}
	}

	tris := make([]formats.Triangle, 0, len(indices)/3)
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		if xf.mirrored {
			b, c = c, b
		}
		tris = append(tris, formats.Triangle{corner(a), corner(b), corner(c)})
	}
	return tris, nil
}

// vertexNormals computes area-weighted vertex normals.
func vertexNormals(positions []mgl32.Vec3, indices []uint32) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(positions))
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		n := positions[b].Sub(positions[a]).Cross(positions[c].Sub(positions[a]))
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}
	for i := range normals {
		normals[i] = safeNormalize(normals[i])
	}
	return normals
}
