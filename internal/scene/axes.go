package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/evo-smf/pkg/math"
)

// The codecs in pkg/formats work in a right-handed Z-up space with UV origin
// at the bottom left. glTF is Y-up with UV origin at the top left.

func hostFromGLTF(v mgl32.Vec3) math.Vec3 {
	return math.Vec3From([3]float32{v[0], -v[2], v[1]})
}

func gltfFromHost(v math.Vec3) [3]float32 {
	a := v.Array()
	return [3]float32{a[0], a[2], -a[1]}
}

func hostUV(uv [2]float32) math.Vec2 {
	return math.Vec2From([2]float32{uv[0], 1 - uv[1]})
}

func gltfUV(uv math.Vec2) [2]float32 {
	a := uv.Array()
	return [2]float32{a[0], 1 - a[1]}
}
