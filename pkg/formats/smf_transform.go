package formats

import "github.com/Faultbox/evo-smf/pkg/math"

// Host space is right-handed Z-up. SMF space swaps the up axis and mirrors X.
// Positions and normals use different sign patterns on disk; both are kept
// exactly as the game data expects.

// ToContainerPosition converts a host position to SMF space: (-x, z, -y).
func ToContainerPosition(v math.Vec3) math.Vec3 {
	return math.Vec3{X: -v.X, Y: v.Z, Z: -v.Y}
}

// FromContainerPosition is the inverse of ToContainerPosition: (-x, -z, y).
func FromContainerPosition(v math.Vec3) math.Vec3 {
	return math.Vec3{X: -v.X, Y: -v.Z, Z: v.Y}
}

// ToContainerNormal converts a host normal to SMF space: (-x, -z, y).
func ToContainerNormal(n math.Vec3) math.Vec3 {
	return math.Vec3{X: -n.X, Y: -n.Z, Z: n.Y}
}

// FromContainerNormal is the inverse of ToContainerNormal: (-x, z, -y).
// It deliberately differs from FromContainerPosition; reusing the position
// mapping here would not undo ToContainerNormal.
func FromContainerNormal(n math.Vec3) math.Vec3 {
	return math.Vec3{X: -n.X, Y: n.Z, Z: -n.Y}
}

// FlipV converts a V texture coordinate between host and SMF conventions.
// It is its own inverse.
func FlipV(v float32) float32 {
	return 1 - v
}

// ReverseWinding reverses the corner order of a triangle. SMF faces wind
// opposite to host faces.
func ReverseWinding(tri [3]int) [3]int {
	return [3]int{tri[2], tri[1], tri[0]}
}
