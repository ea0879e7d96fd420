package bigspace

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// LocalFloatingOrigin is, for one grid, the cached position of the
// floating origin as seen from that grid (spec §3).
type LocalFloatingOrigin[T Coord] struct {
	Cell        Cell[T]
	Translation mgl32.Vec3
	Rotation    mgl64.Quat
	View        Affine3d
	// Unchanged is true iff this record is byte-identical to the prior
	// tick's record (spec §3). It drives the subtree-pruning gate in
	// propagate_high.go.
	Unchanged bool
}

// recomputeView sets View to the inverse of (Rotation, Translation) as a
// double-precision affine (spec §4.3: "recompute view = inverse(...)").
func (o *LocalFloatingOrigin[T]) recomputeView() {
	o.View = Affine3d{
		Rotation:    o.Rotation,
		Translation: mgl64.Vec3{float64(o.Translation[0]), float64(o.Translation[1]), float64(o.Translation[2])},
	}.Inverse()
}

// equalBitwise reports whether two LocalFloatingOrigin records are
// identical in every field that matters for the Unchanged flag: Cell,
// Translation, Rotation. View is derived, so it is implied by the other
// three and not compared separately.
func (o LocalFloatingOrigin[T]) equalBitwise(other LocalFloatingOrigin[T]) bool {
	return o.Cell == other.Cell && o.Translation == other.Translation && o.Rotation == other.Rotation
}
