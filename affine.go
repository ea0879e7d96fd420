package bigspace

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Affine3d is a double-precision rotation+translation affine, composed of
// a quaternion and a translation vector. It is the double-precision
// analogue of the teacher's 2D [6]float64 affine (transform.go), minus
// scale/skew/pivot: the grid-tree math spec §4.2-4.3 requires only
// rigid-body composition, never non-uniform scale.
type Affine3d struct {
	Rotation    mgl64.Quat
	Translation mgl64.Vec3
}

// IdentityAffine3d is the identity transform.
func IdentityAffine3d() Affine3d {
	return Affine3d{Rotation: mgl64.QuatIdent()}
}

// Compose returns p∘c: c expressed in p's space, then p applied — the same
// "parent * child" order as the teacher's multiplyAffine.
func (p Affine3d) Compose(c Affine3d) Affine3d {
	return Affine3d{
		Rotation:    p.Rotation.Mul(c.Rotation).Normalize(),
		Translation: p.Translation.Add(p.Rotation.Rotate(c.Translation)),
	}
}

// Inverse returns the affine that undoes a.
func (a Affine3d) Inverse() Affine3d {
	invRot := a.Rotation.Inverse()
	return Affine3d{
		Rotation:    invRot,
		Translation: invRot.Rotate(a.Translation.Mul(-1)),
	}
}

// TransformPoint applies the affine to a point.
func (a Affine3d) TransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return a.Translation.Add(a.Rotation.Rotate(p))
}

// ToSingle downcasts to single precision, the final step of
// Grid.GlobalTransform (spec §4.2: "finally down-casts to single
// precision").
func (a Affine3d) ToSingle() Affine3f {
	return Affine3f{
		Rotation:    mgl32.Quat{W: float32(a.Rotation.W), V: mgl32.Vec3{float32(a.Rotation.V[0]), float32(a.Rotation.V[1]), float32(a.Rotation.V[2])}},
		Translation: mgl32.Vec3{float32(a.Translation[0]), float32(a.Translation[1]), float32(a.Translation[2])},
	}
}

// Affine3f is the single-precision counterpart of Affine3d, used for the
// rendered GlobalTransform output.
type Affine3f struct {
	Rotation    mgl32.Quat
	Translation mgl32.Vec3
	Scale       mgl32.Vec3
}

// IdentityAffine3f is the identity transform with unit scale.
func IdentityAffine3f() Affine3f {
	return Affine3f{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// Compose returns p∘c in single precision, honoring c's local scale —
// this is the step that folds an entity's own Transform (translation,
// rotation, scale) onto the grid-relative affine (spec §4.2 step c).
func (p Affine3f) Compose(c Affine3f) Affine3f {
	scale := p.Scale
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}
	scaledTranslation := mgl32.Vec3{c.Translation[0] * scale[0], c.Translation[1] * scale[1], c.Translation[2] * scale[2]}
	childScale := c.Scale
	if childScale == (mgl32.Vec3{}) {
		childScale = mgl32.Vec3{1, 1, 1}
	}
	return Affine3f{
		Rotation:    p.Rotation.Mul(c.Rotation).Normalize(),
		Translation: p.Translation.Add(p.Rotation.Rotate(scaledTranslation)),
		Scale:       mgl32.Vec3{scale[0] * childScale[0], scale[1] * childScale[1], scale[2] * childScale[2]},
	}
}

// Mat4 renders the affine as a 4x4 matrix, for consumption by a renderer.
func (a Affine3f) Mat4() mgl32.Mat4 {
	s := a.Scale
	if s == (mgl32.Vec3{}) {
		s = mgl32.Vec3{1, 1, 1}
	}
	rot := a.Rotation.Mat4()
	scaleMat := mgl32.Scale3D(s[0], s[1], s[2])
	m := rot.Mul4(scaleMat)
	m[12] = a.Translation[0]
	m[13] = a.Translation[1]
	m[14] = a.Translation[2]
	return m
}
