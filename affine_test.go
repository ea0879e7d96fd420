package bigspace

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

func vec3Close(a, b mgl64.Vec3, eps float64) bool {
	return math.Abs(a[0]-b[0]) < eps && math.Abs(a[1]-b[1]) < eps && math.Abs(a[2]-b[2]) < eps
}

func TestAffine3dComposeIdentity(t *testing.T) {
	id := IdentityAffine3d()
	a := Affine3d{Rotation: mgl64.QuatIdent(), Translation: mgl64.Vec3{1, 2, 3}}
	got := id.Compose(a)
	if !vec3Close(got.Translation, a.Translation, 1e-9) {
		t.Fatalf("identity-compose changed translation: got %+v want %+v", got.Translation, a.Translation)
	}
}

func TestAffine3dInverse(t *testing.T) {
	a := Affine3d{
		Rotation:    mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 1, 0}),
		Translation: mgl64.Vec3{5, -2, 3},
	}
	roundTrip := a.Inverse().Compose(a)
	if !vec3Close(roundTrip.Translation, mgl64.Vec3{}, 1e-9) {
		t.Fatalf("a^-1 . a translation = %+v, want zero", roundTrip.Translation)
	}
	wDiff := math.Abs(math.Abs(roundTrip.Rotation.W) - 1)
	if wDiff > 1e-9 {
		t.Fatalf("a^-1 . a rotation = %+v, want identity", roundTrip.Rotation)
	}
}

func TestAffine3dTransformPoint(t *testing.T) {
	a := Affine3d{Rotation: mgl64.QuatIdent(), Translation: mgl64.Vec3{1, 1, 1}}
	got := a.TransformPoint(mgl64.Vec3{2, 3, 4})
	want := mgl64.Vec3{3, 4, 5}
	if !vec3Close(got, want, 1e-9) {
		t.Fatalf("TransformPoint = %+v, want %+v", got, want)
	}
}

func TestAffine3dToSingle(t *testing.T) {
	a := Affine3d{Rotation: mgl64.QuatIdent(), Translation: mgl64.Vec3{1.5, 2.5, 3.5}}
	s := a.ToSingle()
	want := mgl32.Vec3{1.5, 2.5, 3.5}
	if s.Translation != want {
		t.Fatalf("ToSingle translation = %+v, want %+v", s.Translation, want)
	}
}

func TestAffine3fComposeScaledTranslation(t *testing.T) {
	parent := Affine3f{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{2, 2, 2}}
	child := Affine3f{Rotation: mgl32.QuatIdent(), Translation: mgl32.Vec3{1, 0, 0}, Scale: mgl32.Vec3{1, 1, 1}}
	got := parent.Compose(child)
	want := mgl32.Vec3{2, 0, 0}
	if got.Translation != want {
		t.Fatalf("Compose with parent scale 2 = %+v, want %+v", got.Translation, want)
	}
}

func TestAffine3fComposeZeroScaleDefaultsToUnit(t *testing.T) {
	// A zero-value Affine3f (as produced by an uninitialized struct) must
	// compose as if its scale were {1,1,1}, not {0,0,0}.
	var parent Affine3f
	parent.Rotation = mgl32.QuatIdent()
	child := Affine3f{Rotation: mgl32.QuatIdent(), Translation: mgl32.Vec3{3, 4, 5}}
	got := parent.Compose(child)
	if got.Translation != (mgl32.Vec3{3, 4, 5}) {
		t.Fatalf("zero-scale parent should behave as unit scale, got %+v", got.Translation)
	}
}

func TestIdentityAffine3f(t *testing.T) {
	id := IdentityAffine3f()
	if id.Scale != (mgl32.Vec3{1, 1, 1}) {
		t.Fatalf("IdentityAffine3f scale = %+v, want unit", id.Scale)
	}
	m := id.Mat4()
	want := mgl32.Ident4()
	if m != want {
		t.Fatalf("identity Mat4 = %+v, want %+v", m, want)
	}
}
