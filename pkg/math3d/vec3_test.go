package math3d

import (
	"math"
	"testing"
)

func TestCrossRightHanded(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		want Vec3
	}{
		{"x cross y", UnitX(), UnitY(), UnitZ()},
		{"y cross z", UnitY(), UnitZ(), UnitX()},
		{"z cross x", UnitZ(), UnitX(), UnitY()},
		{"y cross x", UnitY(), UnitX(), UnitZ().Negate()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Cross(tc.b); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNormalizeOrFallback(t *testing.T) {
	got := Zero3().NormalizeOr(UnitZ())
	if got != UnitZ() {
		t.Errorf("zero vector should fall back, got %v", got)
	}

	n := V3(0, 3, 4).Normalize()
	if math.Abs(n.Len()-1) > 1e-12 {
		t.Errorf("normalized length = %v, want 1", n.Len())
	}
	if !n.ApproxEqual(V3(0, 0.6, 0.8), 1e-12) {
		t.Errorf("got %v, want (0, 0.6, 0.8)", n)
	}
}

func TestTriangleNormal(t *testing.T) {
	// Counter-clockwise seen from +Z.
	n := TriangleNormal(V3(0, 0, 0), V3(1, 0, 0), V3(0, 1, 0), Zero3())
	if n != UnitZ() {
		t.Errorf("ccw triangle normal = %v, want +Z", n)
	}

	// Clockwise flips it.
	n = TriangleNormal(V3(0, 0, 0), V3(0, 1, 0), V3(1, 0, 0), Zero3())
	if n != UnitZ().Negate() {
		t.Errorf("cw triangle normal = %v, want -Z", n)
	}

	// Collinear points use the fallback.
	n = TriangleNormal(V3(0, 0, 0), V3(1, 0, 0), V3(2, 0, 0), UnitZ())
	if n != UnitZ() {
		t.Errorf("degenerate triangle normal = %v, want fallback", n)
	}
}

func TestZUpToYUp(t *testing.T) {
	m := ZUpToYUp()

	if got := m.MulVec3(V3(1, 2, 3)); got != V3(1, 3, -2) {
		t.Errorf("point = %v, want (1, 3, -2)", got)
	}
	if got := m.MulVec3Dir(UnitZ()); got != UnitY() {
		t.Errorf("up = %v, want +Y", got)
	}
}

func TestInverse3(t *testing.T) {
	m := ScaleUniform(0.001).Mul(ZUpToYUp()).Mul(Translate(V3(-5, -7, 0)))
	inv, ok := m.Inverse3()
	if !ok {
		t.Fatal("expected invertible permutation-scale matrix")
	}

	p := V3(12.5, 3.25, 4)
	back := inv.MulVec3(m.MulVec3(p))
	if !back.ApproxEqual(p, 1e-9) {
		t.Errorf("round trip = %v, want %v", back, p)
	}

	shear := Identity()
	shear[4] = 1
	if _, ok := shear.Inverse3(); ok {
		t.Error("sheared matrix should not be accepted")
	}
}
