package math3d

import (
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := ZUpToYUp()

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec3(b *testing.B) {
	m := ScaleUniform(0.001).Mul(ZUpToYUp())
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Cross(v2)
	}
}

func BenchmarkTriangleNormal(b *testing.B) {
	p0 := V3(0, 0, 1.2)
	p1 := V3(0.2, 0, 1.5)
	p2 := V3(0.2, 0.2, 1.9)

	for b.Loop() {
		_ = TriangleNormal(p0, p1, p2, UnitZ())
	}
}
