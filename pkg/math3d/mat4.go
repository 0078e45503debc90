package math3d

// Mat4 is a 4x4 matrix stored in column-major order.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// ZUpToYUp maps a right-handed Z-up frame onto a right-handed Y-up frame:
// (x, y, z) becomes (x, z, -y). Entries are exact, unlike RotateX(-π/2).
func ZUpToYUp() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 0, -1, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
	}
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec3 transforms a Vec3 as a point (w=1).
func (m Mat4) MulVec3(v Vec3) Vec3 {
	w := m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]
	if w == 0 {
		w = 1
	}
	return Vec3{
		(m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]) / w,
		(m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]) / w,
		(m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]) / w,
	}
}

// MulVec3Dir transforms a Vec3 as a direction (w=0, no translation).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// Inverse3 returns the inverse of a matrix made only of per-axis
// scaling, axis permutations and translation, which is every matrix the
// exporters build. ok is false for anything else.
func (m Mat4) Inverse3() (inv Mat4, ok bool) {
	// The upper 3x3 of such a matrix has exactly one non-zero per column.
	for col := range 3 {
		nonZero := 0
		for row := range 3 {
			if m[row+col*4] != 0 {
				nonZero++
			}
		}
		if nonZero != 1 || m[3+col*4] != 0 {
			return Identity(), false
		}
	}
	if m[15] != 1 {
		return Identity(), false
	}
	inv = Mat4{15: 1}
	for col := range 3 {
		for row := range 3 {
			if v := m[row+col*4]; v != 0 {
				inv[col+row*4] = 1 / v
			}
		}
	}
	t := inv.MulVec3Dir(V3(m[12], m[13], m[14]))
	inv[12], inv[13], inv[14] = -t.X, -t.Y, -t.Z
	return inv, true
}
