package core

// Mat4 is a 4x4 affine transform matrix in row-major order.
type Mat4 struct {
	M [4][4]float64
}

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	var m Mat4
	for i := 0; i < 4; i++ {
		m.M[i][i] = 1
	}
	return m
}

// Translate returns a translation matrix.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m.M[0][3], m.M[1][3], m.M[2][3] = v.X, v.Y, v.Z
	return m
}

// Scale returns a scale matrix.
func Scale(v Vec3) Mat4 {
	m := Identity()
	m.M[0][0], m.M[1][1], m.M[2][2] = v.X, v.Y, v.Z
	return m
}

// RotateXYZ returns the matrix equivalent of Vec3.Rotate (X then Y then Z, radians).
func RotateXYZ(rotation Vec3) Mat4 {
	sx, cx := SinCos(rotation.X)
	sy, cy := SinCos(rotation.Y)
	sz, cz := SinCos(rotation.Z)

	rx := Identity()
	rx.M[1][1], rx.M[1][2] = cx, -sx
	rx.M[2][1], rx.M[2][2] = sx, cx

	ry := Identity()
	ry.M[0][0], ry.M[0][2] = cy, sy
	ry.M[2][0], ry.M[2][2] = -sy, cy

	rz := Identity()
	rz.M[0][0], rz.M[0][1] = cz, -sz
	rz.M[1][0], rz.M[1][1] = sz, cz

	return rz.Multiply(ry.Multiply(rx))
}

// Multiply returns m * other.
func (m Mat4) Multiply(other Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m.M[i][k] * other.M[k][j]
			}
			r.M[i][j] = sum
		}
	}
	return r
}

// TransformPoint applies the affine transform to a point (implicit w=1).
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		X: m.M[0][0]*p.X + m.M[0][1]*p.Y + m.M[0][2]*p.Z + m.M[0][3],
		Y: m.M[1][0]*p.X + m.M[1][1]*p.Y + m.M[1][2]*p.Z + m.M[1][3],
		Z: m.M[2][0]*p.X + m.M[2][1]*p.Y + m.M[2][2]*p.Z + m.M[2][3],
	}
}

// TransformVector applies the linear part of the transform to a vector (implicit w=0).
func (m Mat4) TransformVector(v Vec3) Vec3 {
	return Vec3{
		X: m.M[0][0]*v.X + m.M[0][1]*v.Y + m.M[0][2]*v.Z,
		Y: m.M[1][0]*v.X + m.M[1][1]*v.Y + m.M[1][2]*v.Z,
		Z: m.M[2][0]*v.X + m.M[2][1]*v.Y + m.M[2][2]*v.Z,
	}
}

// TransformRay applies the transform to a ray's origin and direction.
func (m Mat4) TransformRay(r Ray) Ray {
	return Ray{Origin: m.TransformPoint(r.Origin), Direction: m.TransformVector(r.Direction)}
}

// TransformNormal transforms a surface normal by the inverse-transpose
// of the linear part; callers pass the already-inverse-transposed
// matrix (computed once per shape at scene-build time, not per hit).
func (m Mat4) TransformNormal(n Vec3) Vec3 {
	return m.TransformVector(n).Normalize()
}

// Inverse returns the inverse of m via Gauss-Jordan elimination with
// partial pivoting. Panics if m is singular: scene construction is
// expected to validate transforms before building the accelerator.
func (m Mat4) Inverse() Mat4 {
	a := m.M
	inv := Identity().M

	for col := 0; col < 4; col++ {
		pivot := col
		for row := col + 1; row < 4; row++ {
			if abs(a[row][col]) > abs(a[pivot][col]) {
				pivot = row
			}
		}
		if a[pivot][col] == 0 {
			panic("core: matrix is singular, cannot invert")
		}
		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		scale := 1.0 / a[col][col]
		for j := 0; j < 4; j++ {
			a[col][j] *= scale
			inv[col][j] *= scale
		}

		for row := 0; row < 4; row++ {
			if row == col {
				continue
			}
			factor := a[row][col]
			for j := 0; j < 4; j++ {
				a[row][j] -= factor * a[col][j]
				inv[row][j] -= factor * inv[col][j]
			}
		}
	}

	return Mat4{M: inv}
}

// Transpose returns the transpose of m.
func (m Mat4) Transpose() Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r.M[i][j] = m.M[j][i]
		}
	}
	return r
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
