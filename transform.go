package birch

import "math"

// Affine is a 2D affine matrix stored as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
// It is used for the batch view matrix and camera transforms.
type Affine [6]float64

// Identity is the identity affine matrix.
var Identity = Affine{1, 0, 0, 1, 0, 0}

// Translation returns a matrix that translates by (x, y).
func Translation(x, y float64) Affine {
	return Affine{1, 0, 0, 1, x, y}
}

// Scaling returns a matrix that scales by (sx, sy).
func Scaling(sx, sy float64) Affine {
	return Affine{sx, 0, 0, sy, 0, 0}
}

// Rotation returns a matrix that rotates by angle radians (clockwise on a
// Y-down screen).
func Rotation(angle float64) Affine {
	sin, cos := math.Sincos(angle)
	return Affine{cos, sin, -sin, cos, 0, 0}
}

// Mul returns m * o, i.e. o is applied first.
func (m Affine) Mul(o Affine) Affine {
	return Affine{
		m[0]*o[0] + m[2]*o[1],
		m[1]*o[0] + m[3]*o[1],
		m[0]*o[2] + m[2]*o[3],
		m[1]*o[2] + m[3]*o[3],
		m[0]*o[4] + m[2]*o[5] + m[4],
		m[1]*o[4] + m[3]*o[5] + m[5],
	}
}

// Apply transforms the point (x, y).
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Invert returns the inverse matrix. Singular matrices (determinant ≈ 0)
// return Identity.
func (m Affine) Invert() Affine {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return Identity
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// IsIdentity reports whether m is exactly the identity matrix.
func (m Affine) IsIdentity() bool {
	return m == Identity
}

// float32s converts the matrix for GPU upload and vertex expansion.
func (m Affine) float32s() [6]float32 {
	return [6]float32{float32(m[0]), float32(m[1]), float32(m[2]), float32(m[3]), float32(m[4]), float32(m[5])}
}
