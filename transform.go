package trackview

import "math"

// identityAffine is the identity affine matrix.
var identityAffine = [6]float64{1, 0, 0, 1, 0, 0}

// overlayTransform places an overlay at a unit-space position of the
// viewport, scaled by size. Returns [a, b, c, d, tx, ty].
//
// Composition order:
//
//	Scale(size) -> Translate(viewport.X + u*viewport.Width, viewport.Y + v*viewport.Height)
func overlayTransform(unit Vec2, size float64, viewport Rect) [6]float64 {
	scale := [6]float64{size, 0, 0, size, 0, 0}
	translate := [6]float64{1, 0, 0, 1,
		viewport.X + unit.X*viewport.Width,
		viewport.Y + unit.Y*viewport.Height,
	}
	return multiplyAffine(translate, scale)
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if math.Abs(det) < 1e-12 {
		return identityAffine
	}
	inv := 1.0 / det
	a, b, c, d := m[3]*inv, -m[1]*inv, -m[2]*inv, m[0]*inv
	return [6]float64{a, b, c, d, -(a*m[4] + c*m[5]), -(b*m[4] + d*m[5])}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ViewportToUnit converts a viewport pixel position to the unit-space
// position stored by comment position tracks.
func ViewportToUnit(viewport Rect, x, y float64) Vec2 {
	toViewport := overlayTransform(Vec2{}, 1, viewport)
	toViewport[0], toViewport[3] = viewport.Width, viewport.Height
	u, v := transformPoint(invertAffine(toViewport), x, y)
	return Vec2{u, v}
}
