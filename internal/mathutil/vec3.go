package mathutil

import "math"

// Vec3 is a 3-component vector (value type, stack-allocated).
type Vec3 [3]float64

// FromInt16 widens a fixed-point model coordinate.
func FromInt16(v [3]int16) Vec3 {
	return Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return Vec3{}
	}
	return Vec3{v[0] / l, v[1] / l, v[2] / l}
}

// Float32 narrows v for export.
func (v Vec3) Float32() [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}

// SatInt16 truncates f toward zero and clamps it to the int16 range.
func SatInt16(f float64) int16 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt16:
		return math.MaxInt16
	case f <= math.MinInt16:
		return math.MinInt16
	}
	return int16(f)
}
