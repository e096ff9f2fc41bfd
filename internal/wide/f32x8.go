// Package wide provides fixed-size array batch math shaped for compiler
// auto-vectorization, used by the CPU fallback compositor's per-pixel
// float path (CSB and the final clamp).
package wide

import "math"

// F32x8 holds 8 float32 lanes, enough for one RGBA pixel pair.
type F32x8 [8]float32

// Splat returns F32x8 with every lane set to n.
func Splat(n float32) F32x8 {
	var r F32x8
	for i := range r {
		r[i] = n
	}
	return r
}

func (v F32x8) Add(o F32x8) F32x8 {
	var r F32x8
	for i := range v {
		r[i] = v[i] + o[i]
	}
	return r
}

func (v F32x8) Sub(o F32x8) F32x8 {
	var r F32x8
	for i := range v {
		r[i] = v[i] - o[i]
	}
	return r
}

func (v F32x8) Mul(o F32x8) F32x8 {
	var r F32x8
	for i := range v {
		r[i] = v[i] * o[i]
	}
	return r
}

func (v F32x8) Clamp(lo, hi float32) F32x8 {
	var r F32x8
	for i := range v {
		switch {
		case v[i] < lo:
			r[i] = lo
		case v[i] > hi:
			r[i] = hi
		default:
			r[i] = v[i]
		}
	}
	return r
}

// Lerp returns v + (o-v)*t.
func (v F32x8) Lerp(o, t F32x8) F32x8 {
	var r F32x8
	for i := range v {
		r[i] = v[i] + (o[i]-v[i])*t[i]
	}
	return r
}

// Pow raises each lane to the given exponent, used for gamma correction.
func (v F32x8) Pow(exp float32) F32x8 {
	var r F32x8
	for i := range v {
		r[i] = float32(math.Pow(float64(v[i]), float64(exp)))
	}
	return r
}
