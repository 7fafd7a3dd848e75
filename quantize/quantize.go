// Package quantize implements the scalar quantize/dequantize primitives that
// every operator kernel in microflow builds on. The functions here are pure,
// allocation-free, and safe to call from generated code that runs with no
// heap and no operating system underneath it.
package quantize

import "github.com/chewxy/math32"

// Quantized constrains the element types microflow's integer kernels operate
// on. A single element type is fixed for a model at generation time; the
// compiler rejects models that mix the two.
type Quantized interface {
	~int8 | ~uint8
}

// Quantize rounds value/scale + zeroPoint to the nearest representable T,
// rounding half away from zero and saturating at T's range. scale must be
// positive; a zero scale is a caller bug and is not guarded against.
func Quantize[T Quantized](value, scale float32, zeroPoint T) T {
	return saturate[T](math32.Round(value/scale + float32(zeroPoint)))
}

// Dequantize is Quantize's left inverse up to rounding: scale * (q - zeroPoint).
func Dequantize[T Quantized](q T, scale float32, zeroPoint T) float32 {
	return scale * (float32(q) - float32(zeroPoint))
}

// RoundSaturate rounds v half away from zero and saturates it to T's range.
// Operator kernels use this for the final requantization step once their
// folded constants have already absorbed the division by scale.
func RoundSaturate[T Quantized](v float32) T {
	return saturate[T](math32.Round(v))
}

// saturate clamps v to T's representable range before truncating to T.
func saturate[T Quantized](v float32) T {
	lo, hi := bounds[T]()
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return T(v)
}

// bounds returns the inclusive float32 range representable by T.
func bounds[T Quantized]() (lo, hi float32) {
	var zero T
	switch any(zero).(type) {
	case int8:
		return -128, 127
	case uint8:
		return 0, 255
	default:
		panic("quantize: unsupported element type")
	}
}
