// Package activation implements the fused activation primitives recognized
// by microflow's operator kernels: None, Relu, and Relu6, plus the Softmax
// element transform. All of them operate in the quantized domain and are
// pure, allocation-free functions.
package activation

import (
	"github.com/chewxy/math32"
	"github.com/itohio/microflow/quantize"
)

// Fused names the activation a linear operator may have folded into it, as
// encoded by a TFLite operator's builtin options.
type Fused int

const (
	// None applies no clamp.
	None Fused = iota
	// Relu clamps the dequantized value at zero.
	Relu
	// Relu6 additionally clamps the dequantized value at six.
	Relu6
)

// String renders the activation the way the compiler names it in generated
// source and diagnostics.
func (f Fused) String() string {
	switch f {
	case None:
		return "None"
	case Relu:
		return "Relu"
	case Relu6:
		return "Relu6"
	default:
		return "Unknown"
	}
}

// Apply clamps q according to f. scale and zeroPoint describe q's
// quantization and are only consulted by Relu6, which must know where 6.0
// maps to in quantized space.
func Apply[T quantize.Quantized](f Fused, q T, scale float32, zeroPoint T) T {
	switch f {
	case Relu:
		return ReLU(q, zeroPoint)
	case Relu6:
		return ReLU6(q, scale, zeroPoint)
	default:
		return q
	}
}

// ReLU clamps the dequantized value at zero: max(q, zeroPoint).
func ReLU[T quantize.Quantized](q, zeroPoint T) T {
	if q < zeroPoint {
		return zeroPoint
	}
	return q
}

// ReLU6 clamps at zero and at six.
func ReLU6[T quantize.Quantized](q T, scale float32, zeroPoint T) T {
	six := quantize.Quantize(6.0, scale, zeroPoint)
	clamped := ReLU(q, zeroPoint)
	if clamped > six {
		return six
	}
	return clamped
}

// Softmax re-quantizes exp(dequantized)/sum into the output's quantization.
// e is already dequantized (a float value, not a quantized integer); sum is
// the row's total of exp(dequantized) values.
func Softmax[T quantize.Quantized](e, sum, outScale float32, outZeroPoint T) T {
	return quantize.Quantize(math32.Exp(e)/sum, outScale, outZeroPoint)
}
