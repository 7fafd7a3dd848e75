package tensor

import (
	"fmt"

	"github.com/itohio/microflow/quantize"
)

// Tensor2D is a Buffer2D plus per-quantization-axis scale and zero-point
// arrays. When len(Scale) == 1 the tensor is per-tensor quantized; when
// greater it is per-axis (one entry per output channel, i.e. per column).
type Tensor2D[T quantize.Quantized] struct {
	Buffer    Buffer2D[T]
	Scale     []float32
	ZeroPoint []T
}

// NewTensor2D validates that the scale and zero-point arrays agree in length
// before returning the tensor.
func NewTensor2D[T quantize.Quantized](buffer Buffer2D[T], scale []float32, zeroPoint []T) Tensor2D[T] {
	if len(scale) != len(zeroPoint) {
		panic(fmt.Sprintf("tensor: Tensor2D: scale length %d does not match zero-point length %d", len(scale), len(zeroPoint)))
	}
	return Tensor2D[T]{Buffer: buffer, Scale: scale, ZeroPoint: zeroPoint}
}

// PerTensor reports whether this tensor carries a single (scale, zeroPoint)
// pair shared by every element.
func (t Tensor2D[T]) PerTensor() bool { return len(t.Scale) == 1 }

// RequirePerTensor panics unless the tensor is per-tensor quantized.
// Operators that only support a single scale/zero-point call this to turn a
// malformed model into an immediate, obvious failure.
func (t Tensor2D[T]) RequirePerTensor() {
	if !t.PerTensor() {
		panic(fmt.Sprintf("tensor: Tensor2D: expected per-tensor quantization (Q=1), got Q=%d", len(t.Scale)))
	}
}

// Dequantize converts the tensor to a row-major []float32 of the same shape.
func (t Tensor2D[T]) Dequantize() []float32 {
	out := make([]float32, t.Buffer.Rows()*t.Buffer.Cols())
	perAxis := len(t.Scale) > 1
	for r := 0; r < t.Buffer.Rows(); r++ {
		for c := 0; c < t.Buffer.Cols(); c++ {
			axis := 0
			if perAxis {
				axis = c
			}
			out[r*t.Buffer.Cols()+c] = quantize.Dequantize(t.Buffer.At(r, c), t.Scale[axis], t.ZeroPoint[axis])
		}
	}
	return out
}

// QuantizeTensor2D quantizes row-major float32 data of shape rows x cols
// against a single (scale, zeroPoint) pair into a per-tensor Tensor2D.
func QuantizeTensor2D[T quantize.Quantized](data []float32, rows, cols int, scale float32, zeroPoint T) Tensor2D[T] {
	buf := NewBuffer2D[T](rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			buf.Set(r, c, quantize.Quantize(data[r*cols+c], scale, zeroPoint))
		}
	}
	return Tensor2D[T]{Buffer: buf, Scale: []float32{scale}, ZeroPoint: []T{zeroPoint}}
}
