package tensor

import (
	"fmt"

	"github.com/itohio/microflow/quantize"
)

// Tensor4D is a Buffer4D plus per-quantization-axis scale and zero-point
// arrays, analogous to Tensor2D. Q > 1 means per-axis quantization;
// ChannelParams and Dequantize index the arrays by the channel axis. A
// Conv2D filter instead carries one entry per output filter (the batch
// axis), which ops.Conv2D reads itself rather than through ChannelParams.
type Tensor4D[T quantize.Quantized] struct {
	Buffer    Buffer4D[T]
	Scale     []float32
	ZeroPoint []T
}

// NewTensor4D validates that the scale and zero-point arrays agree in length.
func NewTensor4D[T quantize.Quantized](buffer Buffer4D[T], scale []float32, zeroPoint []T) Tensor4D[T] {
	if len(scale) != len(zeroPoint) {
		panic(fmt.Sprintf("tensor: Tensor4D: scale length %d does not match zero-point length %d", len(scale), len(zeroPoint)))
	}
	return Tensor4D[T]{Buffer: buffer, Scale: scale, ZeroPoint: zeroPoint}
}

// PerTensor reports whether a single (scale, zeroPoint) pair applies to
// every channel.
func (t Tensor4D[T]) PerTensor() bool { return len(t.Scale) == 1 }

// RequirePerTensor panics unless the tensor carries a single (scale,
// zeroPoint) pair shared by every channel. Activation tensors feeding a
// convolutional or pooling kernel must satisfy this; only weight and filter
// tensors are allowed to be per-channel.
func (t Tensor4D[T]) RequirePerTensor() {
	if !t.PerTensor() {
		panic(fmt.Sprintf("tensor: Tensor4D: expected per-tensor quantization (Q=1), got Q=%d", len(t.Scale)))
	}
}

// ChannelParams returns the (scale, zeroPoint) pair that applies to channel
// ch, falling back to index 0 when the tensor is per-tensor quantized.
func (t Tensor4D[T]) ChannelParams(ch int) (float32, T) {
	if t.PerTensor() {
		return t.Scale[0], t.ZeroPoint[0]
	}
	return t.Scale[ch], t.ZeroPoint[ch]
}

// Dequantize converts the tensor to a NHWC-ordered []float32 of the same shape.
func (t Tensor4D[T]) Dequantize() []float32 {
	b := t.Buffer
	out := make([]float32, b.Batches()*b.Rows()*b.Cols()*b.Channels())
	i := 0
	for bi := 0; bi < b.Batches(); bi++ {
		for r := 0; r < b.Rows(); r++ {
			for c := 0; c < b.Cols(); c++ {
				for ch := 0; ch < b.Channels(); ch++ {
					scale, zp := t.ChannelParams(ch)
					out[i] = quantize.Dequantize(b.At(bi, r, c, ch), scale, zp)
					i++
				}
			}
		}
	}
	return out
}

// QuantizeTensor4D quantizes NHWC-ordered float32 data against a single
// (scale, zeroPoint) pair into a per-tensor Tensor4D.
func QuantizeTensor4D[T quantize.Quantized](data []float32, batches, rows, cols, channels int, scale float32, zeroPoint T) Tensor4D[T] {
	buf := NewBuffer4D[T](batches, rows, cols, channels)
	for i, v := range data {
		buf.data[i] = quantize.Quantize(v, scale, zeroPoint)
	}
	return Tensor4D[T]{Buffer: buf, Scale: []float32{scale}, ZeroPoint: []T{zeroPoint}}
}
