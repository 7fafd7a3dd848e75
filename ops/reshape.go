package ops

import (
	"fmt"

	"github.com/itohio/microflow/quantize"
	"github.com/itohio/microflow/tensor"
)

// Reshape2DFrom4D reinterprets a Tensor4D as a Tensor2D, flattening the
// rows/cols/channels axes into columns in NHWC (channel-fastest) order —
// the element order TFLite's own Reshape op assumes, and the order
// Tensor4D.Dequantize already iterates in. Quantization parameters carry
// over unchanged; Reshape never touches element values.
func Reshape2DFrom4D[T quantize.Quantized](input tensor.Tensor4D[T]) tensor.Tensor2D[T] {
	b := input.Buffer
	cols := b.Rows() * b.Cols() * b.Channels()
	out := tensor.Buffer2DFrom[T](b.Batches(), cols, append([]T(nil), b.Data()...))
	return tensor.NewTensor2D(out, input.Scale, input.ZeroPoint)
}

// Reshape4DFrom2D is Reshape2DFrom4D's inverse: it reinterprets a
// single-row Tensor2D as a Tensor4D of the given shape. The caller supplies
// the target shape since a flat row carries no shape information of its
// own; rows*cols*channels must equal the source's column count.
func Reshape4DFrom2D[T quantize.Quantized](input tensor.Tensor2D[T], batches, rows, cols, channels int) tensor.Tensor4D[T] {
	want := batches * rows * cols * channels
	if got := input.Buffer.Rows() * input.Buffer.Cols(); got != want {
		panic(fmt.Sprintf("ops: Reshape4DFrom2D: element count %d does not match target shape %dx%dx%dx%d (%d)", got, batches, rows, cols, channels, want))
	}
	out := tensor.Buffer4DFrom[T](batches, rows, cols, channels, append([]T(nil), input.Buffer.Data()...))
	return tensor.NewTensor4D(out, input.Scale, input.ZeroPoint)
}
