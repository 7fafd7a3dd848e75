package ops

import (
	"github.com/itohio/microflow/activation"
	"github.com/itohio/microflow/quantize"
	"github.com/itohio/microflow/tensor"
)

// AveragePool2DConstants are the two folded values §4.7 computes at build
// time. AveragePool2D has no weights, so there is nothing else to fold.
type AveragePool2DConstants struct {
	// C0 is the scalar inputScale / outScale.
	C0 float32
	// C1 is the scalar outZeroPoint - (inputScale * inputZeroPoint) / outScale.
	C1 float32
}

// AveragePool2D computes a quantized average pool: for every output cell,
// the mean of the valid (non-padded) input cells under the window,
// requantized to outScale/outZeroPoint. input is single-batch, per-tensor
// quantized.
func AveragePool2D[T quantize.Quantized](
	input tensor.Tensor4D[T],
	constants AveragePool2DConstants,
	filterRows, filterCols int,
	outRows, outCols int,
	outScale float32, outZeroPoint T,
	act activation.Fused,
	opts ConvOptions,
) tensor.Tensor4D[T] {
	input.RequirePerTensor()

	channels := input.Buffer.Channels()

	outBuf := tensor.NewBuffer4D[T](1, outRows, outCols, channels)

	for i := 0; i < outRows; i++ {
		for j := 0; j < outCols; j++ {
			view := tensor.Extract(input.Buffer, 0, i, j, opts.Padding, opts.StrideH, opts.StrideW, filterRows, filterCols)

			for c := 0; c < channels; c++ {
				sum := int32(0)
				count := 0
				for m := 0; m < filterRows; m++ {
					for n := 0; n < filterCols; n++ {
						if !view.Valid(m, n) {
							continue
						}
						sum += int32(view.At(m, n, c))
						count++
					}
				}

				avg := float32(sum) / float32(count)
				y := constants.C0*avg + constants.C1
				q := quantize.RoundSaturate[T](y)
				outBuf.Set(0, i, j, c, activation.Apply(act, q, outScale, outZeroPoint))
			}
		}
	}

	return tensor.NewTensor4D(outBuf, []float32{outScale}, []T{outZeroPoint})
}
