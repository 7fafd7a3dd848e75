package ops

import (
	"github.com/itohio/microflow/activation"
	"github.com/itohio/microflow/quantize"
	"github.com/itohio/microflow/tensor"
)

// Conv2DConstants are the per-output-channel folded values §4.6 computes at
// build time, mirroring FullyConnectedConstants but indexed by output
// filter rather than by weight-matrix column.
type Conv2DConstants struct {
	// C0 is length-outChannels: (biasScale[o]/outScale) * (bias[o] - biasZeroPoint[o]).
	C0 []float32
	// C1 is length-outChannels: (inputScale * filterScale[o]) / outScale.
	C1 []float32
}

// filterParams returns filter's (scale, zeroPoint) for output filter o,
// falling back to index 0 when the filter is per-tensor quantized. The
// quantization axis for a full convolution's filter is the output-filter
// (batch) axis, not the channel axis Tensor4D.ChannelParams indexes.
func filterParams[T quantize.Quantized](filter tensor.Tensor4D[T], o int) (float32, T) {
	if len(filter.Scale) == 1 {
		return filter.Scale[0], filter.ZeroPoint[0]
	}
	return filter.Scale[o], filter.ZeroPoint[o]
}

// Conv2D computes a quantized full convolution. input is single-batch,
// per-tensor quantized, with inChannels channels. filter holds outChannels
// batches of filterRows x filterCols x inChannels weights; it may be
// per-tensor or per-output-filter quantized.
func Conv2D[T quantize.Quantized](
	input tensor.Tensor4D[T],
	filter tensor.Tensor4D[T],
	constants Conv2DConstants,
	outRows, outCols int,
	outScale float32, outZeroPoint T,
	act activation.Fused,
	opts ConvOptions,
) tensor.Tensor4D[T] {
	input.RequirePerTensor()

	inChannels := input.Buffer.Channels()
	outChannels := filter.Buffer.Batches()
	filterRows, filterCols := filter.Buffer.Rows(), filter.Buffer.Cols()
	inputZeroPoint := int32(input.ZeroPoint[0])

	outBuf := tensor.NewBuffer4D[T](1, outRows, outCols, outChannels)

	for i := 0; i < outRows; i++ {
		for j := 0; j < outCols; j++ {
			view := tensor.Extract(input.Buffer, 0, i, j, opts.Padding, opts.StrideH, opts.StrideW, filterRows, filterCols)

			for o := 0; o < outChannels; o++ {
				_, filterZeroPoint := filterParams(filter, o)
				filterZP := int32(filterZeroPoint)

				x0 := int32(0)
				inputSum := int32(0)
				c2 := int32(0)
				for m := 0; m < filterRows; m++ {
					for n := 0; n < filterCols; n++ {
						valid := view.Valid(m, n)
						for c := 0; c < inChannels; c++ {
							v := int32(view.At(m, n, c))
							w := int32(filter.Buffer.At(o, m, n, c))
							x0 += v * w
							inputSum += v
							if valid {
								c2 += w
							}
						}
					}
				}
				x1 := inputSum * filterZP
				c2 *= inputZeroPoint
				c3 := int32(view.Len*inChannels) * inputZeroPoint * filterZP

				y := float32(outZeroPoint) + constants.C0[o] +
					constants.C1[o]*float32(x0-x1-c2+c3)
				q := quantize.RoundSaturate[T](y)
				outBuf.Set(0, i, j, o, activation.Apply(act, q, outScale, outZeroPoint))
			}
		}
	}

	return tensor.NewTensor4D(outBuf, []float32{outScale}, []T{outZeroPoint})
}
