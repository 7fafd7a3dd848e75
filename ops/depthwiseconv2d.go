package ops

import (
	"github.com/itohio/microflow/activation"
	"github.com/itohio/microflow/quantize"
	"github.com/itohio/microflow/tensor"
)

// ConvOptions carries the padding discipline and per-axis strides shared by
// Conv2D, DepthwiseConv2D, and AveragePool2D.
type ConvOptions struct {
	Padding         tensor.Padding
	StrideH, StrideW int
}

// DepthwiseConv2DConstants are the per-channel folded values §4.5 computes
// at build time. C2 and C3 (the filter-zero-point corrections) cannot be
// folded fully because they depend on which window positions a given output
// cell's view masked out, so the kernel recomputes them per output cell
// from the filter table and the view's mask.
type DepthwiseConv2DConstants struct {
	// C0 is length-channels: (biasScale[c]/outScale) * (bias[c] - biasZeroPoint[c]).
	C0 []float32
	// C1 is length-channels: (inputScale * filterScale[c]) / outScale.
	C1 []float32
}

// DepthwiseConv2D computes a quantized depthwise convolution: one filter
// per input channel, producing an output with the same channel count.
// input must be single-batch and per-tensor quantized; filter holds one
// batch of filterRows x filterCols x channels weights, per-channel
// quantized (Q equals channels or 1, per the output-channel-axis
// invariant). There is no bias argument: the per-channel bias is already
// folded into constants.C0.
func DepthwiseConv2D[T quantize.Quantized](
	input tensor.Tensor4D[T],
	filter tensor.Tensor4D[T],
	constants DepthwiseConv2DConstants,
	outRows, outCols int,
	outScale float32, outZeroPoint T,
	act activation.Fused,
	opts ConvOptions,
) tensor.Tensor4D[T] {
	input.RequirePerTensor()

	channels := input.Buffer.Channels()
	filterRows, filterCols := filter.Buffer.Rows(), filter.Buffer.Cols()
	inputZeroPoint := int32(input.ZeroPoint[0])

	outBuf := tensor.NewBuffer4D[T](1, outRows, outCols, channels)

	for i := 0; i < outRows; i++ {
		for j := 0; j < outCols; j++ {
			view := tensor.Extract(input.Buffer, 0, i, j, opts.Padding, opts.StrideH, opts.StrideW, filterRows, filterCols)

			for c := 0; c < channels; c++ {
				filterScale, filterZeroPoint := filter.ChannelParams(c)
				filterZP := int32(filterZeroPoint)

				x0 := int32(0)
				inputSum := int32(0)
				c2 := int32(0)
				for m := 0; m < filterRows; m++ {
					for n := 0; n < filterCols; n++ {
						v := int32(view.At(m, n, c))
						w := int32(filter.Buffer.At(0, m, n, c))
						x0 += v * w
						inputSum += v
						if view.Valid(m, n) {
							c2 += w
						}
					}
				}
				x1 := inputSum * filterZP
				c2 *= inputZeroPoint
				c3 := int32(view.Len) * inputZeroPoint * filterZP

				_ = filterScale
				y := float32(outZeroPoint) + constants.C0[c] +
					constants.C1[c]*float32(x0-x1-c2+c3)
				q := quantize.RoundSaturate[T](y)
				outBuf.Set(0, i, j, c, activation.Apply(act, q, outScale, outZeroPoint))
			}
		}
	}

	return tensor.NewTensor4D(outBuf, []float32{outScale}, []T{outZeroPoint})
}
