// Package ops implements the per-operator integer kernels microflow's
// generated inference routines call into: FullyConnected, Conv2D,
// DepthwiseConv2D, AveragePool2D, Softmax, and Reshape. Every kernel
// consumes the folded constants the compiler pre-computes at build time and
// performs only integer multiply-adds plus one final requantization per
// output element.
package ops

import (
	"github.com/itohio/microflow/activation"
	"github.com/itohio/microflow/quantize"
	"github.com/itohio/microflow/tensor"
)

// FullyConnectedConstants are the per-layer values §4.4 folds at build time
// so the kernel performs no floating-point division per output element.
type FullyConnectedConstants struct {
	// C0 is length-out: (biasScale/outScale) * (bias[j] - biasZeroPoint).
	C0 []float32
	// C1 is the scalar (inputScale * weightScale) / outScale.
	C1 float32
	// C2 is length-out: inputZeroPoint * columnSum(weights[:, j]).
	C2 []int32
	// C3 is the scalar cols * inputZeroPoint * weightZeroPoint.
	C3 int32
}

// FullyConnected computes a quantized dense layer: input (rows x cols) times
// weights (cols x out), both per-tensor quantized, producing a (rows x out)
// tensor in the same element type as the input.
func FullyConnected[T quantize.Quantized](
	input, weights tensor.Tensor2D[T],
	constants FullyConnectedConstants,
	outScale float32, outZeroPoint T,
	act activation.Fused,
) tensor.Tensor2D[T] {
	input.RequirePerTensor()
	weights.RequirePerTensor()

	rows, cols := input.Buffer.Rows(), input.Buffer.Cols()
	out := weights.Buffer.Cols()
	weightZeroPoint := int32(weights.ZeroPoint[0])

	outBuf := tensor.NewBuffer2D[T](rows, out)
	for i := 0; i < rows; i++ {
		rowSum := int32(0)
		for k := 0; k < cols; k++ {
			rowSum += int32(input.Buffer.At(i, k))
		}
		x1 := weightZeroPoint * rowSum

		for j := 0; j < out; j++ {
			x0 := int32(0)
			for k := 0; k < cols; k++ {
				x0 += int32(input.Buffer.At(i, k)) * int32(weights.Buffer.At(k, j))
			}

			y := float32(outZeroPoint) + constants.C0[j] +
				constants.C1*float32(x0-x1-constants.C2[j]+constants.C3)
			q := quantize.RoundSaturate[T](y)
			outBuf.Set(i, j, activation.Apply(act, q, outScale, outZeroPoint))
		}
	}

	return tensor.NewTensor2D(outBuf, []float32{outScale}, []T{outZeroPoint})
}

// FullyConnectedPaged runs a sequence of narrower FullyConnected calls, one
// per element of weightColumns, and column-concatenates their outputs. The
// compiler emits this shape when a layer's weight matrix has more rows than
// its configured capacity, so each intermediate stays within a smaller
// stack-allocated buffer.
func FullyConnectedPaged[T quantize.Quantized](
	input tensor.Tensor2D[T],
	weightColumns []tensor.Tensor2D[T],
	constantsPerColumn []FullyConnectedConstants,
	outScale float32, outZeroPoint T,
	act activation.Fused,
) tensor.Tensor2D[T] {
	rows := input.Buffer.Rows()
	totalOut := 0
	for _, w := range weightColumns {
		totalOut += w.Buffer.Cols()
	}

	outBuf := tensor.NewBuffer2D[T](rows, totalOut)
	col := 0
	for p, w := range weightColumns {
		part := FullyConnected(input, w, constantsPerColumn[p], outScale, outZeroPoint, act)
		for i := 0; i < rows; i++ {
			for j := 0; j < w.Buffer.Cols(); j++ {
				outBuf.Set(i, col+j, part.Buffer.At(i, j))
			}
		}
		col += w.Buffer.Cols()
	}

	return tensor.NewTensor2D(outBuf, []float32{outScale}, []T{outZeroPoint})
}
