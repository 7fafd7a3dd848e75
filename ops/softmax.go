package ops

import (
	"github.com/chewxy/math32"

	"github.com/itohio/microflow/activation"
	"github.com/itohio/microflow/quantize"
	"github.com/itohio/microflow/tensor"
)

// Softmax computes a row-wise quantized softmax. Each row is dequantized,
// shifted by its own max for numerical stability, exponentiated, summed,
// and requantized. Softmax has no folded build-time constants: every term
// depends on the full row, so there is nothing to precompute per output
// element.
func Softmax[T quantize.Quantized](
	input tensor.Tensor2D[T],
	outScale float32, outZeroPoint T,
) tensor.Tensor2D[T] {
	input.RequirePerTensor()

	rows, cols := input.Buffer.Rows(), input.Buffer.Cols()
	inputScale, inputZeroPoint := input.Scale[0], input.ZeroPoint[0]

	outBuf := tensor.NewBuffer2D[T](rows, cols)
	shifted := make([]float32, cols)

	for i := 0; i < rows; i++ {
		max := float32(math32.Inf(-1))
		for k := 0; k < cols; k++ {
			v := quantize.Dequantize(input.Buffer.At(i, k), inputScale, inputZeroPoint)
			if v > max {
				max = v
			}
			shifted[k] = v
		}

		sum := float32(0)
		for k := 0; k < cols; k++ {
			shifted[k] -= max
			sum += math32.Exp(shifted[k])
		}

		for k := 0; k < cols; k++ {
			outBuf.Set(i, k, activation.Softmax(shifted[k], sum, outScale, outZeroPoint))
		}
	}

	return tensor.NewTensor2D(outBuf, []float32{outScale}, []T{outZeroPoint})
}
