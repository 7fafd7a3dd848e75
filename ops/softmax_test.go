package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itohio/microflow/quantize"
	"github.com/itohio/microflow/tensor"
)

func TestSoftmaxRowSumsToOne(t *testing.T) {
	input := tensor.NewTensor2D(tensor.Buffer2DFrom[int8](1, 4, []int8{-50, 0, 50, 127}), []float32{0.05}, []int8{0})

	out := Softmax(input, 1.0/255, int8(-128))

	sum := float32(0)
	for k := 0; k < 4; k++ {
		sum += quantize.Dequantize(out.Buffer.At(0, k), 1.0/255, int8(-128))
	}
	assert.InDelta(t, 1.0, sum, 0.05)
}

func TestSoftmaxArgmaxMatchesInputArgmax(t *testing.T) {
	input := tensor.NewTensor2D(tensor.Buffer2DFrom[int8](1, 3, []int8{-10, 40, 5}), []float32{0.1}, []int8{0})

	out := Softmax(input, 1.0/255, int8(-128))

	best, bestVal := 0, out.Buffer.At(0, 0)
	for k := 1; k < 3; k++ {
		if v := out.Buffer.At(0, k); v > bestVal {
			best, bestVal = k, v
		}
	}
	assert.Equal(t, 1, best)
}
