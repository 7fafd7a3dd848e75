package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itohio/microflow/activation"
	"github.com/itohio/microflow/tensor"
)

func TestDepthwiseConv2DUnitFilterReproducesInput(t *testing.T) {
	channels := 2
	inData := []int8{10, -20, 30, -40}
	input := tensor.NewTensor4D(tensor.Buffer4DFrom[int8](1, 2, 1, channels, inData), []float32{1}, []int8{0})

	filterData := []int8{1, 1}
	filter := tensor.NewTensor4D(tensor.Buffer4DFrom[int8](1, 1, 1, channels, filterData), []float32{1}, []int8{0})

	constants := DepthwiseConv2DConstants{C0: make([]float32, channels), C1: []float32{1, 1}}

	out := DepthwiseConv2D(input, filter, constants, 2, 1, 1, 0, activation.None, ConvOptions{Padding: tensor.Same, StrideH: 1, StrideW: 1})

	for r := 0; r < 2; r++ {
		for c := 0; c < channels; c++ {
			assert.Equal(t, input.Buffer.At(0, r, 0, c), out.Buffer.At(0, r, 0, c))
		}
	}
}

func TestDepthwiseConv2DAppliesRelu6(t *testing.T) {
	channels := 1
	input := tensor.NewTensor4D(tensor.Buffer4DFrom[int8](1, 1, 1, channels, []int8{100}), []float32{1}, []int8{0})
	filter := tensor.NewTensor4D(tensor.Buffer4DFrom[int8](1, 1, 1, channels, []int8{1}), []float32{1}, []int8{0})
	constants := DepthwiseConv2DConstants{C0: []float32{0}, C1: []float32{1}}

	out := DepthwiseConv2D(input, filter, constants, 1, 1, 1, 0, activation.Relu6, ConvOptions{Padding: tensor.Same, StrideH: 1, StrideW: 1})

	assert.Equal(t, int8(6), out.Buffer.At(0, 0, 0, 0))
}
