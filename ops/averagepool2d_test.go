package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itohio/microflow/activation"
	"github.com/itohio/microflow/tensor"
)

func TestAveragePool2DUnitFilterReproducesInput(t *testing.T) {
	inData := []int8{10, 20, 30, 40}
	input := tensor.NewTensor4D(tensor.Buffer4DFrom[int8](1, 2, 2, 1, inData), []float32{1}, []int8{0})
	constants := AveragePool2DConstants{C0: 1, C1: 0}

	out := AveragePool2D(input, constants, 1, 1, 2, 2, 1, 0, activation.None, ConvOptions{Padding: tensor.Valid, StrideH: 1, StrideW: 1})

	for i, want := range inData {
		r, c := i/2, i%2
		assert.Equal(t, want, out.Buffer.At(0, r, c, 0))
	}
}

func TestAveragePool2DAveragesFullWindow(t *testing.T) {
	// A 2x2 Valid-padded pool over a 2x2 input averages all four cells.
	input := tensor.NewTensor4D(tensor.Buffer4DFrom[int8](1, 2, 2, 1, []int8{10, 20, 30, 40}), []float32{1}, []int8{0})
	constants := AveragePool2DConstants{C0: 1, C1: 0}

	out := AveragePool2D(input, constants, 2, 2, 1, 1, 1, 0, activation.None, ConvOptions{Padding: tensor.Valid, StrideH: 1, StrideW: 1})

	assert.Equal(t, int8(25), out.Buffer.At(0, 0, 0, 0))
}
