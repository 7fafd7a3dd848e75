package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itohio/microflow/activation"
	"github.com/itohio/microflow/tensor"
)

// identityConstants builds FullyConnectedConstants for an identity weight
// matrix (1 on the diagonal, weight zero-point 0) with matching input and
// output quantization, so C0=0, C1=1, C2=0, C3=0 and the kernel should
// reproduce its input exactly.
func identityConstants(n int) FullyConnectedConstants {
	c0 := make([]float32, n)
	c2 := make([]int32, n)
	return FullyConnectedConstants{C0: c0, C1: 1, C2: c2, C3: 0}
}

func identityWeights(n int) tensor.Tensor2D[int8] {
	data := make([]int8, n*n)
	for i := 0; i < n; i++ {
		data[i*n+i] = 1
	}
	return tensor.NewTensor2D(tensor.Buffer2DFrom[int8](n, n, data), []float32{1}, []int8{0})
}

func TestFullyConnectedIdentityReproducesInput(t *testing.T) {
	n := 4
	inData := []int8{1, -5, 127, -128}
	in := tensor.NewTensor2D(tensor.Buffer2DFrom[int8](1, n, inData), []float32{0.1}, []int8{0})

	out := FullyConnected(in, identityWeights(n), identityConstants(n), 0.1, 0, activation.None)

	for j := 0; j < n; j++ {
		assert.Equal(t, inData[j], out.Buffer.At(0, j))
	}
}

func TestFullyConnectedAppliesReLU(t *testing.T) {
	n := 3
	inData := []int8{-10, 0, 10}
	in := tensor.NewTensor2D(tensor.Buffer2DFrom[int8](1, n, inData), []float32{1}, []int8{0})

	out := FullyConnected(in, identityWeights(n), identityConstants(n), 1, 0, activation.Relu)

	assert.Equal(t, int8(0), out.Buffer.At(0, 0))
	assert.Equal(t, int8(0), out.Buffer.At(0, 1))
	assert.Equal(t, int8(10), out.Buffer.At(0, 2))
}

func TestFullyConnectedPagedMatchesSingleCall(t *testing.T) {
	n := 4
	inData := []int8{3, -2, 9, -9}
	in := tensor.NewTensor2D(tensor.Buffer2DFrom[int8](1, n, inData), []float32{0.2}, []int8{1})
	weights := identityWeights(n)
	constants := identityConstants(n)

	whole := FullyConnected(in, weights, constants, 0.2, 1, activation.None)

	left := tensor.NewTensor2D(tensor.Buffer2DFrom[int8](n, 2, []int8{1, 0, 0, 1, 0, 0, 0, 0}), []float32{1}, []int8{0})
	right := tensor.NewTensor2D(tensor.Buffer2DFrom[int8](n, 2, []int8{0, 0, 0, 0, 1, 0, 0, 1}), []float32{1}, []int8{0})
	leftConstants := FullyConnectedConstants{C0: make([]float32, 2), C1: 1, C2: make([]int32, 2), C3: 0}
	rightConstants := leftConstants

	paged := FullyConnectedPaged(in, []tensor.Tensor2D[int8]{left, right}, []FullyConnectedConstants{leftConstants, rightConstants}, 0.2, 1, activation.None)

	for j := 0; j < n; j++ {
		assert.Equal(t, whole.Buffer.At(0, j), paged.Buffer.At(0, j))
	}
}
