package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTensor2DPerTensor(t *testing.T) {
	perTensor := NewTensor2D(NewBuffer2D[int8](1, 1), []float32{0.1}, []int8{0})
	assert.True(t, perTensor.PerTensor())
	assert.NotPanics(t, perTensor.RequirePerTensor)

	perAxis := NewTensor2D(NewBuffer2D[int8](1, 2), []float32{0.1, 0.2}, []int8{0, 1})
	assert.False(t, perAxis.PerTensor())
	assert.Panics(t, perAxis.RequirePerTensor)
}

func TestTensor2DMismatchedLengthsPanic(t *testing.T) {
	assert.Panics(t, func() {
		NewTensor2D(NewBuffer2D[int8](1, 1), []float32{0.1, 0.2}, []int8{0})
	})
}

func TestQuantizeTensor2DDequantizeRoundTrip(t *testing.T) {
	data := []float32{1.0, -2.0, 0.5, 3.25}
	qt := QuantizeTensor2D(data, 2, 2, 0.05, int8(0))
	back := qt.Dequantize()
	for i, want := range data {
		assert.InDelta(t, want, back[i], 0.01)
	}
}
