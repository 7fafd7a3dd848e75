package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuffer2DAtSet(t *testing.T) {
	b := NewBuffer2D[int8](2, 3)
	b.Set(0, 0, 1)
	b.Set(1, 2, 9)
	assert.Equal(t, int8(1), b.At(0, 0))
	assert.Equal(t, int8(9), b.At(1, 2))
	assert.Equal(t, int8(0), b.At(0, 1))
	assert.Equal(t, []int8{1, 0, 0}, b.Row(0))
}

func TestBuffer2DFromPanicsOnSizeMismatch(t *testing.T) {
	assert.Panics(t, func() { Buffer2DFrom[int8](2, 2, []int8{1, 2, 3}) })
}

func TestBuffer4DAtSetPixel(t *testing.T) {
	b := NewBuffer4D[int8](1, 2, 2, 3)
	b.Set(0, 0, 0, 0, 1)
	b.Set(0, 0, 0, 1, 2)
	b.Set(0, 0, 0, 2, 3)
	assert.Equal(t, []int8{1, 2, 3}, b.Pixel(0, 0, 0))
	assert.Equal(t, int8(2), b.At(0, 0, 0, 1))
}
