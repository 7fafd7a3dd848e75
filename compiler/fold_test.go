package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/microflow/internal/tflite"
)

func int32Bytes(values []int32) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		u := uint32(v)
		out[i*4] = byte(u)
		out[i*4+1] = byte(u >> 8)
		out[i*4+2] = byte(u >> 16)
		out[i*4+3] = byte(u >> 24)
	}
	return out
}

func tensorRef(shape []int32, typ tflite.TensorType, raw []byte, scale []float32, zp []int64) TensorRef {
	s, err := promoteShape(shape)
	if err != nil {
		panic(err)
	}
	return TensorRef{
		DecodedTensor: tflite.DecodedTensor{
			Shape: shape,
			Type:  typ,
			Quantization: tflite.Quantization{Scale: scale, ZeroPoint: zp},
		},
		Shape: s,
		Raw:   raw,
	}
}

func TestFoldFullyConnectedMatchesHandComputedConstants(t *testing.T) {
	// 1 input row, 2 input features, 1 output unit: weights [[2, 3]] (shape
	// [out=1, cols=2]), bias [5], all per-tensor quantized with zero points.
	input := tensorRef([]int32{1, 2}, tflite.TensorInt8, nil, []float32{0.1}, []int64{1})
	weights := tensorRef([]int32{1, 2}, tflite.TensorInt8, []byte{2, 3}, []float32{0.5}, []int64{2})
	bias := tensorRef([]int32{1}, tflite.TensorInt32, int32Bytes([]int32{5}), []float32{0.05}, []int64{0})
	output := tensorRef([]int32{1, 1}, tflite.TensorInt8, nil, []float32{0.2}, []int64{-1})

	got, err := FoldFullyConnected(input, weights, bias, output, ElementInt8)
	require.NoError(t, err)

	// C0[0] = (0.05/0.2) * (5 - 0) = 1.25
	assert.InDelta(t, 1.25, got.C0[0], 1e-6)
	// C1 = (0.1 * 0.5) / 0.2 = 0.25
	assert.InDelta(t, 0.25, got.C1, 1e-6)
	// C2[0] = inZP(1) * colSum(2+3=5) = 5
	assert.Equal(t, int32(5), got.C2[0])
	// C3 = cols(2) * inZP(1) * wZP(2) = 4
	assert.Equal(t, int32(4), got.C3)
}

func TestFoldAveragePool2DMatchesHandComputedConstants(t *testing.T) {
	input := tensorRef([]int32{1, 2, 2, 1}, tflite.TensorInt8, nil, []float32{0.5}, []int64{0})
	output := tensorRef([]int32{1, 1, 1, 1}, tflite.TensorInt8, nil, []float32{0.25}, []int64{-2})

	got, err := FoldAveragePool2D(input, output)
	require.NoError(t, err)

	// C0 = 0.5/0.25 = 2
	assert.InDelta(t, 2.0, got.C0, 1e-6)
	// C1 = -2 - (0.5*0)/0.25 = -2
	assert.InDelta(t, -2.0, got.C1, 1e-6)
}

func TestTranspose2DTransposesRowMajorMatrix(t *testing.T) {
	// A 2x3 row-major matrix [[1,2,3],[4,5,6]] transposed is 3x2: [[1,4],[2,5],[3,6]].
	values := []int32{1, 2, 3, 4, 5, 6}
	got := transpose2D(values, 2, 3)
	assert.Equal(t, []int32{1, 4, 2, 5, 3, 6}, got)
}
