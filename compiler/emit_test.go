package compiler

import (
	"strings"
	"testing"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/microflow/internal/tflite"
)

// buildTinyFullyConnectedModel assembles a single FullyConnected-only
// TFLite FlatBuffer by hand, mirroring the fixture in
// internal/tflite/decode_test.go but kept local since that helper is
// unexported across the package boundary.
func buildTinyFullyConnectedModel(t *testing.T) []byte {
	t.Helper()
	return buildFullyConnectedModelDims(t, 1, 2)
}

// buildFullyConnectedModelDims is buildTinyFullyConnectedModel generalized
// to an arbitrary (out, cols) weight shape, letting tests drive either axis
// of the weight matrix past a capacity limit independently of the other.
// Weight values are synthesized as 1, 2, 3, ... (mod 100, to stay in int8
// range) in [out, cols] row-major order; biases are all zero.
func buildFullyConnectedModelDims(t *testing.T, out, cols int) []byte {
	t.Helper()
	b := flatbuffers.NewBuilder(0)

	weightBytes := make([]byte, out*cols)
	for i := range weightBytes {
		weightBytes[i] = byte((i%100 + 1))
	}
	biasBytes := make([]byte, out*4)

	bufEmpty := fbBuffer(b, nil)
	bufWeights := fbBuffer(b, weightBytes)
	bufBias := fbBuffer(b, biasBytes)
	bufOutput := fbBuffer(b, nil)
	buffersVec := fbOffsets(b, []flatbuffers.UOffsetT{bufEmpty, bufWeights, bufBias, bufOutput})

	inputQuant := fbQuant(b, []float32{0.1}, []int64{1})
	inputShape := fbInt32Vec(b, []int32{1, int32(cols)})
	inputTensor := fbTensor(b, inputShape, int8(tflite.TensorInt8), 0, 0, inputQuant)

	weightsQuant := fbQuant(b, []float32{0.5}, []int64{2})
	weightsShape := fbInt32Vec(b, []int32{int32(out), int32(cols)})
	weightsTensor := fbTensor(b, weightsShape, int8(tflite.TensorInt8), 1, 0, weightsQuant)

	biasQuant := fbQuant(b, []float32{0.05}, []int64{0})
	biasShape := fbInt32Vec(b, []int32{int32(out)})
	biasTensor := fbTensor(b, biasShape, int8(tflite.TensorInt32), 2, 0, biasQuant)

	outputQuant := fbQuant(b, []float32{0.2}, []int64{-1})
	outputShape := fbInt32Vec(b, []int32{1, int32(out)})
	outputTensor := fbTensor(b, outputShape, int8(tflite.TensorInt8), 3, 0, outputQuant)

	tensorsVec := fbOffsets(b, []flatbuffers.UOffsetT{inputTensor, weightsTensor, biasTensor, outputTensor})

	b.StartObject(1)
	b.PrependInt8Slot(0, int8(tflite.ActivationNone), 0)
	fcOptions := b.EndObject()

	operatorInputs := fbInt32Vec(b, []int32{0, 1, 2})
	operatorOutputs := fbInt32Vec(b, []int32{3})

	b.StartObject(5)
	b.PrependUint32Slot(0, 0, 0)
	b.PrependUOffsetTSlot(1, operatorInputs, 0)
	b.PrependUOffsetTSlot(2, operatorOutputs, 0)
	b.PrependUOffsetTSlot(4, fcOptions, 0)
	operator := b.EndObject()

	operatorsVec := fbOffsets(b, []flatbuffers.UOffsetT{operator})
	subgraphInputs := fbInt32Vec(b, []int32{0})
	subgraphOutputs := fbInt32Vec(b, []int32{3})

	b.StartObject(5)
	b.PrependUOffsetTSlot(0, tensorsVec, 0)
	b.PrependUOffsetTSlot(1, subgraphInputs, 0)
	b.PrependUOffsetTSlot(2, subgraphOutputs, 0)
	b.PrependUOffsetTSlot(3, operatorsVec, 0)
	subgraph := b.EndObject()

	subgraphsVec := fbOffsets(b, []flatbuffers.UOffsetT{subgraph})

	b.StartObject(4)
	b.PrependInt8Slot(0, int8(tflite.OpFullyConnected), 0)
	opCode := b.EndObject()

	opCodesVec := fbOffsets(b, []flatbuffers.UOffsetT{opCode})

	b.StartObject(5)
	b.PrependUOffsetTSlot(1, opCodesVec, 0)
	b.PrependUOffsetTSlot(2, subgraphsVec, 0)
	b.PrependUOffsetTSlot(4, buffersVec, 0)
	model := b.EndObject()

	b.Finish(model)
	return b.FinishedBytes()
}

func fbBuffer(b *flatbuffers.Builder, data []byte) flatbuffers.UOffsetT {
	var vec flatbuffers.UOffsetT
	if data != nil {
		vec = b.CreateByteVector(data)
	}
	b.StartObject(1)
	if data != nil {
		b.PrependUOffsetTSlot(0, vec, 0)
	}
	return b.EndObject()
}

func fbQuant(b *flatbuffers.Builder, scale []float32, zeroPoint []int64) flatbuffers.UOffsetT {
	b.StartVector(8, len(zeroPoint), 8)
	for i := len(zeroPoint) - 1; i >= 0; i-- {
		b.PrependInt64(zeroPoint[i])
	}
	zpVec := b.EndVector(len(zeroPoint))

	b.StartVector(4, len(scale), 4)
	for i := len(scale) - 1; i >= 0; i-- {
		b.PrependFloat32(scale[i])
	}
	scaleVec := b.EndVector(len(scale))

	b.StartObject(7)
	b.PrependUOffsetTSlot(2, scaleVec, 0)
	b.PrependUOffsetTSlot(3, zpVec, 0)
	return b.EndObject()
}

func fbTensor(b *flatbuffers.Builder, shape flatbuffers.UOffsetT, typ int8, bufferIdx uint32, name flatbuffers.UOffsetT, quant flatbuffers.UOffsetT) flatbuffers.UOffsetT {
	b.StartObject(5)
	b.PrependUOffsetTSlot(0, shape, 0)
	b.PrependInt8Slot(1, typ, 0)
	b.PrependUint32Slot(2, bufferIdx, 0)
	if name != 0 {
		b.PrependUOffsetTSlot(3, name, 0)
	}
	b.PrependUOffsetTSlot(4, quant, 0)
	return b.EndObject()
}

func fbInt32Vec(b *flatbuffers.Builder, values []int32) flatbuffers.UOffsetT {
	b.StartVector(4, len(values), 4)
	for i := len(values) - 1; i >= 0; i-- {
		b.PrependInt32(values[i])
	}
	return b.EndVector(len(values))
}

func fbOffsets(b *flatbuffers.Builder, offsets []flatbuffers.UOffsetT) flatbuffers.UOffsetT {
	b.StartVector(4, len(offsets), 4)
	for i := len(offsets) - 1; i >= 0; i-- {
		b.PrependUOffsetT(offsets[i])
	}
	return b.EndVector(len(offsets))
}

func TestBuildResolvesFullyConnectedGraph(t *testing.T) {
	data := buildTinyFullyConnectedModel(t)
	decoded, err := tflite.Decode(data)
	require.NoError(t, err)

	graph, err := Build(decoded)
	require.NoError(t, err)

	assert.Equal(t, ElementInt8, graph.Element)
	require.Len(t, graph.Nodes, 1)
	assert.Equal(t, tflite.OpFullyConnected, graph.Nodes[0].Opcode)
	assert.Equal(t, 2, graph.Nodes[0].Inputs[1].Shape.Rows)
}

func TestEmitProducesCompilableLookingSource(t *testing.T) {
	data := buildTinyFullyConnectedModel(t)
	decoded, err := tflite.Decode(data)
	require.NoError(t, err)

	graph, err := Build(decoded)
	require.NoError(t, err)

	source, err := Emit(graph, "SineModel", "sine", 0)
	require.NoError(t, err)

	assert.True(t, strings.Contains(source, "package sine"))
	assert.True(t, strings.Contains(source, "func (m *SineModel) Predict(input []float32) []float32"))
	assert.True(t, strings.Contains(source, "func (m *SineModel) PredictQuantized(input []int8) []float32"))
	assert.True(t, strings.Contains(source, "ops.FullyConnected("))
}

// TestEmitPagesOnInputDimensionNotOutputDimension exercises §4.4's
// capacity knob: paging triggers off cols (the weight matrix's row count
// in its (cols x out) kernel layout, i.e. the input dimension), not out
// (the output dimension). A model with few outputs but many input
// features must page; a model with many outputs but few input features
// must not.
func TestEmitPagesOnInputDimensionNotOutputDimension(t *testing.T) {
	// out=1, cols=8: few outputs, wide input. capacity=4 < cols must page.
	wide := buildFullyConnectedModelDims(t, 1, 8)
	decoded, err := tflite.Decode(wide)
	require.NoError(t, err)
	graph, err := Build(decoded)
	require.NoError(t, err)

	source, err := Emit(graph, "WideModel", "sine", 4)
	require.NoError(t, err)
	assert.True(t, strings.Contains(source, "ops.FullyConnectedPaged("),
		"expected paging when cols (8) exceeds capacity (4), even though out is only 1")

	// out=8, cols=1: many outputs, narrow input. capacity=4 < out must
	// NOT page, since the guard is on cols, not out.
	tall := buildFullyConnectedModelDims(t, 8, 1)
	decoded, err = tflite.Decode(tall)
	require.NoError(t, err)
	graph, err = Build(decoded)
	require.NoError(t, err)

	source, err = Emit(graph, "TallModel", "sine", 4)
	require.NoError(t, err)
	assert.True(t, strings.Contains(source, "ops.FullyConnected("),
		"expected no paging when out (8) exceeds capacity (4) but cols is only 1")
	assert.False(t, strings.Contains(source, "ops.FullyConnectedPaged("))
}
