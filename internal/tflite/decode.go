package tflite

import (
	"encoding/binary"
	"fmt"
	"math"

	flatbuffers "github.com/google/flatbuffers/go"
)

// Quantization is a copied-out, per-axis scale/zero-point pair. Len() == 1
// means per-tensor quantization; Len() > 1 means per-channel, with
// QuantizedDimension naming the axis (always the output-channel axis for
// the operators microflow supports).
type Quantization struct {
	Scale             []float32
	ZeroPoint         []int64
	QuantizedDimension int32
}

func (q Quantization) Len() int { return len(q.Scale) }

// DecodedTensor is a copied-out view of a Tensor table: shape, element
// type, its owning buffer index, and quantization parameters.
type DecodedTensor struct {
	Name          string
	Shape         []int32
	Type          TensorType
	BufferIndex   uint32
	Quantization  Quantization
}

// DecodedOperator is a copied-out view of an Operator table plus the
// resolved opcode (read from OperatorCode.DeprecatedBuiltinCode per §6)
// and, for the operators microflow supports, its decoded options.
type DecodedOperator struct {
	Opcode  BuiltinOperator
	Inputs  []int32
	Outputs []int32
	Options OperatorOptions
}

// OperatorOptions normalizes the handful of option shapes microflow reads
// into one struct; fields irrelevant to a given opcode are left zero.
type OperatorOptions struct {
	FusedActivation ActivationFunctionType
	Padding         Padding
	StrideH, StrideW int32
	FilterH, FilterW int32
}

// DecodedModel is the flattened, compiler-friendly view of a TFLite
// FlatBuffer: subgraph 0's tensors and operators plus the model's raw
// buffer table (§6: microflow reads subgraphs[0] only).
type DecodedModel struct {
	Tensors   []DecodedTensor
	Operators []DecodedOperator
	Inputs    []int32
	Outputs   []int32
	Buffers   [][]byte
}

// Decode parses a TFLite FlatBuffer and flattens it into a DecodedModel.
// It returns an error (never panics) so callers — the compiler and its
// tests — can report a build diagnostic naming the cause, per §7.
func Decode(data []byte) (result *DecodedModel, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("tflite: decode: malformed FlatBuffer: %v", r)
		}
	}()

	if len(data) < 8 {
		return nil, fmt.Errorf("tflite: decode: input too short to be a FlatBuffer (%d bytes)", len(data))
	}

	model, err := safeGetRootAsModel(data)
	if err != nil {
		return nil, fmt.Errorf("tflite: decode: %w", err)
	}

	if model.SubgraphsLength() == 0 {
		return nil, fmt.Errorf("tflite: decode: model has no subgraphs")
	}

	var codes []BuiltinOperator
	for i := 0; i < model.OperatorCodesLength(); i++ {
		var oc OperatorCode
		model.OperatorCodes(&oc, i)
		codes = append(codes, BuiltinOperator(oc.DeprecatedBuiltinCode()))
	}

	var sg SubGraph
	model.Subgraphs(&sg, 0)

	out := &DecodedModel{}

	for i := 0; i < sg.TensorsLength(); i++ {
		var t Tensor
		sg.Tensors(&t, i)
		out.Tensors = append(out.Tensors, decodeTensor(&t))
	}

	for i := 0; i < sg.InputsLength(); i++ {
		out.Inputs = append(out.Inputs, sg.Inputs(i))
	}
	for i := 0; i < sg.OutputsLength(); i++ {
		out.Outputs = append(out.Outputs, sg.Outputs(i))
	}

	for i := 0; i < sg.OperatorsLength(); i++ {
		var o Operator
		sg.Operators(&o, i)

		idx := int(o.OpcodeIndex())
		if idx < 0 || idx >= len(codes) {
			return nil, fmt.Errorf("tflite: decode: operator %d references out-of-range opcode index %d", i, idx)
		}
		opcode := codes[idx]

		decoded := DecodedOperator{Opcode: opcode}
		for j := 0; j < o.InputsLength(); j++ {
			decoded.Inputs = append(decoded.Inputs, o.Inputs(j))
		}
		for j := 0; j < o.OutputsLength(); j++ {
			decoded.Outputs = append(decoded.Outputs, o.Outputs(j))
		}

		optOffset := o.BuiltinOptions()
		decoded.Options = decodeOptions(data, opcode, optOffset)

		out.Operators = append(out.Operators, decoded)
	}

	for i := 0; i < model.BuffersLength(); i++ {
		var b Buffer
		model.Buffers(&b, i)
		out.Buffers = append(out.Buffers, b.DataBytes())
	}

	return out, nil
}

func decodeTensor(t *Tensor) DecodedTensor {
	dt := DecodedTensor{
		Name:        t.Name(),
		Type:        t.Type(),
		BufferIndex: t.Buffer(),
	}
	for i := 0; i < t.ShapeLength(); i++ {
		dt.Shape = append(dt.Shape, t.Shape(i))
	}

	var q QuantizationParameters
	if t.Quantization(&q) != nil {
		for i := 0; i < q.ScaleLength(); i++ {
			dt.Quantization.Scale = append(dt.Quantization.Scale, q.Scale(i))
		}
		for i := 0; i < q.ZeroPointLength(); i++ {
			dt.Quantization.ZeroPoint = append(dt.Quantization.ZeroPoint, q.ZeroPoint(i))
		}
		dt.Quantization.QuantizedDimension = q.QuantizedDimension()
	}
	return dt
}

func decodeOptions(buf []byte, opcode BuiltinOperator, offset flatbuffers.UOffsetT) OperatorOptions {
	var opts OperatorOptions
	if offset == 0 {
		return opts
	}

	switch opcode {
	case OpFullyConnected:
		var o FullyConnectedOptions
		o.Init(buf, offset)
		opts.FusedActivation = o.FusedActivationFunction()
	case OpConv2D:
		var o Conv2DOptions
		o.Init(buf, offset)
		opts.FusedActivation = o.FusedActivationFunction()
		opts.Padding = o.Padding()
		opts.StrideH = o.StrideH()
		opts.StrideW = o.StrideW()
	case OpDepthwiseConv2D:
		var o DepthwiseConv2DOptions
		o.Init(buf, offset)
		opts.FusedActivation = o.FusedActivationFunction()
		opts.Padding = o.Padding()
		opts.StrideH = o.StrideH()
		opts.StrideW = o.StrideW()
	case OpAveragePool2D:
		var o Pool2DOptions
		o.Init(buf, offset)
		opts.FusedActivation = o.FusedActivationFunction()
		opts.Padding = o.Padding()
		opts.StrideH = o.StrideH()
		opts.StrideW = o.StrideW()
		opts.FilterH = o.FilterHeight()
		opts.FilterW = o.FilterWidth()
	}
	return opts
}

// safeGetRootAsModel recovers from the panics the flatbuffers Table API
// raises on truncated or corrupt input, turning them into ordinary errors.
func safeGetRootAsModel(data []byte) (m *Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed FlatBuffer: %v", r)
		}
	}()
	if binary.LittleEndian.Uint32(data[:4]) == 0 {
		return nil, fmt.Errorf("malformed FlatBuffer: zero root offset")
	}
	return GetRootAsModel(data, 0), nil
}

// DecodeInt8 reinterprets raw bytes as a []int8 weight/activation buffer.
func DecodeInt8(raw []byte) []int8 {
	out := make([]int8, len(raw))
	for i, b := range raw {
		out[i] = int8(b)
	}
	return out
}

// DecodeUint8 reinterprets raw bytes as a []uint8 weight/activation buffer.
func DecodeUint8(raw []byte) []uint8 {
	out := make([]uint8, len(raw))
	copy(out, raw)
	return out
}

// DecodeInt32LE reinterprets raw little-endian bytes as a []int32, the
// format §6 specifies for bias tensors.
func DecodeInt32LE(raw []byte) []int32 {
	out := make([]int32, len(raw)/4)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(raw[i*4 : i*4+4]))
	}
	return out
}

// DecodeFloat32LE reinterprets raw little-endian bytes as a []float32,
// matching §6's "tensor data bytes are little-endian, packed densely".
func DecodeFloat32LE(raw []byte) []float32 {
	out := make([]float32, len(raw)/4)
	for i := range out {
		bits := binary.LittleEndian.Uint32(raw[i*4 : i*4+4])
		out[i] = math.Float32frombits(bits)
	}
	return out
}
