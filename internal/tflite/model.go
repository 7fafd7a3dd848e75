package tflite

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// Model is the root table: Model { version, operator_codes, subgraphs,
// description, buffers, ... }.
type Model struct {
	_tab flatbuffers.Table
}

func GetRootAsModel(buf []byte, offset flatbuffers.UOffsetT) *Model {
	n := flatbuffers.GetUOffsetT(buf[offset:])
	x := &Model{}
	x.Init(buf, n+offset)
	return x
}

func (rcv *Model) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *Model) Table() flatbuffers.Table { return rcv._tab }

func (rcv *Model) OperatorCodesLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o == 0 {
		return 0
	}
	return rcv._tab.VectorLen(o)
}

func (rcv *Model) OperatorCodes(obj *OperatorCode, j int) bool {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o == 0 {
		return false
	}
	x := rcv._tab.Vector(o)
	x += flatbuffers.UOffsetT(j) * 4
	x = rcv._tab.Indirect(x)
	obj.Init(rcv._tab.Bytes, x)
	return true
}

func (rcv *Model) SubgraphsLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o == 0 {
		return 0
	}
	return rcv._tab.VectorLen(o)
}

func (rcv *Model) Subgraphs(obj *SubGraph, j int) bool {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o == 0 {
		return false
	}
	x := rcv._tab.Vector(o)
	x += flatbuffers.UOffsetT(j) * 4
	x = rcv._tab.Indirect(x)
	obj.Init(rcv._tab.Bytes, x)
	return true
}

func (rcv *Model) BuffersLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(12))
	if o == 0 {
		return 0
	}
	return rcv._tab.VectorLen(o)
}

func (rcv *Model) Buffers(obj *Buffer, j int) bool {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(12))
	if o == 0 {
		return false
	}
	x := rcv._tab.Vector(o)
	x += flatbuffers.UOffsetT(j) * 4
	x = rcv._tab.Indirect(x)
	obj.Init(rcv._tab.Bytes, x)
	return true
}

// OperatorCode { deprecated_builtin_code, custom_code, version, builtin_code }.
// microflow reads only deprecated_builtin_code, per §6's explicit choice of
// the deprecated field as the canonical opcode source (newer models still
// populate it for backward compatibility; builtin_code only matters past
// opcode 127, which none of the supported operators reach).
type OperatorCode struct {
	_tab flatbuffers.Table
}

func (rcv *OperatorCode) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *OperatorCode) DeprecatedBuiltinCode() int8 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.GetInt8(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *OperatorCode) BuiltinCode() BuiltinOperator {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(10))
	if o != 0 {
		return BuiltinOperator(rcv._tab.GetInt32(o + rcv._tab.Pos))
	}
	return 0
}

// SubGraph { tensors, inputs, outputs, operators, name }.
type SubGraph struct {
	_tab flatbuffers.Table
}

func (rcv *SubGraph) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *SubGraph) TensorsLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o == 0 {
		return 0
	}
	return rcv._tab.VectorLen(o)
}

func (rcv *SubGraph) Tensors(obj *Tensor, j int) bool {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o == 0 {
		return false
	}
	x := rcv._tab.Vector(o)
	x += flatbuffers.UOffsetT(j) * 4
	x = rcv._tab.Indirect(x)
	obj.Init(rcv._tab.Bytes, x)
	return true
}

func (rcv *SubGraph) InputsLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o == 0 {
		return 0
	}
	return rcv._tab.VectorLen(o)
}

func (rcv *SubGraph) Inputs(j int) int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o == 0 {
		return 0
	}
	x := rcv._tab.Vector(o)
	return rcv._tab.GetInt32(x + flatbuffers.UOffsetT(j)*4)
}

func (rcv *SubGraph) OutputsLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o == 0 {
		return 0
	}
	return rcv._tab.VectorLen(o)
}

func (rcv *SubGraph) Outputs(j int) int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o == 0 {
		return 0
	}
	x := rcv._tab.Vector(o)
	return rcv._tab.GetInt32(x + flatbuffers.UOffsetT(j)*4)
}

func (rcv *SubGraph) OperatorsLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(10))
	if o == 0 {
		return 0
	}
	return rcv._tab.VectorLen(o)
}

func (rcv *SubGraph) Operators(obj *Operator, j int) bool {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(10))
	if o == 0 {
		return false
	}
	x := rcv._tab.Vector(o)
	x += flatbuffers.UOffsetT(j) * 4
	x = rcv._tab.Indirect(x)
	obj.Init(rcv._tab.Bytes, x)
	return true
}

// Operator { opcode_index, inputs, outputs, builtin_options_type, builtin_options, ... }.
type Operator struct {
	_tab flatbuffers.Table
}

func (rcv *Operator) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *Operator) OpcodeIndex() uint32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.GetUint32(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *Operator) InputsLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o == 0 {
		return 0
	}
	return rcv._tab.VectorLen(o)
}

func (rcv *Operator) Inputs(j int) int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o == 0 {
		return 0
	}
	x := rcv._tab.Vector(o)
	return rcv._tab.GetInt32(x + flatbuffers.UOffsetT(j)*4)
}

func (rcv *Operator) OutputsLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o == 0 {
		return 0
	}
	return rcv._tab.VectorLen(o)
}

func (rcv *Operator) Outputs(j int) int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o == 0 {
		return 0
	}
	x := rcv._tab.Vector(o)
	return rcv._tab.GetInt32(x + flatbuffers.UOffsetT(j)*4)
}

// BuiltinOptions returns the raw table offset of the operator's options
// union payload, or 0 if absent. Callers reinterpret it with the options
// struct matching the opcode they already resolved via OperatorCode.
func (rcv *Operator) BuiltinOptions() flatbuffers.UOffsetT {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(12))
	if o == 0 {
		return 0
	}
	return rcv._tab.Indirect(o + rcv._tab.Pos)
}

// Tensor { shape, type, buffer, name, quantization, ... }.
type Tensor struct {
	_tab flatbuffers.Table
}

func (rcv *Tensor) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *Tensor) ShapeLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o == 0 {
		return 0
	}
	return rcv._tab.VectorLen(o)
}

func (rcv *Tensor) Shape(j int) int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o == 0 {
		return 0
	}
	x := rcv._tab.Vector(o)
	return rcv._tab.GetInt32(x + flatbuffers.UOffsetT(j)*4)
}

func (rcv *Tensor) Type() TensorType {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return TensorType(rcv._tab.GetInt8(o + rcv._tab.Pos))
	}
	return TensorFloat32
}

func (rcv *Tensor) Buffer() uint32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		return rcv._tab.GetUint32(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *Tensor) Name() string {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(10))
	if o != 0 {
		return string(rcv._tab.String(o + rcv._tab.Pos))
	}
	return ""
}

func (rcv *Tensor) Quantization(obj *QuantizationParameters) *QuantizationParameters {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(12))
	if o == 0 {
		return nil
	}
	x := rcv._tab.Indirect(o + rcv._tab.Pos)
	if obj == nil {
		obj = &QuantizationParameters{}
	}
	obj.Init(rcv._tab.Bytes, x)
	return obj
}

// QuantizationParameters { min, max, scale, zero_point, ..., quantized_dimension }.
type QuantizationParameters struct {
	_tab flatbuffers.Table
}

func (rcv *QuantizationParameters) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *QuantizationParameters) ScaleLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o == 0 {
		return 0
	}
	return rcv._tab.VectorLen(o)
}

func (rcv *QuantizationParameters) Scale(j int) float32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o == 0 {
		return 0
	}
	x := rcv._tab.Vector(o)
	return rcv._tab.GetFloat32(x + flatbuffers.UOffsetT(j)*4)
}

func (rcv *QuantizationParameters) ZeroPointLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(10))
	if o == 0 {
		return 0
	}
	return rcv._tab.VectorLen(o)
}

func (rcv *QuantizationParameters) ZeroPoint(j int) int64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(10))
	if o == 0 {
		return 0
	}
	x := rcv._tab.Vector(o)
	return rcv._tab.GetInt64(x + flatbuffers.UOffsetT(j)*8)
}

func (rcv *QuantizationParameters) QuantizedDimension() int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(16))
	if o != 0 {
		return rcv._tab.GetInt32(o + rcv._tab.Pos)
	}
	return 0
}

// Buffer { data: [ubyte] }.
type Buffer struct {
	_tab flatbuffers.Table
}

func (rcv *Buffer) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *Buffer) DataLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o == 0 {
		return 0
	}
	return rcv._tab.VectorLen(o)
}

func (rcv *Buffer) DataBytes() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o == 0 {
		return nil
	}
	return rcv._tab.ByteVector(o + rcv._tab.Pos)
}
