// Package tflite is a hand-written, read-only subset of the TensorFlow
// Lite FlatBuffer schema: just enough of Model/SubGraph/Operator/Tensor/
// Buffer/QuantizationParameters and their per-operator options tables to
// drive the microflow compiler. It is not a full schema port; fields the
// compiler never reads are left out. Table accessors follow the shape the
// upstream flatc compiler itself generates (see the reference
// SequenceRNNOptions.go kept alongside the rest of the retrieved corpus)
// so the package reads like ordinary generated code.
package tflite

// TensorType mirrors the subset of the upstream TensorType enum microflow
// supports; any other value is a build-time error (§6).
type TensorType int8

const (
	TensorFloat32 TensorType = 0
	TensorInt32   TensorType = 2
	TensorUInt8   TensorType = 3
	TensorInt8    TensorType = 9
)

func (t TensorType) String() string {
	switch t {
	case TensorFloat32:
		return "FLOAT32"
	case TensorInt32:
		return "INT32"
	case TensorUInt8:
		return "UINT8"
	case TensorInt8:
		return "INT8"
	default:
		return "UNKNOWN"
	}
}

// BuiltinOperator mirrors the upstream enum values for the operators
// microflow's compiler supports (§6); every other opcode is unsupported.
type BuiltinOperator int32

const (
	OpAveragePool2D    BuiltinOperator = 1
	OpConv2D           BuiltinOperator = 3
	OpDepthwiseConv2D  BuiltinOperator = 4
	OpFullyConnected   BuiltinOperator = 9
	OpReshape          BuiltinOperator = 22
	OpSoftmax          BuiltinOperator = 25
)

func (op BuiltinOperator) String() string {
	switch op {
	case OpAveragePool2D:
		return "AVERAGE_POOL_2D"
	case OpConv2D:
		return "CONV_2D"
	case OpDepthwiseConv2D:
		return "DEPTHWISE_CONV_2D"
	case OpFullyConnected:
		return "FULLY_CONNECTED"
	case OpReshape:
		return "RESHAPE"
	case OpSoftmax:
		return "SOFTMAX"
	default:
		return "UNKNOWN"
	}
}

// ActivationFunctionType mirrors the upstream enum's NONE/RELU/RELU6
// members; anything else is a build-time error (§6).
type ActivationFunctionType int8

const (
	ActivationNone  ActivationFunctionType = 0
	ActivationRelu  ActivationFunctionType = 1
	ActivationRelu6 ActivationFunctionType = 3
)

// Padding mirrors the upstream enum's SAME/VALID members.
type Padding int8

const (
	PaddingSame  Padding = 0
	PaddingValid Padding = 1
)

// BuiltinOptionsType identifies which options table an Operator's
// builtin_options field points at. Values match the opcode that owns that
// options table, since microflow only ever decodes the options table for
// the operator it already identified via deprecated_builtin_code.
type BuiltinOptionsType int
