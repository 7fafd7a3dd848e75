// Package compiler implements the build-time model compiler described in
// §4.10: it reads a TFLite FlatBuffer, folds every supported operator's
// quantization math into literal Go constants, and emits a ready-to-embed
// Go source file exposing Predict and PredictQuantized for the annotated
// model type. It never runs as part of generated inference code.
package compiler

import (
	"fmt"

	"github.com/itohio/microflow/internal/tflite"
)

// ElementKind is the graph's single element type, resolved from its input
// tensor per §4.10 step 4. The compiler rejects models whose input is
// anything other than INT8 or UINT8.
type ElementKind int

const (
	ElementInt8 ElementKind = iota
	ElementUint8
)

func (k ElementKind) String() string {
	if k == ElementUint8 {
		return "uint8"
	}
	return "int8"
}

func elementKindOf(t tflite.TensorType) (ElementKind, error) {
	switch t {
	case tflite.TensorInt8:
		return ElementInt8, nil
	case tflite.TensorUInt8:
		return ElementUint8, nil
	default:
		return 0, fmt.Errorf("unsupported tensor type %s (only INT8 and UINT8 graph inputs are supported)", t)
	}
}

// Shape is a graph tensor's promoted shape: §4.10 step 4 promotes 1-D
// shapes to 1xN and keeps 2-D/4-D as-is; any other rank is rejected before
// an IR is even built.
type Shape struct {
	Batches, Rows, Cols, Channels int
	Is4D                          bool
}

func (s Shape) Size() int {
	if s.Is4D {
		return s.Batches * s.Rows * s.Cols * s.Channels
	}
	return s.Batches * s.Rows
}

func promoteShape(dims []int32) (Shape, error) {
	switch len(dims) {
	case 1:
		return Shape{Batches: 1, Rows: int(dims[0])}, nil
	case 2:
		return Shape{Batches: int(dims[0]), Rows: int(dims[1])}, nil
	case 4:
		return Shape{
			Batches: int(dims[0]), Rows: int(dims[1]), Cols: int(dims[2]), Channels: int(dims[3]),
			Is4D: true,
		}, nil
	default:
		return Shape{}, fmt.Errorf("unsupported tensor rank %d (only rank 1, 2, and 4 are supported)", len(dims))
	}
}

// TensorRef is an IR-level view of a decoded tensor plus its materialized
// raw bytes, carried alongside so operator folding never has to re-walk
// the buffer table.
type TensorRef struct {
	tflite.DecodedTensor
	Shape Shape
	Raw   []byte
}

// Node is one resolved operator in declared order, with its tensor
// operands already looked up from the graph's tensor table.
type Node struct {
	Opcode  tflite.BuiltinOperator
	Inputs  []TensorRef
	Output  TensorRef
	Options tflite.OperatorOptions
}

// Graph is the fully resolved IR the emitter walks: the element kind, the
// promoted input/output shapes, and the operator sequence.
type Graph struct {
	Element ElementKind
	Input   TensorRef
	Output  TensorRef
	Nodes   []Node
}

// Build resolves a DecodedModel into a Graph, applying §4.10 steps 3-7:
// selecting the single graph input/output, checking element type and rank,
// and resolving every operator's tensor operands.
func Build(model *tflite.DecodedModel) (*Graph, error) {
	if len(model.Inputs) != 1 {
		return nil, fmt.Errorf("unsupported graph: expected exactly 1 input, got %d", len(model.Inputs))
	}
	if len(model.Outputs) != 1 {
		return nil, fmt.Errorf("unsupported graph: expected exactly 1 output, got %d", len(model.Outputs))
	}

	inputRef, err := resolveTensor(model, int(model.Inputs[0]))
	if err != nil {
		return nil, fmt.Errorf("graph input: %w", err)
	}
	element, err := elementKindOf(inputRef.Type)
	if err != nil {
		return nil, fmt.Errorf("graph input: %w", err)
	}

	outputRef, err := resolveTensor(model, int(model.Outputs[0]))
	if err != nil {
		return nil, fmt.Errorf("graph output: %w", err)
	}

	g := &Graph{Element: element, Input: inputRef, Output: outputRef}

	for i, op := range model.Operators {
		switch op.Opcode {
		case tflite.OpFullyConnected, tflite.OpConv2D, tflite.OpDepthwiseConv2D,
			tflite.OpAveragePool2D, tflite.OpSoftmax, tflite.OpReshape:
		default:
			return nil, fmt.Errorf("operator %d: unsupported opcode %s", i, op.Opcode)
		}
		switch op.Options.FusedActivation {
		case tflite.ActivationNone, tflite.ActivationRelu, tflite.ActivationRelu6:
		default:
			return nil, fmt.Errorf("operator %d (%s): unsupported fused activation %d", i, op.Opcode, op.Options.FusedActivation)
		}

		node := Node{Opcode: op.Opcode, Options: op.Options}
		for _, in := range op.Inputs {
			ref, err := resolveTensor(model, int(in))
			if err != nil {
				return nil, fmt.Errorf("operator %d (%s): %w", i, op.Opcode, err)
			}
			node.Inputs = append(node.Inputs, ref)
		}
		if len(op.Outputs) != 1 {
			return nil, fmt.Errorf("operator %d (%s): expected exactly 1 output, got %d", i, op.Opcode, len(op.Outputs))
		}
		out, err := resolveTensor(model, int(op.Outputs[0]))
		if err != nil {
			return nil, fmt.Errorf("operator %d (%s): %w", i, op.Opcode, err)
		}
		node.Output = out

		for _, ref := range append([]TensorRef{out}, node.Inputs...) {
			if (ref.Type == tflite.TensorInt8 || ref.Type == tflite.TensorUInt8) && ref.Type != inputRef.Type {
				return nil, fmt.Errorf("operator %d (%s): tensor %q is %s but the graph input is %s (mixed element types)", i, op.Opcode, ref.Name, ref.Type, inputRef.Type)
			}
		}

		g.Nodes = append(g.Nodes, node)
	}

	return g, nil
}

func resolveTensor(model *tflite.DecodedModel, index int) (TensorRef, error) {
	if index < 0 || index >= len(model.Tensors) {
		return TensorRef{}, fmt.Errorf("tensor index %d out of range", index)
	}
	t := model.Tensors[index]
	shape, err := promoteShape(t.Shape)
	if err != nil {
		return TensorRef{}, fmt.Errorf("tensor %q: %w", t.Name, err)
	}

	var raw []byte
	if int(t.BufferIndex) < len(model.Buffers) {
		raw = model.Buffers[t.BufferIndex]
	}

	return TensorRef{DecodedTensor: t, Shape: shape, Raw: raw}, nil
}
