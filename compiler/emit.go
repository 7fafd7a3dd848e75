package compiler

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/itohio/microflow/internal/tflite"
)

const (
	opFullyConnected  = tflite.OpFullyConnected
	opConv2D          = tflite.OpConv2D
	opDepthwiseConv2D = tflite.OpDepthwiseConv2D
	opAveragePool2D   = tflite.OpAveragePool2D
	opSoftmax         = tflite.OpSoftmax
	opReshape         = tflite.OpReshape
)

const sourceTemplate = `// Code generated by microflowgen. DO NOT EDIT.

package {{.Package}}

import (
	"github.com/itohio/microflow/activation"
	"github.com/itohio/microflow/ops"
	"github.com/itohio/microflow/tensor"
)

{{.Constants}}

// Predict quantizes input, runs the generated inference chain, and
// dequantizes the result to float32.
func (m *{{.TypeName}}) Predict(input []float32) []float32 {
{{.PredictBody}}
}

// PredictQuantized runs the generated inference chain directly on
// pre-quantized input, skipping the initial quantization step.
func (m *{{.TypeName}}) PredictQuantized(input []{{.ElementType}}) []float32 {
{{.PredictQuantizedBody}}
}
`

// emitter accumulates the weight/constant declarations and the body
// statements for a single graph as it walks nodes in order.
type emitter struct {
	graph      *Graph
	typeName   string
	packageName string
	capacity   int

	decls []string
	stmts []string
	n     int
}

func newEmitter(g *Graph, typeName, packageName string, capacity int) *emitter {
	return &emitter{graph: g, typeName: typeName, packageName: packageName, capacity: capacity}
}

func (e *emitter) fresh() string {
	e.n++
	return fmt.Sprintf("v%d", e.n)
}

func (e *emitter) activationExpr(fused int8) string {
	switch fused {
	case 1:
		return "activation.Relu"
	case 3:
		return "activation.Relu6"
	default:
		return "activation.None"
	}
}

func (e *emitter) paddingExpr(valid int8) string {
	if valid == 1 {
		return "tensor.Valid"
	}
	return "tensor.Same"
}

// Emit walks the graph's nodes and produces the complete generated source.
func Emit(g *Graph, typeName, packageName string, capacity int) (string, error) {
	e := newEmitter(g, typeName, packageName, capacity)

	cur := "in"
	if err := e.emitEntry(cur); err != nil {
		return "", err
	}

	for i, node := range g.Nodes {
		next, err := e.emitNode(i, node, cur)
		if err != nil {
			return "", fmt.Errorf("operator %d: %w", i, err)
		}
		cur = next
	}

	e.stmts = append(e.stmts, fmt.Sprintf("return %s.Dequantize()", cur))

	tmpl, err := template.New("model").Parse(sourceTemplate)
	if err != nil {
		return "", err
	}

	inScale, inZP, err := requireScalarQuant(g.Input, "graph input")
	if err != nil {
		return "", err
	}

	data := struct {
		Package              string
		TypeName             string
		ElementType           string
		Constants            string
		PredictBody          string
		PredictQuantizedBody string
	}{
		Package:    packageName,
		TypeName:   typeName,
		ElementType: g.Element.String(),
		Constants:  strings.Join(e.decls, "\n\n"),
		PredictQuantizedBody: indent(strings.Join(e.stmts, "\n")),
		PredictBody: indent(fmt.Sprintf(
			"q := tensor.QuantizeTensor%s(input, %s, %g, %s(%d))\nreturn m.PredictQuantized(q.Buffer.Data())",
			shapeSuffix(g.Input.Shape), shapeDims(g.Input.Shape), inScale, g.Element, inZP,
		)),
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func indent(body string) string {
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		lines[i] = "\t" + l
	}
	return strings.Join(lines, "\n")
}

func shapeSuffix(s Shape) string {
	if s.Is4D {
		return "4D"
	}
	return "2D"
}

func shapeDims(s Shape) string {
	if s.Is4D {
		return fmt.Sprintf("%d, %d, %d, %d", s.Batches, s.Rows, s.Cols, s.Channels)
	}
	return fmt.Sprintf("%d, %d", s.Batches, s.Rows)
}

// emitEntry declares the "in" tensor binding PredictQuantized's raw input
// slice to the graph's input shape and quantization.
func (e *emitter) emitEntry(name string) error {
	scale, zp, err := requireScalarQuant(e.graph.Input, "graph input")
	if err != nil {
		return err
	}
	shape := e.graph.Input.Shape
	if shape.Is4D {
		e.stmts = append(e.stmts, fmt.Sprintf(
			"%s := tensor.NewTensor4D(tensor.Buffer4DFrom[%s](%d, %d, %d, %d, input), []float32{%g}, []%s{%d})",
			name, e.graph.Element, shape.Batches, shape.Rows, shape.Cols, shape.Channels, scale, e.graph.Element, zp,
		))
	} else {
		e.stmts = append(e.stmts, fmt.Sprintf(
			"%s := tensor.NewTensor2D(tensor.Buffer2DFrom[%s](%d, %d, input), []float32{%g}, []%s{%d})",
			name, e.graph.Element, shape.Batches, shape.Rows, scale, e.graph.Element, zp,
		))
	}
	return nil
}

func (e *emitter) emitNode(index int, node Node, cur string) (string, error) {
	switch node.Opcode {
	case opFullyConnected:
		return e.emitFullyConnected(index, node, cur)
	case opConv2D:
		return e.emitConv2D(index, node, cur)
	case opDepthwiseConv2D:
		return e.emitDepthwiseConv2D(index, node, cur)
	case opAveragePool2D:
		return e.emitAveragePool2D(index, node, cur)
	case opSoftmax:
		return e.emitSoftmax(index, node, cur)
	case opReshape:
		return e.emitReshape(index, node, cur)
	default:
		return "", fmt.Errorf("unsupported opcode %d", node.Opcode)
	}
}

func (e *emitter) emitFullyConnected(index int, node Node, cur string) (string, error) {
	input, weights, bias := node.Inputs[0], node.Inputs[1], node.Inputs[2]
	constants, err := FoldFullyConnected(input, weights, bias, node.Output, e.graph.Element)
	if err != nil {
		return "", err
	}

	out, cols := weights.Shape.Batches, weights.Shape.Rows
	raw := weightValues(weights, e.graph.Element)
	transposed := transpose2D(raw, out, cols)
	wScale, wZP, err := requireScalarQuant(weights, "fully_connected weights")
	if err != nil {
		return "", err
	}

	outScale, outZP, err := requireScalarQuant(node.Output, "fully_connected output")
	if err != nil {
		return "", err
	}
	act := e.activationExpr(int8(node.Options.FusedActivation))

	// §4.4: paging triggers when the (cols x out) weight matrix has more
	// rows than the capacity limit, i.e. cols (the input dimension), not
	// out (the output dimension). Confirmed against
	// original_source/microflow-macros/src/ops/fully_connected.rs's own
	// `self.capacity.unwrap() < weights.buffer.nrows()` check.
	if e.capacity > 0 && cols > e.capacity {
		return e.emitFullyConnectedPaged(index, cur, transposed, cols, out, wScale, wZP, constants, outScale, outZP, act)
	}

	wSym := weightSymbol("fc_w", weights.Raw, index)
	e.decls = append(e.decls, fmt.Sprintf(
		"var %s = tensor.NewTensor2D(tensor.Buffer2DFrom[%s](%d, %d, %s), []float32{%g}, []%s{%d})",
		wSym, e.graph.Element, cols, out, formatWeightSlice(transposed, e.graph.Element), wScale, e.graph.Element, wZP,
	))

	next := e.fresh()
	e.stmts = append(e.stmts, fmt.Sprintf(
		"%s := ops.FullyConnected(%s, %s, ops.FullyConnectedConstants{C0: %s, C1: %g, C2: %s, C3: %d}, %g, %s(%d), %s)",
		next, cur, wSym, formatFloat32Slice(constants.C0), constants.C1, formatInt32Slice(constants.C2), constants.C3,
		outScale, e.graph.Element, outZP, act,
	))
	return next, nil
}

// emitFullyConnectedPaged splits a weight matrix whose row count (cols, the
// input dimension) exceeds the configured capacity into column chunks of at
// most capacity output units each, per §4.4's "capacity" knob, and emits a
// call to ops.FullyConnectedPaged over them.
func (e *emitter) emitFullyConnectedPaged(
	index int, cur string, transposed []int32, cols, out int,
	wScale float32, wZP int64, constants FullyConnectedConstants,
	outScale float32, outZP int64, act string,
) (string, error) {
	var colSyms, constSyms []string
	for start := 0; start < out; start += e.capacity {
		end := start + e.capacity
		if end > out {
			end = out
		}
		width := end - start

		chunk := make([]int32, cols*width)
		for k := 0; k < cols; k++ {
			copy(chunk[k*width:(k+1)*width], transposed[k*out+start:k*out+end])
		}

		sym := weightSymbol(fmt.Sprintf("fc_w%d", start), chunkBytes(chunk), index)
		e.decls = append(e.decls, fmt.Sprintf(
			"var %s = tensor.NewTensor2D(tensor.Buffer2DFrom[%s](%d, %d, %s), []float32{%g}, []%s{%d})",
			sym, e.graph.Element, cols, width, formatWeightSlice(chunk, e.graph.Element), wScale, e.graph.Element, wZP,
		))
		colSyms = append(colSyms, sym)
		constSyms = append(constSyms, fmt.Sprintf(
			"{C0: %s, C1: %g, C2: %s, C3: %d}",
			formatFloat32Slice(constants.C0[start:end]), constants.C1, formatInt32Slice(constants.C2[start:end]), constants.C3,
		))
	}

	next := e.fresh()
	e.stmts = append(e.stmts, fmt.Sprintf(
		"%s := ops.FullyConnectedPaged(%s, []tensor.Tensor2D[%s]{%s}, []ops.FullyConnectedConstants{%s}, %g, %s(%d), %s)",
		next, cur, e.graph.Element, strings.Join(colSyms, ", "), strings.Join(constSyms, ", "),
		outScale, e.graph.Element, outZP, act,
	))
	return next, nil
}

// chunkBytes gives weightSymbol distinct content to hash per paging chunk;
// the chunk's own int32 values are already unique to that slice of the
// weight matrix.
func chunkBytes(chunk []int32) []byte {
	b := make([]byte, len(chunk)*4)
	for i, v := range chunk {
		b[i*4] = byte(v)
		b[i*4+1] = byte(v >> 8)
		b[i*4+2] = byte(v >> 16)
		b[i*4+3] = byte(v >> 24)
	}
	return b
}

func (e *emitter) emitDepthwiseConv2D(index int, node Node, cur string) (string, error) {
	input, filter, bias := node.Inputs[0], node.Inputs[1], node.Inputs[2]
	constants, err := FoldDepthwiseConv2D(input, filter, bias, node.Output)
	if err != nil {
		return "", err
	}

	fSym, err := e.declareFilter(index, "dw_f", filter)
	if err != nil {
		return "", err
	}

	outScale, outZP, err := requireScalarQuant(node.Output, "depthwise_conv2d output")
	if err != nil {
		return "", err
	}
	act := e.activationExpr(int8(node.Options.FusedActivation))
	padding := e.paddingExpr(int8(node.Options.Padding))
	outShape := node.Output.Shape

	next := e.fresh()
	e.stmts = append(e.stmts, fmt.Sprintf(
		"%s := ops.DepthwiseConv2D(%s, %s, ops.DepthwiseConv2DConstants{C0: %s, C1: %s}, %d, %d, %g, %s(%d), %s, ops.ConvOptions{Padding: %s, StrideH: %d, StrideW: %d})",
		next, cur, fSym, formatFloat32Slice(constants.C0), formatFloat32Slice(constants.C1),
		outShape.Rows, outShape.Cols, outScale, e.graph.Element, outZP, act,
		padding, node.Options.StrideH, node.Options.StrideW,
	))
	return next, nil
}

func (e *emitter) emitConv2D(index int, node Node, cur string) (string, error) {
	input, filter, bias := node.Inputs[0], node.Inputs[1], node.Inputs[2]
	constants, err := FoldConv2D(input, filter, bias, node.Output)
	if err != nil {
		return "", err
	}

	fSym, err := e.declareFilter(index, "conv_f", filter)
	if err != nil {
		return "", err
	}

	outScale, outZP, err := requireScalarQuant(node.Output, "conv2d output")
	if err != nil {
		return "", err
	}
	act := e.activationExpr(int8(node.Options.FusedActivation))
	padding := e.paddingExpr(int8(node.Options.Padding))
	outShape := node.Output.Shape

	next := e.fresh()
	e.stmts = append(e.stmts, fmt.Sprintf(
		"%s := ops.Conv2D(%s, %s, ops.Conv2DConstants{C0: %s, C1: %s}, %d, %d, %g, %s(%d), %s, ops.ConvOptions{Padding: %s, StrideH: %d, StrideW: %d})",
		next, cur, fSym, formatFloat32Slice(constants.C0), formatFloat32Slice(constants.C1),
		outShape.Rows, outShape.Cols, outScale, e.graph.Element, outZP, act,
		padding, node.Options.StrideH, node.Options.StrideW,
	))
	return next, nil
}

// declareFilter emits a Tensor4D constant for a conv/depthwise filter
// tensor, preserving its per-channel (or per-tensor) quantization.
func (e *emitter) declareFilter(index int, prefix string, filter TensorRef) (string, error) {
	shape := filter.Shape
	raw := weightValues(filter, e.graph.Element)
	if filter.Quantization.Len() == 0 {
		return "", fmt.Errorf("%s: missing quantization parameters", prefix)
	}

	scales := formatFloat32Slice(filter.Quantization.Scale)
	zps := formatInt64AsSlice(filter.Quantization.ZeroPoint, e.graph.Element)

	sym := weightSymbol(prefix, filter.Raw, index)
	e.decls = append(e.decls, fmt.Sprintf(
		"var %s = tensor.NewTensor4D(tensor.Buffer4DFrom[%s](%d, %d, %d, %d, %s), %s, %s)",
		sym, e.graph.Element, shape.Batches, shape.Rows, shape.Cols, shape.Channels,
		formatWeightSlice(raw, e.graph.Element), scales, zps,
	))
	return sym, nil
}

func (e *emitter) emitAveragePool2D(index int, node Node, cur string) (string, error) {
	input := node.Inputs[0]
	constants, err := FoldAveragePool2D(input, node.Output)
	if err != nil {
		return "", err
	}

	outScale, outZP, err := requireScalarQuant(node.Output, "average_pool2d output")
	if err != nil {
		return "", err
	}
	act := e.activationExpr(int8(node.Options.FusedActivation))
	padding := e.paddingExpr(int8(node.Options.Padding))
	outShape := node.Output.Shape

	next := e.fresh()
	e.stmts = append(e.stmts, fmt.Sprintf(
		"%s := ops.AveragePool2D(%s, ops.AveragePool2DConstants{C0: %g, C1: %g}, %d, %d, %d, %d, %g, %s(%d), %s, ops.ConvOptions{Padding: %s, StrideH: %d, StrideW: %d})",
		next, cur, constants.C0, constants.C1,
		int(node.Options.FilterH), int(node.Options.FilterW),
		outShape.Rows, outShape.Cols, outScale, e.graph.Element, outZP, act,
		padding, node.Options.StrideH, node.Options.StrideW,
	))
	return next, nil
}

func (e *emitter) emitSoftmax(index int, node Node, cur string) (string, error) {
	outScale, outZP, err := requireScalarQuant(node.Output, "softmax output")
	if err != nil {
		return "", err
	}
	next := e.fresh()
	e.stmts = append(e.stmts, fmt.Sprintf(
		"%s := ops.Softmax(%s, %g, %s(%d))",
		next, cur, outScale, e.graph.Element, outZP,
	))
	return next, nil
}

func (e *emitter) emitReshape(index int, node Node, cur string) (string, error) {
	next := e.fresh()
	if node.Output.Shape.Is4D {
		s := node.Output.Shape
		e.stmts = append(e.stmts, fmt.Sprintf(
			"%s := ops.Reshape4DFrom2D(%s, %d, %d, %d, %d)",
			next, cur, s.Batches, s.Rows, s.Cols, s.Channels,
		))
	} else {
		e.stmts = append(e.stmts, fmt.Sprintf("%s := ops.Reshape2DFrom4D(%s)", next, cur))
	}
	return next, nil
}

func formatInt64AsSlice(values []int64, kind ElementKind) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("[]%s{%s}", kind, strings.Join(parts, ", "))
}
