package compiler

import "fmt"

// decodeWeights reinterprets a raw INT8 weight/filter buffer as
// sign-extended 32-bit values; decodeWeightsUnsigned reads UINT8 weights as
// their raw 0..255 value, and weightValues picks between the two. The
// zero-point correction in the fold formulas (§4.4-§4.6) expects "the stored
// integer", not a pre-centered one, for either element kind.
func decodeWeights(raw []byte) []int32 {
	out := make([]int32, len(raw))
	for i, b := range raw {
		out[i] = int32(int8(b))
	}
	return out
}

func decodeWeightsUnsigned(raw []byte) []int32 {
	out := make([]int32, len(raw))
	for i, b := range raw {
		out[i] = int32(b)
	}
	return out
}

func weightValues(ref TensorRef, kind ElementKind) []int32 {
	if kind == ElementUint8 {
		return decodeWeightsUnsigned(ref.Raw)
	}
	return decodeWeights(ref.Raw)
}

func decodeBiases(raw []byte) []int32 {
	out := make([]int32, len(raw)/4)
	for i := range out {
		var v uint32
		for b := 0; b < 4; b++ {
			v |= uint32(raw[i*4+b]) << (8 * b)
		}
		out[i] = int32(v)
	}
	return out
}

func requireScalarQuant(ref TensorRef, label string) (float32, int64, error) {
	if ref.Quantization.Len() == 0 {
		return 0, 0, fmt.Errorf("%s: missing quantization parameters", label)
	}
	return ref.Quantization.Scale[0], ref.Quantization.ZeroPoint[0], nil
}

// FullyConnectedConstants are the four build-time-folded values §4.4 names.
type FullyConnectedConstants struct {
	C0 []float32
	C1 float32
	C2 []int32
	C3 int32
}

// FoldFullyConnected computes FullyConnectedConstants from the layer's
// input, weights, and bias tensors, following the formula in §4.4 exactly
// (also cross-checked against the reference implementation's preprocess
// step, which folds the same four quantities).
func FoldFullyConnected(input, weights, bias, output TensorRef, kind ElementKind) (FullyConnectedConstants, error) {
	inScale, inZP, err := requireScalarQuant(input, "fully_connected input")
	if err != nil {
		return FullyConnectedConstants{}, err
	}
	wScale, wZP, err := requireScalarQuant(weights, "fully_connected weights")
	if err != nil {
		return FullyConnectedConstants{}, err
	}
	outScale, _, err := requireScalarQuant(output, "fully_connected output")
	if err != nil {
		return FullyConnectedConstants{}, err
	}

	// The weight tensor's stored shape is [out, cols] (one row of cols
	// input weights per output unit); the runtime kernel wants it
	// transposed to (cols x out), but the fold math below reads it in its
	// native row-major layout.
	out, cols := weights.Shape.Batches, weights.Shape.Rows
	w := weightValues(weights, kind)
	biasVals := decodeBiases(bias.Raw)
	biasScale, biasZP, err := requireScalarQuant(bias, "fully_connected bias")
	if err != nil {
		return FullyConnectedConstants{}, err
	}

	c0 := make([]float32, out)
	c2 := make([]int32, out)
	for j := 0; j < out; j++ {
		c0[j] = (biasScale / outScale) * float32(biasVals[j]-int32(biasZP))

		colSum := int32(0)
		for k := 0; k < cols; k++ {
			colSum += w[j*cols+k]
		}
		c2[j] = int32(inZP) * colSum
	}

	return FullyConnectedConstants{
		C0: c0,
		C1: (inScale * wScale) / outScale,
		C2: c2,
		C3: int32(cols) * int32(inZP) * int32(wZP),
	}, nil
}

// DepthwiseConv2DConstants are the two per-channel folded values §4.5 names.
type DepthwiseConv2DConstants struct {
	C0 []float32
	C1 []float32
}

// FoldDepthwiseConv2D computes the per-channel C0/C1 constants §4.5 folds
// at build time; C2/C3 are left to the kernel since they depend on the
// per-position padding mask.
func FoldDepthwiseConv2D(input, filter, bias, output TensorRef) (DepthwiseConv2DConstants, error) {
	return foldPerChannel(input, filter, bias, output, filter.Shape.Channels)
}

// Conv2DConstants are the two per-filter folded values §4.6 names (the
// same shape as DepthwiseConv2D's, indexed by output filter instead of
// input channel).
type Conv2DConstants struct {
	C0 []float32
	C1 []float32
}

// FoldConv2D computes the per-filter C0/C1 constants §4.6 folds at build
// time.
func FoldConv2D(input, filter, bias, output TensorRef) (Conv2DConstants, error) {
	c, err := foldPerChannel(input, filter, bias, output, filter.Shape.Batches)
	return Conv2DConstants(c), err
}

func foldPerChannel(input, filter, bias, output TensorRef, channels int) (DepthwiseConv2DConstants, error) {
	inScale, _, err := requireScalarQuant(input, "conv input")
	if err != nil {
		return DepthwiseConv2DConstants{}, err
	}
	outScale, _, err := requireScalarQuant(output, "conv output")
	if err != nil {
		return DepthwiseConv2DConstants{}, err
	}
	biasVals := decodeBiases(bias.Raw)

	c0 := make([]float32, channels)
	c1 := make([]float32, channels)
	for c := 0; c < channels; c++ {
		filterScale, biasScale, biasZP, err := perChannelQuant(filter, bias, c, channels)
		if err != nil {
			return DepthwiseConv2DConstants{}, err
		}
		c0[c] = (biasScale / outScale) * float32(biasVals[c]-int32(biasZP))
		c1[c] = (inScale * filterScale) / outScale
	}

	return DepthwiseConv2DConstants{C0: c0, C1: c1}, nil
}

func perChannelQuant(filter, bias TensorRef, c, channels int) (filterScale, biasScale float32, biasZP int64, err error) {
	if filter.Quantization.Len() == 0 || bias.Quantization.Len() == 0 {
		return 0, 0, 0, fmt.Errorf("conv filter/bias: missing quantization parameters")
	}

	idx := c
	if filter.Quantization.Len() == 1 {
		idx = 0
	}
	filterScale = filter.Quantization.Scale[idx]

	idx = c
	if bias.Quantization.Len() == 1 {
		idx = 0
	}
	biasScale = bias.Quantization.Scale[idx]
	biasZP = bias.Quantization.ZeroPoint[idx]
	return filterScale, biasScale, biasZP, nil
}

// AveragePool2DConstants are the two folded values §4.7 names.
type AveragePool2DConstants struct {
	C0 float32
	C1 float32
}

// FoldAveragePool2D computes §4.7's two folded constants from the pool's
// input and output quantization; AveragePool2D has no weights.
func FoldAveragePool2D(input, output TensorRef) (AveragePool2DConstants, error) {
	inScale, inZP, err := requireScalarQuant(input, "average_pool input")
	if err != nil {
		return AveragePool2DConstants{}, err
	}
	outScale, outZP, err := requireScalarQuant(output, "average_pool output")
	if err != nil {
		return AveragePool2DConstants{}, err
	}

	c0 := inScale / outScale
	c1 := float32(outZP) - (inScale*float32(inZP))/outScale
	return AveragePool2DConstants{C0: c0, C1: c1}, nil
}
