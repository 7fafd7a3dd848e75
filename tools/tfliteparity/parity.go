//go:build tfliteparity

// Package tfliteparity is a development-time aid, not part of production
// inference: it loads a .tflite model through the real TensorFlow Lite
// interpreter via mattn/go-tflite and diffs its output against a
// microflow-generated model's PredictQuantized for a batch of random
// inputs, catching folding or quantization regressions before they reach
// a target board.
//
// It is a library rather than a standalone CLI because comparing against
// "the generated model" requires importing that model's concrete
// package, and there is no way for a generic binary to load an arbitrary
// compiled-in Predict method by flag. Projects wire it up with one thin
// main package per model; see cmd/sineparity for the pattern.
package tfliteparity

import (
	"fmt"
	"math/rand"

	tflite "github.com/mattn/go-tflite"

	"github.com/itohio/microflow/pkg/logger"
)

// PredictQuantizedFunc matches the PredictQuantized method microflowgen
// attaches to an INT8 model type. It is fixed to []int8 input; a UINT8
// model's PredictQuantized([]uint8) does not match it.
type PredictQuantizedFunc func(input []int8) []float32

// Report summarizes one Compare run.
type Report struct {
	Samples         int
	WorstDivergence float32
}

// Compare feeds samples random int8 input vectors to both the real
// TFLite interpreter loaded from modelPath and predict (the generated
// model's own PredictQuantized), dequantizing the interpreter's output
// with its own tensor's scale/zero-point so the two float32 vectors are
// directly comparable, and returns the worst per-element absolute
// divergence observed.
func Compare(modelPath string, predict PredictQuantizedFunc, samples int) (Report, error) {
	model := tflite.NewModelFromFile(modelPath)
	if model == nil {
		return Report{}, fmt.Errorf("tfliteparity: failed to load model %s", modelPath)
	}
	defer model.Delete()

	options := tflite.NewInterpreterOptions()
	defer options.Delete()

	interpreter := tflite.NewInterpreter(model, options)
	defer interpreter.Delete()

	if status := interpreter.AllocateTensors(); status != tflite.OK {
		return Report{}, fmt.Errorf("tfliteparity: failed to allocate tensors")
	}

	input := interpreter.GetInputTensor(0)
	output := interpreter.GetOutputTensor(0)
	outQuant := output.QuantizationParams()

	report := Report{Samples: samples}

	for s := 0; s < samples; s++ {
		in := fillRandomInt8(input)

		if status := interpreter.Invoke(); status != tflite.OK {
			return Report{}, fmt.Errorf("tfliteparity: interpreter invoke failed on sample %d", s)
		}

		reference := dequantizeInt8(output.Int8s(), outQuant.Scale, outQuant.ZeroPoint)
		got := predict(in)

		divergence := maxAbsDiff(reference, got)
		if divergence > report.WorstDivergence {
			report.WorstDivergence = divergence
		}
		logger.Log.Debug().Int("sample", s).Float32("divergence", divergence).Msg("compared sample")
	}

	return report, nil
}

func fillRandomInt8(t *tflite.Tensor) []int8 {
	data := t.Int8s()
	for i := range data {
		data[i] = int8(rand.Intn(256) - 128)
	}
	out := make([]int8, len(data))
	copy(out, data)
	return out
}

func dequantizeInt8(values []int8, scale float32, zeroPoint int32) []float32 {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = scale * float32(int32(v)-zeroPoint)
	}
	return out
}

func maxAbsDiff(a, b []float32) float32 {
	var worst float32
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		if d > worst {
			worst = d
		}
	}
	return worst
}
