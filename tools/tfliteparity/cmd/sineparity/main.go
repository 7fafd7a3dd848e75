//go:build tfliteparity

// Command sineparity wires tfliteparity.Compare to the sine example's
// generated model, the concrete pattern every per-model parity checker
// follows: import the generated package, hand its PredictQuantized
// method to Compare, and report the worst divergence against the real
// TFLite interpreter.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/itohio/microflow/examples/sine"
	"github.com/itohio/microflow/tools/tfliteparity"
)

func main() {
	modelPath := flag.String("model", "testdata/sine.tflite", "path to the reference .tflite model")
	samples := flag.Int("samples", 100, "number of random input vectors to compare")
	tolerance := flag.Float64("tolerance", 0.05, "maximum allowed per-element float32 divergence")
	flag.Parse()

	m := &sine.SineModel{}
	report, err := tfliteparity.Compare(*modelPath, m.PredictQuantized, *samples)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("compared %d samples, worst divergence %.6f\n", report.Samples, report.WorstDivergence)
	if float64(report.WorstDivergence) > *tolerance {
		os.Exit(1)
	}
}
