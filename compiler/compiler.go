package compiler

import (
	"fmt"
	"os"

	"github.com/itohio/microflow/internal/tflite"
	"github.com/itohio/microflow/pkg/logger"
)

// Diagnostic is the error type every build-time failure mode in §7 is
// wrapped in: a missing file, an unparseable FlatBuffer, an unsupported
// operator or tensor type/rank, or an invalid capacity. Its Error message
// always names the offending value, per §7's requirement that diagnostics
// point at the cause.
type Diagnostic struct {
	Stage string
	Err   error
}

func (d *Diagnostic) Error() string { return fmt.Sprintf("microflow: %s: %v", d.Stage, d.Err) }
func (d *Diagnostic) Unwrap() error { return d.Err }

func diag(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &Diagnostic{Stage: stage, Err: err}
}

// Compile implements §4.10's eight steps: read the model file, parse its
// FlatBuffer root, resolve subgraph 0 into a Graph, and emit a Go source
// file attaching Predict/PredictQuantized to typeName.
func Compile(modelPath, typeName, packageName string, capacity int) (string, error) {
	if capacity < 0 {
		return "", diag("capacity", fmt.Errorf("invalid capacity %d: must be >= 0 (0 disables paging)", capacity))
	}
	if typeName == "" {
		return "", diag("type name", fmt.Errorf("annotated type name is empty"))
	}
	if packageName == "" {
		return "", diag("package name", fmt.Errorf("target package name is empty"))
	}

	data, err := os.ReadFile(modelPath)
	if err != nil {
		return "", diag("read model file", fmt.Errorf("%s: %w", modelPath, err))
	}
	logger.Log.Debug().Str("path", modelPath).Int("bytes", len(data)).Msg("read model file")

	decoded, err := tflite.Decode(data)
	if err != nil {
		return "", diag("parse FlatBuffer", err)
	}

	graph, err := Build(decoded)
	if err != nil {
		return "", diag("resolve graph", err)
	}
	logger.Log.Debug().Int("operators", len(graph.Nodes)).Str("element", graph.Element.String()).Msg("resolved graph")

	source, err := Emit(graph, typeName, packageName, capacity)
	if err != nil {
		return "", diag("emit", err)
	}

	return source, nil
}
