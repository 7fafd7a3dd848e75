// Command microflowgen is the go:generate entry point for microflow: it
// scans a Go source file for //microflow:model annotations, compiles the
// named TFLite model into Go source implementing Predict/PredictQuantized
// on the annotated type, and writes the result next to the source file.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/itohio/microflow/compiler"
	"github.com/itohio/microflow/directive"
	"github.com/itohio/microflow/pkg/logger"
)

func main() {
	file := flag.String("file", "", "Go source file to scan for //microflow:model directives (defaults to $GOFILE under go:generate)")
	manifest := flag.String("manifest", "", "path to a YAML batch manifest instead of scanning a single file")
	outDir := flag.String("out", "", "output directory for generated files (defaults to the source file's directory)")
	flag.Parse()

	if *manifest != "" {
		if err := runManifest(*manifest, *outDir); err != nil {
			logger.Log.Error().Err(err).Msg("manifest run failed")
			os.Exit(1)
		}
		return
	}

	path := *file
	if path == "" {
		path = os.Getenv("GOFILE")
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "microflowgen: -file is required outside of go:generate")
		os.Exit(2)
	}

	if err := runFile(path, *outDir); err != nil {
		logger.Log.Error().Err(err).Msg("generation failed")
		os.Exit(1)
	}
}

// runFile scans one Go source file and compiles every //microflow:model
// directive found in it.
func runFile(path, outDir string) error {
	models, err := directive.Scan(path)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		logger.Log.Warn().Str("file", path).Msg("no //microflow:model directives found")
		return nil
	}

	dir := outDir
	if dir == "" {
		dir = filepath.Dir(path)
	}

	for _, m := range models {
		if err := generate(m, dir); err != nil {
			return fmt.Errorf("%s:%d: %s: %w", m.File, m.Line, m.TypeName, err)
		}
	}
	return nil
}

// manifestEntry is one batch entry: a model path, the type and package to
// attach it to, and an optional capacity. Batch manifests let a project
// regenerate every model it embeds from a single yaml.v3 file instead of
// one go:generate line per type.
type manifestEntry struct {
	Model       string `yaml:"model"`
	TypeName    string `yaml:"type"`
	PackageName string `yaml:"package"`
	Capacity    int    `yaml:"capacity"`
	Out         string `yaml:"out"`
}

type manifestFile struct {
	Models []manifestEntry `yaml:"models"`
}

func runManifest(path, outDir string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	var mf manifestFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}

	for _, e := range mf.Models {
		dir := outDir
		if e.Out != "" {
			dir = e.Out
		}
		if dir == "" {
			dir = filepath.Dir(path)
		}
		m := directive.Model{
			TypeName:    e.TypeName,
			PackageName: e.PackageName,
			ModelPath:   e.Model,
			Capacity:    e.Capacity,
		}
		if err := generate(m, dir); err != nil {
			return fmt.Errorf("%s: %w", e.TypeName, err)
		}
	}
	return nil
}

func generate(m directive.Model, dir string) error {
	logger.Log.Info().
		Str("type", m.TypeName).
		Str("model", m.ModelPath).
		Int("capacity", m.Capacity).
		Msg("compiling model")

	source, err := compiler.Compile(m.ModelPath, m.TypeName, m.PackageName, m.Capacity)
	if err != nil {
		return err
	}

	outPath := filepath.Join(dir, strings.ToLower(m.TypeName)+"_microflow.go")
	if err := os.WriteFile(outPath, []byte(source), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	logger.Log.Info().Str("out", outPath).Msg("wrote generated model")
	return nil
}
