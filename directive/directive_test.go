package directive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `package sine

//microflow:model "testdata/sine.tflite" capacity=32
type SineModel struct {
	_ [0]byte
}

// Unrelated type without a directive must be skipped.
type Plain struct{}
`

func TestScanFindsAnnotatedType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.go")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	models, err := Scan(path)
	require.NoError(t, err)
	require.Len(t, models, 1)

	m := models[0]
	assert.Equal(t, "SineModel", m.TypeName)
	assert.Equal(t, "sine", m.PackageName)
	assert.Equal(t, "testdata/sine.tflite", m.ModelPath)
	assert.Equal(t, 32, m.Capacity)
}

func TestScanIgnoresFilesWithNoDirective(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.go")
	require.NoError(t, os.WriteFile(path, []byte("package plain\n\ntype Plain struct{}\n"), 0o644))

	models, err := Scan(path)
	require.NoError(t, err)
	assert.Empty(t, models)
}

func TestScanDefaultsCapacityToZeroWhenOmitted(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.go")
	src := "package speech\n\n//microflow:model \"testdata/speech.tflite\"\ntype SpeechModel struct{}\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	models, err := Scan(path)
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, 0, models[0].Capacity)
}
