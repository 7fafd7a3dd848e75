package compiler

import (
	"fmt"
	"strings"
)

func formatFloat32Slice(values []float32) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return "[]float32{" + strings.Join(parts, ", ") + "}"
}

func formatInt32Slice(values []int32) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "[]int32{" + strings.Join(parts, ", ") + "}"
}

func formatWeightSlice(values []int32, kind ElementKind) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("[]%s{%s}", kind, strings.Join(parts, ", "))
}

// transpose2D reorders a row-major (rows x cols) slice into column-major
// order: TFLite stores a FullyConnected weight tensor as [out, cols]
// (out rows of length cols), but the FullyConnected kernel indexes its
// weight buffer as (cols x out) so column j is output unit j's weight
// vector. This is the one layout transform the compiler performs itself
// rather than leaving to the kernel.
func transpose2D(values []int32, rows, cols int) []int32 {
	out := make([]int32, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out[c*rows+r] = values[r*cols+c]
		}
	}
	return out
}
