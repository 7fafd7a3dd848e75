package tensor

import "github.com/itohio/microflow/quantize"

// Padding selects how View handles window positions that fall outside the
// source buffer.
type Padding int

const (
	// Same centers the window on the focus point and zero-pads any cell
	// that falls outside the input.
	Same Padding = iota
	// Valid performs no boundary check; the caller must choose output
	// dimensions so every window lands fully inside the input.
	Valid
)

func (p Padding) String() string {
	if p == Valid {
		return "Valid"
	}
	return "Same"
}

// View is a filter-sized window extracted from a Tensor4D at a focus point,
// together with a presence mask of the same spatial shape and a count of
// valid (non-padded) cells. Convolutional and pooling kernels use the mask
// to exclude padded positions from their zero-point correction sums.
type View[T quantize.Quantized] struct {
	Rows, Cols, Channels int
	data                 []T
	mask                 []bool
	Len                  int
}

// At returns the value of channel ch at window cell (row, col). Padded
// cells read back as the zero pixel.
func (v View[T]) At(row, col, ch int) T {
	return v.data[(row*v.Cols+col)*v.Channels+ch]
}

// Pixel returns the Channels-wide slice at window cell (row, col).
func (v View[T]) Pixel(row, col int) []T {
	start := (row*v.Cols + col) * v.Channels
	return v.data[start : start+v.Channels]
}

// Valid reports whether window cell (row, col) fell inside the source
// buffer (true) or was zero-padded (false).
func (v View[T]) Valid(row, col int) bool {
	return v.mask[row*v.Cols+col]
}

// Extract pulls a viewRows x viewCols x Channels window out of input at
// batch b, centered on output focus point (i, j), using the given padding
// discipline and per-axis strides (strideH, strideW).
//
// The window is centered per §4.3: shift = ((viewRows-1)/2, (viewCols-1)/2),
// matching the TFLite reference "Same" padding formula rather than the
// (viewRows/2) variant some implementations use.
func Extract[T quantize.Quantized](input Buffer4D[T], b, i, j int, padding Padding, strideH, strideW, viewRows, viewCols int) View[T] {
	channels := input.Channels()
	v := View[T]{
		Rows: viewRows, Cols: viewCols, Channels: channels,
		data: make([]T, viewRows*viewCols*channels),
		mask: make([]bool, viewRows*viewCols),
		Len:  viewRows * viewCols,
	}

	shiftR := (viewRows - 1) / 2
	shiftC := (viewCols - 1) / 2

	for m := 0; m < viewRows; m++ {
		srcRow := strideH*i + m - shiftR
		for n := 0; n < viewCols; n++ {
			srcCol := strideW*j + n - shiftC

			inBounds := true
			if padding == Same {
				inBounds = srcRow >= 0 && srcRow < input.Rows() && srcCol >= 0 && srcCol < input.Cols()
			}

			idx := m*viewCols + n
			if !inBounds {
				v.mask[idx] = false
				v.Len--
				continue
			}
			v.mask[idx] = true
			copy(v.data[idx*channels:(idx+1)*channels], input.Pixel(b, srcRow, srcCol))
		}
	}

	return v
}
