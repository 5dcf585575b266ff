// Package grid implements an N-dimensional scalar field padded with one
// layer of halo cells per axis, the storage primitive consumed by the
// matrix-free Poisson kernels.
//
// Layout is row-major (lexicographic): the last axis is contiguous in the
// backing slice. Interior cells are addressed with 0-based coordinates; the
// halo shifts every axis by one in the flat index. Neighbor access along
// axis i is a fixed stride offset, so stencil kernels walk the flat slice
// with no bounds checks and let the halo absorb the +/-1 excursions.
package grid

import (
	"fmt"
	"math"
)

type Field struct {
	shape  []int // interior cell counts per axis
	ext    []int // full extents including halo, ext[i] = shape[i]+2
	stride []int // flat strides over the full extents
	data   []float64
}

func NewField(shape ...int) (f *Field) {
	var (
		n    = len(shape)
		size = 1
	)
	if n == 0 {
		panic("grid: field needs at least one axis")
	}
	f = &Field{
		shape:  make([]int, n),
		ext:    make([]int, n),
		stride: make([]int, n),
	}
	for i, s := range shape {
		if s < 1 {
			panic(fmt.Sprintf("grid: invalid extent %d along axis %d", s, i))
		}
		f.shape[i] = s
		f.ext[i] = s + 2
		size *= s + 2
	}
	f.stride[n-1] = 1
	for i := n - 2; i >= 0; i-- {
		f.stride[i] = f.stride[i+1] * f.ext[i+1]
	}
	f.data = make([]float64, size)
	return
}

// NewLike returns a zero-valued field with the same shape as f.
func NewLike(f *Field) *Field {
	return NewField(f.shape...)
}

func (f *Field) Dims() int       { return len(f.shape) }
func (f *Field) Shape() []int    { return f.shape }
func (f *Field) Data() []float64 { return f.data }

// Stride returns the flat-index offset of the +1 neighbor along axis i.
func (f *Field) Stride(i int) int { return f.stride[i] }

func (f *Field) SameShape(g *Field) bool {
	if len(f.shape) != len(g.shape) {
		return false
	}
	for i, s := range f.shape {
		if g.shape[i] != s {
			return false
		}
	}
	return true
}

// Offset maps 0-based interior coordinates to a flat index into Data.
// Halo cells are reachable with coordinates -1 and shape[i].
func (f *Field) Offset(cell ...int) (k int) {
	if len(cell) != len(f.shape) {
		panic(fmt.Sprintf("grid: %d coordinates for a %d-dimensional field",
			len(cell), len(f.shape)))
	}
	for i, c := range cell {
		k += (c + 1) * f.stride[i]
	}
	return
}

func (f *Field) At(cell ...int) float64 {
	return f.data[f.Offset(cell...)]
}

func (f *Field) Set(v float64, cell ...int) {
	f.data[f.Offset(cell...)] = v
}

func (f *Field) Fill(v float64) {
	f.Interior(func(k int) { f.data[k] = v })
}

// Zero clears the whole backing store, halo included.
func (f *Field) Zero() {
	for i := range f.data {
		f.data[i] = 0
	}
}

func (f *Field) Copy() (g *Field) {
	g = NewLike(f)
	copy(g.data, f.data)
	return
}

func (f *Field) CopyFrom(g *Field) {
	if !f.SameShape(g) {
		panic("grid: shape mismatch in CopyFrom")
	}
	copy(f.data, g.data)
}

func (f *Field) NumInterior() (size int) {
	size = 1
	for _, s := range f.shape {
		size *= s
	}
	return
}

// Interior invokes fn with the flat index of every interior cell in
// lexicographic order (last axis fastest). The order is deterministic and is
// relied upon by the Gauss-Seidel sweep, which reads already-updated
// neighbors earlier in the same pass.
func (f *Field) Interior(fn func(k int)) {
	var (
		n     = len(f.shape)
		inner = f.shape[n-1]
		rows  = 1
	)
	for i := 0; i < n-1; i++ {
		rows *= f.shape[i]
	}
	idx := make([]int, n-1)
	for r := 0; r < rows; r++ {
		base := 1 // halo offset along the contiguous axis
		for i := 0; i < n-1; i++ {
			base += (idx[i] + 1) * f.stride[i]
		}
		for j := 0; j < inner; j++ {
			fn(base + j)
		}
		for i := n - 2; i >= 0; i-- {
			idx[i]++
			if idx[i] < f.shape[i] {
				break
			}
			idx[i] = 0
		}
	}
}

// NormL2 is the L2 norm over interior cells; halo values do not contribute.
func (f *Field) NormL2() float64 {
	var sum float64
	f.Interior(func(k int) {
		sum += f.data[k] * f.data[k]
	})
	return math.Sqrt(sum)
}

// Dot is the interior inner product of two same-shaped fields.
func (f *Field) Dot(g *Field) float64 {
	if !f.SameShape(g) {
		panic("grid: shape mismatch in Dot")
	}
	var sum float64
	f.Interior(func(k int) {
		sum += f.data[k] * g.data[k]
	})
	return sum
}
