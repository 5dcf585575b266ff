package poisson

import (
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/b-fg/waterlily/grid"
)

// Assemble materializes the implicit operator as an explicit sparse matrix
// over the interior cells, rows and columns numbered in the same
// lexicographic order the field iteration uses. Couplings into the halo are
// dropped: halo values are not unknowns and are assumed zero, matching the
// convention baked into the coefficient fields.
//
// The explicit form is for diagnostics and cross-checking only; the solver
// never touches it.
func Assemble(op *Operator) *sparse.CSR {
	var (
		n   = op.X.NumInterior()
		dok = sparse.NewDOK(n, n)
		row = make(map[int]int, n)
		d   = op.D.Data()
	)
	i := 0
	op.X.Interior(func(k int) {
		row[k] = i
		i++
	})
	op.X.Interior(func(k int) {
		r := row[k]
		dok.Set(r, r, d[k])
		for i, l := range op.L {
			var (
				ld = l.Data()
				s  = op.stride[i]
			)
			if c, ok := row[k-s]; ok && ld[k] != 0 {
				dok.Set(r, c, ld[k])
			}
			if c, ok := row[k+s]; ok && ld[k+s] != 0 {
				dok.Set(r, c, ld[k+s])
			}
		}
	})
	return dok.ToCSR()
}

// Vec gathers the interior cells of f into a dense vector in lexicographic
// order, the numbering used by Assemble.
func Vec(f *grid.Field) *mat.VecDense {
	var (
		data = f.Data()
		out  = make([]float64, 0, f.NumInterior())
	)
	f.Interior(func(k int) {
		out = append(out, data[k])
	})
	return mat.NewVecDense(len(out), out)
}

// Scatter writes the entries of v back into the interior of f, inverting Vec.
func Scatter(f *grid.Field, v *mat.VecDense) {
	if v.Len() != f.NumInterior() {
		panic("poisson: vector length does not match the interior cell count")
	}
	var (
		data = f.Data()
		i    int
	)
	f.Interior(func(k int) {
		data[k] = v.AtVec(i)
		i++
	})
}
