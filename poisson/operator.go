// Package poisson solves the variable-coefficient pressure Poisson equation
// on a structured grid with a matrix-free iterative method.
//
// The system matrix is never materialized. It is block-tridiagonal with one
// off-diagonal coupling per grid axis per row, A = L + D + Lᵗ, so the
// operator stores only the lower coupling coefficients (one field per axis)
// and derives the diagonal from them by conservation: every row of the
// discrete flux balance sums to zero.
package poisson

import (
	"fmt"
	"math"

	"github.com/b-fg/waterlily/grid"
)

// DegenerateDiag is the threshold below which a diagonal entry is treated as
// zero. Such cells (solid bodies, pinched geometry) get a zero inverse
// diagonal and never move during relaxation.
const DegenerateDiag = 1e-8

// Operator holds the implicit matrix and the solver state for one linear
// system. X persists across solves, so a previous solution warm-starts the
// next one, e.g. across time steps of an outer flow solver. One Operator
// serves one goroutine; concurrent solves need separate instances.
type Operator struct {
	L    []*grid.Field // lower coupling coefficient per axis, L[i] couples a cell to its -1 neighbor along axis i
	D    *grid.Field   // diagonal, derived from L
	InvD *grid.Field   // 1/D, zero where |D| < DegenerateDiag
	X    *grid.Field   // solution estimate, mutated in place
	Eps  *grid.Field   // increment scratch, rebuilt every smoothing step
	R    *grid.Field   // residual b - A·X, maintained incrementally
	N    []int         // iteration count per completed Solve, append-only

	stride []int // neighbor offsets per axis, cached from X
}

// NewOperator builds an operator over the solution field x with the given
// per-axis coefficient fields. x is retained and mutated by the solver.
// Shape mismatch between x and any coefficient field panics.
func NewOperator(x *grid.Field, L []*grid.Field) (op *Operator) {
	checkCoeffs(x, L)
	op = &Operator{
		L:      L,
		D:      grid.NewLike(x),
		InvD:   grid.NewLike(x),
		X:      x,
		Eps:    grid.NewLike(x),
		R:      grid.NewLike(x),
		stride: make([]int, x.Dims()),
	}
	for i := range op.stride {
		op.stride[i] = x.Stride(i)
	}
	op.SetDiag()
	return
}

func checkCoeffs(x *grid.Field, L []*grid.Field) {
	if len(L) != x.Dims() {
		panic(fmt.Sprintf("poisson: %d coefficient fields for a %d-dimensional solution",
			len(L), x.Dims()))
	}
	for i, l := range L {
		if !l.SameShape(x) {
			panic(fmt.Sprintf("poisson: coefficient field %d does not match the solution shape", i))
		}
	}
}

// SetCoeffs replaces the coupling coefficients and re-derives the diagonal,
// keeping X as a warm start. Used when the coefficients change between
// solves, e.g. a moving body updating the face areas.
func (op *Operator) SetCoeffs(L []*grid.Field) {
	checkCoeffs(op.X, L)
	op.L = L
	op.SetDiag()
}

// SetDiag recomputes D and InvD from L. For every interior cell,
// D = -Σᵢ(L[i][I] + L[i][I+eᵢ]), the exact row-sum cancellation of the
// discrete flux balance. Must run after any change to L.
func (op *Operator) SetDiag() {
	var (
		d   = op.D.Data()
		inv = op.InvD.Data()
	)
	op.D.Interior(func(k int) {
		var sum float64
		for i, l := range op.L {
			ld := l.Data()
			sum += ld[k] + ld[k+op.stride[i]]
		}
		d[k] = -sum
		if math.Abs(d[k]) < DegenerateDiag {
			inv[k] = 0
		} else {
			inv[k] = 1 / d[k]
		}
	})
}

// MulVec computes dst = A·src matrix-free. Halo cells of dst are zero. This
// is the only full matrix-vector product in the package; the solve loop
// avoids it by maintaining the residual incrementally.
func (op *Operator) MulVec(dst, src *grid.Field) {
	if !dst.SameShape(op.X) || !src.SameShape(op.X) {
		panic("poisson: shape mismatch in MulVec")
	}
	var (
		dd = dst.Data()
		sd = src.Data()
		d  = op.D.Data()
	)
	dst.Zero()
	op.X.Interior(func(k int) {
		v := d[k] * sd[k]
		for i, l := range op.L {
			var (
				ld = l.Data()
				s  = op.stride[i]
			)
			v += sd[k-s]*ld[k] + sd[k+s]*ld[k+s]
		}
		dd[k] = v
	})
}

// Residual recomputes R = b - A·X from scratch, re-establishing the ground
// truth the incremental updates then preserve.
func (op *Operator) Residual(b *grid.Field) {
	if !b.SameShape(op.X) {
		panic("poisson: right-hand side does not match the solution shape")
	}
	var (
		bd = b.Data()
		rd = op.R.Data()
		xd = op.X.Data()
		d  = op.D.Data()
	)
	op.R.Zero()
	op.X.Interior(func(k int) {
		v := d[k] * xd[k]
		for i, l := range op.L {
			var (
				ld = l.Data()
				s  = op.stride[i]
			)
			v += xd[k-s]*ld[k] + xd[k+s]*ld[k+s]
		}
		rd[k] = bd[k] - v
	})
}

// ApplyIncrement folds Eps into the solution and the residual in one pass:
// X += Eps and R -= A·Eps. Keeps the invariant R == b - A·X without a second
// sweep over b. Eps itself is left untouched, so the stencil reads are exact.
func (op *Operator) ApplyIncrement() {
	var (
		xd = op.X.Data()
		rd = op.R.Data()
		ed = op.Eps.Data()
		d  = op.D.Data()
	)
	op.X.Interior(func(k int) {
		v := d[k] * ed[k]
		for i, l := range op.L {
			var (
				ld = l.Data()
				s  = op.stride[i]
			)
			v += ed[k-s]*ld[k] + ed[k+s]*ld[k+s]
		}
		xd[k] += ed[k]
		rd[k] -= v
	})
}
