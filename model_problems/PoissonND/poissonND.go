// Package PoissonND is the manufactured-solution model problem for the
// matrix-free Poisson solver: the uniform-coefficient Laplacian on an
// N-dimensional unit box with homogeneous Dirichlet walls, whose discrete
// eigenfunction Πᵢ sin(π·ξᵢ) gives an exact reference solution.
package PoissonND

import (
	"fmt"
	"math"

	"github.com/b-fg/waterlily/grid"
	"github.com/b-fg/waterlily/poisson"
)

type Case struct {
	Op    *poisson.Operator
	B     *grid.Field // manufactured right-hand side
	Exact *grid.Field // exact discrete solution
}

// NewCase builds the model problem on the given interior shape. All face
// coefficients are one, including faces into the halo, so the zero halo acts
// as a Dirichlet ghost value and the operator is the standard 2N+1-point
// Laplacian stencil.
func NewCase(shape []int) (c *Case) {
	var (
		x = grid.NewField(shape...)
		L = UniformCoeffs(x)
	)
	c = &Case{
		Op:    poisson.NewOperator(x, L),
		Exact: SineProduct(x),
	}
	// B = A·Exact, so Exact is the solution of the discrete system itself,
	// free of truncation error.
	c.B = grid.NewLike(x)
	c.Op.MulVec(c.B, c.Exact)
	return
}

// Run solves the manufactured system from the current solution estimate and
// reports the residual history alongside the L2 and max errors versus the
// exact discrete solution.
func (c *Case) Run(s poisson.Settings) (history []float64, errL2, errMax float64) {
	s.Log = true
	history = c.Op.Solve(c.B, s)
	var (
		xd = c.Op.X.Data()
		ed = c.Exact.Data()
	)
	c.Op.X.Interior(func(k int) {
		diff := xd[k] - ed[k]
		errL2 += diff * diff
		errMax = math.Max(errMax, math.Abs(diff))
	})
	errL2 = math.Sqrt(errL2)
	return
}

// UniformCoeffs returns per-axis coefficient fields matching x with every
// face coefficient set to one.
func UniformCoeffs(x *grid.Field) (L []*grid.Field) {
	L = make([]*grid.Field, x.Dims())
	for i := range L {
		L[i] = grid.NewLike(x)
		data := L[i].Data()
		for k := range data {
			data[k] = 1
		}
	}
	return
}

// SineProduct fills a field shaped like x with Πᵢ sin(π·(cᵢ+1)/(nᵢ+1)),
// the lowest Dirichlet eigenfunction of the discrete Laplacian.
func SineProduct(x *grid.Field) (u *grid.Field) {
	u = grid.NewLike(x)
	var (
		shape = u.Shape()
		n     = u.Dims()
		cell  = make([]int, n)
	)
	for {
		v := 1.0
		for i, c := range cell {
			v *= math.Sin(math.Pi * float64(c+1) / float64(shape[i]+1))
		}
		u.Set(v, cell...)
		i := n - 1
		for ; i >= 0; i-- {
			cell[i]++
			if cell[i] < shape[i] {
				break
			}
			cell[i] = 0
		}
		if i < 0 {
			return
		}
	}
}

func (c *Case) String() string {
	return fmt.Sprintf("manufactured Poisson case, shape %v", c.Op.X.Shape())
}
