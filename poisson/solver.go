package poisson

import (
	"github.com/b-fg/waterlily/grid"
	"github.com/b-fg/waterlily/logger"
)

const (
	DefaultTolerance     = 1.e-4
	DefaultMaxIterations = 1000
	DefaultSweeps        = 5
)

// Settings configures a Solve. The zero value selects the defaults above.
type Settings struct {
	// Tolerance is the L2-norm stopping threshold on the residual.
	Tolerance float64
	// MaxIterations caps the outer loop. Hitting the cap is not an error:
	// the solver returns and the caller inspects the residual or the
	// history to detect non-convergence.
	MaxIterations int
	// Sweeps is the number of Gauss-Seidel sweeps per outer iteration. The
	// default of 5 balances smoothing quality against per-iteration cost.
	Sweeps int
	// Log requests the per-iteration residual-norm history.
	Log bool
}

func (s *Settings) defaults() {
	if s.Tolerance == 0 {
		s.Tolerance = DefaultTolerance
	}
	if s.MaxIterations == 0 {
		s.MaxIterations = DefaultMaxIterations
	}
	if s.Sweeps == 0 {
		s.Sweeps = DefaultSweeps
	}
}

// Solve drives the relaxation to convergence on A·X = b, starting from the
// current contents of X. The residual is computed from scratch once, then
// maintained incrementally by the smoother. On exit the executed iteration
// count is appended to N. When s.Log is set, the returned history holds the
// initial residual norm followed by one entry per iteration; otherwise the
// return is nil. b must match the solution shape or Solve panics.
func (op *Operator) Solve(b *grid.Field, s Settings) (history []float64) {
	s.defaults()
	op.Residual(b)
	r2 := op.R.NormL2()
	if s.Log {
		history = append(history, r2)
	}
	np := 0
	for r2 > s.Tolerance && np < s.MaxIterations {
		op.Smooth(s.Sweeps)
		r2 = op.R.NormL2()
		if s.Log {
			history = append(history, r2)
		}
		np++
	}
	op.N = append(op.N, np)
	log := logger.Logger()
	log.Debug().
		Int("iterations", np).
		Float64("residual", r2).
		Bool("converged", r2 <= s.Tolerance).
		Msg("poisson solve")
	return
}
