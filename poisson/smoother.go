package poisson

// Smooth runs one diagonally preconditioned relaxation step and folds the
// resulting increment into X and R.
//
// The increment is seeded with a Jacobi step, Eps = R·InvD, which with
// sweeps=0 makes Smooth usable standalone as a Jacobi preconditioner for an
// external Krylov method. Each additional sweep recomputes
//
//	Eps[I] = InvD[I]·(R[I] - Σᵢ Eps[I-eᵢ]·L[i][I] - Σᵢ Eps[I+eᵢ]·L[i][I+eᵢ])
//
// in place, in lexicographic order over the interior. Cells later in the
// traversal read neighbors already updated in the same pass, making this a
// true Gauss-Seidel sweep. The traversal order is part of the contract:
// convergence histories are reproducible only for a fixed order, and the
// sweep must not be parallelized across neighboring cells without a
// coloring scheme.
//
// Cells with a degenerate diagonal have InvD == 0 and never move.
func (op *Operator) Smooth(sweeps int) {
	var (
		ed  = op.Eps.Data()
		rd  = op.R.Data()
		inv = op.InvD.Data()
	)
	op.Eps.Interior(func(k int) {
		ed[k] = rd[k] * inv[k]
	})
	for n := 0; n < sweeps; n++ {
		op.Eps.Interior(func(k int) {
			v := rd[k]
			for i, l := range op.L {
				var (
					ld = l.Data()
					s  = op.stride[i]
				)
				v -= ed[k-s]*ld[k] + ed[k+s]*ld[k+s]
			}
			ed[k] = inv[k] * v
		})
	}
	op.ApplyIncrement()
}
