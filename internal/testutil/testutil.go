// Package testutil provides shared test helpers for the camera and world
// packages.
package testutil

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Reporter is the part of testing.TB the helpers need.
type Reporter interface {
	Helper()
	Errorf(format string, args ...any)
}

// Identity returns the n×n identity matrix.
func Identity(n int) *mat.Dense {
	id := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		id.Set(i, i, 1)
	}
	return id
}

// AssertMatrixNear reports an error if want and got differ in shape or if
// any element differs by more than tol.
func AssertMatrixNear(t Reporter, want, got mat.Matrix, tol float64) bool {
	t.Helper()
	wr, wc := want.Dims()
	gr, gc := got.Dims()
	if wr != gr || wc != gc {
		t.Errorf("matrix shape = %dx%d, want %dx%d", gr, gc, wr, wc)
		return false
	}
	if !mat.EqualApprox(want, got, tol) {
		t.Errorf("matrices differ beyond %g:\nwant\n%v\ngot\n%v", tol, formatMatrix(want), formatMatrix(got))
		return false
	}
	return true
}

func formatMatrix(m mat.Matrix) fmt.Formatter {
	return mat.Formatted(m, mat.Prefix(""), mat.Squeeze())
}
