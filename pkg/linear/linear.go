// Package linear implements Gaussian elimination with partial pivoting,
// parameterized over the coefficient algebra so the same elimination
// drives both the numeric transient path and the symbolic Laplace path.
package linear

import (
	"errors"
	"fmt"
	"math"
)

// ErrSingular is reported when a pivot column has no usable entry.
// For a circuit matrix this means a floating or degenerate subnetwork.
var ErrSingular = errors.New("singular matrix")

// Algebra supplies the coefficient operations Solve needs. Magnitude
// drives pivot selection: for numbers it is the absolute value, for
// symbolic entries any expression that does not simplify to zero is
// equally usable.
type Algebra[T any] interface {
	Add(a, b T) T
	Sub(a, b T) T
	Mul(a, b T) T
	Div(a, b T) T
	Zero() T
	IsZero(a T) bool
	Magnitude(a T) float64
}

// Solve performs in-place Gaussian elimination with partial pivoting on
// a and b, then back-substitutes. a must be square with len(b) rows;
// both are clobbered.
func Solve[T any](alg Algebra[T], a [][]T, b []T) ([]T, error) {
	n := len(b)
	if len(a) != n {
		return nil, fmt.Errorf("linear: matrix is %dx?, rhs is %d", len(a), n)
	}

	for col := 0; col < n; col++ {
		pivot := col
		best := alg.Magnitude(a[col][col])
		for row := col + 1; row < n; row++ {
			if m := alg.Magnitude(a[row][col]); m > best {
				best = m
				pivot = row
			}
		}
		if alg.IsZero(a[pivot][col]) {
			return nil, fmt.Errorf("linear: column %d: %w", col, ErrSingular)
		}
		if pivot != col {
			a[col], a[pivot] = a[pivot], a[col]
			b[col], b[pivot] = b[pivot], b[col]
		}

		for row := col + 1; row < n; row++ {
			if alg.IsZero(a[row][col]) {
				continue
			}
			factor := alg.Div(a[row][col], a[col][col])
			for k := col; k < n; k++ {
				a[row][k] = alg.Sub(a[row][k], alg.Mul(factor, a[col][k]))
			}
			b[row] = alg.Sub(b[row], alg.Mul(factor, b[col]))
		}
	}

	x := make([]T, n)
	for i := n - 1; i >= 0; i-- {
		acc := b[i]
		for j := i + 1; j < n; j++ {
			acc = alg.Sub(acc, alg.Mul(a[i][j], x[j]))
		}
		x[i] = alg.Div(acc, a[i][i])
	}
	return x, nil
}

// Real is the float64 coefficient algebra. Entries with magnitude below
// Tol are treated as zero during pivot selection.
type Real struct {
	Tol float64
}

// DefaultPivotTol is the near-zero pivot threshold for the numeric path.
const DefaultPivotTol = 1e-9

func NewReal() Real { return Real{Tol: DefaultPivotTol} }

func (Real) Add(a, b float64) float64 { return a + b }
func (Real) Sub(a, b float64) float64 { return a - b }
func (Real) Mul(a, b float64) float64 { return a * b }
func (Real) Div(a, b float64) float64 { return a / b }
func (Real) Zero() float64            { return 0 }

func (r Real) IsZero(a float64) bool {
	tol := r.Tol
	if tol == 0 {
		tol = DefaultPivotTol
	}
	return math.Abs(a) < tol
}

func (Real) Magnitude(a float64) float64 { return math.Abs(a) }
