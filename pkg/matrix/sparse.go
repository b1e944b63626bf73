package matrix

import (
	"fmt"

	"github.com/edp1096/sparse"

	"github.com/ohmlab/nodal/pkg/linear"
)

// Sparse stamps into a Sparse1.3-style LU matrix. The library uses
// 1-based indexing internally; the 0-based stamping indices shift by
// one on the way in.
type Sparse struct {
	n      int
	matrix *sparse.Matrix
	rhs    []float64
}

func NewSparse(n int) (*Sparse, error) {
	config := &sparse.Configuration{
		Real:           true,
		Expandable:     true,
		ModifiedNodal:  true,
		TiesMultiplier: 5,
		PrinterWidth:   140,
	}
	mat, err := sparse.Create(int64(n), config)
	if err != nil {
		return nil, fmt.Errorf("matrix: creating sparse matrix: %w", err)
	}

	s := &Sparse{
		n:      n,
		matrix: mat,
		rhs:    make([]float64, n+1), // 1-based
	}
	// Touch every element once so the fill pattern is allocated before
	// the per-step stamping loop.
	for i := int64(1); i <= int64(n); i++ {
		for j := int64(1); j <= int64(n); j++ {
			s.matrix.GetElement(i, j)
		}
	}
	return s, nil
}

func (s *Sparse) Size() int { return s.n }

func (s *Sparse) AddElement(i, j int, value float64) {
	if i < 0 || j < 0 {
		return
	}
	s.matrix.GetElement(int64(i+1), int64(j+1)).Real += value
}

func (s *Sparse) AddRHS(i int, value float64) {
	if i < 0 {
		return
	}
	s.rhs[i+1] += value
}

func (s *Sparse) Clear() {
	s.matrix.Clear()
	for i := range s.rhs {
		s.rhs[i] = 0
	}
}

// Solve factors and solves in place. A factorization failure maps to
// the shared singular-matrix error so callers discriminate one way for
// both backends.
func (s *Sparse) Solve() ([]float64, error) {
	if err := s.matrix.Factor(); err != nil {
		return nil, fmt.Errorf("matrix: factorization failed (%v): %w", err, linear.ErrSingular)
	}
	solution, err := s.matrix.Solve(s.rhs)
	if err != nil {
		return nil, fmt.Errorf("matrix: solve failed: %w", err)
	}
	// Reindex to the 0-based convention of the stamping layer.
	x := make([]float64, s.n)
	copy(x, solution[1:s.n+1])
	return x, nil
}

func (s *Sparse) Destroy() {
	if s.matrix != nil {
		s.matrix.Destroy()
	}
}
