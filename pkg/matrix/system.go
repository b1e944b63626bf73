// Package matrix provides the stamping targets for the transient
// solver: a dense system solved by the shared Gaussian eliminator, and
// a sparse-backed system using the same LU engine classic SPICE uses,
// worthwhile once node counts grow.
//
// Indices are 0-based; an index of -1 denotes the ground reference and
// the contribution is skipped.
package matrix

// Stamper is the surface a component stamp writes through.
type Stamper interface {
	AddElement(i, j int, value float64)
	AddRHS(i int, value float64)
}

// System is a linear system that is re-stamped and re-solved once per
// time step.
type System interface {
	Stamper
	Size() int
	Clear()
	Solve() ([]float64, error)
}
