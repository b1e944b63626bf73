package matrix

import (
	"github.com/ohmlab/nodal/pkg/linear"
)

// Dense is the default stamping target: a dense coefficient matrix
// solved by Gaussian elimination with partial pivoting. The scratch
// buffers are owned by one transient run and reused across steps.
type Dense struct {
	n        int
	a        [][]float64
	b        []float64
	scratchA [][]float64
	scratchB []float64
	alg      linear.Real
}

func NewDense(n int) *Dense {
	d := &Dense{
		n:        n,
		a:        make([][]float64, n),
		b:        make([]float64, n),
		scratchA: make([][]float64, n),
		scratchB: make([]float64, n),
		alg:      linear.NewReal(),
	}
	for i := range d.a {
		d.a[i] = make([]float64, n)
		d.scratchA[i] = make([]float64, n)
	}
	return d
}

func (d *Dense) Size() int { return d.n }

func (d *Dense) AddElement(i, j int, value float64) {
	if i < 0 || j < 0 {
		return
	}
	d.a[i][j] += value
}

func (d *Dense) AddRHS(i int, value float64) {
	if i < 0 {
		return
	}
	d.b[i] += value
}

func (d *Dense) Clear() {
	for i := range d.a {
		for j := range d.a[i] {
			d.a[i][j] = 0
		}
		d.b[i] = 0
	}
}

// Solve eliminates a copy of the assembled system, leaving the stamped
// coefficients intact for inspection.
func (d *Dense) Solve() ([]float64, error) {
	for i := range d.a {
		copy(d.scratchA[i], d.a[i])
	}
	copy(d.scratchB, d.b)
	return linear.Solve[float64](d.alg, d.scratchA, d.scratchB)
}
