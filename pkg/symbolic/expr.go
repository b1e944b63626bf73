// Package symbolic is a small expression kernel for the Laplace-domain
// solver: rational expressions over component symbols and the Laplace
// variable s, with deterministic simplification and stable rendering.
//
// All construction goes through an Arena, which memoizes every
// simplified intermediate by its operand strings. The arena is scoped
// to one solve call, so repeated structurally identical subexpressions
// produced by Gaussian elimination collapse to one node.
package symbolic

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Expr is one immutable symbolic expression node.
type Expr interface {
	String() string
	LaTeX() string
	Eval(vars map[string]float64) (float64, error)
}

type num struct{ v float64 }

type sym struct{ name string }

type add struct{ terms []Expr }

// mul keeps any numeric coefficient as factors[0].
type mul struct{ factors []Expr }

type div struct{ n, d Expr }

// Arena owns the simplification cache for one solve call.
type Arena struct {
	cache map[string]Expr
	zero  Expr
	one   Expr
}

func NewArena() *Arena {
	return &Arena{
		cache: make(map[string]Expr),
		zero:  num{v: 0},
		one:   num{v: 1},
	}
}

// Reset drops all cached intermediates. A fresh arena per solve call is
// equivalent; Reset exists for callers that reuse one.
func (a *Arena) Reset() {
	a.cache = make(map[string]Expr)
}

func (a *Arena) Num(v float64) Expr {
	if v == 0 {
		return a.zero
	}
	if v == 1 {
		return a.one
	}
	return num{v: v}
}

func (a *Arena) Sym(name string) Expr { return sym{name: name} }

// IsZero reports whether e simplified to the literal zero expression.
// This is the symbolic "near-zero" predicate used for pivoting.
func IsZero(e Expr) bool {
	n, ok := e.(num)
	return ok && n.v == 0
}

func (a *Arena) memo(op string, operands []Expr, build func() Expr) Expr {
	var sb strings.Builder
	sb.WriteString(op)
	for _, e := range operands {
		sb.WriteByte(0)
		sb.WriteString(e.String())
	}
	key := sb.String()
	if cached, ok := a.cache[key]; ok {
		return cached
	}
	result := build()
	a.cache[key] = result
	return result
}

func (a *Arena) Add(x, y Expr) Expr {
	return a.memo("+", []Expr{x, y}, func() Expr { return a.sumOf(x, y) })
}

func (a *Arena) Sub(x, y Expr) Expr {
	return a.memo("-", []Expr{x, y}, func() Expr { return a.sumOf(x, a.Neg(y)) })
}

func (a *Arena) Neg(x Expr) Expr { return a.product(-1, []Expr{x}) }

func (a *Arena) Mul(x, y Expr) Expr {
	return a.memo("*", []Expr{x, y}, func() Expr { return a.product(1, []Expr{x, y}) })
}

func (a *Arena) Div(x, y Expr) Expr {
	return a.memo("/", []Expr{x, y}, func() Expr { return a.quotient(x, y) })
}

// sumOf flattens nested sums and cancels like terms by their canonical
// string key, so g - g simplifies to the literal zero.
func (a *Arena) sumOf(parts ...Expr) Expr {
	constant := 0.0
	coeffs := make(map[string]float64)
	bases := make(map[string]Expr)

	var walk func(e Expr)
	walk = func(e Expr) {
		switch t := e.(type) {
		case num:
			constant += t.v
		case add:
			for _, term := range t.terms {
				walk(term)
			}
		default:
			c, key, base := splitCoeff(e)
			if _, ok := bases[key]; !ok {
				bases[key] = base
			}
			coeffs[key] += c
		}
	}
	for _, p := range parts {
		walk(p)
	}

	keys := make([]string, 0, len(coeffs))
	for k := range coeffs {
		if coeffs[k] != 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	terms := make([]Expr, 0, len(keys)+1)
	for _, k := range keys {
		terms = append(terms, a.product(coeffs[k], []Expr{bases[k]}))
	}
	if constant != 0 {
		terms = append(terms, a.Num(constant))
	}

	switch len(terms) {
	case 0:
		return a.zero
	case 1:
		return terms[0]
	}
	return add{terms: terms}
}

// splitCoeff factors a term into numeric coefficient and symbolic base,
// reaching into quotient numerators so that -g/d cancels against g/d.
func splitCoeff(e Expr) (float64, string, Expr) {
	switch t := e.(type) {
	case mul:
		if c, isNum := t.factors[0].(num); isNum {
			rest := t.factors[1:]
			var base Expr
			if len(rest) == 1 {
				base = rest[0]
			} else {
				base = mul{factors: rest}
			}
			return c.v, base.String(), base
		}
	case div:
		if n, ok := t.n.(num); ok {
			if n.v != 1 {
				base := div{n: num{v: 1}, d: t.d}
				return n.v, base.String(), base
			}
		} else if c, _, nbase := splitCoeff(t.n); c != 1 {
			base := div{n: nbase, d: t.d}
			return c, base.String(), base
		}
	}
	return 1, e.String(), e
}

// product folds numeric factors, merges quotients, and sorts the
// remaining factors for a canonical form.
func (a *Arena) product(coeff float64, parts []Expr) Expr {
	numers := make([]Expr, 0, len(parts))
	denoms := make([]Expr, 0)

	var walk func(e Expr)
	walk = func(e Expr) {
		switch t := e.(type) {
		case num:
			coeff *= t.v
		case mul:
			for _, f := range t.factors {
				walk(f)
			}
		case div:
			walk(t.n)
			denoms = append(denoms, t.d)
		default:
			numers = append(numers, e)
		}
	}
	for _, p := range parts {
		walk(p)
	}

	if coeff == 0 {
		return a.zero
	}
	if len(denoms) > 0 {
		return a.quotient(a.bareProduct(coeff, numers), a.bareProduct(1, denoms))
	}
	return a.bareProduct(coeff, numers)
}

func (a *Arena) bareProduct(coeff float64, factors []Expr) Expr {
	sort.Slice(factors, func(i, j int) bool { return factors[i].String() < factors[j].String() })
	if len(factors) == 0 {
		return a.Num(coeff)
	}
	if coeff == 1 {
		if len(factors) == 1 {
			return factors[0]
		}
		return mul{factors: factors}
	}
	return mul{factors: append([]Expr{a.Num(coeff).(num)}, factors...)}
}

func (a *Arena) quotient(x, y Expr) Expr {
	if IsZero(x) {
		return a.zero
	}
	if n, ok := y.(num); ok && n.v != 0 {
		return a.product(1/n.v, []Expr{x})
	}
	if x.String() == y.String() {
		return a.one
	}
	// (p/q)/r -> p/(q*r), p/(r/s) -> (p*s)/r
	if dx, ok := x.(div); ok {
		return a.quotient(dx.n, a.product(1, []Expr{dx.d, y}))
	}
	if dy, ok := y.(div); ok {
		return a.quotient(a.product(1, []Expr{x, dy.d}), dy.n)
	}

	// Cancel factors shared by numerator and denominator products.
	cx, fx := factorList(x)
	cy, fy := factorList(y)
	cancelled := false
	for i, f := range fx {
		if f == nil {
			continue
		}
		for j, g := range fy {
			if g != nil && f.String() == g.String() {
				fx[i], fy[j] = nil, nil
				cancelled = true
				break
			}
		}
	}
	if cancelled {
		return a.quotient(a.bareProduct(cx, compact(fx)), a.bareProduct(cy, compact(fy)))
	}
	return div{n: x, d: y}
}

// factorList splits an expression into numeric coefficient and
// non-numeric factors.
func factorList(e Expr) (float64, []Expr) {
	switch t := e.(type) {
	case num:
		return t.v, nil
	case mul:
		coeff := 1.0
		fs := make([]Expr, 0, len(t.factors))
		for _, f := range t.factors {
			if n, ok := f.(num); ok {
				coeff *= n.v
			} else {
				fs = append(fs, f)
			}
		}
		return coeff, fs
	}
	return 1, []Expr{e}
}

func compact(fs []Expr) []Expr {
	out := fs[:0]
	for _, f := range fs {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}

// --- rendering ---

func formatNum(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (n num) String() string { return formatNum(n.v) }

func (s sym) String() string { return s.name }

func (t add) String() string {
	var sb strings.Builder
	for i, term := range t.terms {
		str := term.String()
		if i == 0 {
			sb.WriteString(str)
			continue
		}
		if rest, neg := strings.CutPrefix(str, "-"); neg {
			sb.WriteString(" - ")
			sb.WriteString(rest)
		} else {
			sb.WriteString(" + ")
			sb.WriteString(str)
		}
	}
	return sb.String()
}

func (m mul) String() string {
	parts := make([]string, 0, len(m.factors))
	for i, f := range m.factors {
		if n, ok := f.(num); ok && i == 0 && n.v == -1 && len(m.factors) > 1 {
			continue
		}
		if _, isAdd := f.(add); isAdd {
			parts = append(parts, "("+f.String()+")")
		} else {
			parts = append(parts, f.String())
		}
	}
	s := strings.Join(parts, "*")
	if n, ok := m.factors[0].(num); ok && n.v == -1 && len(m.factors) > 1 {
		return "-" + s
	}
	return s
}

func (d div) String() string {
	return "(" + d.n.String() + ")/(" + d.d.String() + ")"
}

// --- LaTeX ---

func (n num) LaTeX() string { return formatNum(n.v) }

func (s sym) LaTeX() string {
	trim := strings.TrimRight(s.name, "0123456789")
	if trim != "" && trim != s.name {
		return trim + "_{" + s.name[len(trim):] + "}"
	}
	return s.name
}

func (t add) LaTeX() string {
	var sb strings.Builder
	for i, term := range t.terms {
		str := term.LaTeX()
		if i == 0 {
			sb.WriteString(str)
			continue
		}
		if rest, neg := strings.CutPrefix(str, "-"); neg {
			sb.WriteString(" - ")
			sb.WriteString(rest)
		} else {
			sb.WriteString(" + ")
			sb.WriteString(str)
		}
	}
	return sb.String()
}

func (m mul) LaTeX() string {
	parts := make([]string, 0, len(m.factors))
	for i, f := range m.factors {
		if n, ok := f.(num); ok && i == 0 && n.v == -1 && len(m.factors) > 1 {
			continue
		}
		if _, isAdd := f.(add); isAdd {
			parts = append(parts, `\left(`+f.LaTeX()+`\right)`)
		} else {
			parts = append(parts, f.LaTeX())
		}
	}
	s := strings.Join(parts, ` \cdot `)
	if n, ok := m.factors[0].(num); ok && n.v == -1 && len(m.factors) > 1 {
		return "-" + s
	}
	return s
}

func (d div) LaTeX() string {
	return `\frac{` + d.n.LaTeX() + `}{` + d.d.LaTeX() + `}`
}

// --- evaluation ---

func (n num) Eval(map[string]float64) (float64, error) { return n.v, nil }

func (s sym) Eval(vars map[string]float64) (float64, error) {
	v, ok := vars[s.name]
	if !ok {
		return 0, fmt.Errorf("symbolic: no value bound for %s", s.name)
	}
	return v, nil
}

func (t add) Eval(vars map[string]float64) (float64, error) {
	sum := 0.0
	for _, term := range t.terms {
		v, err := term.Eval(vars)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum, nil
}

func (m mul) Eval(vars map[string]float64) (float64, error) {
	prod := 1.0
	for _, f := range m.factors {
		v, err := f.Eval(vars)
		if err != nil {
			return 0, err
		}
		prod *= v
	}
	return prod, nil
}

func (d div) Eval(vars map[string]float64) (float64, error) {
	nv, err := d.n.Eval(vars)
	if err != nil {
		return 0, err
	}
	dv, err := d.d.Eval(vars)
	if err != nil {
		return 0, err
	}
	if dv == 0 {
		return 0, fmt.Errorf("symbolic: division by zero evaluating %s", d.String())
	}
	return nv / dv, nil
}

// Algebra adapts an Arena to the coefficient interface of the shared
// linear solver. Pivot selection only distinguishes zero from non-zero
// entries; numeric entries rank by absolute value so constant pivots
// behave like the numeric path.
type Algebra struct {
	A *Arena
}

func (g Algebra) Add(a, b Expr) Expr { return g.A.Add(a, b) }
func (g Algebra) Sub(a, b Expr) Expr { return g.A.Sub(a, b) }
func (g Algebra) Mul(a, b Expr) Expr { return g.A.Mul(a, b) }
func (g Algebra) Div(a, b Expr) Expr { return g.A.Div(a, b) }
func (g Algebra) Zero() Expr         { return g.A.Num(0) }
func (g Algebra) IsZero(e Expr) bool { return IsZero(e) }

func (g Algebra) Magnitude(e Expr) float64 {
	if n, ok := e.(num); ok {
		return math.Abs(n.v)
	}
	if IsZero(e) {
		return 0
	}
	return 1
}
