// Package model provides lightweight construction of box-bounded optimization
// models: named variables with bounds, an objective with a sense, and penalty
// constraints. Models are evaluated as flat float64 vectors so they can be
// handed to any black-box solver.
package model

import (
	"math"
	"strconv"
)

// Sense is the optimization direction of the objective.
type Sense int

const (
	Minimize Sense = iota
	Maximize
)

// ConstrKind distinguishes inequality and equality constraints.
type ConstrKind int

const (
	// LessEq constraints are feasible when the expression is <= 0.
	LessEq ConstrKind = iota
	// Eq constraints are feasible when the expression is == 0.
	Eq
)

// Var is a single decision variable with box bounds.
type Var struct {
	Name    string
	Lower   float64
	Upper   float64
	Integer bool // values are snapped to the nearest integer before evaluation
}

// Constraint wraps a constraint expression. For LessEq the violation is
// max(0, expr); for Eq it is |expr|.
type Constraint struct {
	Name string
	Kind ConstrKind
	Expr func(x []float64) float64
}

// Violation returns the non-negative infeasibility measure at x.
func (c Constraint) Violation(x []float64) float64 {
	v := c.Expr(x)
	if c.Kind == Eq {
		return math.Abs(v)
	}
	return math.Max(0, v)
}

// Model is a box-bounded optimization problem. Constraints are enforced by
// quadratic penalties when the model is evaluated through Cost, which is how
// a black-box solver sees it.
type Model struct {
	Name string

	vars        []Var
	sense       Sense
	objective   func(x []float64) float64
	constraints []Constraint

	penaltyWeight float64
	bestBound     float64
	hasBestBound  bool
}

// New creates an empty model with the default penalty weight.
func New(name string) *Model {
	return &Model{
		Name:          name,
		sense:         Minimize,
		penaltyWeight: 1e4,
	}
}

// AddVar appends a continuous variable and returns its index.
func (m *Model) AddVar(name string, lower, upper float64) int {
	m.vars = append(m.vars, Var{Name: name, Lower: lower, Upper: upper})
	return len(m.vars) - 1
}

// AddBinaryVar appends a binary variable and returns its index.
func (m *Model) AddBinaryVar(name string) int {
	m.vars = append(m.vars, Var{Name: name, Lower: 0, Upper: 1, Integer: true})
	return len(m.vars) - 1
}

// AddVars appends n continuous variables named prefix[0]..prefix[n-1] and
// returns their indices.
func (m *Model) AddVars(prefix string, n int, lower, upper float64) []int {
	idx := make([]int, n)
	for i := 0; i < n; i++ {
		idx[i] = m.AddVar(indexedName(prefix, i), lower, upper)
	}
	return idx
}

// AddBinaryVars appends n binary variables and returns their indices.
func (m *Model) AddBinaryVars(prefix string, n int) []int {
	idx := make([]int, n)
	for i := 0; i < n; i++ {
		idx[i] = m.AddBinaryVar(indexedName(prefix, i))
	}
	return idx
}

// SetObjective installs the objective function and its sense.
func (m *Model) SetObjective(sense Sense, fn func(x []float64) float64) {
	m.sense = sense
	m.objective = fn
}

// AddLe adds an inequality constraint, feasible when expr(x) <= 0.
func (m *Model) AddLe(name string, expr func(x []float64) float64) {
	m.constraints = append(m.constraints, Constraint{Name: name, Kind: LessEq, Expr: expr})
}

// AddEq adds an equality constraint, feasible when expr(x) == 0.
func (m *Model) AddEq(name string, expr func(x []float64) float64) {
	m.constraints = append(m.constraints, Constraint{Name: name, Kind: Eq, Expr: expr})
}

// SetPenaltyWeight overrides the weight applied to squared constraint
// violations in Cost.
func (m *Model) SetPenaltyWeight(w float64) {
	m.penaltyWeight = w
}

// SetBestBound records a proven bound on the true objective (an upper bound
// for maximization, a lower bound for minimization), typically obtained from
// a relaxation of the model.
func (m *Model) SetBestBound(v float64) {
	m.bestBound = v
	m.hasBestBound = true
}

// BestBound returns the recorded objective bound, if any.
func (m *Model) BestBound() (float64, bool) {
	return m.bestBound, m.hasBestBound
}

// Sense returns the objective sense.
func (m *Model) Sense() Sense {
	return m.sense
}

// Dim returns the number of decision variables.
func (m *Model) Dim() int {
	return len(m.vars)
}

// Vars returns the variable definitions.
func (m *Model) Vars() []Var {
	return m.vars
}

// Constraints returns the constraint definitions.
func (m *Model) Constraints() []Constraint {
	return m.constraints
}

// Bounds returns the lower and upper bound vectors for all variables.
func (m *Model) Bounds() (lower, upper []float64) {
	lower = make([]float64, len(m.vars))
	upper = make([]float64, len(m.vars))
	for i, v := range m.vars {
		lower[i] = v.Lower
		upper[i] = v.Upper
	}
	return lower, upper
}

// Round returns a copy of x with integer variables snapped to the nearest
// integer and all values clamped to their bounds.
func (m *Model) Round(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range m.vars {
		val := clamp(x[i], v.Lower, v.Upper)
		if v.Integer {
			val = math.Round(val)
		}
		out[i] = val
	}
	return out
}

// Objective evaluates the raw objective at x in the model's own sense.
func (m *Model) Objective(x []float64) float64 {
	return m.objective(x)
}

// Violation returns the largest single constraint violation at x.
func (m *Model) Violation(x []float64) float64 {
	worst := 0.0
	for _, c := range m.constraints {
		if v := c.Violation(x); v > worst {
			worst = v
		}
	}
	return worst
}

// Feasible reports whether every constraint is satisfied at x within tol.
func (m *Model) Feasible(x []float64, tol float64) bool {
	return m.Violation(x) <= tol
}

// Cost is the penalized minimization objective a black-box solver evaluates:
// the sense-normalized objective plus the weighted sum of squared constraint
// violations, computed on the rounded point.
func (m *Model) Cost(x []float64) float64 {
	r := m.Round(x)

	cost := m.objective(r)
	if m.sense == Maximize {
		cost = -cost
	}

	for _, c := range m.constraints {
		v := c.Violation(r)
		cost += m.penaltyWeight * v * v
	}
	return cost
}

func indexedName(prefix string, i int) string {
	return prefix + "[" + strconv.Itoa(i) + "]"
}

func clamp(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
