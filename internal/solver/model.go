// internal/solver/model.go

// Package solver provides a small mixed-integer linear programming layer:
// a model of bounded variables, linear constraints and a minimization
// objective, solved by branch-and-bound over the integer variables with
// gonum's simplex handling each linear relaxation. Policy code builds a
// Model and never touches the LP library directly, so the backend can be
// swapped without touching any optimization policy.
package solver

import (
	"fmt"
	"math"
)

// Sense is the comparison direction of a constraint.
type Sense int

const (
	LessEq Sense = iota
	GreaterEq
	Equal
)

// Status reports how a solve ended.
type Status string

const (
	StatusOptimal    Status = "Optimal"
	StatusInfeasible Status = "Infeasible"
	StatusUnbounded  Status = "Unbounded"
)

// VarID indexes a variable within its model.
type VarID int

// Term is one coefficient of a linear expression.
type Term struct {
	Var   VarID
	Coeff float64
}

type variable struct {
	name    string
	lower   float64
	upper   float64
	cost    float64
	integer bool
}

type constraint struct {
	name  string
	terms []Term
	sense Sense
	rhs   float64
}

// Model is a mixed-integer linear program under construction. The objective
// is the minimization of the variable costs; constraints are linear.
type Model struct {
	name        string
	vars        []variable
	constraints []constraint
}

// NewModel creates an empty minimization model.
func NewModel(name string) *Model {
	return &Model{name: name}
}

// AddVar adds a continuous variable with bounds [lower, upper] and the given
// objective cost. Use math.Inf(1) for an unbounded upper limit.
func (m *Model) AddVar(name string, lower, upper, cost float64) VarID {
	m.vars = append(m.vars, variable{name: name, lower: lower, upper: upper, cost: cost})
	return VarID(len(m.vars) - 1)
}

// AddBinary adds a 0/1 integer variable with the given objective cost.
func (m *Model) AddBinary(name string, cost float64) VarID {
	m.vars = append(m.vars, variable{name: name, lower: 0, upper: 1, cost: cost, integer: true})
	return VarID(len(m.vars) - 1)
}

// AddConstraint adds the linear constraint sum(terms) sense rhs.
func (m *Model) AddConstraint(name string, terms []Term, sense Sense, rhs float64) {
	m.constraints = append(m.constraints, constraint{name: name, terms: terms, sense: sense, rhs: rhs})
}

// NumVars returns the number of variables added so far.
func (m *Model) NumVars() int { return len(m.vars) }

// Solution is the result of a successful solve.
type Solution struct {
	Status    Status
	Objective float64
	Values    []float64
}

// Value returns the solved value of one variable.
func (s *Solution) Value(id VarID) float64 {
	if int(id) < 0 || int(id) >= len(s.Values) {
		return 0
	}
	return s.Values[id]
}

// describeConstraints renders the constraint set for diagnostics when a
// model unexpectedly reports infeasible.
func (m *Model) describeConstraints() string {
	out := ""
	for _, c := range m.constraints {
		op := "<="
		switch c.sense {
		case GreaterEq:
			op = ">="
		case Equal:
			op = "="
		}
		out += fmt.Sprintf("%s: %d terms %s %.4f; ", c.name, len(c.terms), op, c.rhs)
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
