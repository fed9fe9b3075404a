// internal/solver/solve.go
package solver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	simplexTol     = 1e-10
	integralityTol = 1e-6
	maxNodes       = 20000
)

// ErrNodeLimit is returned when branch-and-bound exhausts its node budget
// without proving optimality. Models in this package are small (one binary
// per supplier), so hitting it indicates a malformed model.
var ErrNodeLimit = errors.New("solver: branch-and-bound node limit exceeded")

// node is one branch-and-bound subproblem: the root relaxation plus
// tightened bounds on the integer variables branched so far.
type node struct {
	lower []float64
	upper []float64
}

// Solve minimizes the model. Integer variables are handled by depth-first
// branch-and-bound with incumbent pruning; each relaxation is a linear
// program solved by gonum's simplex. The context is checked between nodes so
// callers can abandon a solve.
func (m *Model) Solve(ctx context.Context) (*Solution, error) {
	if len(m.vars) == 0 {
		return nil, fmt.Errorf("solver: model %q has no variables", m.name)
	}

	root := node{lower: make([]float64, len(m.vars)), upper: make([]float64, len(m.vars))}
	for i, v := range m.vars {
		root.lower[i] = v.lower
		root.upper[i] = v.upper
	}

	var (
		incumbent    *Solution
		incumbentObj = math.Inf(1)
		stack        = []node{root}
		visited      int
	)

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		visited++
		if visited > maxNodes {
			return nil, ErrNodeLimit
		}

		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		obj, values, err := m.solveRelaxation(n)
		if err != nil {
			if errors.Is(err, lp.ErrInfeasible) {
				// Pruned: no feasible point under this node's bounds.
				continue
			}
			if errors.Is(err, lp.ErrUnbounded) {
				return &Solution{Status: StatusUnbounded}, fmt.Errorf("solver: model %q unbounded", m.name)
			}
			return nil, fmt.Errorf("solver: relaxation of %q: %w", m.name, err)
		}

		// Bound: the relaxation is a lower bound on every descendant.
		if obj >= incumbentObj-integralityTol {
			continue
		}

		branchVar := m.fractionalVar(values)
		if branchVar < 0 {
			// Integer-feasible: new incumbent.
			incumbent = &Solution{Status: StatusOptimal, Objective: obj, Values: values}
			incumbentObj = obj
			continue
		}

		// Branch on the fractional integer variable: floor side and ceil
		// side. The ceil side is pushed last so cheaper down-branches are
		// explored first.
		v := values[branchVar]
		up := n.clone()
		up.lower[branchVar] = math.Ceil(v)
		down := n.clone()
		down.upper[branchVar] = math.Floor(v)
		stack = append(stack, up, down)
	}

	if incumbent == nil {
		return &Solution{Status: StatusInfeasible},
			fmt.Errorf("solver: model %q infeasible: %s", m.name, m.describeConstraints())
	}
	return incumbent, nil
}

// fractionalVar returns the integer variable farthest from integrality, or
// -1 when the point is integer-feasible.
func (m *Model) fractionalVar(values []float64) int {
	best := -1
	bestDist := integralityTol
	for i, v := range m.vars {
		if !v.integer {
			continue
		}
		frac := math.Abs(values[i] - math.Round(values[i]))
		if frac > bestDist {
			best = i
			bestDist = frac
		}
	}
	return best
}

func (n node) clone() node {
	l := make([]float64, len(n.lower))
	u := make([]float64, len(n.upper))
	copy(l, n.lower)
	copy(u, n.upper)
	return node{lower: l, upper: u}
}

// feasTol absorbs float noise when a constraint reduces to a constant after
// fixed-variable substitution.
const feasTol = 1e-9

// stdRow is one equality row of the standard-form program, expressed over
// the free (non-fixed) variable columns plus at most one slack column.
type stdRow struct {
	coeffs []float64
	slack  float64 // 0 for equality rows, +1 for <=, -1 for >=
	rhs    float64
}

// solveRelaxation solves the LP relaxation of the model under a node's
// variable bounds. The simplex standard form (min c'z, Az = b, z >= 0) is
// built directly: variables fixed by branching are substituted out, the
// rest are shifted by their lower bound, and inequality rows and finite
// upper bounds get explicit slack columns. lp.Convert is deliberately not
// used here; splitting every variable into free positive and negative
// parts turns fixed-variable bounds into opposing inequality rows that
// gonum's phase 1 misreports as infeasible or unbounded.
func (m *Model) solveRelaxation(n node) (float64, []float64, error) {
	nv := len(m.vars)

	// col maps each model variable to its standard-form column, -1 when the
	// variable is fixed by branching. base holds the shift (the lower bound)
	// for free variables and the pinned value for fixed ones.
	col := make([]int, nv)
	base := make([]float64, nv)
	nfree := 0
	for i, v := range m.vars {
		lo, hi := n.lower[i], n.upper[i]
		if !isFinite(lo) {
			return 0, nil, fmt.Errorf("variable %s has no finite lower bound", v.name)
		}
		if hi < lo {
			return 0, nil, lp.ErrInfeasible
		}
		base[i] = lo
		if hi == lo {
			col[i] = -1
			continue
		}
		col[i] = nfree
		nfree++
	}

	// The objective constant carries the shifted lower bounds and the fixed
	// variable contributions back into the reported objective.
	objConst := 0.0
	for i, v := range m.vars {
		objConst += v.cost * base[i]
	}

	var rows []stdRow
	for _, c := range m.constraints {
		coeffs := make([]float64, nfree)
		rhs := c.rhs
		active := false
		for _, t := range c.terms {
			rhs -= t.Coeff * base[t.Var]
			if j := col[t.Var]; j >= 0 {
				coeffs[j] += t.Coeff
				if t.Coeff != 0 {
					active = true
				}
			}
		}
		if !active {
			// Every term is pinned; the row is a constant to verify.
			ok := true
			switch c.sense {
			case LessEq:
				ok = rhs >= -feasTol
			case GreaterEq:
				ok = rhs <= feasTol
			case Equal:
				ok = math.Abs(rhs) <= feasTol
			}
			if !ok {
				return 0, nil, lp.ErrInfeasible
			}
			continue
		}
		slack := 0.0
		switch c.sense {
		case LessEq:
			slack = 1
		case GreaterEq:
			slack = -1
		}
		rows = append(rows, stdRow{coeffs: coeffs, slack: slack, rhs: rhs})
	}

	// Finite upper bounds become their own slack rows: z_j + s = hi - lo.
	for i := range m.vars {
		j := col[i]
		if j < 0 || !isFinite(n.upper[i]) {
			continue
		}
		coeffs := make([]float64, nfree)
		coeffs[j] = 1
		rows = append(rows, stdRow{coeffs: coeffs, slack: 1, rhs: n.upper[i] - base[i]})
	}

	if nfree == 0 {
		// Fully pinned node; every row was checked as a constant above.
		values := make([]float64, nv)
		copy(values, base)
		return objConst, values, nil
	}
	if len(rows) == 0 {
		// Unconstrained over z >= 0: minimized at zero unless a cost is
		// negative, in which case the program is unbounded below.
		for i, v := range m.vars {
			if col[i] >= 0 && v.cost < 0 {
				return 0, nil, lp.ErrUnbounded
			}
		}
		values := make([]float64, nv)
		copy(values, base)
		return objConst, values, nil
	}

	nslack := 0
	for _, r := range rows {
		if r.slack != 0 {
			nslack++
		}
	}
	ncols := nfree + nslack

	a := mat.NewDense(len(rows), ncols, nil)
	b := make([]float64, len(rows))
	slackCol := nfree
	for r, row := range rows {
		// Simplex phase 1 is steadier with a nonnegative b; equality rows
		// flip sign freely, and the slack coefficient flips with them.
		sign := 1.0
		if row.rhs < 0 {
			sign = -1
		}
		for j, v := range row.coeffs {
			a.Set(r, j, sign*v)
		}
		if row.slack != 0 {
			a.Set(r, slackCol, sign*row.slack)
			slackCol++
		}
		b[r] = sign * row.rhs
	}

	c := make([]float64, ncols)
	for i, v := range m.vars {
		if j := col[i]; j >= 0 {
			c[j] = v.cost
		}
	}

	obj, z, err := lp.Simplex(c, a, b, simplexTol, nil)
	if err != nil {
		return 0, nil, err
	}

	values := make([]float64, nv)
	for i := range m.vars {
		values[i] = base[i]
		if j := col[i]; j >= 0 {
			values[i] += z[j]
		}
	}
	return obj + objConst, values, nil
}
