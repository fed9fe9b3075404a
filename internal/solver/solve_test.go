package solver

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolve_SimpleLP(t *testing.T) {
	m := NewModel("lp")
	x := m.AddVar("x", 0, 4, 1)
	y := m.AddVar("y", 0, math.Inf(1), 2)
	m.AddConstraint("demand", []Term{{Var: x, Coeff: 1}, {Var: y, Coeff: 1}}, GreaterEq, 10)

	sol, err := m.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)

	// Cheaper x fills to its cap, y covers the rest.
	assert.InDelta(t, 4, sol.Value(x), 1e-6)
	assert.InDelta(t, 6, sol.Value(y), 1e-6)
	assert.InDelta(t, 16, sol.Objective, 1e-6)
}

func TestSolve_EqualityConstraint(t *testing.T) {
	m := NewModel("eq")
	x := m.AddVar("x", 0, math.Inf(1), 1)
	y := m.AddVar("y", 0, math.Inf(1), 3)
	m.AddConstraint("balance", []Term{{Var: x, Coeff: 1}, {Var: y, Coeff: 1}}, Equal, 5)

	sol, err := m.Solve(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 5, sol.Value(x), 1e-6)
	assert.InDelta(t, 0, sol.Value(y), 1e-6)
	assert.InDelta(t, 5, sol.Objective, 1e-6)
}

func TestSolve_SemicontinuousLinkage(t *testing.T) {
	// The MOQ pattern: x is zero or at least 40, switched by a binary.
	m := NewModel("moq")
	x := m.AddVar("x", 0, 100, 1)
	y := m.AddBinary("y", 0)
	m.AddConstraint("moq_min", []Term{{Var: x, Coeff: 1}, {Var: y, Coeff: -40}}, GreaterEq, 0)
	m.AddConstraint("moq_link", []Term{{Var: x, Coeff: 1}, {Var: y, Coeff: -100}}, LessEq, 0)
	m.AddConstraint("demand", []Term{{Var: x, Coeff: 1}}, GreaterEq, 50)

	sol, err := m.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)

	assert.InDelta(t, 50, sol.Value(x), 1e-6)
	assert.InDelta(t, 1, sol.Value(y), 1e-6)
}

func TestSolve_BranchesOnFractionalRelaxation(t *testing.T) {
	// The relaxation puts both binaries at 0.75; only branching finds the
	// integer optimum of one active binary.
	m := NewModel("branch")
	y1 := m.AddBinary("y1", -1)
	y2 := m.AddBinary("y2", -1)
	m.AddConstraint("budget", []Term{{Var: y1, Coeff: 2}, {Var: y2, Coeff: 2}}, LessEq, 3)

	sol, err := m.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)

	assert.InDelta(t, -1, sol.Objective, 1e-6)
	assert.InDelta(t, 1, sol.Value(y1)+sol.Value(y2), 1e-6)
}

func TestSolve_FixedBinaryBranchStaysFeasible(t *testing.T) {
	// A two-supplier allocation whose relaxation leaves both usage binaries
	// fractional. Branching pins them to 1, and the pinned subproblem must
	// still solve; the cheaper supplier fills its share cap and the dearer
	// one covers the remainder with no shortage.
	m := NewModel("allocation")
	x1 := m.AddVar("x1", 0, 50000, 0.12)
	x2 := m.AddVar("x2", 0, 100000, 0.10)
	y1 := m.AddBinary("y1", 0)
	y2 := m.AddBinary("y2", 0)
	short := m.AddVar("short", 0, 30000, 5)

	m.AddConstraint("demand",
		[]Term{{Var: x1, Coeff: 1}, {Var: x2, Coeff: 1}, {Var: short, Coeff: 1}}, GreaterEq, 30000)
	m.AddConstraint("share_1", []Term{{Var: x1, Coeff: 1}}, LessEq, 21000)
	m.AddConstraint("share_2", []Term{{Var: x2, Coeff: 1}}, LessEq, 21000)
	m.AddConstraint("moq_min_1", []Term{{Var: x1, Coeff: 1}, {Var: y1, Coeff: -1000}}, GreaterEq, 0)
	m.AddConstraint("moq_link_1", []Term{{Var: x1, Coeff: 1}, {Var: y1, Coeff: -50000}}, LessEq, 0)
	m.AddConstraint("moq_min_2", []Term{{Var: x2, Coeff: 1}, {Var: y2, Coeff: -5000}}, GreaterEq, 0)
	m.AddConstraint("moq_link_2", []Term{{Var: x2, Coeff: 1}, {Var: y2, Coeff: -100000}}, LessEq, 0)

	sol, err := m.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)

	assert.InDelta(t, 9000, sol.Value(x1), 1e-4)
	assert.InDelta(t, 21000, sol.Value(x2), 1e-4)
	assert.InDelta(t, 0, sol.Value(short), 1e-4)
	assert.InDelta(t, 3180, sol.Objective, 1e-4)
}

func TestSolve_Infeasible(t *testing.T) {
	m := NewModel("infeasible")
	x := m.AddVar("x", 0, 1, 1)
	m.AddConstraint("demand", []Term{{Var: x, Coeff: 1}}, GreaterEq, 5)

	sol, err := m.Solve(context.Background())
	require.Error(t, err)
	require.NotNil(t, sol)
	assert.Equal(t, StatusInfeasible, sol.Status)
}

func TestSolve_EmptyModel(t *testing.T) {
	_, err := NewModel("empty").Solve(context.Background())
	assert.Error(t, err)
}

func TestSolve_ContextCancellation(t *testing.T) {
	m := NewModel("cancelled")
	x := m.AddVar("x", 0, 1, 1)
	m.AddConstraint("demand", []Term{{Var: x, Coeff: 1}}, GreaterEq, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Solve(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
