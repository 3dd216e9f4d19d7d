package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddVarsAndBounds(t *testing.T) {
	m := New("test")
	m.AddVar("a", -1, 1)
	m.AddVars("x", 3, 0, 10)
	m.AddBinaryVar("b")

	require.Equal(t, 5, m.Dim())

	lower, upper := m.Bounds()
	assert.Equal(t, []float64{-1, 0, 0, 0, 0}, lower)
	assert.Equal(t, []float64{1, 10, 10, 10, 1}, upper)

	vars := m.Vars()
	assert.Equal(t, "x[1]", vars[2].Name)
	assert.True(t, vars[4].Integer)
}

func TestRoundSnapsIntegersAndClamps(t *testing.T) {
	m := New("test")
	m.AddVar("c", 0, 5)
	m.AddBinaryVar("b")

	got := m.Round([]float64{7.3, 0.8})
	assert.Equal(t, []float64{5, 1}, got)

	got = m.Round([]float64{-2, 0.4})
	assert.Equal(t, []float64{0, 0}, got)
}

func TestCostAppliesSenseAndPenalty(t *testing.T) {
	m := New("test")
	m.AddVar("x", 0, 10)
	m.SetObjective(Maximize, func(x []float64) float64 { return x[0] })
	m.AddLe("cap", func(x []float64) float64 { return x[0] - 4 })
	m.SetPenaltyWeight(100)

	// Feasible point: cost is the negated objective.
	assert.InDelta(t, -3, m.Cost([]float64{3}), 1e-12)

	// Infeasible point: violation 2, squared penalty 400.
	assert.InDelta(t, -6+100*4, m.Cost([]float64{6}), 1e-12)
}

func TestViolationAndFeasible(t *testing.T) {
	m := New("test")
	m.AddVar("x", -10, 10)
	m.AddVar("y", -10, 10)
	m.SetObjective(Minimize, func(x []float64) float64 { return 0 })
	m.AddEq("sum", func(x []float64) float64 { return x[0] + x[1] - 1 })
	m.AddLe("ub", func(x []float64) float64 { return x[0] - 2 })

	assert.True(t, m.Feasible([]float64{0.5, 0.5}, 1e-9))
	assert.False(t, m.Feasible([]float64{3, -2}, 1e-9))

	// Eq violation is the absolute residual, Le violation ignores slack.
	assert.InDelta(t, 2, m.Violation([]float64{2, 1}), 1e-12)
	assert.InDelta(t, 1, m.Violation([]float64{3, -2}), 1e-12)
}

func TestBestBound(t *testing.T) {
	m := New("test")
	_, ok := m.BestBound()
	assert.False(t, ok)

	m.SetBestBound(12.5)
	b, ok := m.BestBound()
	require.True(t, ok)
	assert.Equal(t, 12.5, b)
}
