package problems

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrenard/optiex/internal/model"
)

func loadTestPortfolio(t *testing.T) *PortfolioData {
	t.Helper()
	d, err := LoadPortfolio(filepath.Join("testdata", "portfolio.json"))
	require.NoError(t, err)
	return d
}

func TestLoadPortfolio(t *testing.T) {
	d := loadTestPortfolio(t)

	assert.Equal(t, 3, d.NumAssets)
	assert.Equal(t, 0.07, d.TargetReturn)
	assert.Equal(t, 2, d.MaxAssets)
	assert.Len(t, d.ExpectedReturn, 3)
}

func TestLoadPortfolioMissingFile(t *testing.T) {
	_, err := LoadPortfolio(filepath.Join("testdata", "nope.json"))
	assert.Error(t, err)
}

func TestCovarianceMatrix(t *testing.T) {
	d := loadTestPortfolio(t)
	sigma := d.CovarianceMatrix()

	r, c := sigma.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 3, c)
	assert.Equal(t, 0.04, sigma.At(0, 0))
	assert.Equal(t, sigma.At(0, 1), sigma.At(1, 0))
}

func TestPortfolioModel(t *testing.T) {
	d := loadTestPortfolio(t)
	m := Portfolio(d)

	// n fractions plus n indicators.
	require.Equal(t, 6, m.Dim())
	assert.Equal(t, model.Minimize, m.Sense())

	// Hold assets 0 and 1 equally: return 0.10 >= 0.07, budget exact,
	// two assets held, links satisfied.
	x := []float64{0.5, 0.5, 0, 1, 1, 0}
	require.True(t, m.Feasible(x, 1e-9))

	// Risk = x' Sigma x for the chosen weights.
	want := 0.25*0.04 + 0.25*0.09 + 2*0.25*0.006
	assert.InDelta(t, want, m.Objective(x), 1e-12)
	assert.InDelta(t, 0.10, PortfolioReturn(d, x), 1e-12)

	// Holding three assets violates the cardinality limit.
	assert.False(t, m.Feasible([]float64{0.4, 0.3, 0.3, 1, 1, 1}, 1e-9))

	// Investing without selecting violates the link constraint.
	assert.False(t, m.Feasible([]float64{0.5, 0.5, 0, 1, 0, 0}, 1e-9))

	// Below-target return is infeasible.
	assert.False(t, m.Feasible([]float64{0, 0, 1, 0, 0, 1}, 1e-9))
}
