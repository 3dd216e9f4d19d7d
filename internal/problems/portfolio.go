package problems

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/jrenard/optiex/internal/model"
)

// PortfolioData is the mean-variance portfolio selection instance: minimize
// portfolio risk x'Σx subject to a target expected return, a fully invested
// budget, and a cardinality limit on the number of held assets.
type PortfolioData struct {
	NumAssets      int         `json:"num_assets"`
	Covariance     [][]float64 `json:"covariance"`
	ExpectedReturn []float64   `json:"expected_return"`
	TargetReturn   float64     `json:"target_return"`
	MaxAssets      int         `json:"portfolio_max_size"`
}

// LoadPortfolio reads and validates a portfolio instance from a JSON file.
func LoadPortfolio(path string) (*PortfolioData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read portfolio data: %w", err)
	}

	var d PortfolioData
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to parse portfolio data: %w", err)
	}

	if d.NumAssets <= 0 {
		return nil, fmt.Errorf("portfolio data: num_assets must be positive, got %d", d.NumAssets)
	}
	if len(d.ExpectedReturn) != d.NumAssets {
		return nil, fmt.Errorf("portfolio data: expected %d returns, got %d", d.NumAssets, len(d.ExpectedReturn))
	}
	if len(d.Covariance) != d.NumAssets {
		return nil, fmt.Errorf("portfolio data: expected %d covariance rows, got %d", d.NumAssets, len(d.Covariance))
	}
	for i, row := range d.Covariance {
		if len(row) != d.NumAssets {
			return nil, fmt.Errorf("portfolio data: covariance row %d has %d entries, want %d", i, len(row), d.NumAssets)
		}
	}
	if d.MaxAssets <= 0 || d.MaxAssets > d.NumAssets {
		return nil, fmt.Errorf("portfolio data: portfolio_max_size %d out of range", d.MaxAssets)
	}
	return &d, nil
}

// CovarianceMatrix returns Σ as a symmetric gonum matrix.
func (d *PortfolioData) CovarianceMatrix() *mat.SymDense {
	n := d.NumAssets
	sigma := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sigma.SetSym(i, j, d.Covariance[i][j])
		}
	}
	return sigma
}

// Portfolio builds the cardinality-constrained mean-variance model. The
// first NumAssets variables are the invested fractions, the following
// NumAssets are the binary selection indicators.
func Portfolio(d *PortfolioData) *model.Model {
	n := d.NumAssets
	sigma := d.CovarianceMatrix()

	m := model.New("portfolio")
	m.AddVars("x", n, 0, 1)
	m.AddBinaryVars("y", n)

	var tmp mat.VecDense
	m.SetObjective(model.Minimize, func(x []float64) float64 {
		v := mat.NewVecDense(n, x[:n])
		tmp.MulVec(sigma, v)
		return mat.Dot(v, &tmp)
	})

	m.AddLe("return", func(x []float64) float64 {
		expected := 0.0
		for i := 0; i < n; i++ {
			expected += d.ExpectedReturn[i] * x[i]
		}
		return d.TargetReturn - expected
	})

	m.AddEq("budget", func(x []float64) float64 {
		invested := 0.0
		for i := 0; i < n; i++ {
			invested += x[i]
		}
		return invested - 1
	})

	m.AddLe("limit_assets", func(x []float64) float64 {
		held := 0.0
		for i := 0; i < n; i++ {
			held += x[n+i]
		}
		return held - float64(d.MaxAssets)
	})

	m.AddLe("link", func(x []float64) float64 {
		excess := 0.0
		for i := 0; i < n; i++ {
			if over := x[i] - x[n+i]; over > 0 {
				excess += over
			}
		}
		return excess
	})

	// The minimum-variance point of the unconstrained relaxation is not
	// cheap to prove here, but risk can never be negative for a valid
	// covariance matrix.
	m.SetBestBound(0)
	return m
}

// PortfolioReturn evaluates the expected return of a solution point.
func PortfolioReturn(d *PortfolioData, x []float64) float64 {
	expected := 0.0
	for i := 0; i < d.NumAssets; i++ {
		expected += d.ExpectedReturn[i] * x[i]
	}
	return expected
}
