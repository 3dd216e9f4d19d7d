package problems

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jrenard/optiex/internal/model"
)

// LotSizingData is the single-item lot sizing instance: plan production over
// H periods against known demand, trading variable, setup, and holding costs
// under minimum batch and maximum capacity limits.
type LotSizingData struct {
	Name         string    `json:"name"`
	Horizon      int       `json:"H"`
	Demand       []float64 `json:"demand"`
	VarCost      []float64 `json:"var_cost"`
	SetupCost    []float64 `json:"setup_cost"`
	HoldCost     []float64 `json:"hold_cost"`
	QMin         float64   `json:"Qmin"`
	QMax         float64   `json:"Qmax"`
	InitialStock float64   `json:"I0"`
}

// LoadLotSizing reads and validates a lot sizing instance from a JSON file.
func LoadLotSizing(path string) (*LotSizingData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lot sizing data: %w", err)
	}

	var d LotSizingData
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to parse lot sizing data: %w", err)
	}

	if d.Horizon <= 0 {
		return nil, fmt.Errorf("lot sizing data: H must be positive, got %d", d.Horizon)
	}
	for _, s := range []struct {
		name string
		vals []float64
	}{
		{"demand", d.Demand},
		{"var_cost", d.VarCost},
		{"setup_cost", d.SetupCost},
		{"hold_cost", d.HoldCost},
	} {
		if len(s.vals) != d.Horizon {
			return nil, fmt.Errorf("lot sizing data: %s has %d entries, want %d", s.name, len(s.vals), d.Horizon)
		}
	}
	if d.QMin < 0 || d.QMin > d.QMax {
		return nil, fmt.Errorf("lot sizing data: need 0 <= Qmin <= Qmax, got Qmin=%g Qmax=%g", d.QMin, d.QMax)
	}
	return &d, nil
}

// Stocks returns the end-of-period inventory implied by a production vector:
// I_t = I0 + sum of production minus demand up to t. Inventory is fully
// determined by production, so it never needs its own decision variables.
func (d *LotSizingData) Stocks(production []float64) []float64 {
	stocks := make([]float64, d.Horizon)
	level := d.InitialStock
	for t := 0; t < d.Horizon; t++ {
		level += production[t] - d.Demand[t]
		stocks[t] = level
	}
	return stocks
}

// TotalCost evaluates the plan cost for given production and setup vectors.
func (d *LotSizingData) TotalCost(production, setup []float64) float64 {
	stocks := d.Stocks(production)
	total := 0.0
	for t := 0; t < d.Horizon; t++ {
		total += d.VarCost[t]*production[t] + d.SetupCost[t]*setup[t] + d.HoldCost[t]*stocks[t]
	}
	return total
}

// LotSizing builds the lot sizing model. The first H variables are the
// production quantities, the following H are the binary setup indicators.
func LotSizing(d *LotSizingData) *model.Model {
	h := d.Horizon

	m := model.New(d.Name)
	m.AddVars("x", h, 0, d.QMax)
	m.AddBinaryVars("y", h)

	m.SetObjective(model.Minimize, func(x []float64) float64 {
		return d.TotalCost(x[:h], x[h:])
	})

	for t := 0; t < h; t++ {
		t := t
		// Stock may never go negative.
		m.AddLe(fmt.Sprintf("balance_%d", t), func(x []float64) float64 {
			return -d.Stocks(x[:h])[t]
		})
		// Production only in periods with an active setup, and then at
		// least the minimum batch.
		m.AddLe(fmt.Sprintf("maxcap_%d", t), func(x []float64) float64 {
			return x[t] - d.QMax*x[h+t]
		})
		m.AddLe(fmt.Sprintf("minbatch_%d", t), func(x []float64) float64 {
			return d.QMin*x[h+t] - x[t]
		})
	}

	return m
}
