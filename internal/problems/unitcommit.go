package problems

import (
	"fmt"
	"math"

	"github.com/jrenard/optiex/internal/model"
)

// ThermalUnit describes one generator: quadratic production cost
// a + b*p + c*p^2 while committed, plus startup and shutdown costs.
type ThermalUnit struct {
	Name         string
	A, B, C      float64
	StartupCost  float64
	ShutdownCost float64
	PMin, PMax   float64
	InitialOn    bool
}

// UnitCommitmentData is the 24-hour unit commitment instance: meet the load
// forecast net of solar with a fleet of thermal units at minimum cost.
type UnitCommitmentData struct {
	Load  []float64
	Solar []float64
	Units []ThermalUnit
}

// DefaultUnitCommitment returns the classic three-generator, 24-hour
// instance.
func DefaultUnitCommitment() UnitCommitmentData {
	return UnitCommitmentData{
		Load: []float64{
			4, 4, 4, 4, 4, 4, 6, 6,
			12, 12, 12, 12, 12, 4, 4, 4,
			4, 16, 16, 16, 16, 6.5, 6.5, 6.5,
		},
		Solar: []float64{
			0, 0, 0, 0, 0, 0, 0.5, 1.0,
			1.5, 2.0, 2.5, 3.5, 3.5, 2.5, 2.0, 1.5,
			1.0, 0.5, 0, 0, 0, 0, 0, 0,
		},
		Units: []ThermalUnit{
			{Name: "gen1", A: 5.0, B: 0.5, C: 1.0, StartupCost: 2, ShutdownCost: 1, PMin: 1.5, PMax: 5.0},
			{Name: "gen2", A: 5.0, B: 0.5, C: 0.5, StartupCost: 2, ShutdownCost: 1, PMin: 2.5, PMax: 10.0},
			{Name: "gen3", A: 5.0, B: 3.0, C: 2.0, StartupCost: 2, ShutdownCost: 1, PMin: 1.0, PMax: 3.0},
		},
	}
}

// Horizon returns the number of time intervals.
func (d UnitCommitmentData) Horizon() int {
	return len(d.Load)
}

// UnitCommitment builds the unit commitment model. Variables are laid out as
// all production levels p[g*T+t] followed by all commitment indicators
// u[g*T+t]. Startup and shutdown indicators are derived from commitment
// transitions rather than being decision variables: v = max(0, u_t - u_{t-1})
// and w = max(0, u_{t-1} - u_t), which is exact for binary u.
func UnitCommitment(d UnitCommitmentData) *model.Model {
	T := d.Horizon()
	G := len(d.Units)

	m := model.New("unit_commitment")
	for _, unit := range d.Units {
		m.AddVars(fmt.Sprintf("p_%s", unit.Name), T, 0, unit.PMax)
	}
	for _, unit := range d.Units {
		m.AddBinaryVars(fmt.Sprintf("u_%s", unit.Name), T)
	}

	pIdx := func(g, t int) int { return g*T + t }
	uIdx := func(g, t int) int { return G*T + g*T + t }

	m.SetObjective(model.Minimize, func(x []float64) float64 {
		cost := 0.0
		for g, unit := range d.Units {
			prevOn := 0.0
			if unit.InitialOn {
				prevOn = 1
			}
			for t := 0; t < T; t++ {
				p := x[pIdx(g, t)]
				u := x[uIdx(g, t)]
				cost += unit.C*p*p + unit.B*p + unit.A*u
				cost += unit.StartupCost * math.Max(0, u-prevOn)
				cost += unit.ShutdownCost * math.Max(0, prevOn-u)
				prevOn = u
			}
		}
		return cost
	})

	for t := 0; t < T; t++ {
		t := t
		m.AddEq(fmt.Sprintf("power_balance_%d", t), func(x []float64) float64 {
			produced := d.Solar[t]
			for g := range d.Units {
				produced += x[pIdx(g, t)]
			}
			return produced - d.Load[t]
		})
	}

	for g, unit := range d.Units {
		g, unit := g, unit
		for t := 0; t < T; t++ {
			t := t
			// Committed units run inside [PMin, PMax]; off units at zero.
			m.AddLe(fmt.Sprintf("pmin_%s_%d", unit.Name, t), func(x []float64) float64 {
				return x[uIdx(g, t)] * (unit.PMin - x[pIdx(g, t)])
			})
			m.AddLe(fmt.Sprintf("pmax_%s_%d", unit.Name, t), func(x []float64) float64 {
				return x[uIdx(g, t)] * (x[pIdx(g, t)] - unit.PMax)
			})
			m.AddEq(fmt.Sprintf("p_off_%s_%d", unit.Name, t), func(x []float64) float64 {
				return (1 - x[uIdx(g, t)]) * x[pIdx(g, t)]
			})
		}
	}

	m.SetPenaltyWeight(1e3)
	return m
}

// Schedule decodes a solution point into per-unit production levels,
// indexed [unit][period].
func (d UnitCommitmentData) Schedule(x []float64) [][]float64 {
	T := d.Horizon()
	out := make([][]float64, len(d.Units))
	for g := range d.Units {
		out[g] = make([]float64, T)
		copy(out[g], x[g*T:(g+1)*T])
	}
	return out
}
