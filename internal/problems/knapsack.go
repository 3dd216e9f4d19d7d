// Package problems builds the exercise models: classic optimization problems
// expressed as box-bounded models with penalty constraints, ready to hand to
// the solve engine. Each builder also derives whatever relaxation bound the
// problem admits, so runs can report a relative optimality gap.
package problems

import (
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/jrenard/optiex/internal/model"
)

// KnapsackInstance holds item values, weights, and the knapsack capacity.
type KnapsackInstance struct {
	Values   []float64
	Weights  []float64
	Capacity float64
}

// GenerateKnapsack creates a reproducible random instance: values uniform in
// [1, 25], weights uniform in [5, 100], capacity 70% of the total weight.
func GenerateKnapsack(numItems int, seed uint64) KnapsackInstance {
	src := rand.NewSource(seed)
	valueDist := distuv.Uniform{Min: 1, Max: 25, Src: src}
	weightDist := distuv.Uniform{Min: 5, Max: 100, Src: src}

	inst := KnapsackInstance{
		Values:  make([]float64, numItems),
		Weights: make([]float64, numItems),
	}
	total := 0.0
	for i := 0; i < numItems; i++ {
		inst.Values[i] = valueDist.Rand()
		inst.Weights[i] = weightDist.Rand()
		total += inst.Weights[i]
	}
	inst.Capacity = 0.7 * total
	return inst
}

// FractionalBound returns the greedy fractional relaxation bound: items are
// taken in decreasing value density until the capacity is exhausted, the last
// one fractionally. No binary solution can beat it.
func (inst KnapsackInstance) FractionalBound() float64 {
	order := make([]int, len(inst.Values))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return inst.Values[order[a]]/inst.Weights[order[a]] > inst.Values[order[b]]/inst.Weights[order[b]]
	})

	remaining := inst.Capacity
	bound := 0.0
	for _, i := range order {
		if remaining <= 0 {
			break
		}
		if inst.Weights[i] <= remaining {
			bound += inst.Values[i]
			remaining -= inst.Weights[i]
		} else {
			bound += inst.Values[i] * remaining / inst.Weights[i]
			remaining = 0
		}
	}
	return bound
}

// Knapsack builds the binary knapsack model: maximize total value subject to
// the capacity constraint.
func Knapsack(inst KnapsackInstance) *model.Model {
	n := len(inst.Values)

	m := model.New("knapsack")
	m.AddBinaryVars("x", n)

	m.SetObjective(model.Maximize, func(x []float64) float64 {
		total := 0.0
		for i := 0; i < n; i++ {
			total += inst.Values[i] * x[i]
		}
		return total
	})

	m.AddLe("capacity", func(x []float64) float64 {
		weight := 0.0
		for i := 0; i < n; i++ {
			weight += inst.Weights[i] * x[i]
		}
		return weight - inst.Capacity
	})

	m.SetBestBound(inst.FractionalBound())
	return m
}

// SelectedItems returns the indices chosen in a solved knapsack point.
func SelectedItems(x []float64) []int {
	var items []int
	for i, v := range x {
		if v > 0.5 {
			items = append(items, i)
		}
	}
	return items
}

// KnapsackSummary aggregates the value and weight of a solution point.
func KnapsackSummary(inst KnapsackInstance, x []float64) (value, weight float64) {
	for _, i := range SelectedItems(x) {
		value += inst.Values[i]
		weight += inst.Weights[i]
	}
	return value, weight
}
