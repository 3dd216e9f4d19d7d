package problems

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/jrenard/optiex/internal/model"
)

// MultiKnapsackInstance is a multi-dimensional knapsack: every item consumes
// capacity in several dimensions at once. This is the hard instance used to
// exercise gap-stagnation termination, standing in for the classic MKP
// benchmark file of the original exercise.
type MultiKnapsackInstance struct {
	Values     []float64
	Weights    [][]float64 // Weights[c][i]: weight of item i in constraint c
	Capacities []float64
}

// GenerateMultiKnapsack creates a reproducible random MKP instance with
// tight capacities (40% of each dimension's total weight), which keeps the
// incumbent/bound gap open long enough for stagnation to be observable.
func GenerateMultiKnapsack(numItems, numConstraints int, seed uint64) MultiKnapsackInstance {
	src := rand.NewSource(seed)
	valueDist := distuv.Uniform{Min: 10, Max: 50, Src: src}
	weightDist := distuv.Uniform{Min: 5, Max: 30, Src: src}

	inst := MultiKnapsackInstance{
		Values:     make([]float64, numItems),
		Weights:    make([][]float64, numConstraints),
		Capacities: make([]float64, numConstraints),
	}
	for i := range inst.Values {
		inst.Values[i] = valueDist.Rand()
	}
	for c := 0; c < numConstraints; c++ {
		inst.Weights[c] = make([]float64, numItems)
		total := 0.0
		for i := 0; i < numItems; i++ {
			inst.Weights[c][i] = weightDist.Rand()
			total += inst.Weights[c][i]
		}
		inst.Capacities[c] = 0.4 * total
	}
	return inst
}

// RelaxationBound returns a valid upper bound for the MKP: the tightest of
// the single-constraint fractional bounds, since dropping all but one
// constraint only relaxes the problem.
func (inst MultiKnapsackInstance) RelaxationBound() float64 {
	bound := math.Inf(1)
	for c := range inst.Weights {
		single := KnapsackInstance{
			Values:   inst.Values,
			Weights:  inst.Weights[c],
			Capacity: inst.Capacities[c],
		}
		if b := single.FractionalBound(); b < bound {
			bound = b
		}
	}
	return bound
}

// MultiKnapsack builds the binary MKP model: maximize total value subject to
// one capacity constraint per dimension.
func MultiKnapsack(inst MultiKnapsackInstance) *model.Model {
	n := len(inst.Values)

	m := model.New("multiknapsack")
	m.AddBinaryVars("x", n)

	m.SetObjective(model.Maximize, func(x []float64) float64 {
		total := 0.0
		for i := 0; i < n; i++ {
			total += inst.Values[i] * x[i]
		}
		return total
	})

	for c := range inst.Weights {
		weights := inst.Weights[c]
		capacity := inst.Capacities[c]
		m.AddLe(fmt.Sprintf("capacity_%d", c), func(x []float64) float64 {
			used := 0.0
			for i := 0; i < n; i++ {
				used += weights[i] * x[i]
			}
			return used - capacity
		})
	}

	m.SetBestBound(inst.RelaxationBound())
	return m
}
