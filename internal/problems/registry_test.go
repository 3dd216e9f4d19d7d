package problems

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKnownExercises(t *testing.T) {
	for _, name := range []string{"knapsack", "multiknapsack", "bucket", "unitcommit", "robotarm", "robotarm_trajectory"} {
		t.Run(name, func(t *testing.T) {
			m, err := Build(name, BuildOptions{Seed: 1})
			require.NoError(t, err)
			assert.Greater(t, m.Dim(), 0)
		})
	}
}

func TestBuildDataDrivenExercises(t *testing.T) {
	m, err := Build("portfolio", BuildOptions{DataPath: filepath.Join("testdata", "portfolio.json")})
	require.NoError(t, err)
	assert.Equal(t, 6, m.Dim())

	m, err = Build("lotsizing", BuildOptions{DataPath: filepath.Join("testdata", "lot_sizing.json")})
	require.NoError(t, err)
	assert.Equal(t, 8, m.Dim())
}

func TestBuildRequiresDataPath(t *testing.T) {
	_, err := Build("portfolio", BuildOptions{})
	assert.Error(t, err)

	_, err = Build("lotsizing", BuildOptions{})
	assert.Error(t, err)
}

func TestBuildUnknownExercise(t *testing.T) {
	_, err := Build("sudoku", BuildOptions{})
	assert.Error(t, err)
}

func TestNamesSortedAndComplete(t *testing.T) {
	names := Names()
	assert.Len(t, names, 8)
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "knapsack")
	assert.Contains(t, names, "robotarm_trajectory")
}
