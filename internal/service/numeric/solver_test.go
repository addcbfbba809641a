package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveLinear(t *testing.T) {
	f := func(x float64) float64 { return 2*x - 10 }

	x, err := Solve(f, 0, 100, 1e-8, 100)
	require.NoError(t, err)
	assert.InDelta(t, 5, x, 1e-6)
}

func TestSolveTrig(t *testing.T) {
	// root of cos(x) at pi/2
	x, err := Solve(math.Cos, 0, 3, 1e-10, 100)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, x, 1e-8)
}

func TestSolveEndpointAlreadyRoot(t *testing.T) {
	f := func(x float64) float64 { return x }

	x, err := Solve(f, 0, 1, 1e-8, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, x)
}

func TestSolveNoBracket(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 }

	_, err := Solve(f, -1, 1, 1e-8, 100)
	assert.ErrorIs(t, err, ErrNoBracket)
}

func TestSolveNoConvergence(t *testing.T) {
	f := func(x float64) float64 { return x*x*x - 2 }

	_, err := Solve(f, 0, 2, 0, 2)
	assert.ErrorIs(t, err, ErrNoConvergence)
}

func TestMinimizeAbs(t *testing.T) {
	// |sin(x)| has a minimum of 0 at pi
	x, residual := MinimizeAbs(math.Sin, 2.5, 4, 1e-10, 200)
	assert.InDelta(t, math.Pi, x, 1e-6)
	assert.InDelta(t, 0, residual, 1e-6)
}

func TestMinimizeAbsNonZeroMinimum(t *testing.T) {
	f := func(x float64) float64 { return (x-2)*(x-2) + 0.5 }

	x, residual := MinimizeAbs(f, 0, 4, 1e-10, 200)
	assert.InDelta(t, 2, x, 1e-4)
	assert.InDelta(t, 0.5, residual, 1e-6)
}
