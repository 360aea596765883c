package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulShapes(t *testing.T) {
	a := [][]float64{{1, 2, 3}, {4, 5, 6}}
	b := [][]float64{{7, 8}, {9, 10}, {11, 12}}
	out, err := Mul(a, b)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{58, 64}, {139, 154}}, out)

	_, err = Mul(a, a)
	assert.ErrorIs(t, err, ErrDim)
}

func TestPow(t *testing.T) {
	m := [][]float64{{1, 1}, {0, 1}}
	out, err := Pow(m, 0)
	require.NoError(t, err)
	assert.Equal(t, Identity(2), out)

	out, err = Pow(m, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 3}, {0, 1}}, out)

	_, err = Pow(m, -1)
	assert.ErrorIs(t, err, ErrDomain)
}

func TestInverseTimesOriginalIsIdentity(t *testing.T) {
	mats := [][][]float64{
		{{2, 0}, {0, 4}},
		{{1, 2}, {3, 4}},
		{{4, 7, 2}, {3, 6, 1}, {2, 5, 3}},
	}
	for _, m := range mats {
		inv, err := Inverse(m)
		require.NoError(t, err)
		prod, err := Mul(m, inv)
		require.NoError(t, err)
		for i := range prod {
			for j := range prod[i] {
				want := 0.0
				if i == j {
					want = 1.0
				}
				assert.InDelta(t, want, prod[i][j], 1e-8)
			}
		}
	}
}

func TestInverseSingular(t *testing.T) {
	_, err := Inverse([][]float64{{1, 2}, {2, 4}})
	assert.ErrorIs(t, err, ErrSingular)
}

func TestDet(t *testing.T) {
	d, err := Det([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.InDelta(t, -2, d, 1e-10)

	d, err = Det([][]float64{{2, 0, 0}, {0, 3, 0}, {0, 0, 4}})
	require.NoError(t, err)
	assert.InDelta(t, 24, d, 1e-10)

	// A singular matrix has determinant zero, not an error.
	d, err = Det([][]float64{{1, 2}, {2, 4}})
	require.NoError(t, err)
	assert.Zero(t, d)

	// Row swaps flip the sign.
	d, err = Det([][]float64{{0, 1}, {1, 0}})
	require.NoError(t, err)
	assert.InDelta(t, -1, d, 1e-10)
}

func TestRREF(t *testing.T) {
	out := RREF([][]float64{{1, 2, 3}, {4, 5, 6}})
	want := [][]float64{{1, 0, -1}, {0, 1, 2}}
	for i := range want {
		for j := range want[i] {
			assert.InDelta(t, want[i][j], out[i][j], 1e-10)
		}
	}
}

func TestRowEchelonDeadColumnSkipped(t *testing.T) {
	out := RowEchelon([][]float64{{0, 1}, {0, 2}})
	// The zero column has no pivot; the second column reduces.
	assert.InDelta(t, 0, out[1][1], 1e-10)
	assert.NotZero(t, out[0][1])
}

func TestSolve(t *testing.T) {
	x, err := Solve([][]float64{{2, 1}, {1, 3}}, []float64{5, 10})
	require.NoError(t, err)
	assert.InDelta(t, 1, x[0], 1e-10)
	assert.InDelta(t, 3, x[1], 1e-10)
}

func TestIdentity(t *testing.T) {
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}}, Identity(2))
}

func TestInverseDoesNotMutateInput(t *testing.T) {
	m := [][]float64{{1, 2}, {3, 4}}
	_, err := Inverse(m)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, m)
}
