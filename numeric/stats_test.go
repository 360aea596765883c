package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOneVar(t *testing.T) {
	res, err := OneVar([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	assert.Equal(t, 8, res.N)
	assert.Equal(t, 40.0, res.Sum)
	assert.Equal(t, 232.0, res.SumSq)
	assert.Equal(t, 5.0, res.Mean)
	assert.InDelta(t, 2.0, res.Sigma, 1e-12)
	assert.InDelta(t, 2.13809, res.Sx, 1e-5)
	assert.Equal(t, 2.0, res.Min)
	assert.Equal(t, 9.0, res.Max)
	assert.InDelta(t, 4.5, res.Median, 1e-12)

	_, err = OneVar(nil)
	assert.ErrorIs(t, err, ErrStat)
}

func TestQuartilesInterpolate(t *testing.T) {
	res, err := OneVar([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	// Positions 0.25·3 = 0.75 and 0.75·3 = 2.25 interpolate linearly.
	assert.InDelta(t, 1.75, res.Q1, 1e-12)
	assert.InDelta(t, 2.5, res.Median, 1e-12)
	assert.InDelta(t, 3.25, res.Q3, 1e-12)
}

func TestTwoVar(t *testing.T) {
	res, err := TwoVar([]float64{1, 2, 3}, []float64{4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, 3, res.X.N)
	assert.Equal(t, 32.0, res.SumXY)

	_, err = TwoVar([]float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrDim)
}

func TestLinRegExactFit(t *testing.T) {
	// y = 3 + 2x exactly.
	res, err := LinReg([]float64{0, 1, 2, 3}, []float64{3, 5, 7, 9})
	require.NoError(t, err)
	assert.InDelta(t, 3, res.Coeffs[0], 1e-10)
	assert.InDelta(t, 2, res.Coeffs[1], 1e-10)
	assert.True(t, res.HasR)
	assert.InDelta(t, 1, res.R, 1e-12)
	assert.InDelta(t, 1, res.R2, 1e-12)
}

func TestLinRegDegenerate(t *testing.T) {
	// All x equal: the normal-equation denominator vanishes.
	_, err := LinReg([]float64{2, 2, 2}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrStat)
}

func TestQuadRegExactFit(t *testing.T) {
	xs := []float64{-2, -1, 0, 1, 2}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 1 + 2*x + 3*x*x
	}
	res, err := PolyReg(xs, ys, 2)
	require.NoError(t, err)
	require.Len(t, res.Coeffs, 3)
	assert.InDelta(t, 1, res.Coeffs[0], 1e-8)
	assert.InDelta(t, 2, res.Coeffs[1], 1e-8)
	assert.InDelta(t, 3, res.Coeffs[2], 1e-8)
	assert.False(t, res.HasR)
	assert.InDelta(t, 1, res.R2, 1e-10)
}

func TestExpRegLinearizes(t *testing.T) {
	// y = 5 · 2^x
	xs := []float64{0, 1, 2, 3}
	ys := []float64{5, 10, 20, 40}
	res, err := ExpReg(xs, ys)
	require.NoError(t, err)
	assert.InDelta(t, 5, res.Coeffs[0], 1e-8)
	assert.InDelta(t, 2, res.Coeffs[1], 1e-8)

	_, err = ExpReg([]float64{1, 2}, []float64{1, -1})
	assert.ErrorIs(t, err, ErrDomain)
}

func TestPwrRegLinearizes(t *testing.T) {
	// y = 2 · x^3
	xs := []float64{1, 2, 3, 4}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 2 * x * x * x
	}
	res, err := PwrReg(xs, ys)
	require.NoError(t, err)
	assert.InDelta(t, 2, res.Coeffs[0], 1e-8)
	assert.InDelta(t, 3, res.Coeffs[1], 1e-8)

	_, err = PwrReg([]float64{-1, 2}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrDomain)
}

func TestLnRegDomain(t *testing.T) {
	_, err := LnReg([]float64{0, 1}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrDomain)

	// y = 1 + 2·ln(x)
	xs := []float64{1, 2.718281828459045, 7.38905609893065}
	res, err := LnReg(xs, []float64{1, 3, 5})
	require.NoError(t, err)
	assert.InDelta(t, 1, res.Coeffs[0], 1e-8)
	assert.InDelta(t, 2, res.Coeffs[1], 1e-8)
}
