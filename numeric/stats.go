package numeric

import (
	"math"
	"sort"
)

// OneVarResult carries the 1-Var Stats summary.
type OneVarResult struct {
	N      int
	Sum    float64
	SumSq  float64
	Mean   float64
	Sx     float64 // sample stddev
	Sigma  float64 // population stddev
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// TwoVarResult extends the one-variable summary symmetrically and adds the
// cross sum.
type TwoVarResult struct {
	X     OneVarResult
	Y     OneVarResult
	SumXY float64
}

// RegResult is a fitted regression. Coeffs are ordered constant-first for
// polynomial fits (a + bx + cx² ...); for the linearized families they are
// the model parameters (a, b) of the displayed form. R is only meaningful
// when HasR is set (quadratic and cubic report r² alone).
type RegResult struct {
	Coeffs []float64
	R      float64
	R2     float64
	HasR   bool
}

// OneVar summarizes a sample. Quartiles interpolate linearly at positions
// 0.25(n-1), 0.5(n-1), 0.75(n-1) over the sorted data.
func OneVar(xs []float64) (OneVarResult, error) {
	n := len(xs)
	if n == 0 {
		return OneVarResult{}, ErrStat
	}
	var sum, sumSq float64
	for _, x := range xs {
		sum += x
		sumSq += x * x
	}
	mean := sum / float64(n)
	var variance float64
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	sigma := math.Sqrt(variance / float64(n))
	sx := 0.0
	if n > 1 {
		sx = math.Sqrt(variance / float64(n-1))
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return OneVarResult{
		N:      n,
		Sum:    sum,
		SumSq:  sumSq,
		Mean:   mean,
		Sx:     sx,
		Sigma:  sigma,
		Min:    sorted[0],
		Q1:     quantileAt(sorted, 0.25),
		Median: quantileAt(sorted, 0.5),
		Q3:     quantileAt(sorted, 0.75),
		Max:    sorted[n-1],
	}, nil
}

func quantileAt(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// TwoVar summarizes paired samples of equal length.
func TwoVar(xs, ys []float64) (TwoVarResult, error) {
	if len(xs) != len(ys) {
		return TwoVarResult{}, ErrDim
	}
	rx, err := OneVar(xs)
	if err != nil {
		return TwoVarResult{}, err
	}
	ry, err := OneVar(ys)
	if err != nil {
		return TwoVarResult{}, err
	}
	var sumXY float64
	for i := range xs {
		sumXY += xs[i] * ys[i]
	}
	return TwoVarResult{X: rx, Y: ry, SumXY: sumXY}, nil
}

// LinReg fits y = a + bx by closed-form least squares and reports r and r².
func LinReg(xs, ys []float64) (RegResult, error) {
	a, b, r, err := linearFit(xs, ys)
	if err != nil {
		return RegResult{}, err
	}
	return RegResult{Coeffs: []float64{a, b}, R: r, R2: r * r, HasR: true}, nil
}

func linearFit(xs, ys []float64) (a, b, r float64, err error) {
	n := float64(len(xs))
	if len(xs) != len(ys) {
		return 0, 0, 0, ErrDim
	}
	if len(xs) < 2 {
		return 0, 0, 0, ErrStat
	}
	var sumX, sumY, sumXX, sumYY, sumXY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXX += xs[i] * xs[i]
		sumYY += ys[i] * ys[i]
		sumXY += xs[i] * ys[i]
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0, 0, ErrStat
	}
	b = (n*sumXY - sumX*sumY) / denom
	a = (sumY - b*sumX) / n
	rDenom := math.Sqrt(denom * (n*sumYY - sumY*sumY))
	if rDenom == 0 {
		return 0, 0, 0, ErrStat
	}
	r = (n*sumXY - sumX*sumY) / rDenom
	return a, b, r, nil
}

// PolyReg fits a polynomial of the given degree by solving the normal
// equations. The quadratic and cubic regressions are degree 2 and 3.
func PolyReg(xs, ys []float64, degree int) (RegResult, error) {
	if len(xs) != len(ys) {
		return RegResult{}, ErrDim
	}
	if len(xs) < degree+1 {
		return RegResult{}, ErrStat
	}
	size := degree + 1
	a := make([][]float64, size)
	bvec := make([]float64, size)
	for i := 0; i < size; i++ {
		a[i] = make([]float64, size)
		for j := 0; j < size; j++ {
			var sum float64
			for _, x := range xs {
				sum += math.Pow(x, float64(i+j))
			}
			a[i][j] = sum
		}
		var sum float64
		for k, x := range xs {
			sum += ys[k] * math.Pow(x, float64(i))
		}
		bvec[i] = sum
	}
	coeffs, err := Solve(a, bvec)
	if err != nil {
		return RegResult{}, ErrStat
	}
	return RegResult{Coeffs: coeffs, R2: rSquared(xs, ys, func(x float64) float64 {
		var y, p float64 = 0, 1
		for _, c := range coeffs {
			y += c * p
			p *= x
		}
		return y
	})}, nil
}

func rSquared(xs, ys []float64, predict func(float64) float64) float64 {
	var mean float64
	for _, y := range ys {
		mean += y
	}
	mean /= float64(len(ys))
	var ssRes, ssTot float64
	for i, y := range ys {
		d := y - predict(xs[i])
		ssRes += d * d
		t := y - mean
		ssTot += t * t
	}
	if ssTot == 0 {
		return 1
	}
	return 1 - ssRes/ssTot
}

// LnReg fits y = a + b·ln(x). All x must be positive.
func LnReg(xs, ys []float64) (RegResult, error) {
	lx := make([]float64, len(xs))
	for i, x := range xs {
		if x <= 0 {
			return RegResult{}, ErrDomain
		}
		lx[i] = math.Log(x)
	}
	a, b, r, err := linearFit(lx, ys)
	if err != nil {
		return RegResult{}, err
	}
	return RegResult{Coeffs: []float64{a, b}, R: r, R2: r * r, HasR: true}, nil
}

// ExpReg fits y = a·b^x by a linear fit on ln(y). All y must be positive.
func ExpReg(xs, ys []float64) (RegResult, error) {
	ly := make([]float64, len(ys))
	for i, y := range ys {
		if y <= 0 {
			return RegResult{}, ErrDomain
		}
		ly[i] = math.Log(y)
	}
	a, b, r, err := linearFit(xs, ly)
	if err != nil {
		return RegResult{}, err
	}
	return RegResult{
		Coeffs: []float64{math.Exp(a), math.Exp(b)},
		R:      r,
		R2:     r * r,
		HasR:   true,
	}, nil
}

// PwrReg fits y = a·x^b by a linear fit on ln(x), ln(y). Inputs must be
// positive on both axes.
func PwrReg(xs, ys []float64) (RegResult, error) {
	lx := make([]float64, len(xs))
	ly := make([]float64, len(ys))
	for i := range xs {
		if xs[i] <= 0 || ys[i] <= 0 {
			return RegResult{}, ErrDomain
		}
		lx[i] = math.Log(xs[i])
		ly[i] = math.Log(ys[i])
	}
	a, b, r, err := linearFit(lx, ly)
	if err != nil {
		return RegResult{}, err
	}
	return RegResult{
		Coeffs: []float64{math.Exp(a), b},
		R:      r,
		R2:     r * r,
		HasR:   true,
	}, nil
}
