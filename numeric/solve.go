package numeric

import "math"

// Func is a partial real function: ok reports whether f is defined at x.
type Func func(x float64) (y float64, ok bool)

const (
	bisectTol     = 1e-12
	bisectMaxIter = 100
	goldenTol     = 1e-10
	simpsonSteps  = 1000
)

// Bisect finds a root of f in [a, b] by bisection. The endpoints must
// bracket a sign change. On hitting the iteration cap the midpoint of the
// final interval is returned as the best estimate; no error is reported for
// that case.
func Bisect(f Func, a, b float64) (float64, error) {
	return BisectTol(f, a, b, bisectTol)
}

// BisectTol is Bisect with an explicit tolerance.
func BisectTol(f Func, a, b float64, tol float64) (float64, error) {
	fa, ok := f(a)
	if !ok {
		return 0, ErrDomain
	}
	fb, ok := f(b)
	if !ok {
		return 0, ErrDomain
	}
	if fa*fb > 0 {
		return 0, ErrNoSignChange
	}
	for i := 0; i < bisectMaxIter; i++ {
		mid := (a + b) / 2
		fm, ok := f(mid)
		if !ok {
			return 0, ErrDomain
		}
		if math.Abs(fm) < tol || (b-a)/2 < tol {
			return mid, nil
		}
		if fa*fm <= 0 {
			b = mid
		} else {
			a, fa = mid, fm
		}
	}
	return (a + b) / 2, nil
}

const invPhi = 0.6180339887498949 // (√5-1)/2

// GoldenMin locates a local minimum of f in [a, b] by golden-section
// search. Converges when the bracket is narrower than the tolerance;
// undefined samples abort with ErrDomain.
func GoldenMin(f Func, a, b float64) (float64, error) {
	return goldenSearch(f, a, b, false)
}

// GoldenMax locates a local maximum by inverting the probe comparison.
func GoldenMax(f Func, a, b float64) (float64, error) {
	return goldenSearch(f, a, b, true)
}

func goldenSearch(f Func, a, b float64, maximize bool) (float64, error) {
	if a > b {
		a, b = b, a
	}
	x1 := b - invPhi*(b-a)
	x2 := a + invPhi*(b-a)
	f1, ok := f(x1)
	if !ok {
		return 0, ErrDomain
	}
	f2, ok := f(x2)
	if !ok {
		return 0, ErrDomain
	}
	for math.Abs(b-a) > goldenTol {
		better := f1 < f2
		if maximize {
			better = f1 > f2
		}
		if better {
			b, x2, f2 = x2, x1, f1
			x1 = b - invPhi*(b-a)
			f1, ok = f(x1)
			if !ok {
				return 0, ErrDomain
			}
		} else {
			a, x1, f1 = x1, x2, f2
			x2 = a + invPhi*(b-a)
			f2, ok = f(x2)
			if !ok {
				return 0, ErrDomain
			}
		}
	}
	return (a + b) / 2, nil
}

// Simpson integrates f over [a, b] by the composite Simpson rule with the
// default even subdivision count.
func Simpson(f Func, a, b float64) (float64, error) {
	return SimpsonN(f, a, b, simpsonSteps)
}

// SimpsonN is Simpson with an explicit subdivision count; odd counts are
// rounded up to even.
func SimpsonN(f Func, a, b float64, n int) (float64, error) {
	if n < 2 {
		n = 2
	}
	if n%2 == 1 {
		n++
	}
	h := (b - a) / float64(n)
	sum := 0.0
	for i := 0; i <= n; i++ {
		y, ok := f(a + float64(i)*h)
		if !ok {
			return 0, ErrDomain
		}
		switch {
		case i == 0 || i == n:
			sum += y
		case i%2 == 1:
			sum += 4 * y
		default:
			sum += 2 * y
		}
	}
	return sum * h / 3, nil
}

// SymDeriv approximates f'(x) by the symmetric difference quotient.
func SymDeriv(f Func, x, h float64) (float64, error) {
	if h <= 0 {
		h = 1e-3
	}
	lo, ok := f(x - h)
	if !ok {
		return 0, ErrDomain
	}
	hi, ok := f(x + h)
	if !ok {
		return 0, ErrDomain
	}
	return (hi - lo) / (2 * h), nil
}
