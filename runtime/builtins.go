package runtime

import (
	"math"
	"sort"
	"strings"

	"github.com/ianjrobertson/ti84/ast"
	"github.com/ianjrobertson/ti84/numeric"
)

func (ec *evalCtx) evalCall(ex ast.CallExpr) (Value, error) {
	// Forms that re-evaluate an expression argument or mutate a named
	// store dispatch before argument evaluation.
	switch ex.Name {
	case "seq":
		return ec.evalSeq(ex.Args)
	case "nDeriv":
		return ec.evalNDeriv(ex.Args)
	case "fnInt":
		return ec.evalFnInt(ex.Args)
	case "solve":
		return ec.evalSolve(ex.Args)
	case "fMin", "fMax":
		return ec.evalExtremum(ex.Name, ex.Args)
	case "sortA", "sortD":
		return ec.evalSort(ex.Name, ex.Args)
	}

	args := make([]Value, 0, len(ex.Args))
	for _, ae := range ex.Args {
		v, err := ec.eval(ae)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}
	return ec.dispatch(ex.Name, args)
}

func (ec *evalCtx) dispatch(name string, args []Value) (Value, error) {
	switch name {
	case "sin", "cos", "tan", "asin", "acos", "atan",
		"sinh", "cosh", "tanh", "ln", "exp", "abs", "sqrt",
		"int", "iPart", "fPart":
		if len(args) != 1 {
			return Value{}, errKind(KindArgument, "%s takes one argument", name)
		}
		return broadcastReal(args[0], func(x float64) (float64, error) {
			return ec.realFunc(name, x)
		})
	case "log":
		return ec.evalLog(args)
	case "round":
		return ec.evalRound(args)
	case "gcd", "lcm":
		return evalGcdLcm(name, args)
	case "min", "max":
		return evalMinMax(name, args)
	case "dim":
		return evalDim(args)
	case "sum", "prod", "cumSum":
		return evalFold(name, args)
	case "mean", "median", "stdDev", "variance":
		return evalListStat(name, args)
	case "augment":
		return evalAugment(args)
	case "length":
		return evalLength(args)
	case "sub":
		return evalSub(args)
	case "inString":
		return evalInString(args)
	case "det":
		return evalDet(args)
	case "identity":
		return evalIdentity(args)
	case "ref", "rref":
		return evalReduce(name, args)
	case "rand":
		return ec.evalRand(args)
	case "randInt":
		return ec.evalRandInt(args)
	case "randNorm":
		return ec.evalRandNorm(args)
	case "randM":
		return ec.evalRandM(args)
	case "invNorm":
		return evalInvNorm(args)
	case "normalpdf":
		return evalNormalPdf(args)
	case "normalcdf":
		return evalNormalCdf(args)
	case "linReg", "lnReg", "expReg", "pwrReg", "quadReg", "cubicReg":
		return ec.evalRegression(name, args)
	}
	return Value{}, errKind(KindUndefined, "unknown function %s", name)
}

// realFunc is the scalar rule behind the broadcasting one-argument
// functions. Trig converts between the current angle unit and radians.
func (ec *evalCtx) realFunc(name string, x float64) (float64, error) {
	degree := ec.st.Modes().Angle == Degree
	toRad := func(v float64) float64 {
		if degree {
			return v * math.Pi / 180
		}
		return v
	}
	fromRad := func(v float64) float64 {
		if degree {
			return v * 180 / math.Pi
		}
		return v
	}
	switch name {
	case "sin":
		return math.Sin(toRad(x)), nil
	case "cos":
		return math.Cos(toRad(x)), nil
	case "tan":
		r := toRad(x)
		if math.Abs(math.Cos(r)) < 1e-14 {
			return 0, errKind(KindDomain, "tan at a pole")
		}
		return math.Tan(r), nil
	case "asin":
		if x < -1 || x > 1 {
			return 0, errKind(KindDomain, "asin of %v", x)
		}
		return fromRad(math.Asin(x)), nil
	case "acos":
		if x < -1 || x > 1 {
			return 0, errKind(KindDomain, "acos of %v", x)
		}
		return fromRad(math.Acos(x)), nil
	case "atan":
		return fromRad(math.Atan(x)), nil
	case "sinh":
		return math.Sinh(x), nil
	case "cosh":
		return math.Cosh(x), nil
	case "tanh":
		return math.Tanh(x), nil
	case "ln":
		if x <= 0 {
			return 0, errKind(KindDomain, "ln of %v", x)
		}
		return math.Log(x), nil
	case "exp":
		out := math.Exp(x)
		if math.IsInf(out, 0) {
			return 0, errKind(KindOverflow, "exp(%v)", x)
		}
		return out, nil
	case "abs":
		return math.Abs(x), nil
	case "sqrt":
		if x < 0 {
			return 0, errKind(KindNonReal, "sqrt of %v", x)
		}
		return math.Sqrt(x), nil
	case "int":
		return math.Floor(x), nil
	case "iPart":
		return math.Trunc(x), nil
	case "fPart":
		return x - math.Trunc(x), nil
	}
	return 0, errKind(KindUndefined, "unknown function %s", name)
}

// evalLog handles log(x) base 10 and log(x, base).
func (ec *evalCtx) evalLog(args []Value) (Value, error) {
	switch len(args) {
	case 1:
		return broadcastReal(args[0], func(x float64) (float64, error) {
			if x <= 0 {
				return 0, errKind(KindDomain, "log of %v", x)
			}
			return math.Log10(x), nil
		})
	case 2:
		base, ok := args[1].AsReal()
		if !ok {
			return Value{}, errKind(KindDataType, "log base must be real")
		}
		if base <= 0 || base == 1 {
			return Value{}, errKind(KindDomain, "log base %v", base)
		}
		return broadcastReal(args[0], func(x float64) (float64, error) {
			if x <= 0 {
				return 0, errKind(KindDomain, "log of %v", x)
			}
			return math.Log(x) / math.Log(base), nil
		})
	}
	return Value{}, errKind(KindArgument, "log takes one or two arguments")
}

func (ec *evalCtx) evalRound(args []Value) (Value, error) {
	digits := 9
	switch len(args) {
	case 1:
	case 2:
		n, ok := args[1].AsInt()
		if !ok || n < 0 {
			return Value{}, errKind(KindDomain, "round digits")
		}
		digits = n
	default:
		return Value{}, errKind(KindArgument, "round takes one or two arguments")
	}
	scale := math.Pow(10, float64(digits))
	return broadcastReal(args[0], func(x float64) (float64, error) {
		return math.Round(x*scale) / scale, nil
	})
}

func evalGcdLcm(name string, args []Value) (Value, error) {
	if len(args) != 2 {
		return Value{}, errKind(KindArgument, "%s takes two arguments", name)
	}
	a, okA := args[0].AsInt()
	b, okB := args[1].AsInt()
	if !okA || !okB || a < 0 || b < 0 {
		return Value{}, errKind(KindDomain, "%s needs non-negative integers", name)
	}
	gcd := func(x, y int) int {
		for y != 0 {
			x, y = y, x%y
		}
		return x
	}
	g := gcd(a, b)
	if name == "gcd" {
		return Real(float64(g)), nil
	}
	if g == 0 {
		return Real(0), nil
	}
	return Real(float64(a / g * b)), nil
}

func evalMinMax(name string, args []Value) (Value, error) {
	pick := func(a, b float64) float64 {
		if name == "min" {
			return math.Min(a, b)
		}
		return math.Max(a, b)
	}
	switch len(args) {
	case 1:
		l, ok := args[0].AsList()
		if !ok || len(l) == 0 {
			return Value{}, errKind(KindDataType, "%s of a non-list", name)
		}
		out := l[0]
		for _, x := range l[1:] {
			out = pick(out, x)
		}
		return Real(out), nil
	case 2:
		if args[0].Kind() == ListKind || args[1].Kind() == ListKind {
			return binaryZip(args[0], args[1], pick)
		}
		a, okA := args[0].AsReal()
		b, okB := args[1].AsReal()
		if !okA || !okB {
			return Value{}, errKind(KindDataType, "%s operands", name)
		}
		return Real(pick(a, b)), nil
	}
	return Value{}, errKind(KindArgument, "%s takes one or two arguments", name)
}

func binaryZip(left, right Value, f func(a, b float64) float64) (Value, error) {
	a, okA := left.AsList()
	b, okB := right.AsList()
	if !okA || !okB {
		return Value{}, errKind(KindDataType, "expected lists")
	}
	if len(a) == 1 && len(b) > 1 {
		a = repeatScalar(a[0], len(b))
	}
	if len(b) == 1 && len(a) > 1 {
		b = repeatScalar(b[0], len(a))
	}
	if len(a) != len(b) {
		return Value{}, errKind(KindDimMismatch, "lists of length %d and %d", len(a), len(b))
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = f(a[i], b[i])
	}
	return NewList(out), nil
}

func repeatScalar(x float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = x
	}
	return out
}

// evalDim returns list length, or {rows, cols} for a matrix.
func evalDim(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, errKind(KindArgument, "dim takes one argument")
	}
	if m, ok := args[0].AsMatrix(); ok {
		return NewList([]float64{float64(len(m)), float64(len(m[0]))}), nil
	}
	if args[0].Kind() == ListKind {
		l, _ := args[0].AsList()
		return Real(float64(len(l))), nil
	}
	return Value{}, errKind(KindDataType, "dim of a scalar")
}

func evalFold(name string, args []Value) (Value, error) {
	if len(args) != 1 || args[0].Kind() != ListKind {
		return Value{}, errKind(KindDataType, "%s takes a list", name)
	}
	l, _ := args[0].AsList()
	switch name {
	case "sum":
		var out float64
		for _, x := range l {
			out += x
		}
		return Real(out), nil
	case "prod":
		out := 1.0
		for _, x := range l {
			out *= x
		}
		return Real(out), nil
	default: // cumSum
		out := make([]float64, len(l))
		var run float64
		for i, x := range l {
			run += x
			out[i] = run
		}
		return NewList(out), nil
	}
}

func evalListStat(name string, args []Value) (Value, error) {
	if len(args) != 1 || args[0].Kind() != ListKind {
		return Value{}, errKind(KindDataType, "%s takes a list", name)
	}
	l, _ := args[0].AsList()
	res, err := numeric.OneVar(l)
	if err != nil {
		return Value{}, wrapKernel(err)
	}
	switch name {
	case "mean":
		return Real(res.Mean), nil
	case "median":
		return Real(res.Median), nil
	case "stdDev":
		return Real(res.Sx), nil
	default: // variance
		return Real(res.Sx * res.Sx), nil
	}
}

// evalAugment concatenates lists, or glues matrices side by side.
func evalAugment(args []Value) (Value, error) {
	if len(args) != 2 {
		return Value{}, errKind(KindArgument, "augment takes two arguments")
	}
	if args[0].Kind() == MatrixKind || args[1].Kind() == MatrixKind {
		a, okA := args[0].AsMatrix()
		b, okB := args[1].AsMatrix()
		if !okA || !okB {
			return Value{}, errKind(KindDataType, "augment of mixed shapes")
		}
		if len(a) != len(b) {
			return Value{}, errKind(KindDimMismatch, "augment needs equal row counts")
		}
		out := make([][]float64, len(a))
		for i := range a {
			out[i] = append(append([]float64(nil), a[i]...), b[i]...)
		}
		return NewMatrix(out), nil
	}
	a, okA := args[0].AsList()
	b, okB := args[1].AsList()
	if !okA || !okB {
		return Value{}, errKind(KindDataType, "augment of mixed shapes")
	}
	return NewList(append(append([]float64(nil), a...), b...)), nil
}

func evalLength(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, errKind(KindArgument, "length takes one argument")
	}
	s, ok := args[0].AsString()
	if !ok {
		return Value{}, errKind(KindDataType, "length takes a string")
	}
	return Real(float64(len([]rune(s)))), nil
}

// evalSub extracts a 1-based substring: sub(str, start, count).
func evalSub(args []Value) (Value, error) {
	if len(args) != 3 {
		return Value{}, errKind(KindArgument, "sub takes three arguments")
	}
	s, ok := args[0].AsString()
	if !ok {
		return Value{}, errKind(KindDataType, "sub takes a string")
	}
	start, okS := args[1].AsInt()
	count, okC := args[2].AsInt()
	if !okS || !okC {
		return Value{}, errKind(KindDataType, "sub indices must be integers")
	}
	rs := []rune(s)
	if start < 1 || count < 0 || start-1+count > len(rs) {
		return Value{}, errKind(KindInvalidDim, "sub(%d,%d) of %d chars", start, count, len(rs))
	}
	return Str(string(rs[start-1 : start-1+count])), nil
}

// evalInString finds a needle 1-based, or 0 when absent.
func evalInString(args []Value) (Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return Value{}, errKind(KindArgument, "inString takes two or three arguments")
	}
	hay, okH := args[0].AsString()
	needle, okN := args[1].AsString()
	if !okH || !okN {
		return Value{}, errKind(KindDataType, "inString takes strings")
	}
	start := 1
	if len(args) == 3 {
		n, ok := args[2].AsInt()
		if !ok || n < 1 {
			return Value{}, errKind(KindInvalidDim, "inString start")
		}
		start = n
	}
	rs := []rune(hay)
	if start > len(rs) {
		return Real(0), nil
	}
	idx := strings.Index(string(rs[start-1:]), needle)
	if idx < 0 {
		return Real(0), nil
	}
	return Real(float64(start + len([]rune(string(rs[start-1:])[:idx])))), nil
}

func evalDet(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, errKind(KindArgument, "det takes one argument")
	}
	m, ok := args[0].AsMatrix()
	if !ok {
		return Value{}, errKind(KindDataType, "det of a non-matrix")
	}
	d, err := numeric.Det(m)
	if err != nil {
		return Value{}, wrapKernel(err)
	}
	return Real(d), nil
}

func evalIdentity(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, errKind(KindArgument, "identity takes one argument")
	}
	n, ok := args[0].AsInt()
	if !ok || n < 1 {
		return Value{}, errKind(KindDomain, "identity size")
	}
	return NewMatrix(numeric.Identity(n)), nil
}

func evalReduce(name string, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, errKind(KindArgument, "%s takes one argument", name)
	}
	m, ok := args[0].AsMatrix()
	if !ok {
		return Value{}, errKind(KindDataType, "%s of a non-matrix", name)
	}
	if name == "ref" {
		return NewMatrix(numeric.RowEchelon(m)), nil
	}
	return NewMatrix(numeric.RREF(m)), nil
}

func (ec *evalCtx) evalRand(args []Value) (Value, error) {
	switch len(args) {
	case 0:
		return Real(ec.st.Rand()), nil
	case 1:
		n, ok := args[0].AsInt()
		if !ok || n < 1 {
			return Value{}, errKind(KindDomain, "rand count")
		}
		out := make([]float64, n)
		for i := range out {
			out[i] = ec.st.Rand()
		}
		return NewList(out), nil
	}
	return Value{}, errKind(KindArgument, "rand takes at most one argument")
}

func (ec *evalCtx) evalRandInt(args []Value) (Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return Value{}, errKind(KindArgument, "randInt takes two or three arguments")
	}
	lo, okL := args[0].AsInt()
	hi, okH := args[1].AsInt()
	if !okL || !okH || hi < lo {
		return Value{}, errKind(KindDomain, "randInt bounds")
	}
	draw := func() float64 {
		return float64(lo + ec.st.RandIntn(hi-lo+1))
	}
	if len(args) == 2 {
		return Real(draw()), nil
	}
	n, ok := args[2].AsInt()
	if !ok || n < 1 {
		return Value{}, errKind(KindDomain, "randInt count")
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = draw()
	}
	return NewList(out), nil
}

func (ec *evalCtx) evalRandNorm(args []Value) (Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return Value{}, errKind(KindArgument, "randNorm takes two or three arguments")
	}
	mu, okM := args[0].AsReal()
	sigma, okS := args[1].AsReal()
	if !okM || !okS {
		return Value{}, errKind(KindDataType, "randNorm parameters")
	}
	if len(args) == 2 {
		return Real(ec.st.RandNorm(mu, sigma)), nil
	}
	n, ok := args[2].AsInt()
	if !ok || n < 1 {
		return Value{}, errKind(KindDomain, "randNorm count")
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = ec.st.RandNorm(mu, sigma)
	}
	return NewList(out), nil
}

func (ec *evalCtx) evalRandM(args []Value) (Value, error) {
	if len(args) != 2 {
		return Value{}, errKind(KindArgument, "randM takes two arguments")
	}
	rows, okR := args[0].AsInt()
	cols, okC := args[1].AsInt()
	if !okR || !okC || rows < 1 || cols < 1 {
		return Value{}, errKind(KindDomain, "randM shape")
	}
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
		for j := range out[i] {
			// Hardware fills with random single digits -9..9.
			out[i][j] = float64(ec.st.RandIntn(19) - 9)
		}
	}
	return NewMatrix(out), nil
}

func evalInvNorm(args []Value) (Value, error) {
	if len(args) != 1 && len(args) != 3 {
		return Value{}, errKind(KindArgument, "invNorm takes one or three arguments")
	}
	p, ok := args[0].AsReal()
	if !ok {
		return Value{}, errKind(KindDataType, "invNorm probability")
	}
	z, err := numeric.InvNorm(p)
	if err != nil {
		return Value{}, wrapKernel(err)
	}
	if len(args) == 1 {
		return Real(z), nil
	}
	mu, okM := args[1].AsReal()
	sigma, okS := args[2].AsReal()
	if !okM || !okS {
		return Value{}, errKind(KindDataType, "invNorm parameters")
	}
	return Real(mu + sigma*z), nil
}

func evalNormalPdf(args []Value) (Value, error) {
	mu, sigma := 0.0, 1.0
	switch len(args) {
	case 1:
	case 3:
		var okM, okS bool
		mu, okM = args[1].AsReal()
		sigma, okS = args[2].AsReal()
		if !okM || !okS {
			return Value{}, errKind(KindDataType, "normalpdf parameters")
		}
	default:
		return Value{}, errKind(KindArgument, "normalpdf takes one or three arguments")
	}
	return broadcastReal(args[0], func(x float64) (float64, error) {
		y, err := numeric.NormalPdf(x, mu, sigma)
		if err != nil {
			return 0, wrapKernel(err)
		}
		return y, nil
	})
}

func evalNormalCdf(args []Value) (Value, error) {
	mu, sigma := 0.0, 1.0
	switch len(args) {
	case 2:
	case 4:
		var okM, okS bool
		mu, okM = args[2].AsReal()
		sigma, okS = args[3].AsReal()
		if !okM || !okS {
			return Value{}, errKind(KindDataType, "normalcdf parameters")
		}
	default:
		return Value{}, errKind(KindArgument, "normalcdf takes two or four arguments")
	}
	lo, okL := args[0].AsReal()
	hi, okH := args[1].AsReal()
	if !okL || !okH {
		return Value{}, errKind(KindDataType, "normalcdf bounds")
	}
	p, err := numeric.NormalCdf(lo, hi, mu, sigma)
	if err != nil {
		return Value{}, wrapKernel(err)
	}
	return Real(p), nil
}

// evalRegression fits one of the regression families over two lists and
// returns the coefficient list. r² lands in variable R for follow-up use.
func (ec *evalCtx) evalRegression(name string, args []Value) (Value, error) {
	if len(args) != 2 {
		return Value{}, errKind(KindArgument, "%s takes two lists", name)
	}
	xs, okX := args[0].AsList()
	ys, okY := args[1].AsList()
	if !okX || !okY {
		return Value{}, errKind(KindDataType, "%s takes two lists", name)
	}
	var res numeric.RegResult
	var err error
	switch name {
	case "linReg":
		res, err = numeric.LinReg(xs, ys)
	case "lnReg":
		res, err = numeric.LnReg(xs, ys)
	case "expReg":
		res, err = numeric.ExpReg(xs, ys)
	case "pwrReg":
		res, err = numeric.PwrReg(xs, ys)
	case "quadReg":
		res, err = numeric.PolyReg(xs, ys, 2)
	default:
		res, err = numeric.PolyReg(xs, ys, 3)
	}
	if err != nil {
		return Value{}, wrapKernel(err)
	}
	ec.st.SetVar("R", Real(res.R2))
	return NewList(res.Coeffs), nil
}

// evalSort sorts a stored list in place; the argument must name a list.
func (ec *evalCtx) evalSort(name string, args []ast.Expr) (Value, error) {
	if len(args) != 1 {
		return Value{}, errKind(KindArgument, "%s takes one list", name)
	}
	ref, ok := args[0].(ast.ListRef)
	if !ok {
		return Value{}, errKind(KindDataType, "%s needs a list name", name)
	}
	l, err := ec.st.List(ref.Name)
	if err != nil {
		return Value{}, err
	}
	sorted := append([]float64(nil), l...)
	sort.Float64s(sorted)
	if name == "sortD" {
		for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
			sorted[i], sorted[j] = sorted[j], sorted[i]
		}
	}
	ec.st.SetList(ref.Name, sorted)
	return NewList(sorted), nil
}

// withVar binds a scalar variable around f, restoring the prior binding on
// every exit path.
func (ec *evalCtx) withVar(name string, x float64, f func() (Value, error)) (Value, error) {
	prev, had := ec.st.vars[name]
	ec.st.SetVar(name, Real(x))
	defer func() {
		if had {
			ec.st.vars[name] = prev
		} else {
			delete(ec.st.vars, name)
		}
	}()
	return f()
}

// exprFunc adapts an unevaluated expression to the kernels' partial
// function shape by rebinding the variable per sample.
func (ec *evalCtx) exprFunc(expr ast.Expr, varName string) numeric.Func {
	return func(x float64) (float64, bool) {
		v, err := ec.withVar(varName, x, func() (Value, error) {
			return ec.eval(expr)
		})
		if err != nil {
			return 0, false
		}
		y, ok := v.AsReal()
		return y, ok
	}
}

func varNameOf(e ast.Expr) (string, error) {
	ref, ok := e.(ast.VarRef)
	if !ok {
		return "", errKind(KindDataType, "expected a variable name")
	}
	return ref.Name, nil
}

// evalSeq builds seq(expr, var, start, end[, step]), re-evaluating the
// expression at each step with the loop variable bound.
func (ec *evalCtx) evalSeq(args []ast.Expr) (Value, error) {
	if len(args) < 4 || len(args) > 5 {
		return Value{}, errKind(KindArgument, "seq takes four or five arguments")
	}
	varName, err := varNameOf(args[1])
	if err != nil {
		return Value{}, err
	}
	start, err := ec.evalRealArg(args[2])
	if err != nil {
		return Value{}, err
	}
	end, err := ec.evalRealArg(args[3])
	if err != nil {
		return Value{}, err
	}
	step := 1.0
	if len(args) == 5 {
		step, err = ec.evalRealArg(args[4])
		if err != nil {
			return Value{}, err
		}
	}
	if step == 0 {
		return Value{}, errKind(KindDomain, "seq step 0")
	}
	var out []float64
	for x := start; (step > 0 && x <= end) || (step < 0 && x >= end); x += step {
		v, err := ec.withVar(varName, x, func() (Value, error) {
			return ec.eval(args[0])
		})
		if err != nil {
			return Value{}, err
		}
		y, ok := v.AsReal()
		if !ok {
			return Value{}, errKind(KindDataType, "seq element must be real")
		}
		out = append(out, y)
	}
	return NewList(out), nil
}

func (ec *evalCtx) evalRealArg(e ast.Expr) (float64, error) {
	v, err := ec.eval(e)
	if err != nil {
		return 0, err
	}
	f, ok := v.AsReal()
	if !ok {
		return 0, errKind(KindDataType, "expected a real")
	}
	return f, nil
}

// evalNDeriv is nDeriv(expr, var, x[, h]) by symmetric difference.
func (ec *evalCtx) evalNDeriv(args []ast.Expr) (Value, error) {
	if len(args) < 3 || len(args) > 4 {
		return Value{}, errKind(KindArgument, "nDeriv takes three or four arguments")
	}
	varName, err := varNameOf(args[1])
	if err != nil {
		return Value{}, err
	}
	x, err := ec.evalRealArg(args[2])
	if err != nil {
		return Value{}, err
	}
	h := 1e-3
	if len(args) == 4 {
		h, err = ec.evalRealArg(args[3])
		if err != nil {
			return Value{}, err
		}
	}
	d, err := numeric.SymDeriv(ec.exprFunc(args[0], varName), x, h)
	if err != nil {
		return Value{}, wrapKernel(err)
	}
	return Real(d), nil
}

// evalFnInt is fnInt(expr, var, a, b) by the Simpson kernel.
func (ec *evalCtx) evalFnInt(args []ast.Expr) (Value, error) {
	if len(args) != 4 {
		return Value{}, errKind(KindArgument, "fnInt takes four arguments")
	}
	varName, err := varNameOf(args[1])
	if err != nil {
		return Value{}, err
	}
	a, err := ec.evalRealArg(args[2])
	if err != nil {
		return Value{}, err
	}
	b, err := ec.evalRealArg(args[3])
	if err != nil {
		return Value{}, err
	}
	out, err := numeric.Simpson(ec.exprFunc(args[0], varName), a, b)
	if err != nil {
		return Value{}, wrapKernel(err)
	}
	return Real(out), nil
}

// evalSolve is solve(expr, var, lo, hi) by bisection over the bracket.
func (ec *evalCtx) evalSolve(args []ast.Expr) (Value, error) {
	if len(args) != 4 {
		return Value{}, errKind(KindArgument, "solve takes four arguments")
	}
	varName, err := varNameOf(args[1])
	if err != nil {
		return Value{}, err
	}
	lo, err := ec.evalRealArg(args[2])
	if err != nil {
		return Value{}, err
	}
	hi, err := ec.evalRealArg(args[3])
	if err != nil {
		return Value{}, err
	}
	root, err := numeric.Bisect(ec.exprFunc(args[0], varName), lo, hi)
	if err != nil {
		return Value{}, wrapKernel(err)
	}
	return Real(root), nil
}

// evalExtremum is fMin/fMax(expr, var, lo, hi) by golden-section search.
func (ec *evalCtx) evalExtremum(name string, args []ast.Expr) (Value, error) {
	if len(args) != 4 {
		return Value{}, errKind(KindArgument, "%s takes four arguments", name)
	}
	varName, err := varNameOf(args[1])
	if err != nil {
		return Value{}, err
	}
	lo, err := ec.evalRealArg(args[2])
	if err != nil {
		return Value{}, err
	}
	hi, err := ec.evalRealArg(args[3])
	if err != nil {
		return Value{}, err
	}
	f := ec.exprFunc(args[0], varName)
	var x float64
	if name == "fMin" {
		x, err = numeric.GoldenMin(f, lo, hi)
	} else {
		x, err = numeric.GoldenMax(f, lo, hi)
	}
	if err != nil {
		return Value{}, wrapKernel(err)
	}
	return Real(x), nil
}
