package runtime

import (
	"math"
	"math/cmplx"

	"github.com/ianjrobertson/ti84/numeric"
)

// binaryOp applies an infix operator with the broadcasting rules: strings
// only concatenate, matrices follow linear-algebra shapes, lists zip or
// broadcast against scalars, and everything else falls through to the
// scalar rule.
func binaryOp(op string, left, right Value) (Value, error) {
	if left.Kind() == StringKind || right.Kind() == StringKind {
		return stringBinary(op, left, right)
	}
	if left.Kind() == MatrixKind || right.Kind() == MatrixKind {
		return matrixBinary(op, left, right)
	}
	if left.Kind() == ComplexKind || right.Kind() == ComplexKind ||
		left.Kind() == ComplexListKind || right.Kind() == ComplexListKind {
		return complexBinary(op, left, right)
	}
	if left.Kind() == ListKind || right.Kind() == ListKind {
		return listBinary(op, left, right)
	}
	a, okA := left.AsReal()
	b, okB := right.AsReal()
	if !okA || !okB {
		return Value{}, errKind(KindDataType, "operands of %s", op)
	}
	return scalarBinary(op, a, b)
}

func stringBinary(op string, left, right Value) (Value, error) {
	a, okA := left.AsString()
	b, okB := right.AsString()
	if op != "+" || !okA || !okB {
		return Value{}, errKind(KindDataType, "strings only concatenate")
	}
	return Str(a + b), nil
}

func listBinary(op string, left, right Value) (Value, error) {
	if left.Kind() == ListKind && right.Kind() == ListKind {
		a, _ := left.AsList()
		b, _ := right.AsList()
		if len(a) != len(b) {
			return Value{}, errKind(KindDimMismatch, "lists of length %d and %d", len(a), len(b))
		}
		out := make([]float64, len(a))
		for i := range a {
			v, err := scalarBinary(op, a[i], b[i])
			if err != nil {
				// Per-element failures surface as a dimension error
				// for the whole zip.
				return Value{}, errKind(KindDimMismatch, "element %d: %v", i+1, err)
			}
			f, _ := v.AsReal()
			out[i] = f
		}
		return NewList(out), nil
	}
	if left.Kind() == ListKind {
		a, _ := left.AsList()
		b, ok := right.AsReal()
		if !ok {
			return Value{}, errKind(KindDataType, "operands of %s", op)
		}
		return mapList(a, func(x float64) (Value, error) { return scalarBinary(op, x, b) })
	}
	b, _ := right.AsList()
	a, ok := left.AsReal()
	if !ok {
		return Value{}, errKind(KindDataType, "operands of %s", op)
	}
	return mapList(b, func(x float64) (Value, error) { return scalarBinary(op, a, x) })
}

func mapList(l []float64, f func(float64) (Value, error)) (Value, error) {
	out := make([]float64, len(l))
	for i, x := range l {
		v, err := f(x)
		if err != nil {
			return Value{}, err
		}
		r, ok := v.AsReal()
		if !ok {
			return Value{}, errKind(KindDataType, "non-real list element")
		}
		out[i] = r
	}
	return NewList(out), nil
}

func matrixBinary(op string, left, right Value) (Value, error) {
	lm, lIsM := left.AsMatrix()
	rm, rIsM := right.AsMatrix()
	switch {
	case lIsM && rIsM:
		switch op {
		case "+", "-":
			if len(lm) != len(rm) || len(lm[0]) != len(rm[0]) {
				return Value{}, errKind(KindDimMismatch, "matrix shapes differ")
			}
			out := make([][]float64, len(lm))
			for i := range lm {
				out[i] = make([]float64, len(lm[i]))
				for j := range lm[i] {
					if op == "+" {
						out[i][j] = lm[i][j] + rm[i][j]
					} else {
						out[i][j] = lm[i][j] - rm[i][j]
					}
				}
			}
			return NewMatrix(out), nil
		case "*":
			// Shapes permitting both readings still mean the matrix
			// product, matching hardware convention.
			prod, err := numeric.Mul(lm, rm)
			if err != nil {
				return Value{}, wrapKernel(err)
			}
			return NewMatrix(prod), nil
		}
		return Value{}, errKind(KindDataType, "matrices do not support %s", op)
	case lIsM:
		s, ok := right.AsReal()
		if !ok {
			return Value{}, errKind(KindDataType, "operands of %s", op)
		}
		switch op {
		case "*", "/":
			if op == "/" && s == 0 {
				return Value{}, errKind(KindDivideByZero, "matrix / 0")
			}
			out := make([][]float64, len(lm))
			for i, row := range lm {
				out[i] = make([]float64, len(row))
				for j, x := range row {
					if op == "*" {
						out[i][j] = x * s
					} else {
						out[i][j] = x / s
					}
				}
			}
			return NewMatrix(out), nil
		case "^":
			n, ok := right.AsInt()
			if !ok || n < 0 {
				return Value{}, errKind(KindDomain, "matrix power needs a non-negative integer")
			}
			if len(lm) == 0 || len(lm) != len(lm[0]) {
				return Value{}, errKind(KindDimMismatch, "matrix power needs a square matrix")
			}
			out, err := numeric.Pow(lm, n)
			if err != nil {
				return Value{}, wrapKernel(err)
			}
			return NewMatrix(out), nil
		}
		return Value{}, errKind(KindDataType, "matrix does not support %s with a scalar", op)
	default:
		s, ok := left.AsReal()
		if !ok || op != "*" {
			return Value{}, errKind(KindDataType, "only scalar * matrix is defined")
		}
		out := make([][]float64, len(rm))
		for i, row := range rm {
			out[i] = make([]float64, len(row))
			for j, x := range row {
				out[i][j] = s * x
			}
		}
		return NewMatrix(out), nil
	}
}

func complexBinary(op string, left, right Value) (Value, error) {
	la, lIsList := left.AsCList()
	ra, rIsList := right.AsCList()
	lIsList = lIsList && left.Kind() != RealKind && left.Kind() != ComplexKind
	rIsList = rIsList && right.Kind() != RealKind && right.Kind() != ComplexKind
	if lIsList || rIsList {
		if lIsList && rIsList {
			if len(la) != len(ra) {
				return Value{}, errKind(KindDimMismatch, "lists of length %d and %d", len(la), len(ra))
			}
			out := make([]complex128, len(la))
			for i := range la {
				c, err := complexScalar(op, la[i], ra[i])
				if err != nil {
					return Value{}, errKind(KindDimMismatch, "element %d: %v", i+1, err)
				}
				out[i] = c
			}
			return normalizeCList(out), nil
		}
		list, scalar, scalarOnLeft := la, right, false
		if rIsList {
			list, scalar, scalarOnLeft = ra, left, true
		}
		s, ok := scalar.AsComplex()
		if !ok {
			return Value{}, errKind(KindDataType, "operands of %s", op)
		}
		out := make([]complex128, len(list))
		for i, c := range list {
			x, y := c, s
			if scalarOnLeft {
				x, y = s, c
			}
			r, err := complexScalar(op, x, y)
			if err != nil {
				return Value{}, err
			}
			out[i] = r
		}
		return normalizeCList(out), nil
	}
	a, okA := left.AsComplex()
	b, okB := right.AsComplex()
	if !okA || !okB {
		return Value{}, errKind(KindDataType, "operands of %s", op)
	}
	c, err := complexScalar(op, a, b)
	if err != nil {
		return Value{}, err
	}
	if math.Abs(imag(c)) < realEps {
		return Real(real(c)), nil
	}
	return Cmplx(c), nil
}

func normalizeCList(cs []complex128) Value {
	allReal := true
	for _, c := range cs {
		if math.Abs(imag(c)) >= realEps {
			allReal = false
			break
		}
	}
	if !allReal {
		return NewCList(cs)
	}
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = real(c)
	}
	return NewList(out)
}

func complexScalar(op string, a, b complex128) (complex128, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return 0, errKind(KindDivideByZero, "complex / 0")
		}
		return a / b, nil
	case "^":
		return cmplx.Pow(a, b), nil
	case "=":
		if a == b {
			return 1, nil
		}
		return 0, nil
	case "!=":
		if a != b {
			return 1, nil
		}
		return 0, nil
	}
	return 0, errKind(KindDataType, "%s undefined for complex", op)
}

// scalarBinary is the real×real rule every broadcast bottoms out in.
func scalarBinary(op string, a, b float64) (Value, error) {
	switch op {
	case "+":
		return Real(a + b), nil
	case "-":
		return Real(a - b), nil
	case "*":
		return Real(a * b), nil
	case "/":
		if b == 0 {
			return Value{}, errKind(KindDivideByZero, "%v/0", a)
		}
		return Real(a / b), nil
	case "^":
		out := math.Pow(a, b)
		if (math.IsNaN(out) || math.IsInf(out, 0)) && isFinite(a) && isFinite(b) {
			return Value{}, errKind(KindOverflow, "%v^%v", a, b)
		}
		return Real(out), nil
	case "nPr", "nCr":
		n, okN := Real(a).AsInt()
		r, okR := Real(b).AsInt()
		if !okN || !okR {
			return Value{}, errKind(KindDomain, "%s needs integers", op)
		}
		var out float64
		var err error
		if op == "nPr" {
			out, err = numeric.Perm(n, r)
		} else {
			out, err = numeric.Comb(n, r)
		}
		if err != nil {
			return Value{}, wrapKernel(err)
		}
		return Real(out), nil
	case "=":
		return boolReal(a == b), nil
	case "!=":
		return boolReal(a != b), nil
	case "<":
		return boolReal(a < b), nil
	case "<=":
		return boolReal(a <= b), nil
	case ">":
		return boolReal(a > b), nil
	case ">=":
		return boolReal(a >= b), nil
	case "and":
		return boolReal(a != 0 && b != 0), nil
	case "or":
		return boolReal(a != 0 || b != 0), nil
	case "xor":
		return boolReal((a != 0) != (b != 0)), nil
	}
	return Value{}, errKind(KindSyntax, "unsupported operator %q", op)
}

func boolReal(b bool) Value {
	if b {
		return Real(1)
	}
	return Real(0)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
