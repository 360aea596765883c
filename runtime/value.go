package runtime

import (
	"math"
	"strconv"
	"strings"
)

type ValueKind int

const (
	RealKind ValueKind = iota
	ComplexKind
	ListKind
	ComplexListKind
	MatrixKind
	StringKind
)

// Value is the evaluator's universal tagged value. The zero Value is
// Real(0).
type Value struct {
	kind ValueKind
	num  float64
	cpx  complex128
	list []float64
	clst []complex128
	mat  [][]float64
	str  string
}

func Real(v float64) Value {
	return Value{kind: RealKind, num: v}
}

func Cmplx(v complex128) Value {
	return Value{kind: ComplexKind, cpx: v}
}

func NewList(vs []float64) Value {
	return Value{kind: ListKind, list: vs}
}

func NewCList(vs []complex128) Value {
	return Value{kind: ComplexListKind, clst: vs}
}

// NewMatrix wraps rows as a matrix value. Rectangularity is the
// evaluator's invariant; the constructor stores rows as given.
func NewMatrix(rows [][]float64) Value {
	return Value{kind: MatrixKind, mat: rows}
}

func Str(v string) Value {
	return Value{kind: StringKind, str: v}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

// realEps is the magnitude under which an imaginary part collapses a
// complex back to a real.
const realEps = 1e-12

// maxExactInt bounds AsInt: beyond it doubles cannot represent every
// integer.
const maxExactInt = 1e15

// AsReal extracts a real. Complex values coerce when their imaginary part
// is negligible.
func (v Value) AsReal() (float64, bool) {
	switch v.kind {
	case RealKind:
		return v.num, true
	case ComplexKind:
		if math.Abs(imag(v.cpx)) < realEps {
			return real(v.cpx), true
		}
	}
	return 0, false
}

// AsComplex extracts a complex; reals widen with a zero imaginary part.
func (v Value) AsComplex() (complex128, bool) {
	switch v.kind {
	case RealKind:
		return complex(v.num, 0), true
	case ComplexKind:
		return v.cpx, true
	}
	return 0, false
}

// AsList extracts a list of reals; a lone real becomes a singleton.
func (v Value) AsList() ([]float64, bool) {
	switch v.kind {
	case ListKind:
		return v.list, true
	case RealKind:
		return []float64{v.num}, true
	}
	return nil, false
}

func (v Value) AsCList() ([]complex128, bool) {
	switch v.kind {
	case ComplexListKind:
		return v.clst, true
	case ListKind:
		out := make([]complex128, len(v.list))
		for i, x := range v.list {
			out[i] = complex(x, 0)
		}
		return out, true
	}
	return nil, false
}

func (v Value) AsMatrix() ([][]float64, bool) {
	if v.kind == MatrixKind {
		return v.mat, true
	}
	return nil, false
}

func (v Value) AsString() (string, bool) {
	if v.kind == StringKind {
		return v.str, true
	}
	return "", false
}

// AsInt extracts an integer: the value must be finite, integral, and small
// enough that doubles represent it exactly.
func (v Value) AsInt() (int, bool) {
	f, ok := v.AsReal()
	if !ok {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f != math.Trunc(f) || math.Abs(f) >= maxExactInt {
		return 0, false
	}
	return int(f), true
}

// Equal is structural equality. At the Real level NaN compares equal to
// NaN so tests over propagated non-finite results stay deterministic; the
// same rule applies inside lists and matrices.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case RealKind:
		return realEqual(v.num, o.num)
	case ComplexKind:
		return realEqual(real(v.cpx), real(o.cpx)) && realEqual(imag(v.cpx), imag(o.cpx))
	case ListKind:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !realEqual(v.list[i], o.list[i]) {
				return false
			}
		}
		return true
	case ComplexListKind:
		if len(v.clst) != len(o.clst) {
			return false
		}
		for i := range v.clst {
			if !realEqual(real(v.clst[i]), real(o.clst[i])) || !realEqual(imag(v.clst[i]), imag(o.clst[i])) {
				return false
			}
		}
		return true
	case MatrixKind:
		if len(v.mat) != len(o.mat) {
			return false
		}
		for i := range v.mat {
			if len(v.mat[i]) != len(o.mat[i]) {
				return false
			}
			for j := range v.mat[i] {
				if !realEqual(v.mat[i][j], o.mat[i][j]) {
					return false
				}
			}
		}
		return true
	case StringKind:
		return v.str == o.str
	}
	return false
}

func realEqual(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}

// String renders the value the way the home screen shows it. Display
// formatting policy lives outside the core; this is the plain rendering.
func (v Value) String() string {
	switch v.kind {
	case RealKind:
		return formatReal(v.num)
	case ComplexKind:
		re, im := real(v.cpx), imag(v.cpx)
		if im < 0 {
			return formatReal(re) + "-" + formatReal(-im) + "i"
		}
		return formatReal(re) + "+" + formatReal(im) + "i"
	case ListKind:
		parts := make([]string, len(v.list))
		for i, x := range v.list {
			parts[i] = formatReal(x)
		}
		return "{" + strings.Join(parts, " ") + "}"
	case ComplexListKind:
		parts := make([]string, len(v.clst))
		for i, c := range v.clst {
			parts[i] = Cmplx(c).String()
		}
		return "{" + strings.Join(parts, " ") + "}"
	case MatrixKind:
		var b strings.Builder
		b.WriteString("[")
		for _, row := range v.mat {
			b.WriteString("[")
			for j, x := range row {
				if j > 0 {
					b.WriteString(" ")
				}
				b.WriteString(formatReal(x))
			}
			b.WriteString("]")
		}
		b.WriteString("]")
		return b.String()
	case StringKind:
		return v.str
	}
	return ""
}

func formatReal(f float64) string {
	return strconv.FormatFloat(f, 'g', 10, 64)
}
