package runtime

import (
	"math"

	"github.com/ianjrobertson/ti84/ast"
	"github.com/ianjrobertson/ti84/numeric"
	"github.com/ianjrobertson/ti84/parser"
)

// Eval evaluates a parsed expression against the state. The state is
// borrowed for the duration of the call; failures propagate uncaught.
func Eval(st *State, e ast.Expr) (Value, error) {
	ec := &evalCtx{st: st}
	return ec.eval(e)
}

// EvalText tokenizes, parses, and evaluates in one step. Ans and history
// are the facade's concern.
func EvalText(st *State, src string) (Value, error) {
	e, err := parser.Parse(src)
	if err != nil {
		return Value{}, err
	}
	return Eval(st, e)
}

type evalCtx struct {
	st *State
}

func (ec *evalCtx) eval(e ast.Expr) (Value, error) {
	switch ex := e.(type) {
	case ast.NumberLit:
		return Real(ex.Value), nil
	case ast.StringLit:
		return Str(ex.Value), nil
	case ast.Const:
		switch ex.Name {
		case "pi":
			return Real(math.Pi), nil
		case "e":
			return Real(math.E), nil
		case "i":
			return Cmplx(complex(0, 1)), nil
		case "ans":
			return ec.st.Ans(), nil
		}
		return Value{}, errKind(KindSyntax, "unknown constant %s", ex.Name)
	case ast.VarRef:
		return ec.st.Var(ex.Name), nil
	case ast.ListRef:
		l, err := ec.st.List(ex.Name)
		if err != nil {
			return Value{}, err
		}
		return NewList(l), nil
	case ast.MatrixRef:
		m, err := ec.st.Matrix(ex.Name)
		if err != nil {
			return Value{}, err
		}
		return NewMatrix(m), nil
	case ast.StringRef:
		s, err := ec.st.StringVar(ex.Name)
		if err != nil {
			return Value{}, err
		}
		return Str(s), nil
	case ast.SlotRef:
		// A bare Y1 evaluates at the current X, matching trace behavior.
		x, ok := ec.st.Var("X").AsReal()
		if !ok {
			return Value{}, errKind(KindDataType, "X is not real")
		}
		y, err := ec.st.EvaluateSlot(ex.Index, x)
		if err != nil {
			return Value{}, err
		}
		return Real(y), nil
	case ast.UnaryExpr:
		return ec.evalUnary(ex)
	case ast.PostfixExpr:
		return ec.evalPostfix(ex)
	case ast.BinaryExpr:
		left, err := ec.eval(ex.Left)
		if err != nil {
			return Value{}, err
		}
		right, err := ec.eval(ex.Right)
		if err != nil {
			return Value{}, err
		}
		return binaryOp(ex.Op, left, right)
	case ast.CallExpr:
		return ec.evalCall(ex)
	case ast.ListLit:
		out := make([]float64, 0, len(ex.Elements))
		for _, el := range ex.Elements {
			v, err := ec.eval(el)
			if err != nil {
				return Value{}, err
			}
			f, ok := v.AsReal()
			if !ok {
				return Value{}, errKind(KindDataType, "list element must be real")
			}
			out = append(out, f)
		}
		return NewList(out), nil
	case ast.MatrixLit:
		rows := make([][]float64, 0, len(ex.Rows))
		for _, rowExprs := range ex.Rows {
			row := make([]float64, 0, len(rowExprs))
			for _, el := range rowExprs {
				v, err := ec.eval(el)
				if err != nil {
					return Value{}, err
				}
				f, ok := v.AsReal()
				if !ok {
					return Value{}, errKind(KindDataType, "matrix element must be real")
				}
				row = append(row, f)
			}
			if len(rows) > 0 && len(row) != len(rows[0]) {
				return Value{}, errKind(KindDimMismatch, "ragged matrix rows")
			}
			rows = append(rows, row)
		}
		return NewMatrix(rows), nil
	case ast.IndexExpr:
		return ec.evalIndex(ex)
	case ast.StoreExpr:
		return ec.evalStore(ex)
	}
	return Value{}, errKind(KindSyntax, "unsupported expression %T", e)
}

func (ec *evalCtx) evalUnary(ex ast.UnaryExpr) (Value, error) {
	v, err := ec.eval(ex.Expr)
	if err != nil {
		return Value{}, err
	}
	switch ex.Op {
	case "-":
		return negate(v)
	case "not":
		f, ok := v.AsReal()
		if !ok {
			return Value{}, errKind(KindDataType, "not requires a real")
		}
		if f == 0 {
			return Real(1), nil
		}
		return Real(0), nil
	}
	return Value{}, errKind(KindSyntax, "unsupported prefix %q", ex.Op)
}

// negate distributes over every numeric shape.
func negate(v Value) (Value, error) {
	switch v.Kind() {
	case RealKind:
		f, _ := v.AsReal()
		return Real(-f), nil
	case ComplexKind:
		c, _ := v.AsComplex()
		return Cmplx(-c), nil
	case ListKind:
		l, _ := v.AsList()
		out := make([]float64, len(l))
		for i, x := range l {
			out[i] = -x
		}
		return NewList(out), nil
	case ComplexListKind:
		l, _ := v.AsCList()
		out := make([]complex128, len(l))
		for i, c := range l {
			out[i] = -c
		}
		return NewCList(out), nil
	case MatrixKind:
		m, _ := v.AsMatrix()
		out := make([][]float64, len(m))
		for i, row := range m {
			out[i] = make([]float64, len(row))
			for j, x := range row {
				out[i][j] = -x
			}
		}
		return NewMatrix(out), nil
	}
	return Value{}, errKind(KindDataType, "cannot negate a string")
}

func (ec *evalCtx) evalPostfix(ex ast.PostfixExpr) (Value, error) {
	v, err := ec.eval(ex.Expr)
	if err != nil {
		return Value{}, err
	}
	// Matrix forms of the exponent-like postfix operators.
	if m, ok := v.AsMatrix(); ok {
		switch ex.Op {
		case "⁻¹":
			inv, err := numeric.Inverse(m)
			if err != nil {
				return Value{}, wrapKernel(err)
			}
			return NewMatrix(inv), nil
		case "²":
			sq, err := numeric.Mul(m, m)
			if err != nil {
				return Value{}, wrapKernel(err)
			}
			return NewMatrix(sq), nil
		case "³":
			cu, err := numeric.Pow(m, 3)
			if err != nil {
				return Value{}, wrapKernel(err)
			}
			return NewMatrix(cu), nil
		}
		return Value{}, errKind(KindDataType, "%s undefined for matrices", ex.Op)
	}
	return broadcastReal(v, func(x float64) (float64, error) {
		return postfixScalar(ex.Op, x)
	})
}

func postfixScalar(op string, x float64) (float64, error) {
	switch op {
	case "!":
		n := int(x)
		if float64(n) != x {
			return 0, errKind(KindDomain, "factorial of non-integer")
		}
		f, err := numeric.Factorial(n)
		if err != nil {
			return 0, wrapKernel(err)
		}
		return f, nil
	case "²":
		return x * x, nil
	case "³":
		return x * x * x, nil
	case "⁻¹":
		if x == 0 {
			return 0, errKind(KindDivideByZero, "0⁻¹")
		}
		return 1 / x, nil
	case "°":
		return x * math.Pi / 180, nil
	case "%":
		return x / 100, nil
	}
	return 0, errKind(KindSyntax, "unsupported postfix %q", op)
}

// broadcastReal applies a scalar function to a real or element-wise to a
// list.
func broadcastReal(v Value, f func(float64) (float64, error)) (Value, error) {
	switch v.Kind() {
	case RealKind:
		x, _ := v.AsReal()
		y, err := f(x)
		if err != nil {
			return Value{}, err
		}
		return Real(y), nil
	case ComplexKind:
		if x, ok := v.AsReal(); ok {
			y, err := f(x)
			if err != nil {
				return Value{}, err
			}
			return Real(y), nil
		}
	case ListKind:
		l, _ := v.AsList()
		out := make([]float64, len(l))
		for i, x := range l {
			y, err := f(x)
			if err != nil {
				return Value{}, err
			}
			out[i] = y
		}
		return NewList(out), nil
	}
	return Value{}, errKind(KindDataType, "expected a real or list")
}

func (ec *evalCtx) evalIndex(ex ast.IndexExpr) (Value, error) {
	switch target := ex.Target.(type) {
	case ast.ListRef:
		if len(ex.Indices) != 1 {
			return Value{}, errKind(KindArgument, "list access takes one index")
		}
		l, err := ec.st.List(target.Name)
		if err != nil {
			return Value{}, err
		}
		idx, err := ec.evalIntArg(ex.Indices[0])
		if err != nil {
			return Value{}, err
		}
		if idx < 1 || idx > len(l) {
			return Value{}, errKind(KindInvalidDim, "%s(%d)", target.Name, idx)
		}
		return Real(l[idx-1]), nil
	case ast.MatrixRef:
		if len(ex.Indices) != 2 {
			return Value{}, errKind(KindArgument, "matrix access takes two indices")
		}
		m, err := ec.st.Matrix(target.Name)
		if err != nil {
			return Value{}, err
		}
		row, err := ec.evalIntArg(ex.Indices[0])
		if err != nil {
			return Value{}, err
		}
		col, err := ec.evalIntArg(ex.Indices[1])
		if err != nil {
			return Value{}, err
		}
		if row < 1 || row > len(m) || col < 1 || col > len(m[0]) {
			return Value{}, errKind(KindInvalidDim, "[%s](%d,%d)", target.Name, row, col)
		}
		return Real(m[row-1][col-1]), nil
	case ast.SlotRef:
		if len(ex.Indices) != 1 {
			return Value{}, errKind(KindArgument, "Y%d takes one argument", target.Index)
		}
		v, err := ec.eval(ex.Indices[0])
		if err != nil {
			return Value{}, err
		}
		x, ok := v.AsReal()
		if !ok {
			return Value{}, errKind(KindDataType, "Y%d argument must be real", target.Index)
		}
		y, err := ec.st.EvaluateSlot(target.Index, x)
		if err != nil {
			return Value{}, err
		}
		return Real(y), nil
	}
	return Value{}, errKind(KindDataType, "value is not indexable")
}

func (ec *evalCtx) evalIntArg(e ast.Expr) (int, error) {
	v, err := ec.eval(e)
	if err != nil {
		return 0, err
	}
	n, ok := v.AsInt()
	if !ok {
		return 0, errKind(KindDataType, "index must be an integer")
	}
	return n, nil
}

func (ec *evalCtx) evalStore(ex ast.StoreExpr) (Value, error) {
	v, err := ec.eval(ex.Expr)
	if err != nil {
		return Value{}, err
	}
	if err := ec.storeInto(ex.Target, v); err != nil {
		return Value{}, err
	}
	return v, nil
}

// storeInto writes v through a store target. The value must coerce to the
// target's type; element writes may extend lists but not matrices.
func (ec *evalCtx) storeInto(target ast.Expr, v Value) error {
	switch t := target.(type) {
	case ast.VarRef:
		switch v.Kind() {
		case RealKind, ComplexKind:
			ec.st.SetVar(t.Name, v)
			return nil
		}
		return errKind(KindDataType, "%s holds numbers", t.Name)
	case ast.ListRef:
		l, ok := v.AsList()
		if !ok {
			return errKind(KindDataType, "%s holds lists", t.Name)
		}
		ec.st.SetList(t.Name, append([]float64(nil), l...))
		return nil
	case ast.MatrixRef:
		m, ok := v.AsMatrix()
		if !ok {
			return errKind(KindDataType, "[%s] holds matrices", t.Name)
		}
		ec.st.SetMatrix(t.Name, m)
		return nil
	case ast.StringRef:
		s, ok := v.AsString()
		if !ok {
			return errKind(KindDataType, "%s holds strings", t.Name)
		}
		ec.st.SetStringVar(t.Name, s)
		return nil
	case ast.SlotRef:
		s, ok := v.AsString()
		if !ok {
			return errKind(KindDataType, "Y%d holds expression text", t.Index)
		}
		return ec.st.SetSlot(t.Index, s)
	case ast.IndexExpr:
		return ec.storeElement(t, v)
	}
	return errKind(KindSyntax, "invalid store target")
}

func (ec *evalCtx) storeElement(t ast.IndexExpr, v Value) error {
	f, ok := v.AsReal()
	if !ok {
		return errKind(KindDataType, "element writes take reals")
	}
	switch target := t.Target.(type) {
	case ast.ListRef:
		if len(t.Indices) != 1 {
			return errKind(KindArgument, "list access takes one index")
		}
		idx, err := ec.evalIntArg(t.Indices[0])
		if err != nil {
			return err
		}
		if _, err := ec.st.List(target.Name); err != nil {
			// Writing element 1 of an unset list creates it.
			ec.st.SetList(target.Name, nil)
		}
		return ec.st.SetListElem(target.Name, idx, f)
	case ast.MatrixRef:
		if len(t.Indices) != 2 {
			return errKind(KindArgument, "matrix access takes two indices")
		}
		row, err := ec.evalIntArg(t.Indices[0])
		if err != nil {
			return err
		}
		col, err := ec.evalIntArg(t.Indices[1])
		if err != nil {
			return err
		}
		return ec.st.SetMatrixElem(target.Name, row, col, f)
	}
	return errKind(KindSyntax, "invalid element store target")
}

// EvaluateSlot computes Y_index(x): X is bound to x for the evaluation and
// restored on every exit path. Empty slots are undefined.
func (st *State) EvaluateSlot(index int, x float64) (float64, error) {
	sl, err := st.Slot(index)
	if err != nil {
		return 0, err
	}
	if sl.Text == "" {
		return 0, errKind(KindUndefined, "Y%d is empty", index)
	}
	prev, had := st.vars["X"]
	st.SetVar("X", Real(x))
	defer func() {
		if had {
			st.vars["X"] = prev
		} else {
			delete(st.vars, "X")
		}
	}()
	e, err := parser.Parse(sl.Text)
	if err != nil {
		return 0, err
	}
	v, err := Eval(st, e)
	if err != nil {
		return 0, err
	}
	y, ok := v.AsReal()
	if !ok {
		return 0, errKind(KindDataType, "Y%d is not real-valued", index)
	}
	return y, nil
}

// SlotFunc adapts a function slot to the kernels' partial-function shape.
func SlotFunc(st *State, index int) numeric.Func {
	return func(x float64) (float64, bool) {
		y, err := st.EvaluateSlot(index, x)
		if err != nil {
			return 0, false
		}
		return y, true
	}
}

// wrapKernel lifts a numeric sentinel into the calculator taxonomy.
func wrapKernel(err error) error {
	if err == nil {
		return nil
	}
	if kind := KindOf(err); kind != KindNone {
		return &Error{Kind: kind, Msg: err.Error()}
	}
	return err
}
