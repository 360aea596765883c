// Package ti84 reimplements the computational core of the TI-84 family:
// the expression language, the tree-walking evaluator over the calculator's
// universal value, the TI-BASIC interpreter, and the numeric kernels
// backing them.
package ti84

import (
	"github.com/ianjrobertson/ti84/ast"
	"github.com/ianjrobertson/ti84/parser"
	"github.com/ianjrobertson/ti84/runtime"
)

// Eval runs one home-screen entry: tokenize, parse, evaluate, then record
// the result as Ans and append it to history.
func Eval(st *runtime.State, src string) (runtime.Value, error) {
	v, err := runtime.EvalText(st, src)
	if err != nil {
		return runtime.Value{}, err
	}
	st.SetAns(v)
	st.AddHistory(src, v)
	return v, nil
}

// Parse returns the expression AST for tooling use.
func Parse(src string) (ast.Expr, error) {
	return parser.Parse(src)
}

// LoadProgram stores TI-BASIC source under a program name.
func LoadProgram(st *runtime.State, name, src string) {
	st.SetProgram(name, src)
}

// RunProgram executes a stored program with the given terminal; nil runs
// headless. It builds a fresh interpreter and returns no handle; callers
// that need Cancel build one with runtime.NewInterp instead.
func RunProgram(st *runtime.State, name string, term runtime.Terminal) error {
	return runtime.NewInterp(st, term).Run(name)
}
