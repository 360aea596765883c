package runtime

import (
	"sync/atomic"

	"github.com/ianjrobertson/ti84/ast"
	"github.com/ianjrobertson/ti84/parser"
)

// Interp executes TI-BASIC programs against a State. One program runs at a
// time per State; callers serialize. Cancellation is cooperative: the flag
// is consulted before every statement.
type Interp struct {
	st     *State
	term   Terminal
	cancel atomic.Bool
}

// NewInterp builds an interpreter. A nil terminal runs headless with the
// no-op collaborator.
func NewInterp(st *State, term Terminal) *Interp {
	if term == nil {
		term = NoopTerminal{}
	}
	return &Interp{st: st, term: term}
}

// Cancel requests a Break before the next statement. Safe to call from
// another goroutine (a deadline timer, the frontend's break key).
func (ip *Interp) Cancel() {
	ip.cancel.Store(true)
}

// Run loads, parses, and executes a stored program by name.
func (ip *Interp) Run(name string) error {
	src, err := ip.st.Program(name)
	if err != nil {
		return err
	}
	prog, err := parser.ParseProgram(name, src)
	if err != nil {
		return err
	}
	return ip.RunProgram(prog)
}

// RunProgram executes an already parsed program. A previously requested
// Cancel stays in force; build a fresh Interp to run again after a Break.
func (ip *Interp) RunProgram(prog *ast.Program) error {
	_, err := ip.runProgram(prog)
	return err
}

type resultKind int

const (
	resultNone resultKind = iota
	resultGoto
	resultReturn
	resultStop
)

// execResult threads non-local control flow out of nested block execution,
// so a Goto unwinds dangling loop frames until a range containing its
// label resolves it.
type execResult struct {
	kind  resultKind
	label string
}

func (ip *Interp) runProgram(prog *ast.Program) (execResult, error) {
	res, err := ip.runRange(prog, 0, len(prog.Statements))
	if err != nil {
		return execResult{}, err
	}
	if res.kind == resultGoto {
		// The whole-program range holds every label; reaching here
		// means the target does not exist.
		return execResult{}, errLabel(res.label)
	}
	return res, nil
}

// runRange drives statements [from, to). Loops re-enter it for their
// bodies; a Goto whose label lies outside the range propagates outward.
func (ip *Interp) runRange(prog *ast.Program, from, to int) (execResult, error) {
	for pc := from; pc < to; pc++ {
		if ip.cancel.Load() {
			return execResult{}, errKind(KindBreak, "")
		}
		res, next, err := ip.execStatement(prog, pc, to)
		if err != nil {
			return execResult{}, err
		}
		pc = next
		if res.kind == resultGoto {
			idx, ok := prog.Labels[res.label]
			if !ok {
				return execResult{}, errLabel(res.label)
			}
			if idx >= from && idx < to {
				pc = idx
				continue
			}
			return res, nil
		}
		if res.kind != resultNone {
			return res, nil
		}
	}
	return execResult{}, nil
}

// execStatement runs one statement. It returns the pc to resume from,
// normally the statement's own index; block statements advance it past
// their End.
func (ip *Interp) execStatement(prog *ast.Program, pc, limit int) (execResult, int, error) {
	none := execResult{}
	switch s := prog.Statements[pc].(type) {
	case ast.ExprStmt:
		v, err := EvalText(ip.st, s.Text)
		if err != nil {
			return none, pc, err
		}
		ip.st.SetAns(v)
		return none, pc, nil
	case ast.StoredExprStmt:
		return none, pc, ip.st.SetSlot(s.Slot, s.Text)
	case ast.DispStmt:
		for _, arg := range s.Args {
			v, err := EvalText(ip.st, arg)
			if err != nil {
				return none, pc, err
			}
			ip.term.Display(v.String())
		}
		return none, pc, nil
	case ast.OutputStmt:
		row, err := ip.evalInt(s.Row)
		if err != nil {
			return none, pc, err
		}
		col, err := ip.evalInt(s.Col)
		if err != nil {
			return none, pc, err
		}
		v, err := EvalText(ip.st, s.Expr)
		if err != nil {
			return none, pc, err
		}
		ip.term.Output(row, col, v.String())
		return none, pc, nil
	case ast.InputStmt:
		prompt := s.Prompt
		if prompt == "" {
			prompt = "?"
		}
		text, err := ip.term.Input(prompt)
		if err != nil {
			return none, pc, err
		}
		if s.Var == "" {
			return none, pc, nil
		}
		return none, pc, ip.storeInput(s.Var, text)
	case ast.PromptStmt:
		for _, name := range s.Vars {
			text, err := ip.term.Input(name + "=?")
			if err != nil {
				return none, pc, err
			}
			if err := ip.storeInput(name, text); err != nil {
				return none, pc, err
			}
		}
		return none, pc, nil
	case ast.ClrHomeStmt:
		ip.term.ClearHome()
		return none, pc, nil
	case ast.PauseStmt:
		text := ""
		if s.Expr != "" {
			v, err := EvalText(ip.st, s.Expr)
			if err != nil {
				return none, pc, err
			}
			text = v.String()
			ip.term.Display(text)
		}
		return none, pc, ip.term.Pause(text)
	case ast.GetKeyStmt:
		key, err := ip.term.GetKey()
		if err != nil {
			return none, pc, err
		}
		if s.Var != "" {
			ip.st.SetVar(s.Var, Real(float64(key)))
		}
		ip.st.SetAns(Real(float64(key)))
		return none, pc, nil
	case ast.IfStmt:
		return ip.execIf(prog, s, pc, limit)
	case ast.ThenStmt, ast.LabelStmt, ast.EndStmt:
		return none, pc, nil
	case ast.ElseStmt:
		// Reached in normal flow after a taken Then branch: skip to the
		// matching End.
		end, err := ip.findEnd(prog, pc, limit)
		if err != nil {
			return none, pc, err
		}
		return none, end, nil
	case ast.ForStmt:
		return ip.execFor(prog, s, pc, limit)
	case ast.WhileStmt:
		return ip.execWhile(prog, s, pc, limit)
	case ast.RepeatStmt:
		return ip.execRepeat(prog, s, pc, limit)
	case ast.GotoStmt:
		return execResult{kind: resultGoto, label: s.Name}, pc, nil
	case ast.MenuStmt:
		label, err := ip.term.ShowMenu(s.Title, s.Entries)
		if err != nil {
			return none, pc, err
		}
		return execResult{kind: resultGoto, label: label}, pc, nil
	case ast.StopStmt:
		return execResult{kind: resultStop}, pc, nil
	case ast.ReturnStmt:
		return execResult{kind: resultReturn}, pc, nil
	case ast.ProgramCallStmt:
		return ip.execCall(s, pc)
	case ast.LineStmt:
		xs, err := ip.evalReals(s.Args, 4)
		if err != nil {
			return none, pc, err
		}
		ip.term.DrawLine(xs[0], xs[1], xs[2], xs[3])
		return none, pc, nil
	case ast.CircleStmt:
		xs, err := ip.evalReals(s.Args, 3)
		if err != nil {
			return none, pc, err
		}
		ip.term.DrawCircle(xs[0], xs[1], xs[2])
		return none, pc, nil
	case ast.TextStmt:
		if len(s.Args) < 3 {
			return none, pc, errKind(KindArgument, "Text takes row, col, text")
		}
		row, err := ip.evalInt(s.Args[0])
		if err != nil {
			return none, pc, err
		}
		col, err := ip.evalInt(s.Args[1])
		if err != nil {
			return none, pc, err
		}
		v, err := EvalText(ip.st, s.Args[2])
		if err != nil {
			return none, pc, err
		}
		ip.term.DrawText(row, col, v.String())
		return none, pc, nil
	case ast.PointStmt:
		xs, err := ip.evalReals(s.Args, 2)
		if err != nil {
			return none, pc, err
		}
		ip.term.PlotPoint(xs[0], xs[1], s.On)
		return none, pc, nil
	case ast.ClrDrawStmt:
		ip.term.ClearDraw()
		return none, pc, nil
	}
	return none, pc, errKind(KindSyntax, "unsupported statement")
}

func (ip *Interp) evalInt(text string) (int, error) {
	v, err := EvalText(ip.st, text)
	if err != nil {
		return 0, err
	}
	n, ok := v.AsInt()
	if !ok {
		return 0, errKind(KindDataType, "expected an integer")
	}
	return n, nil
}

func (ip *Interp) evalReals(texts []string, want int) ([]float64, error) {
	if len(texts) != want {
		return nil, errKind(KindArgument, "expected %d arguments", want)
	}
	out := make([]float64, len(texts))
	for i, t := range texts {
		v, err := EvalText(ip.st, t)
		if err != nil {
			return nil, err
		}
		f, ok := v.AsReal()
		if !ok {
			return nil, errKind(KindDataType, "expected a real")
		}
		out[i] = f
	}
	return out, nil
}

// storeInput evaluates entered text and stores it through the named
// target, so Input accepts expressions and list syntax alike.
func (ip *Interp) storeInput(target, text string) error {
	v, err := EvalText(ip.st, text)
	if err != nil {
		return err
	}
	targetExpr, err := parser.Parse(target)
	if err != nil {
		return err
	}
	ec := &evalCtx{st: ip.st}
	return ec.storeInto(targetExpr, v)
}

func (ip *Interp) evalCond(text string) (bool, error) {
	v, err := EvalText(ip.st, text)
	if err != nil {
		return false, err
	}
	f, ok := v.AsReal()
	if !ok {
		return false, errKind(KindDataType, "condition must be real")
	}
	return f != 0, nil
}

// execIf handles both forms: with a Then block, and the single-statement
// form where a false condition skips exactly one statement.
func (ip *Interp) execIf(prog *ast.Program, s ast.IfStmt, pc, limit int) (execResult, int, error) {
	cond, err := ip.evalCond(s.Cond)
	if err != nil {
		return execResult{}, pc, err
	}
	blockForm := pc+1 < limit && isThen(prog.Statements[pc+1])
	if cond {
		return execResult{}, pc, nil
	}
	if !blockForm {
		if pc+1 < limit {
			return execResult{}, pc + 1, nil
		}
		return execResult{}, pc, nil
	}
	// Skip to the matching Else (branch target) or End.
	depth := 0
	for i := pc + 2; i < limit; i++ {
		switch prog.Statements[i].(type) {
		case ast.ThenStmt, ast.ForStmt, ast.WhileStmt, ast.RepeatStmt:
			depth++
		case ast.ElseStmt:
			if depth == 0 {
				return execResult{}, i, nil
			}
		case ast.EndStmt:
			if depth == 0 {
				return execResult{}, i, nil
			}
			depth--
		}
	}
	return execResult{}, pc, errKind(KindSyntax, "If without End")
}

func isThen(s ast.Statement) bool {
	_, ok := s.(ast.ThenStmt)
	return ok
}

// findEnd locates the End matching the block opened just before start.
func (ip *Interp) findEnd(prog *ast.Program, start, limit int) (int, error) {
	depth := 0
	for i := start + 1; i < limit; i++ {
		switch prog.Statements[i].(type) {
		case ast.ThenStmt, ast.ForStmt, ast.WhileStmt, ast.RepeatStmt:
			depth++
		case ast.EndStmt:
			if depth == 0 {
				return i, nil
			}
			depth--
		}
	}
	return 0, errKind(KindSyntax, "missing End")
}

// execFor drives For(var, start, end[, step]). The counter is re-read from
// state at the top of every iteration, so the body may mutate it and a
// Goto out of the loop leaves nothing stale behind.
func (ip *Interp) execFor(prog *ast.Program, s ast.ForStmt, pc, limit int) (execResult, int, error) {
	none := execResult{}
	start, err := ip.evalReal(s.Start)
	if err != nil {
		return none, pc, err
	}
	end, err := ip.evalReal(s.End)
	if err != nil {
		return none, pc, err
	}
	step := 1.0
	if s.Step != "" {
		step, err = ip.evalReal(s.Step)
		if err != nil {
			return none, pc, err
		}
	}
	if step == 0 {
		return none, pc, errKind(KindDomain, "For step 0")
	}
	endIdx, err := ip.findEnd(prog, pc, limit)
	if err != nil {
		return none, pc, err
	}
	ip.st.SetVar(s.Var, Real(start))
	for {
		if ip.cancel.Load() {
			return none, pc, errKind(KindBreak, "")
		}
		cur, ok := ip.st.Var(s.Var).AsReal()
		if !ok {
			return none, pc, errKind(KindDataType, "For counter %s", s.Var)
		}
		if (step > 0 && cur > end) || (step < 0 && cur < end) {
			return none, endIdx, nil
		}
		res, err := ip.runRange(prog, pc+1, endIdx)
		if err != nil {
			return none, pc, err
		}
		if res.kind != resultNone {
			return res, pc, nil
		}
		cur, _ = ip.st.Var(s.Var).AsReal()
		ip.st.SetVar(s.Var, Real(cur+step))
	}
}

func (ip *Interp) execWhile(prog *ast.Program, s ast.WhileStmt, pc, limit int) (execResult, int, error) {
	none := execResult{}
	endIdx, err := ip.findEnd(prog, pc, limit)
	if err != nil {
		return none, pc, err
	}
	for {
		if ip.cancel.Load() {
			return none, pc, errKind(KindBreak, "")
		}
		cond, err := ip.evalCond(s.Cond)
		if err != nil {
			return none, pc, err
		}
		if !cond {
			return none, endIdx, nil
		}
		res, err := ip.runRange(prog, pc+1, endIdx)
		if err != nil {
			return none, pc, err
		}
		if res.kind != resultNone {
			return res, pc, nil
		}
	}
}

// execRepeat runs the body at least once, exiting when the condition turns
// non-zero.
func (ip *Interp) execRepeat(prog *ast.Program, s ast.RepeatStmt, pc, limit int) (execResult, int, error) {
	none := execResult{}
	endIdx, err := ip.findEnd(prog, pc, limit)
	if err != nil {
		return none, pc, err
	}
	for {
		if ip.cancel.Load() {
			return none, pc, errKind(KindBreak, "")
		}
		res, err := ip.runRange(prog, pc+1, endIdx)
		if err != nil {
			return none, pc, err
		}
		if res.kind != resultNone {
			return res, pc, nil
		}
		cond, err := ip.evalCond(s.Cond)
		if err != nil {
			return none, pc, err
		}
		if cond {
			return none, endIdx, nil
		}
	}
}

// execCall runs a subprogram. Return ends only the callee; Stop halts the
// whole chain by propagating.
func (ip *Interp) execCall(s ast.ProgramCallStmt, pc int) (execResult, int, error) {
	none := execResult{}
	src, err := ip.st.Program(s.Name)
	if err != nil {
		return none, pc, err
	}
	prog, err := parser.ParseProgram(s.Name, src)
	if err != nil {
		return none, pc, err
	}
	res, err := ip.runProgram(prog)
	if err != nil {
		return none, pc, err
	}
	if res.kind == resultStop {
		return res, pc, nil
	}
	return none, pc, nil
}

func (ip *Interp) evalReal(text string) (float64, error) {
	v, err := EvalText(ip.st, text)
	if err != nil {
		return 0, err
	}
	f, ok := v.AsReal()
	if !ok {
		return 0, errKind(KindDataType, "expected a real")
	}
	return f, nil
}
