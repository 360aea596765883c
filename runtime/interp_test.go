package runtime

import (
	"testing"
	"time"

	"github.com/ianjrobertson/ti84/ast"
	"github.com/ianjrobertson/ti84/parser"
)

// fakeTerm records output and feeds scripted input.
type fakeTerm struct {
	NoopTerminal
	displayed []string
	inputs    []string
	menuPick  int
	paused    int
}

func (ft *fakeTerm) Display(text string) {
	ft.displayed = append(ft.displayed, text)
}

func (ft *fakeTerm) Input(prompt string) (string, error) {
	if len(ft.inputs) == 0 {
		return "0", nil
	}
	v := ft.inputs[0]
	ft.inputs = ft.inputs[1:]
	return v, nil
}

func (ft *fakeTerm) Pause(string) error {
	ft.paused++
	return nil
}

func (ft *fakeTerm) ShowMenu(title string, entries []ast.MenuEntry) (string, error) {
	return entries[ft.menuPick].Label, nil
}

func runSource(t *testing.T, st *State, term Terminal, src string) error {
	t.Helper()
	prog, err := parser.ParseProgram("TEST", src)
	if err != nil {
		t.Fatalf("parse program: %v", err)
	}
	return NewInterp(st, term).RunProgram(prog)
}

func mustRun(t *testing.T, st *State, term Terminal, src string) {
	t.Helper()
	if err := runSource(t, st, term, src); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestForLoop(t *testing.T) {
	st := NewState()
	mustRun(t, st, nil, "For(I,1,5)\nI→A\nEnd")
	if !st.Var("A").Equal(Real(5)) {
		t.Fatalf("A: %v", st.Var("A"))
	}
	if !st.Var("I").Equal(Real(6)) {
		t.Fatalf("I: %v", st.Var("I"))
	}
}

func TestForLoopIterationCount(t *testing.T) {
	cases := []struct {
		start, end, step string
		iterations       float64
		exit             float64
	}{
		{"1", "5", "", 5, 6},
		{"0", "10", "2", 6, 12},
		{"10", "1", "-3", 4, -2},
		{"1", "1", "", 1, 2},
	}
	for _, tc := range cases {
		st := NewState()
		src := "0→N\nFor(I," + tc.start + "," + tc.end
		if tc.step != "" {
			src += "," + tc.step
		}
		src += ")\nN+1→N\nEnd"
		mustRun(t, st, nil, src)
		if !st.Var("N").Equal(Real(tc.iterations)) {
			t.Fatalf("For(%s,%s,%s): %v iterations, want %v",
				tc.start, tc.end, tc.step, st.Var("N"), tc.iterations)
		}
		if !st.Var("I").Equal(Real(tc.exit)) {
			t.Fatalf("For(%s,%s,%s): exit %v, want %v",
				tc.start, tc.end, tc.step, st.Var("I"), tc.exit)
		}
	}
}

func TestForBodyMayMutateCounter(t *testing.T) {
	st := NewState()
	mustRun(t, st, nil, "For(I,1,10)\nI+1→I\nEnd")
	// Each pass advances by the body's extra increment plus the step.
	if !st.Var("I").Equal(Real(11)) {
		t.Fatalf("I: %v", st.Var("I"))
	}
}

func TestIfThenElse(t *testing.T) {
	st := NewState()
	mustRun(t, st, nil, "5→A\nIf A>3\nThen\n1→B\nElse\n2→B\nEnd")
	if !st.Var("B").Equal(Real(1)) {
		t.Fatalf("then branch: %v", st.Var("B"))
	}
	mustRun(t, st, nil, "1→A\nIf A>3\nThen\n1→B\nElse\n2→B\nEnd")
	if !st.Var("B").Equal(Real(2)) {
		t.Fatalf("else branch: %v", st.Var("B"))
	}
}

func TestIfSingleStatement(t *testing.T) {
	st := NewState()
	mustRun(t, st, nil, "0→B\nIf 0\n9→B\n1→C")
	if !st.Var("B").Equal(Real(0)) {
		t.Fatalf("skipped statement ran: %v", st.Var("B"))
	}
	if !st.Var("C").Equal(Real(1)) {
		t.Fatalf("following statement skipped: %v", st.Var("C"))
	}
}

func TestNestedIfSkip(t *testing.T) {
	st := NewState()
	src := `0→B
If 0
Then
If 1
Then
9→B
End
Else
5→B
End`
	mustRun(t, st, nil, src)
	if !st.Var("B").Equal(Real(5)) {
		t.Fatalf("nested skip: %v", st.Var("B"))
	}
}

func TestWhileLoop(t *testing.T) {
	st := NewState()
	mustRun(t, st, nil, "0→A\nWhile A<5\nA+1→A\nEnd")
	if !st.Var("A").Equal(Real(5)) {
		t.Fatalf("A: %v", st.Var("A"))
	}
	// A false condition skips the body entirely.
	mustRun(t, st, nil, "0→B\nWhile 0\n9→B\nEnd")
	if !st.Var("B").Equal(Real(0)) {
		t.Fatalf("B: %v", st.Var("B"))
	}
}

func TestRepeatRunsAtLeastOnce(t *testing.T) {
	st := NewState()
	mustRun(t, st, nil, "0→A\nRepeat 1\nA+1→A\nEnd")
	if !st.Var("A").Equal(Real(1)) {
		t.Fatalf("A: %v", st.Var("A"))
	}
	mustRun(t, st, nil, "0→B\nRepeat B>=3\nB+1→B\nEnd")
	if !st.Var("B").Equal(Real(3)) {
		t.Fatalf("B: %v", st.Var("B"))
	}
}

func TestGotoAndLabels(t *testing.T) {
	st := NewState()
	mustRun(t, st, nil, "1→A\nGoto SKIP\n9→A\nLbl SKIP\n2→B")
	if !st.Var("A").Equal(Real(1)) || !st.Var("B").Equal(Real(2)) {
		t.Fatalf("goto: A=%v B=%v", st.Var("A"), st.Var("B"))
	}
}

func TestGotoOutOfLoop(t *testing.T) {
	st := NewState()
	src := `0→A
For(I,1,100)
A+1→A
If A=3
Goto OUT
End
Lbl OUT
A→B`
	mustRun(t, st, nil, src)
	if !st.Var("B").Equal(Real(3)) {
		t.Fatalf("goto out of loop: %v", st.Var("B"))
	}
}

func TestGotoBackwardLoop(t *testing.T) {
	st := NewState()
	mustRun(t, st, nil, "0→A\nLbl TOP\nA+1→A\nIf A<4\nGoto TOP\nA→B")
	if !st.Var("B").Equal(Real(4)) {
		t.Fatalf("backward goto: %v", st.Var("B"))
	}
}

func TestUndefinedLabel(t *testing.T) {
	st := NewState()
	err := runSource(t, st, nil, "Goto NOWHERE")
	if KindOf(err) != KindLabel {
		t.Fatalf("undefined label: %v", err)
	}
}

func TestMenuGoto(t *testing.T) {
	st := NewState()
	term := &fakeTerm{menuPick: 1}
	mustRun(t, st, term, `Menu("PICK","ONE",A1,"TWO",B1)
Lbl A1
1→C
Stop
Lbl B1
2→C`)
	if !st.Var("C").Equal(Real(2)) {
		t.Fatalf("menu pick: %v", st.Var("C"))
	}
}

func TestDisp(t *testing.T) {
	st := NewState()
	term := &fakeTerm{}
	mustRun(t, st, term, `Disp "HELLO",2+3`)
	if len(term.displayed) != 2 || term.displayed[0] != "HELLO" || term.displayed[1] != "5" {
		t.Fatalf("disp: %v", term.displayed)
	}
}

func TestInputStoresValue(t *testing.T) {
	st := NewState()
	term := &fakeTerm{inputs: []string{"42"}}
	mustRun(t, st, term, `Input "A?",A`)
	if !st.Var("A").Equal(Real(42)) {
		t.Fatalf("input: %v", st.Var("A"))
	}
	term = &fakeTerm{inputs: []string{"7", "2+3"}}
	mustRun(t, st, term, "Prompt A,B")
	if !st.Var("A").Equal(Real(7)) || !st.Var("B").Equal(Real(5)) {
		t.Fatalf("prompt: A=%v B=%v", st.Var("A"), st.Var("B"))
	}
}

func TestExpressionStatementSetsAns(t *testing.T) {
	st := NewState()
	mustRun(t, st, nil, "2+3\nAns+1→A")
	if !st.Var("A").Equal(Real(6)) {
		t.Fatalf("ans chain: %v", st.Var("A"))
	}
}

func TestStopReturnSemantics(t *testing.T) {
	st := NewState()
	// Return in a subprogram resumes the caller; Stop halts everything.
	st.SetProgram("SUB", "1→A\nReturn\n9→A")
	st.SetProgram("MAIN", "prgmSUB\n2→B")
	if err := NewInterp(st, nil).Run("MAIN"); err != nil {
		t.Fatal(err)
	}
	if !st.Var("A").Equal(Real(1)) || !st.Var("B").Equal(Real(2)) {
		t.Fatalf("return: A=%v B=%v", st.Var("A"), st.Var("B"))
	}

	st = NewState()
	st.SetProgram("SUB", "1→A\nStop\n9→A")
	st.SetProgram("MAIN", "prgmSUB\n2→B")
	if err := NewInterp(st, nil).Run("MAIN"); err != nil {
		t.Fatal(err)
	}
	if !st.Var("A").Equal(Real(1)) {
		t.Fatalf("stop: A=%v", st.Var("A"))
	}
	if !st.Var("B").Equal(Real(0)) {
		t.Fatalf("stop ran caller tail: B=%v", st.Var("B"))
	}
}

func TestMissingProgram(t *testing.T) {
	st := NewState()
	err := runSource(t, st, nil, "prgmNOPE")
	if KindOf(err) != KindUndefined {
		t.Fatalf("missing program: %v", err)
	}
}

func TestErrorAbortsProgram(t *testing.T) {
	st := NewState()
	err := runSource(t, st, nil, "1→A\n1/0\n2→A")
	if KindOf(err) != KindDivideByZero {
		t.Fatalf("error kind: %v", err)
	}
	if !st.Var("A").Equal(Real(1)) {
		t.Fatalf("statement after error ran: %v", st.Var("A"))
	}
}

func TestStoredExpressionStatement(t *testing.T) {
	st := NewState()
	mustRun(t, st, nil, "X²→Y1")
	sl, err := st.Slot(1)
	if err != nil || sl.Text != "X²" {
		t.Fatalf("slot: %+v %v", sl, err)
	}
}

func TestCancelBreaks(t *testing.T) {
	st := NewState()
	prog, err := parser.ParseProgram("LOOP", "Lbl 1\n1→A\nGoto 1")
	if err != nil {
		t.Fatal(err)
	}
	ip := NewInterp(st, nil)
	done := make(chan error, 1)
	go func() {
		done <- ip.RunProgram(prog)
	}()
	time.Sleep(10 * time.Millisecond)
	ip.Cancel()
	select {
	case err := <-done:
		if KindOf(err) != KindBreak {
			t.Fatalf("cancel: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("interpreter did not break")
	}
	if !st.Var("A").Equal(Real(1)) {
		t.Fatalf("A after break: %v", st.Var("A"))
	}
}

func TestCancelBeforeRun(t *testing.T) {
	st := NewState()
	ip := NewInterp(st, nil)
	ip.Cancel()
	err := ip.RunProgram(&ast.Program{
		Statements: []ast.Statement{ast.ExprStmt{Text: "1→A"}},
		Labels:     map[string]int{},
	})
	if KindOf(err) != KindBreak {
		t.Fatalf("pre-set cancel: %v", err)
	}
	if !st.Var("A").Equal(Real(0)) {
		t.Fatalf("statement ran after cancel: %v", st.Var("A"))
	}
}
