package runtime

import (
	"math"
	"testing"
)

func evalIn(t *testing.T, st *State, src string) Value {
	t.Helper()
	v, err := EvalText(st, src)
	if err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}
	return v
}

func evalReal(t *testing.T, st *State, src string) float64 {
	t.Helper()
	f, ok := evalIn(t, st, src).AsReal()
	if !ok {
		t.Fatalf("eval %q: not a real", src)
	}
	return f
}

func expectKind(t *testing.T, st *State, src string, want Kind) {
	t.Helper()
	_, err := EvalText(st, src)
	if err == nil {
		t.Fatalf("eval %q: expected %v error", src, want)
	}
	if got := KindOf(err); got != want {
		t.Fatalf("eval %q: error kind %v, want %v (%v)", src, got, want, err)
	}
}

func TestArithmetic(t *testing.T) {
	st := NewState()
	cases := []struct {
		src  string
		want float64
	}{
		{"2+3*4", 14},
		{"-3^2", -9},
		{"2^3^4", math.Pow(2, 81)},
		{"6/2(1+2)", 9},
		{"5!", 120},
		{"0^0", 1},
		{"4²", 16},
		{"2³", 8},
		{"4⁻¹", 0.25},
		{"50%", 0.5},
		{"2 nCr 1 + 1", 3},
		{"5 nPr 2", 20},
		{"5 nCr 2", 10},
		{"1<2", 1},
		{"2<=2", 1},
		{"3=4", 0},
		{"1 and 0", 0},
		{"1 or 0", 1},
		{"1 xor 1", 0},
		{"2+not(0)", 3},
		// not binds looser than addition, per the precedence lattice.
		{"not(0)+1", 0},
	}
	for _, tc := range cases {
		if got := evalReal(t, st, tc.src); got != tc.want {
			t.Fatalf("eval %q: got %v, want %v", tc.src, got, tc.want)
		}
	}
}

func TestZeroIdentities(t *testing.T) {
	st := NewState()
	for _, x := range []float64{0, 1, -2.5, 1e10, math.Pi} {
		st.SetVar("X", Real(x))
		for _, op := range []string{"+", "-", "*"} {
			for _, src := range []string{"X" + op + "0", "0" + op + "X"} {
				if _, err := EvalText(st, src); err != nil {
					t.Fatalf("eval %q with X=%v: %v", src, x, err)
				}
			}
		}
	}
}

func TestListBroadcasting(t *testing.T) {
	st := NewState()
	v := evalIn(t, st, "{1,2,3}+{10,20,30}")
	if !v.Equal(NewList([]float64{11, 22, 33})) {
		t.Fatalf("list add: %v", v)
	}
	v = evalIn(t, st, "{1,2,3}*2")
	if !v.Equal(NewList([]float64{2, 4, 6})) {
		t.Fatalf("list scale: %v", v)
	}
	v = evalIn(t, st, "10-{1,2}")
	if !v.Equal(NewList([]float64{9, 8})) {
		t.Fatalf("scalar minus list: %v", v)
	}
	expectKind(t, st, "{1,2,3}+{1,2}", KindDimMismatch)
	// An element-level failure aborts the zip as a dimension error.
	expectKind(t, st, "{1,2}/{1,0}", KindDimMismatch)
}

func TestListScalarProperty(t *testing.T) {
	st := NewState()
	lists := [][]float64{{1}, {1, 2, 3}, {-4, 0, 2.5, 9}}
	for _, l := range lists {
		st.SetList("L1", l)
		for _, op := range []string{"+", "-", "*"} {
			v := evalIn(t, st, "L1"+op+"3")
			got, ok := v.AsList()
			if !ok || len(got) != len(l) {
				t.Fatalf("L1%s3: %v", op, v)
			}
			for i := range l {
				want, _ := scalarBinary(op, l[i], 3)
				wf, _ := want.AsReal()
				if got[i] != wf {
					t.Fatalf("L1%s3 element %d: %v want %v", op, i, got[i], wf)
				}
			}
		}
	}
}

func TestMatrixOps(t *testing.T) {
	st := NewState()
	st.SetMatrix("A", [][]float64{{1, 2}, {3, 4}})
	st.SetMatrix("B", [][]float64{{0, 1}, {1, 0}})

	v := evalIn(t, st, "[A]+[B]")
	if !v.Equal(NewMatrix([][]float64{{1, 3}, {4, 4}})) {
		t.Fatalf("matrix add: %v", v)
	}
	v = evalIn(t, st, "[A]*[B]")
	if !v.Equal(NewMatrix([][]float64{{2, 1}, {4, 3}})) {
		t.Fatalf("matrix mul: %v", v)
	}
	v = evalIn(t, st, "[A]^0")
	if !v.Equal(NewMatrix([][]float64{{1, 0}, {0, 1}})) {
		t.Fatalf("matrix pow 0: %v", v)
	}
	v = evalIn(t, st, "2*[A]")
	if !v.Equal(NewMatrix([][]float64{{2, 4}, {6, 8}})) {
		t.Fatalf("scalar mul: %v", v)
	}
	st.SetMatrix("C", [][]float64{{1, 2, 3}})
	expectKind(t, st, "[A]+[C]", KindDimMismatch)
	expectKind(t, st, "[C]*[A]", KindDimMismatch)
	expectKind(t, st, "[A]+2", KindDataType)
	expectKind(t, st, "[A]^-1", KindDomain)
}

func TestMatrixInversePostfix(t *testing.T) {
	st := NewState()
	st.SetMatrix("A", [][]float64{{2, 0}, {0, 4}})
	v := evalIn(t, st, "[A]⁻¹")
	if !v.Equal(NewMatrix([][]float64{{0.5, 0}, {0, 0.25}})) {
		t.Fatalf("matrix inverse: %v", v)
	}
	st.SetMatrix("S", [][]float64{{1, 2}, {2, 4}})
	expectKind(t, st, "[S]⁻¹", KindSingular)
}

func TestComplexArithmetic(t *testing.T) {
	st := NewState()
	v := evalIn(t, st, "(2+3i)+(1-i)")
	if !v.Equal(Cmplx(complex(3, 2))) {
		t.Fatalf("complex add: %v", v)
	}
	v = evalIn(t, st, "i*i")
	if !v.Equal(Real(-1)) {
		t.Fatalf("i*i: %v", v)
	}
	v = evalIn(t, st, "-(1+2i)")
	if !v.Equal(Cmplx(complex(-1, -2))) {
		t.Fatalf("complex negate: %v", v)
	}
}

func TestStrings(t *testing.T) {
	st := NewState()
	v := evalIn(t, st, `"AB"+"CD"`)
	if !v.Equal(Str("ABCD")) {
		t.Fatalf("concat: %v", v)
	}
	expectKind(t, st, `"AB"*2`, KindDataType)
	evalIn(t, st, `"HI"→Str1`)
	s, err := st.StringVar("Str1")
	if err != nil || s != "HI" {
		t.Fatalf("string store: %q %v", s, err)
	}
}

func TestStoreProtocol(t *testing.T) {
	st := NewState()
	v := evalIn(t, st, "42→A")
	if !v.Equal(Real(42)) {
		t.Fatalf("store result: %v", v)
	}
	if !st.Var("A").Equal(Real(42)) {
		t.Fatalf("stored A: %v", st.Var("A"))
	}
	evalIn(t, st, "{1,2,3}→L1")
	if !evalIn(t, st, "L1").Equal(NewList([]float64{1, 2, 3})) {
		t.Fatal("list store")
	}
	// Element write extends with zero padding.
	evalIn(t, st, "9→L1(5)")
	if !evalIn(t, st, "L1").Equal(NewList([]float64{1, 2, 3, 0, 9})) {
		t.Fatalf("element extend: %v", evalIn(t, st, "L1"))
	}
	evalIn(t, st, "[[1,2][3,4]]→[A]")
	evalIn(t, st, "9→[A](2,1)")
	if !evalIn(t, st, "[A]").Equal(NewMatrix([][]float64{{1, 2}, {9, 4}})) {
		t.Fatal("matrix element store")
	}
	expectKind(t, st, "9→[A](3,1)", KindInvalidDim)
	expectKind(t, st, "5→3", KindSyntax)
}

func TestStoreReadbackProperty(t *testing.T) {
	st := NewState()
	for _, src := range []string{"2+3", "sin(0)", "5!"} {
		want := evalIn(t, st, src)
		evalIn(t, st, src+"→B")
		if !st.Var("B").Equal(want) {
			t.Fatalf("store %q: readback %v, want %v", src, st.Var("B"), want)
		}
	}
	want := evalIn(t, st, "{1,2}+{3,4}")
	evalIn(t, st, "{1,2}+{3,4}→L3")
	if got := evalIn(t, st, "L3"); !got.Equal(want) {
		t.Fatalf("list store readback: %v, want %v", got, want)
	}
}

func TestElementAccess(t *testing.T) {
	st := NewState()
	st.SetList("L1", []float64{10, 20, 30})
	if got := evalReal(t, st, "L1(2)"); got != 20 {
		t.Fatalf("L1(2): %v", got)
	}
	expectKind(t, st, "L1(0)", KindInvalidDim)
	expectKind(t, st, "L1(4)", KindInvalidDim)
	st.SetMatrix("A", [][]float64{{1, 2}, {3, 4}})
	if got := evalReal(t, st, "[A](2,1)"); got != 3 {
		t.Fatalf("[A](2,1): %v", got)
	}
	expectKind(t, st, "L2(1)", KindUndefined)
}

func TestFunctionSlotEvaluation(t *testing.T) {
	st := NewState()
	if err := st.SetSlot(1, "X²+1"); err != nil {
		t.Fatal(err)
	}
	if got := evalReal(t, st, "Y1(3)"); got != 10 {
		t.Fatalf("Y1(3): %v", got)
	}
	// X is restored after slot evaluation.
	st.SetVar("X", Real(99))
	evalReal(t, st, "Y1(2)")
	if !st.Var("X").Equal(Real(99)) {
		t.Fatalf("X not restored: %v", st.Var("X"))
	}
	// Empty slots are undefined, and failures also restore X.
	expectKind(t, st, "Y2(1)", KindUndefined)
	st.SetSlot(3, "1/0")
	expectKind(t, st, "Y3(5)", KindDivideByZero)
	if !st.Var("X").Equal(Real(99)) {
		t.Fatalf("X not restored after failure: %v", st.Var("X"))
	}
}

func TestTrigAndAngleModes(t *testing.T) {
	st := NewState()
	if got := evalReal(t, st, "sin(0)"); got != 0 {
		t.Fatalf("sin(0): %v", got)
	}
	st.SetAngleMode(Degree)
	if got := evalReal(t, st, "sin(0)"); got != 0 {
		t.Fatalf("degree sin(0): %v", got)
	}
	if got := evalReal(t, st, "sin(90)"); math.Abs(got-1) > 1e-12 {
		t.Fatalf("degree sin(90): %v", got)
	}
	if got := evalReal(t, st, "cos(180)"); math.Abs(got+1) > 1e-12 {
		t.Fatalf("degree cos(180): %v", got)
	}
	if got := evalReal(t, st, "asin(1)"); math.Abs(got-90) > 1e-12 {
		t.Fatalf("degree asin(1): %v", got)
	}
	expectKind(t, st, "tan(90)", KindDomain)
	st.SetAngleMode(Radian)
	if got := evalReal(t, st, "atan(1)"); math.Abs(got-math.Pi/4) > 1e-12 {
		t.Fatalf("radian atan(1): %v", got)
	}
}

func TestFunctionDomains(t *testing.T) {
	st := NewState()
	expectKind(t, st, "1/0", KindDivideByZero)
	expectKind(t, st, "sqrt(-1)", KindNonReal)
	expectKind(t, st, "log(0)", KindDomain)
	expectKind(t, st, "log(8,1)", KindDomain)
	expectKind(t, st, "ln(-2)", KindDomain)
	expectKind(t, st, "asin(2)", KindDomain)
	expectKind(t, st, "70!", KindOverflow)
	expectKind(t, st, "(-1)!", KindDomain)
	expectKind(t, st, "2 nCr 3", KindDomain)
	expectKind(t, st, "10^400", KindOverflow)
	expectKind(t, st, "foo(2)", KindSyntax)
}

func TestFunctionsBroadcastOverLists(t *testing.T) {
	st := NewState()
	v := evalIn(t, st, "abs({-1,2,-3})")
	if !v.Equal(NewList([]float64{1, 2, 3})) {
		t.Fatalf("abs list: %v", v)
	}
	v = evalIn(t, st, "{1,4,9}²")
	if !v.Equal(NewList([]float64{1, 16, 81})) {
		t.Fatalf("squared list: %v", v)
	}
}

func TestListFunctions(t *testing.T) {
	st := NewState()
	st.SetList("L1", []float64{3, 1, 2})
	cases := []struct {
		src  string
		want Value
	}{
		{"dim(L1)", Real(3)},
		{"sum(L1)", Real(6)},
		{"prod(L1)", Real(6)},
		{"mean(L1)", Real(2)},
		{"median(L1)", Real(2)},
		{"cumSum({1,2,3})", NewList([]float64{1, 3, 6})},
		{"min(L1)", Real(1)},
		{"max(L1)", Real(3)},
		{"min(2,7)", Real(2)},
		{"augment({1,2},{3})", NewList([]float64{1, 2, 3})},
		{"seq(X²,X,1,4)", NewList([]float64{1, 4, 9, 16})},
	}
	for _, tc := range cases {
		v := evalIn(t, st, tc.src)
		if !v.Equal(tc.want) {
			t.Fatalf("eval %q: got %v, want %v", tc.src, v, tc.want)
		}
	}
	evalIn(t, st, "sortA(L1)")
	l, _ := st.List("L1")
	if l[0] != 1 || l[2] != 3 {
		t.Fatalf("sortA: %v", l)
	}
}

func TestSeqRebindsAndRestores(t *testing.T) {
	st := NewState()
	st.SetVar("X", Real(100))
	v := evalIn(t, st, "seq(2X,X,1,3)")
	if !v.Equal(NewList([]float64{2, 4, 6})) {
		t.Fatalf("seq: %v", v)
	}
	if !st.Var("X").Equal(Real(100)) {
		t.Fatalf("X not restored: %v", st.Var("X"))
	}
}

func TestStringFunctions(t *testing.T) {
	st := NewState()
	if got := evalReal(t, st, `length("HELLO")`); got != 5 {
		t.Fatalf("length: %v", got)
	}
	v := evalIn(t, st, `sub("HELLO",2,3)`)
	if !v.Equal(Str("ELL")) {
		t.Fatalf("sub: %v", v)
	}
	expectKind(t, st, `sub("HI",1,5)`, KindInvalidDim)
	if got := evalReal(t, st, `inString("HELLO","LL")`); got != 3 {
		t.Fatalf("inString: %v", got)
	}
	if got := evalReal(t, st, `inString("HELLO","Z")`); got != 0 {
		t.Fatalf("inString miss: %v", got)
	}
}

func TestCalculusBuiltins(t *testing.T) {
	st := NewState()
	if got := evalReal(t, st, "nDeriv(X²,X,3)"); math.Abs(got-6) > 1e-6 {
		t.Fatalf("nDeriv: %v", got)
	}
	if got := evalReal(t, st, "fnInt(X²,X,0,3)"); math.Abs(got-9) > 1e-6 {
		t.Fatalf("fnInt: %v", got)
	}
	if got := evalReal(t, st, "solve(X²-4,X,0,10)"); math.Abs(got-2) > 1e-9 {
		t.Fatalf("solve: %v", got)
	}
	if got := evalReal(t, st, "fMin((X-2)²,X,0,5)"); math.Abs(got-2) > 1e-6 {
		t.Fatalf("fMin: %v", got)
	}
	expectKind(t, st, "solve(X²+1,X,0,10)", KindNoSignChange)
}

func TestAnsConstant(t *testing.T) {
	st := NewState()
	st.SetAns(Real(7))
	if got := evalReal(t, st, "Ans+1"); got != 8 {
		t.Fatalf("Ans: %v", got)
	}
}

func TestMatrixFunctions(t *testing.T) {
	st := NewState()
	st.SetMatrix("A", [][]float64{{2, 1}, {1, 1}})
	if got := evalReal(t, st, "det([A])"); math.Abs(got-1) > 1e-12 {
		t.Fatalf("det: %v", got)
	}
	v := evalIn(t, st, "identity(2)")
	if !v.Equal(NewMatrix([][]float64{{1, 0}, {0, 1}})) {
		t.Fatalf("identity: %v", v)
	}
	v = evalIn(t, st, "rref([[2,0][0,2]])")
	if !v.Equal(NewMatrix([][]float64{{1, 0}, {0, 1}})) {
		t.Fatalf("rref: %v", v)
	}
	v = evalIn(t, st, "dim([A])")
	if !v.Equal(NewList([]float64{2, 2})) {
		t.Fatalf("dim matrix: %v", v)
	}
}

func TestRaggedMatrixLiteral(t *testing.T) {
	st := NewState()
	expectKind(t, st, "[[1,2][3]]", KindDimMismatch)
}

func TestRandDeterministicAfterSeed(t *testing.T) {
	st := NewState()
	st.SetSeed(1)
	a := evalReal(t, st, "rand")
	st.SetSeed(1)
	b := evalReal(t, st, "rand")
	if a != b {
		t.Fatalf("seeded rand: %v vs %v", a, b)
	}
	v := evalIn(t, st, "randInt(1,6,10)")
	l, ok := v.AsList()
	if !ok || len(l) != 10 {
		t.Fatalf("randInt list: %v", v)
	}
	for _, x := range l {
		if x < 1 || x > 6 || x != math.Trunc(x) {
			t.Fatalf("randInt range: %v", x)
		}
	}
}
