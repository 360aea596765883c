package ast

// Expr is a parsed calculator expression. Nodes are plain records; equality
// is structural.
type Expr interface {
	isExpr()
}

type NumberLit struct {
	Value float64
}

func (NumberLit) isExpr() {}

type StringLit struct {
	Value string
}

func (StringLit) isExpr() {}

// Const is one of the named constants: "pi", "e", "i", "ans".
type Const struct {
	Name string
}

func (Const) isExpr() {}

// VarRef names a single-letter scalar variable (A-Z or theta).
type VarRef struct {
	Name string
}

func (VarRef) isExpr() {}

// ListRef names a list: the built-in L1..L6 or a user-registered list.
type ListRef struct {
	Name string
}

func (ListRef) isExpr() {}

// MatrixRef names one of the ten matrix stores [A]..[J].
type MatrixRef struct {
	Name string
}

func (MatrixRef) isExpr() {}

// StringRef names a string variable Str0..Str9.
type StringRef struct {
	Name string
}

func (StringRef) isExpr() {}

// SlotRef names a function slot: index 1..9 for Y1..Y9, 0 for Y0.
type SlotRef struct {
	Index int
}

func (SlotRef) isExpr() {}

// BinaryExpr applies an infix operator. Op is one of
// "+", "-", "*", "/", "^", "nPr", "nCr",
// "=", "!=", "<", "<=", ">", ">=", "and", "or", "xor".
// Implicit multiplication parses as Op "*".
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

func (BinaryExpr) isExpr() {}

// UnaryExpr applies a prefix operator: "-" (negation) or "not".
type UnaryExpr struct {
	Op   string
	Expr Expr
}

func (UnaryExpr) isExpr() {}

// PostfixExpr applies a postfix operator: "!", "²", "³", "⁻¹", "°", "%".
type PostfixExpr struct {
	Expr Expr
	Op   string
}

func (PostfixExpr) isExpr() {}

// CallExpr invokes a builtin function by its canonical name ("sin", "log",
// "rref", ...). The runtime resolves the name against its dispatch table.
type CallExpr struct {
	Name string
	Args []Expr
}

func (CallExpr) isExpr() {}

// ListLit is {e1, e2, ...}. Elements must evaluate to reals.
type ListLit struct {
	Elements []Expr
}

func (ListLit) isExpr() {}

// MatrixLit is [[a,b][c,d]]. Rows must be rectangular after evaluation.
type MatrixLit struct {
	Rows [][]Expr
}

func (MatrixLit) isExpr() {}

// IndexExpr accesses an element of a list, matrix, or function slot:
// L1(3), [A](2,1), Y1(X). Indices are 1-based in user syntax.
type IndexExpr struct {
	Target  Expr
	Indices []Expr
}

func (IndexExpr) isExpr() {}

// StoreExpr is `expr → target`. Target is a VarRef, ListRef, MatrixRef,
// StringRef, SlotRef, or IndexExpr over a list or matrix.
type StoreExpr struct {
	Expr   Expr
	Target Expr
}

func (StoreExpr) isExpr() {}

// Statement is one executable unit of a TI-BASIC program. Statements keep
// their expression operands as raw text; the interpreter parses and
// evaluates them on each execution so loop bodies see current state.
type Statement interface {
	isStatement()
}

// ExprStmt evaluates raw expression text; the result becomes Ans.
type ExprStmt struct {
	Text string
}

func (ExprStmt) isStatement() {}

// DispStmt shows each argument on its own line.
type DispStmt struct {
	Args []string
}

func (DispStmt) isStatement() {}

type OutputStmt struct {
	Row  string
	Col  string
	Expr string
}

func (OutputStmt) isStatement() {}

type InputStmt struct {
	Prompt string
	Var    string
}

func (InputStmt) isStatement() {}

type PromptStmt struct {
	Vars []string
}

func (PromptStmt) isStatement() {}

type ClrHomeStmt struct{}

func (ClrHomeStmt) isStatement() {}

type IfStmt struct {
	Cond string
}

func (IfStmt) isStatement() {}

type ThenStmt struct{}

func (ThenStmt) isStatement() {}

type ElseStmt struct{}

func (ElseStmt) isStatement() {}

type EndStmt struct{}

func (EndStmt) isStatement() {}

type ForStmt struct {
	Var   string
	Start string
	End   string
	Step  string // empty means 1
}

func (ForStmt) isStatement() {}

type WhileStmt struct {
	Cond string
}

func (WhileStmt) isStatement() {}

type RepeatStmt struct {
	Cond string
}

func (RepeatStmt) isStatement() {}

type LabelStmt struct {
	Name string
}

func (LabelStmt) isStatement() {}

type GotoStmt struct {
	Name string
}

func (GotoStmt) isStatement() {}

// MenuStmt suspends on the terminal; the chosen label becomes a goto target.
type MenuStmt struct {
	Title   string
	Entries []MenuEntry
}

func (MenuStmt) isStatement() {}

type MenuEntry struct {
	Text  string
	Label string
}

type StopStmt struct{}

func (StopStmt) isStatement() {}

type ReturnStmt struct{}

func (ReturnStmt) isStatement() {}

type PauseStmt struct {
	Expr string // empty means bare Pause
}

func (PauseStmt) isStatement() {}

type GetKeyStmt struct {
	Var string
}

func (GetKeyStmt) isStatement() {}

type ProgramCallStmt struct {
	Name string
}

func (ProgramCallStmt) isStatement() {}

type LineStmt struct {
	Args []string
}

func (LineStmt) isStatement() {}

type CircleStmt struct {
	Args []string
}

func (CircleStmt) isStatement() {}

type TextStmt struct {
	Args []string
}

func (TextStmt) isStatement() {}

type PointStmt struct {
	Args []string
	On   bool
}

func (PointStmt) isStatement() {}

type ClrDrawStmt struct{}

func (ClrDrawStmt) isStatement() {}

// StoredExprStmt records `expr→Yn`: the raw expression text is written into
// the function slot rather than evaluated.
type StoredExprStmt struct {
	Text string
	Slot int
}

func (StoredExprStmt) isStatement() {}

// Program is a parsed TI-BASIC program: a flat statement list plus the
// label name → statement index map built after parsing.
type Program struct {
	Name       string
	Statements []Statement
	Labels     map[string]int
}
