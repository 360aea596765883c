package runtime

import (
	"math/rand"
	"strings"
)

type AngleMode int

const (
	Radian AngleMode = iota
	Degree
)

type NumberFormat int

const (
	FormatNormal NumberFormat = iota
	FormatSci
	FormatEng
)

type GraphMode int

const (
	GraphFunc GraphMode = iota
	GraphParametric
	GraphPolar
	GraphSequence
)

type ComplexFormat int

const (
	ComplexOff ComplexFormat = iota
	ComplexRect
	ComplexPolar
)

// Modes bundles the mode-screen settings the evaluator consults.
type Modes struct {
	Angle   AngleMode
	Format  NumberFormat
	Graph   GraphMode
	Complex ComplexFormat
}

// Window holds the graph-window parameters.
type Window struct {
	XMin, XMax float64
	YMin, YMax float64
	XScl, YScl float64
	XRes       int
}

func defaultWindow() Window {
	return Window{XMin: -10, XMax: 10, YMin: -10, YMax: 10, XScl: 1, YScl: 1, XRes: 1}
}

// Slot is one of the ten Y= function slots.
type Slot struct {
	Text    string
	Enabled bool
}

// HistoryEntry pairs an evaluated input with its result.
type HistoryEntry struct {
	Input  string
	Result Value
}

// State is the calculator's variable store: scalars, lists, matrices,
// strings, function slots, modes, window, history, and stored programs.
// Constructed once and mutated by the evaluator and interpreter; one
// evaluation owns it at a time.
type State struct {
	vars     map[string]Value
	lists    map[string][]float64
	matrices map[string][][]float64
	strings  map[string]string
	slots    [10]Slot
	ans      Value
	modes    Modes
	window   Window
	history  []HistoryEntry
	programs map[string]string
	rng      *rand.Rand
}

// randSeed is the fixed power-on seed; the seed→rand idiom reseeds.
const randSeed = 0

func NewState() *State {
	return &State{
		vars:     map[string]Value{},
		lists:    map[string][]float64{},
		matrices: map[string][][]float64{},
		strings:  map[string]string{},
		ans:      Real(0),
		window:   defaultWindow(),
		programs: map[string]string{},
		rng:      rand.New(rand.NewSource(randSeed)),
	}
}

// Var reads a scalar variable. Unset variables read as 0.
func (st *State) Var(name string) Value {
	if v, ok := st.vars[name]; ok {
		return v
	}
	return Real(0)
}

func (st *State) SetVar(name string, v Value) {
	st.vars[name] = v
}

// List reads a named list; undefined names fail.
func (st *State) List(name string) ([]float64, error) {
	if l, ok := st.lists[name]; ok {
		return l, nil
	}
	return nil, errKind(KindUndefined, "list %s", name)
}

// SetList accepts any length, including empty.
func (st *State) SetList(name string, vs []float64) {
	st.lists[name] = vs
}

// SetListElem writes one 1-based element, zero-padding the list out to the
// index when it is past the end.
func (st *State) SetListElem(name string, idx int, v float64) error {
	if idx < 1 {
		return errKind(KindInvalidDim, "list index %d", idx)
	}
	l := st.lists[name]
	for len(l) < idx {
		l = append(l, 0)
	}
	l[idx-1] = v
	st.lists[name] = l
	return nil
}

func (st *State) Matrix(name string) ([][]float64, error) {
	if m, ok := st.matrices[name]; ok {
		return m, nil
	}
	return nil, errKind(KindUndefined, "matrix [%s]", name)
}

func (st *State) SetMatrix(name string, m [][]float64) {
	st.matrices[name] = m
}

// SetMatrixElem writes one 1-based element; unlike lists the index must be
// in range.
func (st *State) SetMatrixElem(name string, row, col int, v float64) error {
	m, err := st.Matrix(name)
	if err != nil {
		return err
	}
	if row < 1 || row > len(m) || col < 1 || col > len(m[0]) {
		return errKind(KindInvalidDim, "matrix index (%d,%d)", row, col)
	}
	m[row-1][col-1] = v
	return nil
}

func (st *State) StringVar(name string) (string, error) {
	if s, ok := st.strings[name]; ok {
		return s, nil
	}
	return "", errKind(KindUndefined, "string %s", name)
}

func (st *State) SetStringVar(name, s string) {
	st.strings[name] = s
}

// Slot returns the expression text of a Y= slot; index 0 is Y0.
func (st *State) Slot(index int) (Slot, error) {
	if index < 0 || index > 9 {
		return Slot{}, errKind(KindUndefined, "Y%d", index)
	}
	return st.slots[index], nil
}

func (st *State) SetSlot(index int, text string) error {
	if index < 0 || index > 9 {
		return errKind(KindUndefined, "Y%d", index)
	}
	st.slots[index] = Slot{Text: text, Enabled: text != ""}
	return nil
}

func (st *State) SetSlotEnabled(index int, enabled bool) error {
	if index < 0 || index > 9 {
		return errKind(KindUndefined, "Y%d", index)
	}
	st.slots[index].Enabled = enabled
	return nil
}

func (st *State) Ans() Value {
	return st.ans
}

func (st *State) SetAns(v Value) {
	st.ans = v
}

func (st *State) Modes() Modes {
	return st.modes
}

func (st *State) SetModes(m Modes) {
	st.modes = m
}

func (st *State) SetAngleMode(m AngleMode) {
	st.modes.Angle = m
}

func (st *State) Window() Window {
	return st.window
}

func (st *State) SetWindow(w Window) {
	st.window = w
}

func (st *State) History() []HistoryEntry {
	return st.history
}

func (st *State) AddHistory(input string, result Value) {
	st.history = append(st.history, HistoryEntry{Input: input, Result: result})
}

// Program returns stored program source by name.
func (st *State) Program(name string) (string, error) {
	if src, ok := st.programs[strings.ToUpper(name)]; ok {
		return src, nil
	}
	return "", errKind(KindUndefined, "prgm%s", name)
}

func (st *State) SetProgram(name, src string) {
	st.programs[strings.ToUpper(name)] = src
}

func (st *State) ProgramNames() []string {
	names := make([]string, 0, len(st.programs))
	for name := range st.programs {
		names = append(names, name)
	}
	return names
}

// Rand draws from the shared generator; concurrent evaluations would race
// and are disallowed.
func (st *State) Rand() float64 {
	return st.rng.Float64()
}

func (st *State) RandNorm(mu, sigma float64) float64 {
	return st.rng.NormFloat64()*sigma + mu
}

func (st *State) RandIntn(n int) int {
	return st.rng.Intn(n)
}

// SetSeed implements the seed→rand idiom.
func (st *State) SetSeed(seed int64) {
	st.rng = rand.New(rand.NewSource(seed))
}
