package runtime

import "github.com/ianjrobertson/ti84/ast"

// Terminal is the interpreter's I/O collaborator. Every operation may
// suspend; the interpreter blocks on the call and re-checks cancellation
// at the next statement.
type Terminal interface {
	Display(text string)
	Output(row, col int, text string)
	Input(prompt string) (string, error)
	Pause(text string) error
	GetKey() (int, error)
	ClearHome()
	ShowMenu(title string, entries []ast.MenuEntry) (string, error)
	DrawLine(x1, y1, x2, y2 float64)
	DrawCircle(x, y, r float64)
	DrawText(row, col int, text string)
	PlotPoint(x, y float64, on bool)
	ClearDraw()
}

// NoopTerminal satisfies Terminal with defaults, for headless program
// execution: inputs read as "0", keys as 0, menus pick an empty target.
type NoopTerminal struct{}

func (NoopTerminal) Display(string) {}

func (NoopTerminal) Output(int, int, string) {}

func (NoopTerminal) Input(string) (string, error) {
	return "0", nil
}

func (NoopTerminal) Pause(string) error {
	return nil
}

func (NoopTerminal) GetKey() (int, error) {
	return 0, nil
}

func (NoopTerminal) ClearHome() {}

func (NoopTerminal) ShowMenu(string, []ast.MenuEntry) (string, error) {
	return "", nil
}

func (NoopTerminal) DrawLine(x1, y1, x2, y2 float64) {}

func (NoopTerminal) DrawCircle(x, y, r float64) {}

func (NoopTerminal) DrawText(int, int, string) {}

func (NoopTerminal) PlotPoint(x, y float64, on bool) {}

func (NoopTerminal) ClearDraw() {}
