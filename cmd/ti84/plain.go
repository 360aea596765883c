package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	ti84 "github.com/ianjrobertson/ti84"
	"github.com/ianjrobertson/ti84/ast"
	"github.com/ianjrobertson/ti84/runtime"
)

// loadPrograms reads every *.txt file in dir as TI-BASIC source named by
// the file's upper-cased base name.
func loadPrograms(st *runtime.State, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(entry.Name(), ".txt")
		name = strings.TrimSuffix(name, ".8xp")
		ti84.LoadProgram(st, strings.ToUpper(name), string(data))
	}
	return nil
}

// runPlain is the line-mode REPL: liner for editing and history, one
// evaluation per line, prgm NAME to run stored programs.
func runPlain(st *runtime.State) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt("> ")
		switch {
		case errors.Is(err, liner.ErrPromptAborted), errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch {
		case input == "quit":
			return nil
		case input == "mode deg":
			st.SetAngleMode(runtime.Degree)
			continue
		case input == "mode rad":
			st.SetAngleMode(runtime.Radian)
			continue
		case strings.HasPrefix(input, "prgm "):
			name := strings.ToUpper(strings.TrimSpace(input[len("prgm "):]))
			term := &plainTerm{line: line}
			if err := ti84.RunProgram(st, name, term); err != nil {
				fmt.Println(formatErr(err))
			}
			continue
		}

		v, err := ti84.Eval(st, input)
		if err != nil {
			fmt.Println(formatErr(err))
			continue
		}
		fmt.Println(v.String())
	}
}

func formatErr(err error) string {
	if kind := runtime.KindOf(err); kind != runtime.KindNone {
		return "ERR:" + kind.String()
	}
	return "error: " + err.Error()
}

// plainTerm satisfies the interpreter's I/O collaborator on a line
// terminal. Drawing ops degrade to text notes.
type plainTerm struct {
	line *liner.State
}

func (t *plainTerm) Display(text string) {
	fmt.Println(text)
}

func (t *plainTerm) Output(row, col int, text string) {
	fmt.Println(text)
}

func (t *plainTerm) Input(prompt string) (string, error) {
	text, err := t.line.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", errors.New("input aborted")
	}
	return text, err
}

func (t *plainTerm) Pause(string) error {
	_, err := t.line.Prompt("[press enter]")
	if errors.Is(err, liner.ErrPromptAborted) {
		return nil
	}
	return err
}

func (t *plainTerm) GetKey() (int, error) {
	text, err := t.Input("key? ")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (t *plainTerm) ClearHome() {
	fmt.Print("\033[2J\033[H")
}

func (t *plainTerm) ShowMenu(title string, entries []ast.MenuEntry) (string, error) {
	fmt.Println(title)
	for i, e := range entries {
		fmt.Printf("%d: %s\n", i+1, e.Text)
	}
	for {
		text, err := t.Input("? ")
		if err != nil {
			return "", err
		}
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err == nil && n >= 1 && n <= len(entries) {
			return entries[n-1].Label, nil
		}
	}
}

func (t *plainTerm) DrawLine(x1, y1, x2, y2 float64) {
	fmt.Printf("line (%g,%g)-(%g,%g)\n", x1, y1, x2, y2)
}

func (t *plainTerm) DrawCircle(x, y, r float64) {
	fmt.Printf("circle (%g,%g) r=%g\n", x, y, r)
}

func (t *plainTerm) DrawText(row, col int, text string) {
	fmt.Println(text)
}

func (t *plainTerm) PlotPoint(x, y float64, on bool) {
	state := "off"
	if on {
		state = "on"
	}
	fmt.Printf("point (%g,%g) %s\n", x, y, state)
}

func (t *plainTerm) ClearDraw() {}
