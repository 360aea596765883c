package parser

import (
	"strings"

	"github.com/ianjrobertson/ti84/ast"
)

// ParseProgram turns TI-BASIC source into a flat statement list with a label
// index. Lines split on newlines, then on colons outside string literals;
// each non-empty part matches the statement grammar, and anything
// unrecognized falls through to an expression statement.
func ParseProgram(name, src string) (*ast.Program, error) {
	prog := &ast.Program{Name: name, Labels: map[string]int{}}
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimRight(line, "\r")
		for _, part := range splitStatements(line) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			stmt, err := parseStatement(part)
			if err != nil {
				return nil, err
			}
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	for i, stmt := range prog.Statements {
		if lbl, ok := stmt.(ast.LabelStmt); ok {
			prog.Labels[lbl.Name] = i
		}
	}
	return prog, nil
}

// splitStatements breaks one source line on colons, leaving colons inside
// string literals alone.
func splitStatements(line string) []string {
	var parts []string
	var cur strings.Builder
	inString := false
	for _, r := range line {
		if r == '"' {
			inString = !inString
		}
		if r == ':' && !inString {
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}
	parts = append(parts, cur.String())
	return parts
}

// splitArgs breaks argument text on top-level commas, tracking paren depth
// and string state.
func splitArgs(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var parts []string
	var cur strings.Builder
	depth := 0
	inString := false
	for _, r := range raw {
		switch {
		case r == '"':
			inString = !inString
		case inString:
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			depth--
		case r == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}
	parts = append(parts, strings.TrimSpace(cur.String()))
	return parts
}

// parenBody extracts the argument text of a parenthesized statement form,
// tolerating a dropped closing parenthesis.
func parenBody(part, prefix string) string {
	body := part[len(prefix):]
	body = strings.TrimSuffix(strings.TrimSpace(body), ")")
	return body
}

func parseStatement(part string) (ast.Statement, error) {
	switch {
	case part == "Then":
		return ast.ThenStmt{}, nil
	case part == "Else":
		return ast.ElseStmt{}, nil
	case part == "End":
		return ast.EndStmt{}, nil
	case part == "Stop":
		return ast.StopStmt{}, nil
	case part == "Return":
		return ast.ReturnStmt{}, nil
	case part == "ClrHome":
		return ast.ClrHomeStmt{}, nil
	case part == "ClrDraw":
		return ast.ClrDrawStmt{}, nil
	case part == "Pause":
		return ast.PauseStmt{}, nil
	case strings.HasPrefix(part, "Pause "):
		return ast.PauseStmt{Expr: strings.TrimSpace(part[len("Pause "):])}, nil
	case strings.HasPrefix(part, "If "):
		return ast.IfStmt{Cond: strings.TrimSpace(part[len("If "):])}, nil
	case strings.HasPrefix(part, "While "):
		return ast.WhileStmt{Cond: strings.TrimSpace(part[len("While "):])}, nil
	case strings.HasPrefix(part, "Repeat "):
		return ast.RepeatStmt{Cond: strings.TrimSpace(part[len("Repeat "):])}, nil
	case strings.HasPrefix(part, "Lbl "):
		return ast.LabelStmt{Name: strings.TrimSpace(part[len("Lbl "):])}, nil
	case strings.HasPrefix(part, "Goto "):
		return ast.GotoStmt{Name: strings.TrimSpace(part[len("Goto "):])}, nil
	case strings.HasPrefix(part, "Disp "):
		return ast.DispStmt{Args: splitArgs(part[len("Disp "):])}, nil
	case strings.HasPrefix(part, "Prompt "):
		return ast.PromptStmt{Vars: splitArgs(part[len("Prompt "):])}, nil
	case strings.HasPrefix(part, "Input"):
		return parseInput(part)
	case strings.HasPrefix(part, "getKey"):
		return parseGetKey(part)
	case strings.HasPrefix(part, "prgm"):
		return ast.ProgramCallStmt{Name: strings.TrimSpace(part[len("prgm"):])}, nil
	case strings.HasPrefix(part, "For("):
		return parseFor(part)
	case strings.HasPrefix(part, "Output("):
		return parseOutput(part)
	case strings.HasPrefix(part, "Menu("):
		return parseMenu(part)
	case strings.HasPrefix(part, "Line("):
		return ast.LineStmt{Args: splitArgs(parenBody(part, "Line("))}, nil
	case strings.HasPrefix(part, "Circle("):
		return ast.CircleStmt{Args: splitArgs(parenBody(part, "Circle("))}, nil
	case strings.HasPrefix(part, "Text("):
		return ast.TextStmt{Args: splitArgs(parenBody(part, "Text("))}, nil
	case strings.HasPrefix(part, "Pt-On("):
		return ast.PointStmt{Args: splitArgs(parenBody(part, "Pt-On(")), On: true}, nil
	case strings.HasPrefix(part, "Pt-Off("):
		return ast.PointStmt{Args: splitArgs(parenBody(part, "Pt-Off("))}, nil
	}
	if text, slot, ok := cutSlotStore(part); ok {
		return ast.StoredExprStmt{Text: text, Slot: slot}, nil
	}
	return ast.ExprStmt{Text: part}, nil
}

// cutSlotStore matches `expr→Yn` so the expression text lands in the slot
// unevaluated.
func cutSlotStore(part string) (string, int, bool) {
	for _, arrow := range []string{string(glyphStore), string(glyphStoreAlt)} {
		idx := strings.LastIndex(part, arrow)
		if idx < 0 {
			continue
		}
		target := strings.TrimSpace(part[idx+len(arrow):])
		if len(target) == 2 && target[0] == 'Y' && target[1] >= '0' && target[1] <= '9' {
			return strings.TrimSpace(part[:idx]), int(target[1] - '0'), true
		}
	}
	return "", 0, false
}

// parseInput handles "Input", "Input A", and `Input "PROMPT",A`.
func parseInput(part string) (ast.Statement, error) {
	rest := strings.TrimSpace(part[len("Input"):])
	if rest == "" {
		return ast.InputStmt{}, nil
	}
	args := splitArgs(rest)
	switch len(args) {
	case 1:
		return ast.InputStmt{Var: args[0]}, nil
	case 2:
		prompt := strings.Trim(args[0], "\"")
		return ast.InputStmt{Prompt: prompt, Var: args[1]}, nil
	}
	return nil, syntaxErrf(0, "Input expects at most a prompt and a variable")
}

// parseGetKey handles both "getKey→K" and the bare expression spelling.
func parseGetKey(part string) (ast.Statement, error) {
	rest := strings.TrimSpace(part[len("getKey"):])
	if r, ok := strings.CutPrefix(rest, string(glyphStore)); ok {
		return ast.GetKeyStmt{Var: strings.TrimSpace(r)}, nil
	}
	if r, ok := strings.CutPrefix(rest, string(glyphStoreAlt)); ok {
		return ast.GetKeyStmt{Var: strings.TrimSpace(r)}, nil
	}
	if rest == "" {
		return ast.GetKeyStmt{}, nil
	}
	return ast.ExprStmt{Text: part}, nil
}

func parseFor(part string) (ast.Statement, error) {
	args := splitArgs(parenBody(part, "For("))
	if len(args) < 3 || len(args) > 4 {
		return nil, syntaxErrf(0, "For expects 3 or 4 arguments, got %d", len(args))
	}
	stmt := ast.ForStmt{Var: args[0], Start: args[1], End: args[2]}
	if len(args) == 4 {
		stmt.Step = args[3]
	}
	return stmt, nil
}

func parseOutput(part string) (ast.Statement, error) {
	args := splitArgs(parenBody(part, "Output("))
	if len(args) != 3 {
		return nil, syntaxErrf(0, "Output expects 3 arguments, got %d", len(args))
	}
	return ast.OutputStmt{Row: args[0], Col: args[1], Expr: args[2]}, nil
}

func parseMenu(part string) (ast.Statement, error) {
	args := splitArgs(parenBody(part, "Menu("))
	if len(args) < 3 || len(args)%2 == 0 {
		return nil, syntaxErrf(0, "Menu expects a title plus label pairs")
	}
	stmt := ast.MenuStmt{Title: strings.Trim(args[0], "\"")}
	for i := 1; i < len(args); i += 2 {
		stmt.Entries = append(stmt.Entries, ast.MenuEntry{
			Text:  strings.Trim(args[i], "\""),
			Label: strings.TrimSpace(args[i+1]),
		})
	}
	return stmt, nil
}
