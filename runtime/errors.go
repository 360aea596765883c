package runtime

import (
	"errors"
	"fmt"

	"github.com/ianjrobertson/ti84/numeric"
	"github.com/ianjrobertson/ti84/parser"
)

// Kind names one failure condition of the calculator. Callers branch on
// kinds; mapping them to display text is the frontend's concern.
type Kind int

const (
	KindNone Kind = iota
	KindSyntax
	KindDivideByZero
	KindOverflow
	KindDomain
	KindDataType
	KindArgument
	KindDimMismatch
	KindSingular
	KindUndefined
	KindInvalidDim
	KindStat
	KindNonReal
	KindNoSignChange
	KindLabel
	KindBreak
)

var kindNames = map[Kind]string{
	KindSyntax:       "SYNTAX",
	KindDivideByZero: "DIVIDE BY ZERO",
	KindOverflow:     "OVERFLOW",
	KindDomain:       "DOMAIN",
	KindDataType:     "DATA TYPE",
	KindArgument:     "ARGUMENT",
	KindDimMismatch:  "DIM MISMATCH",
	KindSingular:     "SINGULAR MAT",
	KindUndefined:    "UNDEFINED",
	KindInvalidDim:   "INVALID DIM",
	KindStat:         "STAT",
	KindNonReal:      "NONREAL ANS",
	KindNoSignChange: "NO SIGN CHNG",
	KindLabel:        "LABEL",
	KindBreak:        "BREAK",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "ERR"
}

// Error is a calculator failure. Label is set for KindLabel to name the
// unresolved target.
type Error struct {
	Kind  Kind
	Msg   string
	Label string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return "ERR:" + e.Kind.String()
	}
	return "ERR:" + e.Kind.String() + " " + e.Msg
}

func errKind(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func errLabel(name string) error {
	return &Error{Kind: KindLabel, Msg: name, Label: name}
}

// KindOf classifies any error from the core: runtime errors carry their
// kind, tokenizer/parser rejections are Syntax, and kernel sentinels map
// onto their taxonomy entries.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	var se *parser.SyntaxError
	if errors.As(err, &se) {
		return KindSyntax
	}
	switch {
	case errors.Is(err, numeric.ErrDim):
		return KindDimMismatch
	case errors.Is(err, numeric.ErrSingular):
		return KindSingular
	case errors.Is(err, numeric.ErrDomain):
		return KindDomain
	case errors.Is(err, numeric.ErrOverflow):
		return KindOverflow
	case errors.Is(err, numeric.ErrStat):
		return KindStat
	case errors.Is(err, numeric.ErrNoSignChange):
		return KindNoSignChange
	}
	return KindNone
}
