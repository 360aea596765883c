package parser

import (
	"github.com/ianjrobertson/ti84/ast"
)

// Parse tokenizes and parses a single calculator expression.
func Parse(src string) (ast.Expr, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks)
}

// ParseTokens parses an already tokenized expression. The token stream must
// be terminated by TokEOF; the parser never consumes beyond it.
func ParseTokens(toks []Token) (ast.Expr, error) {
	p := &exprParser{toks: toks}
	expr, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.Kind != TokEOF {
		return nil, syntaxErrf(t.Pos, "unexpected token")
	}
	return expr, nil
}

// Precedence levels. Binding power folds associativity in: level*2 for
// left-associative operators, level*2-1 for right-associative ones, so a
// single minBP comparison drives the climb.
const (
	bpStore    = 1*2 - 1 // right-assoc
	bpOr       = 2 * 2
	bpAnd      = 3 * 2
	bpNot      = 4 * 2 // prefix
	bpCompare  = 5 * 2
	bpAdd      = 6 * 2
	bpMul      = 7 * 2
	bpNegate   = 8 * 2 // prefix; binds looser than ^, so -3^2 = -(3^2)
	bpPower    = 9*2 - 1
	bpPostfix  = 10 * 2
	maxDepth   = 256
)

type exprParser struct {
	toks  []Token
	pos   int
	depth int
}

func (p *exprParser) peek() Token {
	if p.pos >= len(p.toks) {
		return Token{Kind: TokEOF}
	}
	return p.toks[p.pos]
}

func (p *exprParser) next() Token {
	t := p.peek()
	if t.Kind != TokEOF {
		p.pos++
	}
	return t
}

func (p *exprParser) peekN(n int) Token {
	if p.pos+n >= len(p.toks) {
		return Token{Kind: TokEOF}
	}
	return p.toks[p.pos+n]
}

func infixOp(kind TokenKind) (string, int, bool, bool) {
	switch kind {
	case TokOr:
		return "or", bpOr, false, true
	case TokXor:
		return "xor", bpOr, false, true
	case TokAnd:
		return "and", bpAnd, false, true
	case TokEq:
		return "=", bpCompare, false, true
	case TokNe:
		return "!=", bpCompare, false, true
	case TokLt:
		return "<", bpCompare, false, true
	case TokLe:
		return "<=", bpCompare, false, true
	case TokGt:
		return ">", bpCompare, false, true
	case TokGe:
		return ">=", bpCompare, false, true
	case TokPlus:
		return "+", bpAdd, false, true
	case TokMinus:
		return "-", bpAdd, false, true
	case TokMultiply, TokImplicitMul:
		return "*", bpMul, false, true
	case TokDivide:
		return "/", bpMul, false, true
	case TokNPr:
		return "nPr", bpMul, false, true
	case TokNCr:
		return "nCr", bpMul, false, true
	case TokPower:
		return "^", bpPower, true, true
	}
	return "", 0, false, false
}

func postfixOp(kind TokenKind) (string, bool) {
	switch kind {
	case TokFactorial:
		return "!", true
	case TokSquared:
		return "²", true
	case TokCubed:
		return "³", true
	case TokReciprocal:
		return "⁻¹", true
	case TokDegree:
		return "°", true
	case TokPercent:
		return "%", true
	}
	return "", false
}

func (p *exprParser) parseExpr(minBP int) (ast.Expr, error) {
	p.depth++
	if p.depth > maxDepth {
		return nil, syntaxErrf(p.peek().Pos, "expression nesting too deep")
	}
	defer func() { p.depth-- }()

	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if op, ok := postfixOp(tok.Kind); ok && minBP <= bpPostfix {
			p.next()
			left = ast.PostfixExpr{Expr: left, Op: op}
			continue
		}
		if tok.Kind == TokStore && minBP <= bpStore {
			p.next()
			target, err := p.parseExpr(bpStore)
			if err != nil {
				return nil, err
			}
			left = ast.StoreExpr{Expr: left, Target: target}
			continue
		}
		op, bp, rightAssoc, ok := infixOp(tok.Kind)
		if !ok || minBP > bp {
			break
		}
		p.next()
		nextBP := bp + 1
		if rightAssoc {
			nextBP = bp
		}
		right, err := p.parseExpr(nextBP)
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *exprParser) parsePrefix() (ast.Expr, error) {
	t := p.next()
	switch t.Kind {
	case TokNumber:
		return ast.NumberLit{Value: t.Num}, nil
	case TokString:
		return ast.StringLit{Value: t.Text}, nil
	case TokPi:
		return ast.Const{Name: "pi"}, nil
	case TokEulerE:
		return ast.Const{Name: "e"}, nil
	case TokImagI:
		return ast.Const{Name: "i"}, nil
	case TokAns:
		return ast.Const{Name: "ans"}, nil
	case TokVariable:
		return ast.VarRef{Name: t.Text}, nil
	case TokListName:
		return p.maybeIndexed(ast.ListRef{Name: t.Text})
	case TokMatrixName:
		return p.maybeIndexed(ast.MatrixRef{Name: t.Text})
	case TokFuncSlot:
		return p.maybeIndexed(ast.SlotRef{Index: t.Slot})
	case TokStringVar:
		return ast.StringRef{Name: t.Text}, nil
	case TokFunction:
		return p.parseCall(t)
	case TokNegate:
		operand, err := p.parseExpr(bpNegate)
		if err != nil {
			return nil, err
		}
		return ast.UnaryExpr{Op: "-", Expr: operand}, nil
	case TokNot:
		operand, err := p.parseExpr(bpNot)
		if err != nil {
			return nil, err
		}
		return ast.UnaryExpr{Op: "not", Expr: operand}, nil
	case TokLParen:
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if tok := p.peek(); tok.Kind != TokRParen {
			return nil, syntaxErrf(tok.Pos, "missing )")
		}
		p.next()
		return inner, nil
	case TokLBrace:
		return p.parseListLit()
	case TokLBracket:
		return p.parseMatrixLit(t)
	}
	return nil, syntaxErrf(t.Pos, "unexpected token")
}

// maybeIndexed wraps a list, matrix, or function-slot atom in an element
// access when a parenthesized index list follows. The tokenizer has already
// inserted an ImplicitMul between the name and the parenthesis; a bare
// juxtaposed ( therefore reads as element access, while an explicit *
// keeps its multiplication meaning.
func (p *exprParser) maybeIndexed(target ast.Expr) (ast.Expr, error) {
	switch {
	case p.peek().Kind == TokLParen:
		p.next()
	case p.peek().Kind == TokImplicitMul && p.peekN(1).Kind == TokLParen:
		p.next()
		p.next()
	default:
		return target, nil
	}
	var indices []ast.Expr
	for {
		idx, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		indices = append(indices, idx)
		if p.peek().Kind == TokComma {
			p.next()
			continue
		}
		break
	}
	if tok := p.peek(); tok.Kind != TokRParen {
		return nil, syntaxErrf(tok.Pos, "missing ) after index")
	}
	p.next()
	return ast.IndexExpr{Target: target, Indices: indices}, nil
}

// parseCall parses builtin-call arguments. The tokenizer already consumed
// the opening parenthesis as part of the function word; calculators let the
// user drop the closing one at end of input, so EOF terminates too.
func (p *exprParser) parseCall(fn Token) (ast.Expr, error) {
	if !fn.Paren {
		if zeroArgWords[fn.Text] {
			return ast.CallExpr{Name: fn.Text}, nil
		}
		return nil, syntaxErrf(fn.Pos, "%s requires arguments", fn.Text)
	}
	var args []ast.Expr
	for {
		tok := p.peek()
		if tok.Kind == TokRParen {
			p.next()
			break
		}
		if tok.Kind == TokEOF {
			break
		}
		arg, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().Kind == TokComma {
			p.next()
		}
	}
	return ast.CallExpr{Name: fn.Text, Args: args}, nil
}

func (p *exprParser) parseListLit() (ast.Expr, error) {
	var elems []ast.Expr
	for {
		tok := p.peek()
		if tok.Kind == TokRBrace {
			p.next()
			break
		}
		if tok.Kind == TokEOF {
			break
		}
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.peek().Kind == TokComma {
			p.next()
		}
	}
	return ast.ListLit{Elements: elems}, nil
}

// parseMatrixLit parses [[a,b][c,d]] with the outer [ already consumed.
func (p *exprParser) parseMatrixLit(open Token) (ast.Expr, error) {
	var rows [][]ast.Expr
	for p.peek().Kind == TokLBracket {
		p.next()
		var row []ast.Expr
		for {
			e, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			row = append(row, e)
			if p.peek().Kind == TokComma {
				p.next()
				continue
			}
			break
		}
		if tok := p.peek(); tok.Kind != TokRBracket {
			return nil, syntaxErrf(tok.Pos, "missing ] in matrix row")
		}
		p.next()
		rows = append(rows, row)
		// The tokenizer inserts an ImplicitMul between one row's ] and the
		// next row's [; rows look through it.
		if p.peek().Kind == TokImplicitMul && p.peekN(1).Kind == TokLBracket {
			p.next()
		}
	}
	if len(rows) == 0 {
		return nil, syntaxErrf(open.Pos, "empty matrix literal")
	}
	if tok := p.peek(); tok.Kind != TokRBracket {
		return nil, syntaxErrf(tok.Pos, "missing ] closing matrix")
	}
	p.next()
	return ast.MatrixLit{Rows: rows}, nil
}
