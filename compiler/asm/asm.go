package asm

import (
	"bytes"
	"context"
	"strconv"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/uvmlab/uvc/compiler/ir"
)

// Parse assembles mnemonic source into a program.
//
// One instruction per line, operands in encoding order:
//
//	LOAD_CONST <const>, <addr>
//	READ <src>, <dst>
//	WRITE <src>, <dst>
//	MIN <op1>, <op2>, <dst>
//
// Mnemonics are case insensitive, comments start with ';' or '#'.
func Parse(ctx context.Context, name string, text []byte) (p *ir.Prog, err error) {
	tr := tlog.SpanFromContext(ctx)

	p = &ir.Prog{}

	for st, lnum := 0, 1; st < len(text); lnum++ {
		end := findChar(text, st, '\n')
		line := text[st:end]
		st = end + 1

		x, ok, err := parseLine(ctx, line)
		if err != nil {
			return nil, errors.Wrap(err, "%v:%d", name, lnum)
		}
		if !ok {
			continue
		}

		tr.V("instr").Printw("instruction", "line", lnum, "instr", x)

		p.Code = append(p.Code, x)
	}

	return p, nil
}

func parseLine(ctx context.Context, line []byte) (x ir.Instr, ok bool, err error) {
	code := line

	for i := 0; i < len(code); i++ {
		if code[i] == ';' || code[i] == '#' {
			code = code[:i]
			break
		}
	}

	code = trim(code)
	if len(code) == 0 {
		return nil, false, nil
	}

	if !isAlpha(code[0]) {
		return nil, false, errors.New("syntax error: %s", code)
	}

	e := skipIdent(code, 0)

	mn := string(bytes.ToUpper(code[:e]))

	ops, err := operands(code[e:])
	if err != nil {
		return nil, false, err
	}

	switch mn {
	case "LOAD_CONST":
		if len(ops) != 2 {
			return nil, false, errors.New("LOAD_CONST expects 2 operands (const, addr), got %d", len(ops))
		}

		x = ir.LoadConst{Val: ops[0], Dst: ops[1]}
	case "READ":
		if len(ops) != 2 {
			return nil, false, errors.New("READ expects 2 operands (src, dst), got %d", len(ops))
		}

		x = ir.Read{Src: ops[0], Dst: ops[1]}
	case "WRITE":
		if len(ops) != 2 {
			return nil, false, errors.New("WRITE expects 2 operands (src, dst), got %d", len(ops))
		}

		x = ir.Write{Src: ops[0], Dst: ops[1]}
	case "MIN":
		if len(ops) != 3 {
			return nil, false, errors.New("MIN expects 3 operands (op1, op2, dst), got %d", len(ops))
		}

		x = ir.Min{Left: ops[0], Right: ops[1], Dst: ops[2]}
	default:
		return nil, false, errors.New("unknown mnemonic: %s", mn)
	}

	return x, true, nil
}

// operands splits b at commas, empty tokens are dropped.
func operands(b []byte) (ops []int64, err error) {
	for st := 0; st < len(b); {
		e := findChar(b, st, ',')
		tok := trim(b[st:e])
		st = e + 1

		if len(tok) == 0 {
			continue
		}

		v, err := parseNum(tok)
		if err != nil {
			return nil, err
		}

		ops = append(ops, v)
	}

	return ops, nil
}

func parseNum(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, errors.New("empty numeric token")
	}

	if len(b) > 2 && b[0] == '0' && (b[1] == 'x' || b[1] == 'X') && isHex(b[2]) {
		v, err := strconv.ParseInt(string(b[2:]), 16, 64)
		if err != nil {
			return 0, errors.Wrap(err, "parse number: %s", b)
		}

		return v, nil
	}

	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "parse number: %s", b)
	}

	return v, nil
}

func trim(b []byte) []byte {
	st := 0
	for st < len(b) && (b[st] == ' ' || b[st] == '\t' || b[st] == '\r') {
		st++
	}

	end := len(b)
	for end > st && (b[end-1] == ' ' || b[end-1] == '\t' || b[end-1] == '\r') {
		end--
	}

	return b[st:end]
}

func skipIdent(b []byte, i int) int {
	for i < len(b) && (isAlpha(b[i]) || b[i] >= '0' && b[i] <= '9') {
		i++
	}

	return i
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func findChar(b []byte, i int, c byte) int {
	for i < len(b) && b[i] != c {
		i++
	}

	return i
}
