package front

import (
	"context"
	"fmt"
	"strconv"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/uvmlab/uvc/compiler/alloc"
	"github.com/uvmlab/uvc/compiler/ast"
)

type (
	State struct {
		addr *alloc.Table

		assigns []ast.Assign

		files []file
	}

	file struct {
		name string
		text []byte
	}

	SyntaxError struct {
		Text string
	}

	NotAssignmentError struct {
		Line string
	}

	BadLhsError struct {
		Text string
	}
)

func New() *State {
	return &State{
		addr: alloc.New(),
	}
}

func (s *State) AddFile(ctx context.Context, name string, text []byte) {
	s.files = append(s.files, file{
		name: name,
		text: text,
	})
}

func (s *State) Parse(ctx context.Context) (err error) {
	tr := tlog.SpanFromContext(ctx)

	for _, f := range s.files {
		err = s.parseFile(ctx, f)
		if err != nil {
			return errors.Wrap(err, "%v", f.name)
		}
	}

	tr.Printw("parsed", "files", len(s.files), "assignments", len(s.assigns))

	return nil
}

func (s *State) Assigns() []ast.Assign {
	return s.assigns
}

func (s *State) parseFile(ctx context.Context, f file) (err error) {
	tr := tlog.SpanFromContext(ctx)

	for st, lnum := 0, 1; st < len(f.text); lnum++ {
		end := findChar(f.text, st, '\n')
		line := f.text[st:end]
		st = end + 1

		a, ok, err := s.parseLine(ctx, line)
		if err != nil {
			return errors.Wrap(err, "line %d", lnum)
		}
		if !ok {
			continue
		}

		tr.V("line").Printw("assignment", "line", lnum, "lhs", a.Lhs, "rhs", a.Rhs)

		s.assigns = append(s.assigns, a)
	}

	return nil
}

func (s *State) parseLine(ctx context.Context, line []byte) (a ast.Assign, ok bool, err error) {
	code := line

	for i := 0; i < len(code); i++ {
		if code[i] == ';' || code[i] == '#' {
			code = code[:i]
			break
		}
	}

	code = trim(code)
	if len(code) == 0 {
		return a, false, nil
	}

	eq := findChar(code, 0, '=')
	if eq == len(code) {
		return a, false, NotAssignmentError{Line: string(code)}
	}

	lhs, err := ParseExpr(code[:eq])
	if err != nil {
		return a, false, errors.Wrap(err, "lhs")
	}

	switch lhs.(type) {
	case ast.Ref, ast.Mem:
	default:
		return a, false, BadLhsError{Text: string(trim(code[:eq]))}
	}

	rhs, err := ParseExpr(code[eq+1:])
	if err != nil {
		return a, false, errors.Wrap(err, "rhs")
	}

	return ast.Assign{Lhs: lhs, Rhs: rhs}, true, nil
}

// ParseExpr parses a single expression: an integer literal,
// a name, mem[expr] or min(expr, expr).
func ParseExpr(text []byte) (ast.Expr, error) {
	return parseExpr(trim(text))
}

func parseExpr(b []byte) (ast.Expr, error) {
	if len(b) == 0 {
		return nil, SyntaxError{Text: string(b)}
	}

	if inner, ok := keywordArgs(b, "min", '(', ')'); ok {
		l, r, ok := splitArgs(inner)
		if !ok {
			return nil, SyntaxError{Text: string(b)}
		}

		left, err := parseExpr(trim(l))
		if err != nil {
			return nil, err
		}

		right, err := parseExpr(trim(r))
		if err != nil {
			return nil, err
		}

		return ast.Min{Left: left, Right: right}, nil
	}

	if inner, ok := keywordArgs(b, "mem", '[', ']'); ok {
		addr, err := parseExpr(trim(inner))
		if err != nil {
			return nil, err
		}

		return ast.Mem{Addr: addr}, nil
	}

	c := b[0]

	switch {
	case c >= '0' && c <= '9':
		v, err := parseNum(b)
		if err != nil {
			return nil, err
		}

		return ast.Num(v), nil
	case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_':
		if skipIdent(b, 0) != len(b) {
			return nil, SyntaxError{Text: string(b)}
		}

		return ast.Ref(b), nil
	}

	return nil, SyntaxError{Text: string(b)}
}

// keywordArgs matches the whole of b against kw(...) or kw[...].
// The keyword is case insensitive and spaces are allowed before the bracket.
func keywordArgs(b []byte, kw string, lbr, rbr byte) ([]byte, bool) {
	if len(b) < len(kw) {
		return nil, false
	}

	for i := 0; i < len(kw); i++ {
		if b[i]|0x20 != kw[i] {
			return nil, false
		}
	}

	i := len(kw)
	if i < len(b) && isIdent(b[i]) {
		return nil, false // identifier starting with the keyword
	}

	i = skipSpaces(b, i)
	if i == len(b) || b[i] != lbr {
		return nil, false
	}

	end := findClose(b, i)
	if end != len(b)-1 || b[end] != rbr {
		return nil, false
	}

	return b[i+1 : end], true
}

// splitArgs cuts b at the only comma outside of nested brackets.
func splitArgs(b []byte) (l, r []byte, ok bool) {
	d := 0
	comma := -1

	for i := 0; i < len(b); i++ {
		switch b[i] {
		case '(', '[':
			d++
		case ')', ']':
			d--
		case ',':
			if d != 0 {
				continue
			}
			if comma >= 0 {
				return nil, nil, false
			}

			comma = i
		}
	}

	if comma < 0 {
		return nil, nil, false
	}

	return b[:comma], b[comma+1:], true
}

// findClose returns the position of the bracket matching the one at i.
func findClose(b []byte, i int) int {
	d := 0

	for ; i < len(b); i++ {
		switch b[i] {
		case '(', '[':
			d++
		case ')', ']':
			d--

			if d == 0 {
				return i
			}
		}
	}

	return -1
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

func (e SyntaxError) Error() string {
	return fmt.Sprintf("cannot parse expression: %s", e.Text)
}

func (e NotAssignmentError) Error() string {
	return fmt.Sprintf("line is not an assignment: %s", e.Line)
}

func (e BadLhsError) Error() string {
	return fmt.Sprintf("cannot assign to: %s", e.Text)
}

func trim(b []byte) []byte {
	st := skipSpaces(b, 0)

	end := len(b)
	for end > st && (b[end-1] == ' ' || b[end-1] == '\t' || b[end-1] == '\r') {
		end--
	}

	return b[st:end]
}

func skipSpaces(b []byte, i int) int {
	for i < len(b) && (b[i] == ' ' || b[i] == '\t' || b[i] == '\r') {
		i++
	}

	return i
}

func skipIdent(b []byte, i int) int {
	for i < len(b) && isIdent(b[i]) {
		i++
	}

	return i
}

func isIdent(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
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
