package front

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uvmlab/uvc/compiler/ast"
)

func TestParseExpr(t *testing.T) {
	for _, tc := range []struct {
		text string
		want ast.Expr
	}{
		{"5", ast.Num(5)},
		{"007", ast.Num(7)},
		{"0x1F", ast.Num(31)},
		{"0X10", ast.Num(16)},
		{"x", ast.Ref("x")},
		{"_tmp2", ast.Ref("_tmp2")},
		{"min", ast.Ref("min")},
		{"minimum", ast.Ref("minimum")},
		{"memory", ast.Ref("memory")},
		{" x\t", ast.Ref("x")},
		{"mem[4]", ast.Mem{Addr: ast.Num(4)}},
		{"MEM[x]", ast.Mem{Addr: ast.Ref("x")}},
		{"mem [ x ]", ast.Mem{Addr: ast.Ref("x")}},
		{"mem[mem[p]]", ast.Mem{Addr: ast.Mem{Addr: ast.Ref("p")}}},
		{"min(3,4)", ast.Min{Left: ast.Num(3), Right: ast.Num(4)}},
		{"Min( a , b )", ast.Min{Left: ast.Ref("a"), Right: ast.Ref("b")}},
		{"min(min(1,2),3)", ast.Min{Left: ast.Min{Left: ast.Num(1), Right: ast.Num(2)}, Right: ast.Num(3)}},
		{"min(1,min(2,3))", ast.Min{Left: ast.Num(1), Right: ast.Min{Left: ast.Num(2), Right: ast.Num(3)}}},
		{"min(mem[a],b)", ast.Min{Left: ast.Mem{Addr: ast.Ref("a")}, Right: ast.Ref("b")}},
	} {
		x, err := ParseExpr([]byte(tc.text))
		require.NoError(t, err, "text: %q", tc.text)
		assert.Equal(t, tc.want, x, "text: %q", tc.text)
	}
}

func TestParseExprError(t *testing.T) {
	for _, text := range []string{
		"",
		"@@@",
		"-5",
		"2x",
		"0x",
		"0x-5",
		"0x+5",
		"min(1,2,3)",
		"min(1)",
		"min(1,2",
		"min(1,2]",
		"mem[",
		"mem[]",
		"mem[1)",
		"x y",
	} {
		_, err := ParseExpr([]byte(text))
		assert.Error(t, err, "text: %q", text)

		t.Logf("%-12q %v", text, err)
	}
}

func TestParseExprSyntaxError(t *testing.T) {
	_, err := ParseExpr([]byte("@@@"))

	var se SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "@@@", se.Text)
	assert.EqualError(t, err, "cannot parse expression: @@@")
}

func TestParseLines(t *testing.T) {
	ctx := context.Background()

	s := New()
	s.AddFile(ctx, "prog.uvm", []byte(`
; header comment
x = 5        ; trailing comment
y = min(x, 0x10)   # the other comment style

mem[x] = y
`))

	err := s.Parse(ctx)
	require.NoError(t, err)

	assert.Equal(t, []ast.Assign{
		{Lhs: ast.Ref("x"), Rhs: ast.Num(5)},
		{Lhs: ast.Ref("y"), Rhs: ast.Min{Left: ast.Ref("x"), Right: ast.Num(16)}},
		{Lhs: ast.Mem{Addr: ast.Ref("x")}, Rhs: ast.Ref("y")},
	}, s.assigns)
}

func TestParseNotAssignment(t *testing.T) {
	ctx := context.Background()

	s := New()
	s.AddFile(ctx, "prog.uvm", []byte("x\n"))

	err := s.Parse(ctx)

	var ne NotAssignmentError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, "x", ne.Line)
	assert.Contains(t, err.Error(), "line 1")

	t.Logf("error: %v", err)
}

func TestParseBadLhs(t *testing.T) {
	ctx := context.Background()

	for _, line := range []string{"5 = x", "min(a,b) = 4"} {
		s := New()
		s.AddFile(ctx, "prog.uvm", []byte(line))

		err := s.Parse(ctx)

		var be BadLhsError
		require.ErrorAs(t, err, &be, "line: %q", line)

		t.Logf("error: %v", err)
	}
}

func TestParseBadRhs(t *testing.T) {
	ctx := context.Background()

	s := New()
	s.AddFile(ctx, "prog.uvm", []byte("ok = 1\nx = min(1,2,3)\n"))

	err := s.Parse(ctx)

	var se SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, err.Error(), "line 2")

	t.Logf("error: %v", err)
}
