package front

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uvmlab/uvc/compiler/ir"
)

func compile(t *testing.T, text string) *ir.Prog {
	t.Helper()

	ctx := context.Background()

	s := New()
	s.AddFile(ctx, "prog.uvm", []byte(text))

	err := s.Parse(ctx)
	require.NoError(t, err)

	p, err := s.Compile(ctx)
	require.NoError(t, err)

	return p
}

func TestCompileConst(t *testing.T) {
	p := compile(t, "x = 5\n")

	assert.Equal(t, []ir.Instr{
		ir.LoadConst{Val: 5, Dst: 100},
		ir.Write{Src: 100, Dst: 101},
	}, p.Code)
}

func TestCompileMin(t *testing.T) {
	p := compile(t, "x = min(3, 4)\n")

	assert.Equal(t, []ir.Instr{
		ir.LoadConst{Val: 3, Dst: 100},
		ir.LoadConst{Val: 4, Dst: 101},
		ir.Min{Left: 100, Right: 101, Dst: 102},
		ir.Write{Src: 102, Dst: 103},
	}, p.Code)
}

func TestCompileMemLhs(t *testing.T) {
	p := compile(t, "mem[x] = y\n")

	// x takes its cell before y does
	assert.Equal(t, []ir.Instr{
		ir.Write{Src: 101, Dst: 100},
	}, p.Code)
}

func TestCompileMemRhs(t *testing.T) {
	p := compile(t, "x = mem[p]\n")

	assert.Equal(t, []ir.Instr{
		ir.Read{Src: 100, Dst: 101},
		ir.Write{Src: 101, Dst: 102},
	}, p.Code)
}

func TestCompileMemNested(t *testing.T) {
	p := compile(t, "mem[mem[p]] = 5\n")

	assert.Equal(t, []ir.Instr{
		ir.Read{Src: 100, Dst: 101},
		ir.LoadConst{Val: 5, Dst: 102},
		ir.Write{Src: 102, Dst: 101},
	}, p.Code)
}

func TestCompileMinNested(t *testing.T) {
	p := compile(t, "z = min(min(1,2),3)\n")

	assert.Equal(t, []ir.Instr{
		ir.LoadConst{Val: 1, Dst: 100},
		ir.LoadConst{Val: 2, Dst: 101},
		ir.Min{Left: 100, Right: 101, Dst: 102},
		ir.LoadConst{Val: 3, Dst: 103},
		ir.Min{Left: 102, Right: 103, Dst: 104},
		ir.Write{Src: 104, Dst: 105},
	}, p.Code)
}

func TestCompileConstReused(t *testing.T) {
	p := compile(t, "x = 5\ny = 5\n")

	// the cell is shared, the load is emitted again
	assert.Equal(t, []ir.Instr{
		ir.LoadConst{Val: 5, Dst: 100},
		ir.Write{Src: 100, Dst: 101},
		ir.LoadConst{Val: 5, Dst: 100},
		ir.Write{Src: 100, Dst: 102},
	}, p.Code)
}

func TestCompileTempReused(t *testing.T) {
	p := compile(t, "a = min(x, y)\nb = min(x, y)\n")

	assert.Equal(t, []ir.Instr{
		ir.Min{Left: 100, Right: 101, Dst: 102},
		ir.Write{Src: 102, Dst: 103},
		ir.Min{Left: 100, Right: 101, Dst: 102},
		ir.Write{Src: 102, Dst: 104},
	}, p.Code)
}

func TestCompileFiles(t *testing.T) {
	ctx := context.Background()

	s := New()
	s.AddFile(ctx, "a.uvm", []byte("x = 1\n"))
	s.AddFile(ctx, "b.uvm", []byte("y = x\n"))

	err := s.Parse(ctx)
	require.NoError(t, err)

	p, err := s.Compile(ctx)
	require.NoError(t, err)

	assert.Equal(t, []ir.Instr{
		ir.LoadConst{Val: 1, Dst: 100},
		ir.Write{Src: 100, Dst: 101},
		ir.Write{Src: 101, Dst: 102},
	}, p.Code)
	assert.Equal(t, 3, s.addr.Len())
}

func TestCompileDeterministic(t *testing.T) {
	const text = `
v = 0x2A
w = min(v, mem[v])
mem[w] = min(w, 3)
`

	p := compile(t, text)
	q := compile(t, text)

	assert.Equal(t, p.Code, q.Code)
}

func TestCompileEmpty(t *testing.T) {
	p := compile(t, "; nothing here\n")

	assert.Empty(t, p.Code)
}
