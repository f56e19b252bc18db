package ir

import "fmt"

type (
	Instr any

	LoadConst struct {
		Val int64
		Dst int64
	}

	Read struct {
		Src int64
		Dst int64
	}

	Write struct {
		Src int64
		Dst int64
	}

	Min struct {
		Left  int64
		Right int64
		Dst   int64
	}

	Prog struct {
		Code []Instr
	}

	Opcode byte
)

const (
	OpRead      Opcode = 0
	OpLoadConst Opcode = 3
	OpWrite     Opcode = 5
	OpMin       Opcode = 7
)

func (op Opcode) String() string {
	switch op {
	case OpRead:
		return "READ"
	case OpLoadConst:
		return "LOAD_CONST"
	case OpWrite:
		return "WRITE"
	case OpMin:
		return "MIN"
	default:
		return fmt.Sprintf("Opcode(%d)", int(op))
	}
}
