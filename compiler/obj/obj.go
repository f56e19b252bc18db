package obj

import (
	"context"
	"encoding/binary"
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/uvmlab/uvc/compiler/ir"
)

// RecordSize is the encoded size of every instruction.
// Byte 0 is the opcode (low 3 bits), bytes 1:5 and 5:9 are
// B and C as uint32 little endian, bytes 9:11 are D as uint16
// little endian, zero if the instruction has no D.
const RecordSize = 11

type (
	OverflowError struct {
		Op    ir.Opcode
		Field byte
		Value int64
		Bits  int
	}
)

func Encode(ctx context.Context, b []byte, p *ir.Prog) (_ []byte, err error) {
	tr := tlog.SpanFromContext(ctx)

	for i, x := range p.Code {
		var op ir.Opcode
		var fb, fc, fd int64

		switch x := x.(type) {
		case ir.LoadConst:
			op, fb, fc = ir.OpLoadConst, x.Val, x.Dst
		case ir.Read:
			op, fb, fc = ir.OpRead, x.Src, x.Dst
		case ir.Write:
			op, fb, fc = ir.OpWrite, x.Src, x.Dst
		case ir.Min:
			op, fb, fc, fd = ir.OpMin, x.Left, x.Right, x.Dst
		default:
			return nil, errors.New("instruction %d: unsupported type: %T", i, x)
		}

		err = checkRange(op, 'B', fb, 32)
		if err == nil {
			err = checkRange(op, 'C', fc, 32)
		}
		if err == nil {
			err = checkRange(op, 'D', fd, 16)
		}
		if err != nil {
			return nil, errors.Wrap(err, "instruction %d", i)
		}

		tr.V("encode").Printw("encode", "i", i, "op", op, "b", fb, "c", fc, "d", fd)

		b = append(b, byte(op)&0x07)
		b = binary.LittleEndian.AppendUint32(b, uint32(fb))
		b = binary.LittleEndian.AppendUint32(b, uint32(fc))
		b = binary.LittleEndian.AppendUint16(b, uint16(fd))
	}

	return b, nil
}

func Decode(ctx context.Context, data []byte) (p *ir.Prog, err error) {
	tr := tlog.SpanFromContext(ctx)

	if len(data)%RecordSize != 0 {
		return nil, errors.New("truncated object: %d bytes is not whole records", len(data))
	}

	p = &ir.Prog{}

	for st := 0; st < len(data); st += RecordSize {
		r := data[st : st+RecordSize]
		i := st / RecordSize

		op := ir.Opcode(r[0])
		fb := int64(binary.LittleEndian.Uint32(r[1:5]))
		fc := int64(binary.LittleEndian.Uint32(r[5:9]))
		fd := int64(binary.LittleEndian.Uint16(r[9:11]))

		tr.V("decode").Printw("decode", "i", i, "op", op, "b", fb, "c", fc, "d", fd)

		var x ir.Instr

		switch op {
		case ir.OpLoadConst:
			x = ir.LoadConst{Val: fb, Dst: fc}
		case ir.OpRead:
			x = ir.Read{Src: fb, Dst: fc}
		case ir.OpWrite:
			x = ir.Write{Src: fb, Dst: fc}
		case ir.OpMin:
			x = ir.Min{Left: fb, Right: fc, Dst: fd}
		default:
			return nil, errors.New("record %d: unknown opcode: %d", i, r[0])
		}

		if op != ir.OpMin && fd != 0 {
			return nil, errors.New("record %d: %v carries no D, got %d", i, op, fd)
		}

		p.Code = append(p.Code, x)
	}

	return p, nil
}

func checkRange(op ir.Opcode, f byte, v int64, bits int) error {
	if v >= 0 && v>>bits == 0 {
		return nil
	}

	return OverflowError{Op: op, Field: f, Value: v, Bits: bits}
}

func (e OverflowError) Error() string {
	return fmt.Sprintf("%v: field %c: value %d does not fit %d bits", e.Op, e.Field, e.Value, e.Bits)
}
