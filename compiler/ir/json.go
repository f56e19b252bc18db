package ir

import (
	"encoding/json"

	"tlog.app/go/errors"
)

type (
	record struct {
		Mnemonic string `json:"mnemonic"`
		A        int    `json:"A"`
		B        int64  `json:"B"`
		C        int64  `json:"C"`
		D        *int64 `json:"D,omitempty"`
	}
)

func (p *Prog) MarshalJSON() ([]byte, error) {
	rs := make([]record, len(p.Code))

	for i, x := range p.Code {
		switch x := x.(type) {
		case LoadConst:
			rs[i] = record{Mnemonic: OpLoadConst.String(), A: int(OpLoadConst), B: x.Val, C: x.Dst}
		case Read:
			rs[i] = record{Mnemonic: OpRead.String(), A: int(OpRead), B: x.Src, C: x.Dst}
		case Write:
			rs[i] = record{Mnemonic: OpWrite.String(), A: int(OpWrite), B: x.Src, C: x.Dst}
		case Min:
			d := x.Dst
			rs[i] = record{Mnemonic: OpMin.String(), A: int(OpMin), B: x.Left, C: x.Right, D: &d}
		default:
			return nil, errors.New("unsupported instruction: %T", x)
		}
	}

	return json.Marshal(rs)
}
