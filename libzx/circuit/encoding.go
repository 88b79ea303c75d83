package circuit

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/qudit-systems/gozx/gozx"
)

// MarshalBinary encodes the circuit as a varint stream: dim, qudit count,
// gate count, then per gate its kind, wires, repetitions, multiplier, and
// phase components.
func (c *Circuit) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 16+12*len(c.Gates))
	buf = binary.AppendVarint(buf, int64(c.Dim))
	buf = binary.AppendVarint(buf, int64(c.Qudits))
	buf = binary.AppendVarint(buf, int64(len(c.Gates)))
	for _, g := range c.Gates {
		buf = binary.AppendVarint(buf, int64(g.Kind))
		buf = binary.AppendVarint(buf, int64(g.Target))
		buf = binary.AppendVarint(buf, int64(g.Control))
		buf = binary.AppendVarint(buf, int64(g.Reps))
		buf = binary.AppendVarint(buf, int64(g.MulValue))
		buf = binary.AppendVarint(buf, int64(g.Phase.X))
		buf = binary.AppendVarint(buf, int64(g.Phase.Y))
	}
	return buf, nil
}

// UnmarshalBinary decodes a circuit previously produced by MarshalBinary.
func (c *Circuit) UnmarshalBinary(data []byte) error {
	rd := varintReader{buf: data}
	dim := int(rd.next())
	qudits := int(rd.next())
	count := int(rd.next())
	if rd.err != nil {
		return rd.err
	}
	if err := gozx.CheckDim(dim); err != nil {
		return err
	}
	// A gate takes at least one byte per field, which bounds any sane
	// count by the remaining input.
	if count < 0 || count > len(rd.buf)/7 {
		return errors.New("corrupt circuit encoding: bad gate count")
	}
	c.Dim = dim
	c.Qudits = qudits
	c.Gates = make([]Gate, 0, count)
	for i := 0; i < count; i++ {
		var g Gate
		g.Kind = Kind(rd.next())
		g.Target = int(rd.next())
		g.Control = int(rd.next())
		g.Reps = int(rd.next())
		g.MulValue = int(rd.next())
		x := int(rd.next())
		y := int(rd.next())
		if rd.err != nil {
			return rd.err
		}
		if g.Kind == KindZPhase || g.Kind == KindXPhase {
			g.Phase = phaseFor(dim, x, y)
		}
		c.Gates = append(c.Gates, g)
	}
	return rd.err
}

type varintReader struct {
	buf []byte
	err error
}

func (r *varintReader) next() int64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Varint(r.buf)
	if n <= 0 {
		r.err = errors.New("truncated circuit encoding")
		return 0
	}
	r.buf = r.buf[n:]
	return v
}
