package ir

import (
	"strconv"

	"github.com/nikandfor/hacked/hfmt"

	"github.com/uralgo2/nextc/compiler/set"
)

func (x Instr) AppendText(b []byte) []byte {
	b = append(b, x.Op.String()...)

	if x.Op >= numOps {
		return b
	}

	switch ops[x.Op].args {
	case intOperand, oneOperand:
		b = hfmt.Appendf(b, " %d", x.A)
	case floatOperand:
		b = append(b, ' ')
		b = strconv.AppendFloat(b, x.F, 'g', -1, 64)
	case twoOperands:
		b = hfmt.Appendf(b, " %d, %d", x.A, x.B)
	}

	return b
}

func (x Instr) String() string { return string(x.AppendText(nil)) }

// Targets marks every instruction some branch jumps to.
func (c Code) Targets() set.Bitmap {
	t := set.MakeBitmap(len(c))

	for _, x := range c {
		if x.Op.IsBranch() && x.A >= 0 {
			t.Set(int(x.A))
		}
	}

	return t
}

// AppendText disassembles the code one instruction per line.
// Branch targets are marked with '>'.
func (c Code) AppendText(b []byte) []byte {
	w := len(strconv.Itoa(len(c)))
	t := c.Targets()

	for i, x := range c {
		n := strconv.Itoa(i)

		if t.IsSet(i) {
			b = append(b, '>')
		} else {
			b = append(b, ' ')
		}

		for j := len(n); j < w; j++ {
			b = append(b, ' ')
		}

		b = append(b, n...)
		b = append(b, '\t')
		b = x.AppendText(b)
		b = append(b, '\n')
	}

	return b
}
