package backend

import (
	"fmt"
	"math/big"
	"strings"
)

// Symbolic term representation. Terms render in an s-expression form so
// tests and drivers can assert on structure without a solver attached.

// SymBit is a symbolic boolean term.
type SymBit interface {
	String() string
	symBit()
}

// SymWord is a symbolic word term with a known width.
type SymWord interface {
	Len() int
	String() string
	symWord()
}

// BitLit is a literal boolean.
type BitLit bool

func (b BitLit) String() string {
	if b {
		return "True"
	}
	return "False"
}
func (BitLit) symBit() {}

// BitVar is a free boolean variable.
type BitVar struct {
	Name string
}

func (b *BitVar) String() string { return b.Name }
func (*BitVar) symBit()          {}

// BitIte selects between two bits on a symbolic condition.
type BitIte struct {
	C    SymBit
	T, F SymBit
}

func (b *BitIte) String() string {
	return fmt.Sprintf("(ite %s %s %s)", b.C, b.T, b.F)
}
func (*BitIte) symBit() {}

// BitSel extracts one bit of a symbolic word.
type BitSel struct {
	W SymWord
	I int
}

func (b *BitSel) String() string { return fmt.Sprintf("(bit %d %s)", b.I, b.W) }
func (*BitSel) symBit()          {}

// BitCmp is a word comparison producing a bit. Op is "==" or "<".
type BitCmp struct {
	Op   string
	A, B SymWord
}

func (b *BitCmp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Op, b.A, b.B)
}
func (*BitCmp) symBit() {}

// WordLit is a literal word.
type WordLit struct {
	Width int
	V     *big.Int
}

func (w *WordLit) Len() int { return w.Width }
func (w *WordLit) String() string {
	if w.Width%4 == 0 && w.Width > 0 {
		return fmt.Sprintf("0x%0*x", w.Width/4, w.V)
	}
	var sb strings.Builder
	sb.WriteString("0b")
	for i := w.Width - 1; i >= 0; i-- {
		if w.V.Bit(i) == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
func (*WordLit) symWord() {}

// WordVar is a free word variable.
type WordVar struct {
	Name  string
	Width int
}

func (w *WordVar) Len() int       { return w.Width }
func (w *WordVar) String() string { return w.Name }
func (*WordVar) symWord()         {}

// WordIte selects between two words on a symbolic condition.
type WordIte struct {
	C    SymBit
	T, F SymWord
}

func (w *WordIte) Len() int { return w.T.Len() }
func (w *WordIte) String() string {
	return fmt.Sprintf("(ite %s %s %s)", w.C, w.T, w.F)
}
func (*WordIte) symWord() {}

// WordFromBits assembles a word from individual bit terms, MSB first.
type WordFromBits struct {
	Bits []SymBit
}

func (w *WordFromBits) Len() int { return len(w.Bits) }
func (w *WordFromBits) String() string {
	parts := make([]string, len(w.Bits))
	for i, b := range w.Bits {
		parts[i] = b.String()
	}
	return fmt.Sprintf("(word %s)", strings.Join(parts, " "))
}
func (*WordFromBits) symWord() {}

// WordOp is an arithmetic or logical operation over words of one width.
type WordOp struct {
	Op    string
	Width int
	Args  []SymWord
}

func (w *WordOp) Len() int { return w.Width }
func (w *WordOp) String() string {
	parts := make([]string, len(w.Args))
	for i, a := range w.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("(%s %s)", w.Op, strings.Join(parts, " "))
}
func (*WordOp) symWord() {}
