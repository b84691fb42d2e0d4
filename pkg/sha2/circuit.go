package sha2

import (
	mbits "math/bits"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/bits"
)

// Word is a 32-bit word held as boolean wires, least significant bit first
// (the order produced by bits.ToBinary).
type Word [WordBits]frontend.Variable

// ConstWord returns the constant wires of c.
func ConstWord(c uint32) Word {
	var w Word
	for i := range w {
		w[i] = int((c >> uint(i)) & 1)
	}
	return w
}

// Gadget is the word algebra over constraint-system wires. Bitwise operations
// cost one constraint per bit at most, rotations and shifts are free.
type Gadget struct {
	api frontend.API
}

var _ Algebra[Word] = (*Gadget)(nil)

func NewGadget(api frontend.API) *Gadget {
	return &Gadget{api: api}
}

func (g *Gadget) Const(c uint32) Word { return ConstWord(c) }

func (g *Gadget) And(a, b Word) Word {
	var out Word
	for i := range out {
		out[i] = g.api.And(a[i], b[i])
	}
	return out
}

func (g *Gadget) Or(a, b Word) Word {
	var out Word
	for i := range out {
		out[i] = g.api.Or(a[i], b[i])
	}
	return out
}

func (g *Gadget) Xor(a, b Word) Word {
	var out Word
	for i := range out {
		out[i] = g.api.Xor(a[i], b[i])
	}
	return out
}

// Not is linear in each bit. Inputs must be boolean, outputs are marked so.
func (g *Gadget) Not(a Word) Word {
	var out Word
	for i := range out {
		g.api.AssertIsBoolean(a[i])
		out[i] = g.api.Sub(1, a[i])
		g.api.Compiler().MarkBoolean(out[i])
	}
	return out
}

// Rotr relabels wires: bit i of the result is bit i+n mod 32 of a.
func (g *Gadget) Rotr(a Word, n int) Word {
	var out Word
	for i := range out {
		out[i] = a[(i+n)%WordBits]
	}
	return out
}

func (g *Gadget) Shr(a Word, n int) Word {
	var out Word
	for i := range out {
		if i+n < WordBits {
			out[i] = a[i+n]
		} else {
			out[i] = 0
		}
	}
	return out
}

// Add sums the recomposed words in the field and decomposes the result over
// 32 bits plus enough carry bits to hold len(ws) words, so the carry is
// constrained along with the low word.
func (g *Gadget) Add(ws ...Word) Word {
	switch len(ws) {
	case 0:
		return ConstWord(0)
	case 1:
		return ws[0]
	}
	terms := make([]frontend.Variable, len(ws))
	for i := range ws {
		terms[i] = g.Value(ws[i])
	}
	sum := g.api.Add(terms[0], terms[1], terms[2:]...)

	nbDigits := WordBits + mbits.Len(uint(len(ws)-1))
	digits := bits.ToBinary(g.api, sum, bits.WithNbDigits(nbDigits))

	var out Word
	copy(out[:], digits[:WordBits])
	return out
}

// Value recomposes w into a single field element.
func (g *Gadget) Value(w Word) frontend.Variable {
	return bits.FromBinary(g.api, w[:])
}

// PackBlock assembles 64 byte decompositions (each least significant bit
// first) into the 16 big-endian block words.
func PackBlock(block [BlockSize][8]frontend.Variable) [16]Word {
	var words [16]Word
	for j := range words {
		for k := 0; k < 4; k++ {
			copy(words[j][8*(3-k):8*(4-k)], block[4*j+k][:])
		}
	}
	return words
}

// CompressCircuit is CompressBlock over wires. It appends the constraints of
// one compression round to api and returns the new state words.
func CompressCircuit(api frontend.API, state [StateLen]Word, block [BlockSize][8]frontend.Variable) [StateLen]Word {
	return Compress[Word](NewGadget(api), state, PackBlock(block))
}
