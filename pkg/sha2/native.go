package sha2

import (
	"encoding/binary"
	"math/bits"
)

// Native is the word algebra over machine uint32.
type Native struct{}

var _ Algebra[uint32] = Native{}

func (Native) Const(c uint32) uint32 { return c }
func (Native) And(a, b uint32) uint32 { return a & b }
func (Native) Or(a, b uint32) uint32 { return a | b }
func (Native) Xor(a, b uint32) uint32 { return a ^ b }
func (Native) Not(a uint32) uint32 { return ^a }
func (Native) Rotr(a uint32, n int) uint32 { return bits.RotateLeft32(a, -n) }
func (Native) Shr(a uint32, n int) uint32 { return a >> uint(n) }

func (Native) Add(ws ...uint32) uint32 {
	var s uint32
	for _, w := range ws {
		s += w
	}
	return s
}

// BlockWords loads the 16 big-endian words of a block.
func BlockWords(block [BlockSize]byte) [16]uint32 {
	var w [16]uint32
	for i := range w {
		w[i] = binary.BigEndian.Uint32(block[4*i:])
	}
	return w
}

// CompressBlock advances state by one block. It is the reference the
// constrained engine is checked against.
func CompressBlock(state [StateLen]uint32, block [BlockSize]byte) [StateLen]uint32 {
	return Compress[uint32](Native{}, state, BlockWords(block))
}

// HashBlocks chains CompressBlock over blocks starting from state.
func HashBlocks(state [StateLen]uint32, blocks [][BlockSize]byte) [StateLen]uint32 {
	for _, b := range blocks {
		state = CompressBlock(state, b)
	}
	return state
}

// StateBytes serializes a state big-endian, word by word.
func StateBytes(state [StateLen]uint32) [Size]byte {
	var out [Size]byte
	for i, w := range state {
		binary.BigEndian.PutUint32(out[4*i:], w)
	}
	return out
}

// Sum returns the SHA-256 digest of msg computed by stepping from IV.
func Sum(msg []byte) [Size]byte {
	return StateBytes(HashBlocks(InitialState(), MsgBlockSequence(msg)))
}
