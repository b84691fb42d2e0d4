package sha2

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrUnaligned is returned when a padded stream is not a positive multiple of BlockSize.
var ErrUnaligned = errors.New("sha2: padded input is not block aligned")

// PaddingSuffix returns the bytes appended to an n-byte message: 0x80, zero
// fill up to 56 mod 64, then the 64-bit big-endian bit length.
func PaddingSuffix(n int) []byte {
	zeros := 55 - n%BlockSize
	if zeros < 0 {
		zeros += BlockSize
	}
	out := make([]byte, 1+zeros+8)
	out[0] = 0x80
	binary.BigEndian.PutUint64(out[1+zeros:], uint64(n)*8)
	return out
}

// Pad returns msg followed by its padding. msg is not modified.
func Pad(msg []byte) []byte {
	out := make([]byte, 0, len(msg)+BlockSize+8)
	out = append(out, msg...)
	return append(out, PaddingSuffix(len(msg))...)
}

// NumBlocks is the number of blocks a message of n bytes pads to.
func NumBlocks(n int) int {
	return (n + 9 + BlockSize - 1) / BlockSize
}

// Split cuts a padded stream into blocks, first block first.
func Split(padded []byte) ([][BlockSize]byte, error) {
	if len(padded) == 0 || len(padded)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrUnaligned, len(padded))
	}
	blocks := make([][BlockSize]byte, len(padded)/BlockSize)
	for i := range blocks {
		copy(blocks[i][:], padded[i*BlockSize:(i+1)*BlockSize])
	}
	return blocks, nil
}

// MsgBlockSequence pads msg and splits it into the blocks fed to the step
// function, one per step.
func MsgBlockSequence(msg []byte) [][BlockSize]byte {
	blocks, err := Split(Pad(msg))
	if err != nil {
		// Pad always yields an aligned, non-empty stream.
		panic(err)
	}
	return blocks
}
