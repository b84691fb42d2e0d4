// Package convert moves state words and message bytes between the BN254
// scalar field representation used across the step boundary and the native
// or bit-decomposed word representation used by the compression engines.
package convert

import (
	"errors"
	"fmt"
	"math"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/yourorg/foldedsha256/pkg/sha2"
)

var (
	// ErrRange is returned when a field element does not fit the target width.
	ErrRange = errors.New("convert: field element out of range")
	// ErrShape is returned when a state or block slice has the wrong length.
	ErrShape = errors.New("convert: wrong number of elements")
)

func FieldToWord(e fr.Element) (uint32, error) {
	if !e.IsUint64() || e.Uint64() > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %s does not fit 32 bits", ErrRange, e.String())
	}
	return uint32(e.Uint64()), nil
}

func WordToField(w uint32) fr.Element {
	var e fr.Element
	e.SetUint64(uint64(w))
	return e
}

func FieldToByte(e fr.Element) (byte, error) {
	if !e.IsUint64() || e.Uint64() > math.MaxUint8 {
		return 0, fmt.Errorf("%w: %s does not fit 8 bits", ErrRange, e.String())
	}
	return byte(e.Uint64()), nil
}

func ByteToField(b byte) fr.Element {
	var e fr.Element
	e.SetUint64(uint64(b))
	return e
}

// FieldsToState converts exactly sha2.StateLen elements to state words.
func FieldsToState(z []fr.Element) ([sha2.StateLen]uint32, error) {
	var state [sha2.StateLen]uint32
	if len(z) != sha2.StateLen {
		return state, fmt.Errorf("%w: state has %d elements, want %d", ErrShape, len(z), sha2.StateLen)
	}
	for i := range z {
		w, err := FieldToWord(z[i])
		if err != nil {
			return state, fmt.Errorf("state word %d: %w", i, err)
		}
		state[i] = w
	}
	return state, nil
}

func StateToFields(state [sha2.StateLen]uint32) []fr.Element {
	out := make([]fr.Element, sha2.StateLen)
	for i, w := range state {
		out[i] = WordToField(w)
	}
	return out
}

// FieldsToBlock converts exactly sha2.BlockSize elements, one byte each.
func FieldsToBlock(ext []fr.Element) ([sha2.BlockSize]byte, error) {
	var block [sha2.BlockSize]byte
	if len(ext) != sha2.BlockSize {
		return block, fmt.Errorf("%w: block has %d elements, want %d", ErrShape, len(ext), sha2.BlockSize)
	}
	for i := range ext {
		b, err := FieldToByte(ext[i])
		if err != nil {
			return block, fmt.Errorf("block byte %d: %w", i, err)
		}
		block[i] = b
	}
	return block, nil
}

func BlockToFields(block [sha2.BlockSize]byte) []fr.Element {
	out := make([]fr.Element, sha2.BlockSize)
	for i, b := range block {
		out[i] = ByteToField(b)
	}
	return out
}
