package convert

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/bits"

	"github.com/yourorg/foldedsha256/pkg/sha2"
)

// decompose splits v into nbDigits boolean wires, least significant first.
// The decomposition is constrained to recompose to v, so a value wider than
// nbDigits makes the system unsatisfiable. Constant values are checked here.
func decompose(api frontend.API, v frontend.Variable, nbDigits int) ([]frontend.Variable, error) {
	if c, ok := api.Compiler().ConstantValue(v); ok && c.BitLen() > nbDigits {
		return nil, fmt.Errorf("%w: constant %s does not fit %d bits", ErrRange, c.String(), nbDigits)
	}
	return bits.ToBinary(api, v, bits.WithNbDigits(nbDigits)), nil
}

func VarToWord(api frontend.API, v frontend.Variable) (sha2.Word, error) {
	var w sha2.Word
	digits, err := decompose(api, v, sha2.WordBits)
	if err != nil {
		return w, err
	}
	copy(w[:], digits)
	return w, nil
}

func WordToVar(api frontend.API, w sha2.Word) frontend.Variable {
	return bits.FromBinary(api, w[:])
}

func VarToByte(api frontend.API, v frontend.Variable) ([8]frontend.Variable, error) {
	var b [8]frontend.Variable
	digits, err := decompose(api, v, 8)
	if err != nil {
		return b, err
	}
	copy(b[:], digits)
	return b, nil
}

func VarsToState(api frontend.API, z []frontend.Variable) ([sha2.StateLen]sha2.Word, error) {
	var state [sha2.StateLen]sha2.Word
	if len(z) != sha2.StateLen {
		return state, fmt.Errorf("%w: state has %d wires, want %d", ErrShape, len(z), sha2.StateLen)
	}
	for i := range z {
		w, err := VarToWord(api, z[i])
		if err != nil {
			return state, fmt.Errorf("state word %d: %w", i, err)
		}
		state[i] = w
	}
	return state, nil
}

func StateToVars(api frontend.API, state [sha2.StateLen]sha2.Word) []frontend.Variable {
	out := make([]frontend.Variable, sha2.StateLen)
	for i := range state {
		out[i] = WordToVar(api, state[i])
	}
	return out
}

func VarsToBlock(api frontend.API, ext []frontend.Variable) ([sha2.BlockSize][8]frontend.Variable, error) {
	var block [sha2.BlockSize][8]frontend.Variable
	if len(ext) != sha2.BlockSize {
		return block, fmt.Errorf("%w: block has %d wires, want %d", ErrShape, len(ext), sha2.BlockSize)
	}
	for i := range ext {
		b, err := VarToByte(api, ext[i])
		if err != nil {
			return block, fmt.Errorf("block byte %d: %w", i, err)
		}
		block[i] = b
	}
	return block, nil
}
