package convert

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/foldedsha256/pkg/sha2"
)

func TestWordRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	words := []uint32{0, 1, 0xff, 0x80000000, 0xffffffff}
	for i := 0; i < 64; i++ {
		words = append(words, rng.Uint32())
	}
	for _, w := range words {
		got, err := FieldToWord(WordToField(w))
		require.NoError(t, err)
		require.Equal(t, w, got)
	}
}

func TestByteRoundTrip(t *testing.T) {
	for b := 0; b < 256; b++ {
		got, err := FieldToByte(ByteToField(byte(b)))
		require.NoError(t, err)
		require.Equal(t, byte(b), got)
	}
}

func TestFieldToWordRange(t *testing.T) {
	var e fr.Element
	e.SetUint64(1 << 32)
	_, err := FieldToWord(e)
	require.ErrorIs(t, err, ErrRange)

	// -1 is the largest field element, not a small integer.
	e.SetOne()
	e.Neg(&e)
	_, err = FieldToWord(e)
	require.ErrorIs(t, err, ErrRange)

	e.SetUint64(256)
	_, err = FieldToByte(e)
	require.ErrorIs(t, err, ErrRange)
}

func TestShapeChecks(t *testing.T) {
	_, err := FieldsToState(make([]fr.Element, 7))
	require.ErrorIs(t, err, ErrShape)
	_, err = FieldsToBlock(make([]fr.Element, 65))
	require.ErrorIs(t, err, ErrShape)

	z := StateToFields(sha2.IV)
	z[3].SetUint64(1 << 40)
	_, err = FieldsToState(z)
	require.ErrorIs(t, err, ErrRange)

	state, err := FieldsToState(StateToFields(sha2.IV))
	require.NoError(t, err)
	require.Equal(t, sha2.IV, state)

	var block [sha2.BlockSize]byte
	copy(block[:], "abc")
	got, err := FieldsToBlock(BlockToFields(block))
	require.NoError(t, err)
	require.Equal(t, block, got)
}

/* ---------------- in-circuit conversions ---------------- */

type wordCircuit struct {
	V    frontend.Variable
	Byte frontend.Variable
}

func (c *wordCircuit) Define(api frontend.API) error {
	w, err := VarToWord(api, c.V)
	if err != nil {
		return err
	}
	api.AssertIsEqual(WordToVar(api, w), c.V)

	b, err := VarToByte(api, c.Byte)
	if err != nil {
		return err
	}
	api.AssertIsEqual(api.FromBinary(b[:]...), c.Byte)
	return nil
}

func TestVarToWord(t *testing.T) {
	field := ecc.BN254.ScalarField()
	require.NoError(t, test.IsSolved(&wordCircuit{}, &wordCircuit{V: uint64(0xdeadbeef), Byte: 0xab}, field))
	require.NoError(t, test.IsSolved(&wordCircuit{}, &wordCircuit{V: uint64(0xffffffff), Byte: 0xff}, field))

	tooWide := new(big.Int).Lsh(big.NewInt(1), 32)
	require.Error(t, test.IsSolved(&wordCircuit{}, &wordCircuit{V: tooWide, Byte: 0}, field))
	require.Error(t, test.IsSolved(&wordCircuit{}, &wordCircuit{V: 0, Byte: 256}, field))

	minusOne := new(big.Int).Sub(field, big.NewInt(1))
	require.Error(t, test.IsSolved(&wordCircuit{}, &wordCircuit{V: minusOne, Byte: 0}, field))
}

func TestProverRejectsWideWord(t *testing.T) {
	assert := test.NewAssert(t)
	tooWide := new(big.Int).Lsh(big.NewInt(1), 32)
	assert.ProverFailed(&wordCircuit{}, &wordCircuit{V: tooWide, Byte: 1}, test.WithCurves(ecc.BN254))
}

type constWordCircuit struct {
	Out frontend.Variable `gnark:",public"`
}

func (c *constWordCircuit) Define(api frontend.API) error {
	if _, err := VarToWord(api, uint64(1)<<33); err != nil {
		return err
	}
	api.AssertIsEqual(c.Out, 0)
	return nil
}

func TestConstantOutOfRangeRejectedAtCompile(t *testing.T) {
	_, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &constWordCircuit{})
	require.ErrorContains(t, err, ErrRange.Error())

	err = test.IsSolved(&constWordCircuit{}, &constWordCircuit{Out: 0}, ecc.BN254.ScalarField(),
		test.SetAllVariablesAsConstants())
	require.ErrorContains(t, err, ErrRange.Error())
}

func TestVarsShapeChecks(t *testing.T) {
	c := &shapeCircuit{}
	err := test.IsSolved(c, &shapeCircuit{Z: [7]frontend.Variable{0, 0, 0, 0, 0, 0, 0}}, ecc.BN254.ScalarField())
	require.ErrorContains(t, err, ErrShape.Error())
}

type shapeCircuit struct {
	Z [7]frontend.Variable
}

func (c *shapeCircuit) Define(api frontend.API) error {
	_, err := VarsToState(api, c.Z[:])
	return err
}
