package circuits

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"

	"github.com/yourorg/foldedsha256/pkg/convert"
	"github.com/yourorg/foldedsha256/pkg/sha2"
)

func Curve() ecc.ID { return ecc.BN254 }

// StepFunction is the shape a folding scheme expects from the function it
// iterates: a fixed-width state z_i, fixed-width external inputs per step, a
// native evaluation and a constraint-emitting evaluation that must agree.
type StepFunction interface {
	StateLen() int
	ExternalInputsLen() int
	StepNative(i int, z []fr.Element, ext []fr.Element) ([]fr.Element, error)
	GenerateStepConstraints(api frontend.API, i int, z []frontend.Variable, ext []frontend.Variable) ([]frontend.Variable, error)
}

// Sha256Step advances a SHA-256 state by one 64-byte block per step. The state
// is 8 words, one field element each; the external inputs are the 64 block
// bytes, one field element each.
type Sha256Step struct{}

var _ StepFunction = Sha256Step{}

func (Sha256Step) StateLen() int          { return sha2.StateLen }
func (Sha256Step) ExternalInputsLen() int { return sha2.BlockSize }

// StepNative ignores the step index: every step is the same compression round.
func (Sha256Step) StepNative(_ int, z []fr.Element, ext []fr.Element) ([]fr.Element, error) {
	state, err := convert.FieldsToState(z)
	if err != nil {
		return nil, err
	}
	block, err := convert.FieldsToBlock(ext)
	if err != nil {
		return nil, err
	}
	return convert.StateToFields(sha2.CompressBlock(state, block)), nil
}

func (Sha256Step) GenerateStepConstraints(api frontend.API, _ int, z []frontend.Variable, ext []frontend.Variable) ([]frontend.Variable, error) {
	state, err := convert.VarsToState(api, z)
	if err != nil {
		return nil, err
	}
	block, err := convert.VarsToBlock(api, ext)
	if err != nil {
		return nil, err
	}
	return convert.StateToVars(api, sha2.CompressCircuit(api, state, block)), nil
}

// InitialState is z_0 for hashing a full message: the SHA-256 IV.
func InitialState() []fr.Element {
	return convert.StateToFields(sha2.InitialState())
}

// ExternalInputs pads msg and returns one external-input vector per step.
func ExternalInputs(msg []byte) [][]fr.Element {
	blocks := sha2.MsgBlockSequence(msg)
	out := make([][]fr.Element, len(blocks))
	for i := range blocks {
		out[i] = convert.BlockToFields(blocks[i])
	}
	return out
}

// StepCircuit proves a single step: Next = F(Z, Ext).
type StepCircuit struct {
	Z    [sha2.StateLen]frontend.Variable `gnark:",public"`
	Ext  [sha2.BlockSize]frontend.Variable
	Next [sha2.StateLen]frontend.Variable `gnark:",public"`
}

func (c *StepCircuit) Define(api frontend.API) error {
	out, err := Sha256Step{}.GenerateStepConstraints(api, 0, c.Z[:], c.Ext[:])
	if err != nil {
		return fmt.Errorf("step constraints: %w", err)
	}
	for i := range c.Next {
		api.AssertIsEqual(out[i], c.Next[i])
	}
	return nil
}

// NewStepAssignment builds the StepCircuit assignment for one block.
func NewStepAssignment(z [sha2.StateLen]uint32, block [sha2.BlockSize]byte) *StepCircuit {
	next := sha2.CompressBlock(z, block)
	var a StepCircuit
	for i := range a.Z {
		a.Z[i] = uint64(z[i])
		a.Next[i] = uint64(next[i])
	}
	for i := range a.Ext {
		a.Ext[i] = uint64(block[i])
	}
	return &a
}
