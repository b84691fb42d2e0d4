package circuits

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/uints"

	"github.com/yourorg/foldedsha256/internal/sha2ref"
	"github.com/yourorg/foldedsha256/pkg/sha2"
)

// ChainCircuit proves that Digest is the SHA-256 state reached by stepping
// over the padded Message from the IV. The message length is fixed at
// compile time, so the padding is constant.
type ChainCircuit struct {
	Message []uints.U8
	Digest  [sha2.StateLen]frontend.Variable `gnark:",public"`

	crossCheck bool
}

// NewChainCircuit returns a blueprint for messages of msgLen bytes. With
// crossCheck the digest is also recomputed with gnark's sha2 gadget.
func NewChainCircuit(msgLen int, crossCheck bool) *ChainCircuit {
	return &ChainCircuit{
		Message:    make([]uints.U8, msgLen),
		crossCheck: crossCheck,
	}
}

func (c *ChainCircuit) Define(api frontend.API) error {
	padded := make([]frontend.Variable, 0, sha2.NumBlocks(len(c.Message))*sha2.BlockSize)
	for i := range c.Message {
		padded = append(padded, c.Message[i].Val)
	}
	for _, b := range sha2.PaddingSuffix(len(c.Message)) {
		padded = append(padded, int(b))
	}

	var step Sha256Step
	z := make([]frontend.Variable, sha2.StateLen)
	for i, w := range sha2.IV {
		z[i] = uint64(w)
	}
	var err error
	for i := 0; i < len(padded)/sha2.BlockSize; i++ {
		z, err = step.GenerateStepConstraints(api, i, z, padded[i*sha2.BlockSize:(i+1)*sha2.BlockSize])
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	for i := range c.Digest {
		api.AssertIsEqual(z[i], c.Digest[i])
	}

	if !c.crossCheck {
		return nil
	}
	ref, err := sha2ref.Digest(api, c.Message)
	if err != nil {
		return fmt.Errorf("reference digest: %w", err)
	}
	for i := range z {
		acc := frontend.Variable(0)
		for _, b := range ref[4*i : 4*i+4] {
			acc = api.Mul(acc, 256)
			acc = api.Add(acc, b.Val)
		}
		api.AssertIsEqual(z[i], acc)
	}
	return nil
}

// NewChainAssignment builds the ChainCircuit assignment for msg.
func NewChainAssignment(msg []byte) *ChainCircuit {
	a := &ChainCircuit{Message: uints.NewU8Array(msg)}
	state := sha2.HashBlocks(sha2.InitialState(), sha2.MsgBlockSequence(msg))
	for i := range a.Digest {
		a.Digest[i] = uint64(state[i])
	}
	return a
}
