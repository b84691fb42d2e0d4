// Package sha2ref wraps gnark's standard SHA-256 gadget. It is an independent
// in-circuit implementation used to cross-check the step function.
package sha2ref

import (
	"github.com/consensys/gnark/frontend"
	stdhash "github.com/consensys/gnark/std/hash"
	"github.com/consensys/gnark/std/hash/sha2"
	"github.com/consensys/gnark/std/math/uints"
)

func New(api frontend.API) (stdhash.BinaryHasher, error) {
	return sha2.New(api)
}

// Digest returns the 32 digest bytes of msg.
func Digest(api frontend.API, msg []uints.U8) ([]uints.U8, error) {
	h, err := New(api)
	if err != nil {
		return nil, err
	}
	h.Write(msg)
	return h.Sum(), nil
}
