package witness

import (
	backendwitness "github.com/consensys/gnark/backend/witness"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/yourorg/foldedsha256/circuits"
	"github.com/yourorg/foldedsha256/pkg/sha2"
)

// PublicInputs are the public values of one step proof.
type PublicInputs struct {
	Step     int                           `json:"step"`
	StateIn  [sha2.StateLen]hexutil.Uint64 `json:"stateIn"`
	StateOut [sha2.StateLen]hexutil.Uint64 `json:"stateOut"`
}

type Bundle struct {
	Full      backendwitness.Witness
	Public    PublicInputs
	Blueprint *circuits.StepCircuit
}

// Manifest describes a whole run: how many steps were proven and the digest
// the last step must serialize to.
type Manifest struct {
	InputLen int         `json:"inputLen"`
	Steps    int         `json:"steps"`
	Digest   common.Hash `json:"digest"`
}
