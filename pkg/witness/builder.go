// pkg/witness/builder.go
package witness

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	backendwitness "github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/frontend"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/yourorg/foldedsha256/circuits"
	"github.com/yourorg/foldedsha256/pkg/sha2"
)

// ErrChain is returned when step public inputs do not link IV to the digest.
var ErrChain = errors.New("witness: broken step chain")

const (
	manifestFile = "manifest.json"

	ProvingKeyFile   = "step_pk.bin"
	VerifyingKeyFile = "step_vk.bin"
)

func ProofPath(dir string, step int) string {
	return filepath.Join(dir, fmt.Sprintf("step_%04d_proof.bin", step))
}

func PublicPath(dir string, step int) string {
	return filepath.Join(dir, fmt.Sprintf("step_%04d_public.json", step))
}

func toHex(state [sha2.StateLen]uint32) [sha2.StateLen]hexutil.Uint64 {
	var out [sha2.StateLen]hexutil.Uint64
	for i, w := range state {
		out[i] = hexutil.Uint64(w)
	}
	return out
}

func fromHex(state [sha2.StateLen]hexutil.Uint64) ([sha2.StateLen]uint32, error) {
	var out [sha2.StateLen]uint32
	for i, w := range state {
		if uint64(w) > 0xffffffff {
			return out, fmt.Errorf("state word %d: %#x does not fit 32 bits", i, uint64(w))
		}
		out[i] = uint32(w)
	}
	return out, nil
}

// Build creates the witness bundle proving step i: z advanced by block.
func Build(i int, z [sha2.StateLen]uint32, block [sha2.BlockSize]byte) (*Bundle, error) {
	assignment := circuits.NewStepAssignment(z, block)
	full, err := frontend.NewWitness(assignment, circuits.Curve().ScalarField())
	if err != nil {
		return nil, fmt.Errorf("step %d witness: %w", i, err)
	}
	pub := PublicInputs{
		Step:     i,
		StateIn:  toHex(z),
		StateOut: toHex(sha2.CompressBlock(z, block)),
	}
	return &Bundle{Full: full, Public: pub, Blueprint: &circuits.StepCircuit{}}, nil
}

// BuildAll pads msg and builds one bundle per block, threading the state
// from the IV.
func BuildAll(msg []byte) ([]*Bundle, Manifest, error) {
	blocks := sha2.MsgBlockSequence(msg)
	bundles := make([]*Bundle, 0, len(blocks))

	z := sha2.InitialState()
	for i, block := range blocks {
		b, err := Build(i, z, block)
		if err != nil {
			return nil, Manifest{}, err
		}
		bundles = append(bundles, b)
		z = sha2.CompressBlock(z, block)
	}

	digest := sha2.StateBytes(z)
	return bundles, Manifest{
		InputLen: len(msg),
		Steps:    len(blocks),
		Digest:   common.BytesToHash(digest[:]),
	}, nil
}

// PublicWitness returns the public-only witness a verifier checks the step
// proof against.
func (p PublicInputs) PublicWitness() (backendwitness.Witness, error) {
	in, err := fromHex(p.StateIn)
	if err != nil {
		return nil, err
	}
	out, err := fromHex(p.StateOut)
	if err != nil {
		return nil, err
	}
	var a circuits.StepCircuit
	for i := range a.Z {
		a.Z[i] = uint64(in[i])
		a.Next[i] = uint64(out[i])
	}
	return frontend.NewWitness(&a, circuits.Curve().ScalarField(), frontend.PublicOnly())
}

// CheckChain verifies that pubs start at the IV, link output to input step
// by step, and end on m.Digest.
func CheckChain(pubs []PublicInputs, m Manifest) error {
	if err := checkManifest(m); err != nil {
		return err
	}
	if len(pubs) != m.Steps {
		return fmt.Errorf("%w: have %d steps, manifest says %d", ErrChain, len(pubs), m.Steps)
	}
	if pubs[0].StateIn != toHex(sha2.IV) {
		return fmt.Errorf("%w: step 0 does not start at the IV", ErrChain)
	}
	for i := range pubs {
		if pubs[i].Step != i {
			return fmt.Errorf("%w: entry %d is step %d", ErrChain, i, pubs[i].Step)
		}
		if i > 0 && pubs[i].StateIn != pubs[i-1].StateOut {
			return fmt.Errorf("%w: step %d input differs from step %d output", ErrChain, i, i-1)
		}
	}
	last, err := fromHex(pubs[len(pubs)-1].StateOut)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrChain, err)
	}
	if digest := sha2.StateBytes(last); common.BytesToHash(digest[:]) != m.Digest {
		return fmt.Errorf("%w: final state does not match digest %s", ErrChain, m.Digest.Hex())
	}
	return nil
}

// Save writes the manifest and every step's public inputs into dir.
func Save(dir string, bundles []*Bundle, m Manifest) error {
	for _, b := range bundles {
		if err := writeJSON(PublicPath(dir, b.Public.Step), b.Public); err != nil {
			return err
		}
	}
	return writeJSON(filepath.Join(dir, manifestFile), m)
}

// Load reads back what Save wrote.
func Load(dir string) (Manifest, []PublicInputs, error) {
	var m Manifest
	if err := readJSON(filepath.Join(dir, manifestFile), &m); err != nil {
		return m, nil, err
	}
	if err := checkManifest(m); err != nil {
		return m, nil, err
	}
	// Grown per file read so a bogus step count cannot force a large allocation.
	var pubs []PublicInputs
	for i := 0; i < m.Steps; i++ {
		var p PublicInputs
		if err := readJSON(PublicPath(dir, i), &p); err != nil {
			return m, nil, err
		}
		pubs = append(pubs, p)
	}
	return m, pubs, nil
}

func checkManifest(m Manifest) error {
	if m.InputLen < 0 || m.Steps < 1 || m.Steps != sha2.NumBlocks(m.InputLen) {
		return fmt.Errorf("%w: %d steps for a %d-byte input", ErrChain, m.Steps, m.InputLen)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, data, 0o644)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filepath.Base(path), err)
	}
	return nil
}
