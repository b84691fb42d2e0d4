package witness

import (
	"path/filepath"
	"testing"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/foldedsha256/circuits"
	"github.com/yourorg/foldedsha256/pkg/sha2"
)

func TestBuildAllAbc(t *testing.T) {
	bundles, m, err := BuildAll([]byte("abc"))
	require.NoError(t, err)
	require.Len(t, bundles, 1)

	require.Equal(t, 3, m.InputLen)
	require.Equal(t, 1, m.Steps)
	require.Equal(t,
		common.HexToHash("0xba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"),
		m.Digest)

	require.Equal(t, 0, bundles[0].Public.Step)
	require.Equal(t, toHex(sha2.IV), bundles[0].Public.StateIn)
	require.NotNil(t, bundles[0].Full)
	require.NoError(t, CheckChain([]PublicInputs{bundles[0].Public}, m))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	msg := make([]byte, 150)
	bundles, m, err := BuildAll(msg)
	require.NoError(t, err)
	require.Len(t, bundles, 3)

	require.NoError(t, Save(dir, bundles, m))
	gotM, pubs, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, m, gotM)
	require.Len(t, pubs, 3)
	for i := range pubs {
		require.Equal(t, bundles[i].Public, pubs[i])
	}
	require.NoError(t, CheckChain(pubs, gotM))
}

func TestLoadMissingDir(t *testing.T) {
	_, _, err := Load("nonexistent")
	require.Error(t, err)
}

func TestLoadRejectsBadManifest(t *testing.T) {
	for name, m := range map[string]Manifest{
		"negative steps": {InputLen: 3, Steps: -1},
		"wrong steps":    {InputLen: 3, Steps: 1_000_000_000},
		"negative input": {InputLen: -9, Steps: 0},
	} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, writeJSON(filepath.Join(dir, manifestFile), m))

			_, pubs, err := Load(dir)
			require.ErrorIs(t, err, ErrChain)
			require.Nil(t, pubs)
		})
	}
}

func TestCheckChainDetectsTampering(t *testing.T) {
	bundles, m, err := BuildAll(make([]byte, 100))
	require.NoError(t, err)
	fresh := func() []PublicInputs {
		pubs := make([]PublicInputs, len(bundles))
		for i := range bundles {
			pubs[i] = bundles[i].Public
		}
		return pubs
	}

	pubs := fresh()
	pubs[1].StateIn[0]++
	require.ErrorIs(t, CheckChain(pubs, m), ErrChain)

	pubs = fresh()
	pubs[0].StateIn[7]++
	require.ErrorIs(t, CheckChain(pubs, m), ErrChain)

	pubs = fresh()
	require.ErrorIs(t, CheckChain(pubs[:1], m), ErrChain)

	bad := m
	bad.Digest[31] ^= 1
	require.ErrorIs(t, CheckChain(fresh(), bad), ErrChain)

	bad = m
	bad.InputLen = 10
	require.ErrorIs(t, CheckChain(fresh(), bad), ErrChain)

	pubs = fresh()
	pubs[0].Step, pubs[1].Step = 1, 0
	require.ErrorIs(t, CheckChain(pubs, m), ErrChain)
}

func TestBlueprintSolvedByFullWitness(t *testing.T) {
	bundles, _, err := BuildAll(make([]byte, 70))
	require.NoError(t, err)
	require.Len(t, bundles, 2)

	cs, err := frontend.Compile(circuits.Curve().ScalarField(), r1cs.NewBuilder, bundles[0].Blueprint)
	require.NoError(t, err)
	for i, b := range bundles {
		require.NoError(t, cs.IsSolved(b.Full), "step %d", i)
	}
}

func TestStepProofVerifies(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping groth16 setup in short mode")
	}
	bundles, _, err := BuildAll([]byte("abc"))
	require.NoError(t, err)

	cs, err := frontend.Compile(circuits.Curve().ScalarField(), r1cs.NewBuilder, bundles[0].Blueprint)
	require.NoError(t, err)
	pk, vk, err := groth16.Setup(cs)
	require.NoError(t, err)

	proof, err := groth16.Prove(cs, pk, bundles[0].Full)
	require.NoError(t, err)

	pub, err := bundles[0].Public.PublicWitness()
	require.NoError(t, err)
	require.NoError(t, groth16.Verify(proof, vk, pub))

	// A proof for the first block does not verify against a different output.
	other := bundles[0].Public
	other.StateOut[0]++
	pub, err = other.PublicWitness()
	require.NoError(t, err)
	require.Error(t, groth16.Verify(proof, vk, pub))
}
