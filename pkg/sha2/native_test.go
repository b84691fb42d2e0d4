package sha2

import (
	"crypto/sha256"
	"encoding/hex"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

const abcDigest = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

func TestCompressBlockAbc(t *testing.T) {
	blocks := MsgBlockSequence([]byte("abc"))
	require.Len(t, blocks, 1)

	out := CompressBlock(InitialState(), blocks[0])
	digest := StateBytes(out)
	require.Equal(t, abcDigest, hex.EncodeToString(digest[:]))
}

func TestSumMatchesStdlib(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for n := 0; n < 300; n += 7 {
		msg := make([]byte, n)
		rng.Read(msg)
		require.Equal(t, sha256.Sum256(msg), Sum(msg), "n=%d", n)
	}
}

func TestZeroBlockIsNotIdentity(t *testing.T) {
	var zero [BlockSize]byte
	out := CompressBlock(IV, zero)
	require.NotEqual(t, IV, out)
}

func TestConstantsStable(t *testing.T) {
	k, iv := K, IV

	s := InitialState()
	s[0] = 0
	_ = Sum([]byte("abc"))
	_ = CompressBlock(s, [BlockSize]byte{})

	require.Equal(t, k, K)
	require.Equal(t, iv, IV)
	require.Equal(t, uint32(0x428a2f98), K[0])
	require.Equal(t, uint32(0x6a09e667), IV[0])
}

func TestNativeAlgebra(t *testing.T) {
	var n Native
	require.Equal(t, uint32(0x80000000), n.Rotr(1, 1))
	require.Equal(t, uint32(0x00000001), n.Rotr(0x80000000, 31))
	require.Equal(t, uint32(0x0fffffff), n.Shr(0xffffffff, 4))
	require.Equal(t, uint32(0xfffffffb), n.Add(0xffffffff, 0xffffffff, 0xffffffff, 0xffffffff, 0xffffffff))
	require.Equal(t, uint32(0), n.Add())
	require.Equal(t, uint32(0xf0f0f0f0), n.Not(0x0f0f0f0f))
}

func TestBlockWordsBigEndian(t *testing.T) {
	var b [BlockSize]byte
	b[0], b[1], b[2], b[3] = 0x01, 0x02, 0x03, 0x04
	b[63] = 0xff
	w := BlockWords(b)
	require.Equal(t, uint32(0x01020304), w[0])
	require.Equal(t, uint32(0x000000ff), w[15])
}
