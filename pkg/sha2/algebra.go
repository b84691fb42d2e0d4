// Package sha2 implements the SHA-256 compression function once, generically
// over a word algebra, and instantiates it natively over uint32 and inside a
// gnark constraint system over bit-decomposed words.
package sha2

// Algebra is the set of 32-bit word operations the compression function is
// written against. Add wraps modulo 2^32.
type Algebra[W any] interface {
	Const(c uint32) W
	And(a, b W) W
	Or(a, b W) W
	Xor(a, b W) W
	Not(a W) W
	Rotr(a W, n int) W
	Shr(a W, n int) W
	Add(ws ...W) W
}

func xor3[W any](alg Algebra[W], a, b, c W) W {
	return alg.Xor(alg.Xor(a, b), c)
}

// Schedule expands the 16 block words into the 64-word message schedule.
func Schedule[W any](alg Algebra[W], block [16]W) [Rounds]W {
	var w [Rounds]W
	copy(w[:16], block[:])
	for i := 16; i < Rounds; i++ {
		s0 := xor3(alg, alg.Rotr(w[i-15], 7), alg.Rotr(w[i-15], 18), alg.Shr(w[i-15], 3))
		s1 := xor3(alg, alg.Rotr(w[i-2], 17), alg.Rotr(w[i-2], 19), alg.Shr(w[i-2], 10))
		w[i] = alg.Add(w[i-16], s0, w[i-7], s1)
	}
	return w
}

// Compress runs one SHA-256 compression round of block over state, including
// the final feed-forward addition.
func Compress[W any](alg Algebra[W], state [StateLen]W, block [16]W) [StateLen]W {
	w := Schedule(alg, block)

	h := state
	for i := 0; i < Rounds; i++ {
		ch := alg.Xor(alg.And(h[4], h[5]), alg.And(alg.Not(h[4]), h[6]))
		ma := xor3(alg, alg.And(h[0], h[1]), alg.And(h[0], h[2]), alg.And(h[1], h[2]))
		s0 := xor3(alg, alg.Rotr(h[0], 2), alg.Rotr(h[0], 13), alg.Rotr(h[0], 22))
		s1 := xor3(alg, alg.Rotr(h[4], 6), alg.Rotr(h[4], 11), alg.Rotr(h[4], 25))
		t0 := alg.Add(h[7], s1, ch, alg.Const(K[i]), w[i])
		t1 := alg.Add(s0, ma)

		h[7] = h[6]
		h[6] = h[5]
		h[5] = h[4]
		h[4] = alg.Add(h[3], t0)
		h[3] = h[2]
		h[2] = h[1]
		h[1] = h[0]
		h[0] = alg.Add(t0, t1)
	}

	var out [StateLen]W
	for i := range out {
		out[i] = alg.Add(state[i], h[i])
	}
	return out
}
