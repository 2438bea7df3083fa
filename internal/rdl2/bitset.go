package rdl2

import "math/bits"

// bitset is a fixed-size set of attribute indices.
type bitset []uint64

func newBitset(n int) bitset {
	return make(bitset, (n+63)/64)
}

func (b bitset) set(i int) { b[i/64] |= 1 << (uint(i) % 64) }
func (b bitset) test(i int) bool { return b[i/64]&(1<<(uint(i)%64)) != 0 }

func (b bitset) reset() {
	for i := range b {
		b[i] = 0
	}
}

func (b bitset) any() bool {
	for _, w := range b {
		if w != 0 {
			return true
		}
	}
	return false
}

func (b bitset) count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}
