package smallxxhash

import "math/bits"

// 32-bit xxHash primes.
const (
	primeA uint32 = 0x9E3779B1
	primeB uint32 = 0x85EBCA77
	primeC uint32 = 0xC2B2AE3D
	primeD uint32 = 0x27D4EB2F
	primeE uint32 = 0x165667B1
)

// Hash is a small xxHash-style accumulator. It is a plain value: every
// operation returns a new Hash and never mutates shared state.
type Hash uint32

// Seed starts a new hash chain for the given seed.
func Seed(seed int32) Hash {
	return Hash(uint32(seed) + primeE)
}

// Eat mixes a 32-bit value into the accumulator. Order matters.
func (h Hash) Eat(data int32) Hash {
	return Hash(bits.RotateLeft32(uint32(h)+uint32(data)*primeC, 17) * primeD)
}

// EatByte mixes a single byte into the accumulator.
func (h Hash) EatByte(data byte) Hash {
	return Hash(bits.RotateLeft32(uint32(h)+uint32(data)*primeE, 11) * primeA)
}

// Sum32 runs the avalanche rounds and returns the final hash value.
func (h Hash) Sum32() uint32 {
	return avalanche(uint32(h))
}

// Float01 maps the finalized hash onto [0,1].
func (h Hash) Float01() float32 {
	return float32(h.Sum32()) * (1.0 / 4294967295.0)
}

// Lattice3 hashes an integer lattice coordinate, x first.
func Lattice3(h Hash, x, y, z int32) Hash {
	return h.Eat(x).Eat(y).Eat(z)
}

func avalanche(a uint32) uint32 {
	a ^= a >> 15
	a *= primeB
	a ^= a >> 13
	a *= primeC
	a ^= a >> 16
	return a
}
