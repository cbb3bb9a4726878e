package smallxxhash

import "math/bits"

// Hash4 runs four independent hash chains in lockstep. Lane i always
// produces the same value as the scalar Hash fed lane i's inputs.
type Hash4 [4]uint32

// Seed4 starts four chains with per-lane seeds.
func Seed4(seeds [4]int32) Hash4 {
	var h Hash4
	for i, s := range seeds {
		h[i] = uint32(s) + primeE
	}
	return h
}

// Broadcast copies a scalar accumulator into all four lanes.
func Broadcast(h Hash) Hash4 {
	return Hash4{uint32(h), uint32(h), uint32(h), uint32(h)}
}

// Eat mixes one value per lane.
func (h Hash4) Eat(data [4]int32) Hash4 {
	for i := range h {
		h[i] = bits.RotateLeft32(h[i]+uint32(data[i])*primeC, 17) * primeD
	}
	return h
}

// EatByte mixes one byte per lane.
func (h Hash4) EatByte(data [4]byte) Hash4 {
	for i := range h {
		h[i] = bits.RotateLeft32(h[i]+uint32(data[i])*primeE, 11) * primeA
	}
	return h
}

// Lane extracts a single lane as a scalar accumulator.
func (h Hash4) Lane(i int) Hash {
	return Hash(h[i])
}

// Sum finalizes all four lanes.
func (h Hash4) Sum() [4]uint32 {
	var out [4]uint32
	for i, a := range h {
		out[i] = avalanche(a)
	}
	return out
}
