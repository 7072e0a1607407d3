// Package keccak implements the legacy Keccak-256 hash used by Ethereum. It
// differs from NIST SHA3-256 only in the padding byte.
//
// The 1600-bit state is held as 50 32-bit words: lane i = x + 5*y occupies
// words 2*i (low half) and 2*i+1 (high half).
package keccak

import (
	"encoding/binary"
	"hash"
)

const (
	// Size is the digest size in bytes
	Size = 32

	// BlockSize is the sponge rate in bytes, 200 - 2*Size
	BlockSize = 200 - 2*Size

	blockWords = BlockSize / 4
	stateWords = 50
	rounds     = 24
)

// roundConstants are the 24 iota constants as (low, high) 32-bit halves
var roundConstants = [2 * rounds]uint32{
	1, 0, 32898, 0, 32906, 2147483648, 2147516416, 2147483648,
	32907, 0, 2147483649, 0, 2147516545, 2147483648, 32777, 2147483648,
	138, 0, 136, 0, 2147516425, 0, 2147483658, 0,
	2147516555, 0, 139, 2147483648, 32905, 2147483648, 32771, 2147483648,
	32770, 2147483648, 128, 2147483648, 32778, 0, 2147483658, 2147483648,
	2147516545, 2147483648, 32896, 2147483648, 2147483649, 0, 2147516424, 2147483648,
}

// rotations and piLanes drive the combined rho and pi steps: walking the lane
// cycle 1 -> 10 -> 7 -> ..., lane piLanes[i] receives the previous lane
// rotated left by rotations[i].
var (
	rotations = [24]uint{
		1, 3, 6, 10, 15, 21, 28, 36, 45, 55, 2, 14,
		27, 41, 56, 8, 25, 43, 62, 18, 39, 61, 20, 44,
	}
	piLanes = [24]int{
		10, 7, 11, 17, 18, 3, 5, 16, 8, 21, 24, 4,
		15, 23, 19, 13, 12, 2, 20, 14, 22, 9, 6, 1,
	}
)

// State is a Keccak-256 sponge. It implements hash.Hash.
type State struct {
	s      [stateWords]uint32
	blocks [blockWords]uint32
	// offset is the number of bytes absorbed into blocks
	offset int
}

var _ hash.Hash = (*State)(nil)

// New256 returns a new Keccak-256 state
func New256() *State {
	return &State{}
}

// Sum256 returns the Keccak-256 digest of data
func Sum256(data []byte) (out [Size]byte) {
	var st State
	st.Write(data)
	st.digest(out[:])
	return
}

// Size returns the number of bytes Sum will append
func (st *State) Size() int { return Size }

// BlockSize returns the sponge rate
func (st *State) BlockSize() int { return BlockSize }

// Reset clears the state
func (st *State) Reset() {
	*st = State{}
}

// Write absorbs p. It never returns an error.
func (st *State) Write(p []byte) (int, error) {
	for _, b := range p {
		st.blocks[st.offset>>2] |= uint32(b) << (8 * uint(st.offset&3))
		st.offset++
		if st.offset == BlockSize {
			st.absorb()
		}
	}
	return len(p), nil
}

// Sum appends the digest of the data written so far to b. The state is not
// modified.
func (st *State) Sum(b []byte) []byte {
	var out [Size]byte
	dup := *st
	dup.digest(out[:])
	return append(b, out[:]...)
}

// absorb xors the pending block into the state and permutes it
func (st *State) absorb() {
	for i, w := range st.blocks {
		st.s[i] ^= w
	}
	permute(&st.s)
	st.blocks = [blockWords]uint32{}
	st.offset = 0
}

// digest pads the pending block with the Keccak multi-rate padding 0x01..0x80
// and squeezes Size bytes.
func (st *State) digest(out []byte) {
	st.blocks[st.offset>>2] |= 1 << (8 * uint(st.offset&3))
	st.blocks[blockWords-1] |= 0x80000000
	st.absorb()
	for i := 0; i < Size/4; i++ {
		binary.LittleEndian.PutUint32(out[4*i:], st.s[i])
	}
}

// rotl rotates the 64-bit lane (lo, hi) left by n bits, 0 < n < 64
func rotl(lo, hi uint32, n uint) (uint32, uint32) {
	if n >= 32 {
		lo, hi = hi, lo
		n -= 32
	}
	if n == 0 {
		return lo, hi
	}
	return lo<<n | hi>>(32-n), hi<<n | lo>>(32-n)
}

// permute applies Keccak-f[1600] to s
func permute(s *[stateWords]uint32) {
	var c [10]uint32
	for round := 0; round < rounds; round++ {
		// theta
		for x := 0; x < 5; x++ {
			c[2*x] = s[2*x] ^ s[2*x+10] ^ s[2*x+20] ^ s[2*x+30] ^ s[2*x+40]
			c[2*x+1] = s[2*x+1] ^ s[2*x+11] ^ s[2*x+21] ^ s[2*x+31] ^ s[2*x+41]
		}
		for x := 0; x < 5; x++ {
			prev := (x + 4) % 5
			next := (x + 1) % 5
			rlo, rhi := rotl(c[2*next], c[2*next+1], 1)
			dlo := c[2*prev] ^ rlo
			dhi := c[2*prev+1] ^ rhi
			for y := 0; y < 25; y += 5 {
				s[2*(x+y)] ^= dlo
				s[2*(x+y)+1] ^= dhi
			}
		}

		// rho and pi
		tlo, thi := s[2], s[3]
		for i, j := range piLanes {
			nlo, nhi := s[2*j], s[2*j+1]
			s[2*j], s[2*j+1] = rotl(tlo, thi, rotations[i])
			tlo, thi = nlo, nhi
		}

		// chi
		for y := 0; y < 25; y += 5 {
			copy(c[:], s[2*y:2*y+10])
			for x := 0; x < 5; x++ {
				x1 := (x + 1) % 5
				x2 := (x + 2) % 5
				s[2*(y+x)] = c[2*x] ^ (^c[2*x1] & c[2*x2])
				s[2*(y+x)+1] = c[2*x+1] ^ (^c[2*x1+1] & c[2*x2+1])
			}
		}

		// iota
		s[0] ^= roundConstants[2*round]
		s[1] ^= roundConstants[2*round+1]
	}
}
