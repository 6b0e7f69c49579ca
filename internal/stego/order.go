package stego

import (
	"crypto/sha256"
	"encoding/binary"
	"math/bits"
	"math/rand/v2"
)

// Order is the sequence of pixel indices visited by Embed and Extract.
// It is a permutation of 0..n-1 and must not be modified once built.
type Order []int

// NewOrder returns the identity order when seed is empty and a seeded
// permutation otherwise.
func NewOrder(pixels int, seed string) (Order, error) {
	if seed == "" {
		return IdentityOrder(pixels)
	}
	return ShuffledOrder(pixels, seed)
}

// IdentityOrder returns 0, 1, ..., pixels-1.
func IdentityOrder(pixels int) (Order, error) {
	if pixels <= 0 {
		return nil, ErrEmptyImage
	}
	order := make(Order, pixels)
	for i := range order {
		order[i] = i
	}
	return order, nil
}

// ShuffledOrder returns a uniform random permutation of 0..pixels-1 that
// depends only on pixels and seed.
//
// The generator is a PCG keyed by the SHA-256 digest of seed and is seeded
// exactly once. Bounded draws are done here rather than through rand.Shuffle
// so the permutation stays stable across Go releases.
func ShuffledOrder(pixels int, seed string) (Order, error) {
	order, err := IdentityOrder(pixels)
	if err != nil {
		return nil, err
	}

	src := newSeededSource(seed)
	for i := len(order) - 1; i > 0; i-- {
		j := int(src.uint64n(uint64(i + 1)))
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// seededSource is a deterministic generator bound to a single seed.
type seededSource struct {
	pcg *rand.PCG
}

func newSeededSource(seed string) *seededSource {
	sum := sha256.Sum256([]byte(seed))
	return &seededSource{
		pcg: rand.NewPCG(
			binary.BigEndian.Uint64(sum[0:8]),
			binary.BigEndian.Uint64(sum[8:16]),
		),
	}
}

// uint64n returns a uniform value in [0, n) using Lemire's multiply-shift
// with rejection. n must be > 0.
func (s *seededSource) uint64n(n uint64) uint64 {
	hi, lo := bits.Mul64(s.pcg.Uint64(), n)
	if lo < n {
		thresh := -n % n
		for lo < thresh {
			hi, lo = bits.Mul64(s.pcg.Uint64(), n)
		}
	}
	return hi
}
