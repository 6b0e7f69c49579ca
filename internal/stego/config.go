package stego

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxBits is the largest number of bits a single channel can carry.
const MaxBits = 8

// ChannelCount is the number of color channels that carry payload (R, G, B).
const ChannelCount = 3

// BitConfig holds the number of low-order payload bits for the R, G and B
// channels, in that order. A zero entry means the channel is unused.
//
// The zero value is not a valid configuration; build one with NewBitConfig
// or ParseBitConfig.
type BitConfig [ChannelCount]uint8

// ChannelBits is one (channel, bit count) step of the inner embedding loop.
type ChannelBits struct {
	Channel int   // 0 = R, 1 = G, 2 = B
	Bits    uint8 // 1-8
}

// NewBitConfig validates per-channel bit counts and returns a BitConfig.
//
// Each count must be in 0-8 and at least one must be nonzero.
func NewBitConfig(r, g, b int) (BitConfig, error) {
	var cfg BitConfig
	for i, n := range [ChannelCount]int{r, g, b} {
		if n < 0 || n > MaxBits {
			return BitConfig{}, fmt.Errorf("%w: channel %d has %d bits (want 0-%d)", ErrInvalidConfig, i, n, MaxBits)
		}
		cfg[i] = uint8(n)
	}
	if cfg.BitsPerPixel() == 0 {
		return BitConfig{}, fmt.Errorf("%w: no lsb", ErrInvalidConfig)
	}
	return cfg, nil
}

// ParseBitConfig parses "R,G,B" (commas and/or spaces) into a BitConfig.
func ParseBitConfig(s string) (BitConfig, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) != ChannelCount {
		return BitConfig{}, fmt.Errorf("%w: want %d values, got %q", ErrInvalidConfig, ChannelCount, s)
	}

	var vals [ChannelCount]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return BitConfig{}, fmt.Errorf("%w: %q is not a number", ErrInvalidConfig, f)
		}
		vals[i] = n
	}
	return NewBitConfig(vals[0], vals[1], vals[2])
}

// Channels returns the nonzero channels in increasing channel order.
func (c BitConfig) Channels() []ChannelBits {
	out := make([]ChannelBits, 0, ChannelCount)
	for ch, b := range c {
		if b > 0 {
			out = append(out, ChannelBits{Channel: ch, Bits: b})
		}
	}
	return out
}

// BitsPerPixel is the total number of payload bits carried by one pixel.
func (c BitConfig) BitsPerPixel() int {
	return int(c[0]) + int(c[1]) + int(c[2])
}

// Valid reports whether c could have been returned by NewBitConfig.
func (c BitConfig) Valid() bool {
	for _, b := range c {
		if b > MaxBits {
			return false
		}
	}
	return c.BitsPerPixel() > 0
}

func (c BitConfig) String() string {
	return fmt.Sprintf("%d,%d,%d", c[0], c[1], c[2])
}

// Candidates enumerates every valid BitConfig in lexicographic (R, G, B)
// order: 0,0,1 then 0,0,2 ... 8,8,8. The all-zero tuple is skipped.
//
// Values are produced on demand; Reset restarts the sequence.
type Candidates struct {
	next int // index into the 9^3 product
}

// candidateSpace is the size of the full product including the zero tuple.
const candidateSpace = (MaxBits + 1) * (MaxBits + 1) * (MaxBits + 1)

// Next returns the next candidate, or false once the sequence is exhausted.
func (it *Candidates) Next() (BitConfig, bool) {
	for it.next < candidateSpace {
		i := it.next
		it.next++

		base := MaxBits + 1
		cfg := BitConfig{
			uint8(i / (base * base)),
			uint8(i / base % base),
			uint8(i % base),
		}
		if cfg.BitsPerPixel() > 0 {
			return cfg, true
		}
	}
	return BitConfig{}, false
}

// Reset rewinds the sequence to its first candidate.
func (it *Candidates) Reset() {
	it.next = 0
}
