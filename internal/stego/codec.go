package stego

import (
	"bytes"
	"strings"
	"unicode"
)

// Terminator marks the end of an embedded message. Embedding and extraction
// must agree on it for a round trip to work.
const Terminator = "<~eom~>"

// Bitstream is a message plus terminator expanded to bits, most significant
// bit of each byte first.
type Bitstream struct {
	data []byte
}

// Len returns the number of bits in the stream.
func (b Bitstream) Len() int {
	return len(b.data) * 8
}

// Bit returns bit i of the stream (0 or 1).
func (b Bitstream) Bit(i int) uint8 {
	return b.data[i/8] >> (7 - uint(i%8)) & 1
}

// Reader returns a BitSource that yields the stream from its first bit.
func (b Bitstream) Reader() BitSource {
	return &streamReader{stream: b}
}

// BitSource produces bits on demand. NextBit returns false once exhausted.
type BitSource interface {
	NextBit() (uint8, bool)
}

type streamReader struct {
	stream Bitstream
	pos    int
}

func (r *streamReader) NextBit() (uint8, bool) {
	if r.pos >= r.stream.Len() {
		return 0, false
	}
	bit := r.stream.Bit(r.pos)
	r.pos++
	return bit, true
}

// Encode appends terminator to msg and returns the resulting bitstream.
//
// msg must be ASCII and must not contain terminator.
func Encode(msg, terminator string) (Bitstream, error) {
	if strings.Contains(msg, terminator) {
		return Bitstream{}, ErrMessageContainsTerminator
	}
	for i := 0; i < len(msg); i++ {
		if msg[i] > unicode.MaxASCII {
			return Bitstream{}, ErrNonASCII
		}
	}

	data := make([]byte, 0, len(msg)+len(terminator))
	data = append(data, msg...)
	data = append(data, terminator...)
	return Bitstream{data: data}, nil
}

// Capacity returns how many message characters fit in pixels pixels under
// cfg once terminator has been accounted for. The result is negative when
// not even the terminator fits.
func Capacity(pixels int, cfg BitConfig, terminator string) int {
	return pixels*cfg.BitsPerPixel()/8 - len(terminator)
}

// CheckCapacity returns a *CharacterOverflowError if a message of msgLen
// characters does not fit.
func CheckCapacity(pixels int, cfg BitConfig, msgLen int, terminator string) error {
	if overflow := msgLen - Capacity(pixels, cfg, terminator); overflow > 0 {
		return &CharacterOverflowError{N: overflow}
	}
	return nil
}

// DecodeStream reads bytes from src until the decoded text ends with
// terminator, a non-ASCII byte appears, or src runs dry. It returns the
// message without the terminator and whether the terminator was found.
func DecodeStream(src BitSource, terminator string) (string, bool) {
	d := newDecoder(terminator)
	for {
		bit, ok := src.NextBit()
		if !ok {
			return "", false
		}
		switch d.push(bit, 1) {
		case decodeFound:
			return d.message(), true
		case decodeInvalid:
			return "", false
		}
	}
}

type decodeState int

const (
	decodePending decodeState = iota
	decodeFound
	decodeInvalid
)

// decoder turns a trickle of bits into ASCII characters and watches for the
// terminator.
type decoder struct {
	terminator []byte
	acc        uint32 // pending bits, right-aligned
	n          uint8  // number of pending bits, always < 8 between pushes
	msg        []byte
}

func newDecoder(terminator string) *decoder {
	return &decoder{terminator: []byte(terminator)}
}

// push appends the low count bits of v (count <= 8). At most one byte
// completes per push.
func (d *decoder) push(v uint8, count uint8) decodeState {
	d.acc = d.acc<<count | uint32(v)&(uint32(1)<<count-1)
	d.n += count
	if d.n < 8 {
		return decodePending
	}

	d.n -= 8
	c := byte(d.acc >> d.n)
	d.acc &= uint32(1)<<d.n - 1

	if c > unicode.MaxASCII {
		return decodeInvalid
	}
	d.msg = append(d.msg, c)
	if bytes.HasSuffix(d.msg, d.terminator) {
		return decodeFound
	}
	return decodePending
}

// message returns the decoded text with the terminator removed. Only valid
// after push reported decodeFound.
func (d *decoder) message() string {
	return string(d.msg[:len(d.msg)-len(d.terminator)])
}
