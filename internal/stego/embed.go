package stego

import "fmt"

// Embed writes bits into grid, visiting pixels in order and, within each
// pixel, the nonzero channels of cfg in R, G, B order.
//
// Each visited channel has its low b bits replaced by the next b bits of the
// stream; the upper 8-b bits are kept. When fewer than b bits remain, they
// are written to the high end of the low-b field and the bits below them
// keep their original values. The walk stops as soon as the stream is used
// up, so pixels past that point are left untouched.
//
// Embed returns ErrCapacityExceeded, without modifying grid, if the stream
// holds more bits than the walk has slots.
func Embed(grid *Grid, order Order, cfg BitConfig, bits Bitstream) error {
	if !cfg.Valid() {
		return ErrInvalidConfig
	}
	if err := grid.checkOrder(order); err != nil {
		return err
	}

	total := bits.Len()
	if slots := len(order) * cfg.BitsPerPixel(); total > slots {
		return fmt.Errorf("%w: need %d bits, have %d", ErrCapacityExceeded, total, slots)
	}

	channels := cfg.Channels()
	pos := 0

	for _, p := range order {
		for _, cb := range channels {
			if pos >= total {
				return nil
			}

			n := cb.Bits
			if remaining := total - pos; remaining < int(n) {
				n = uint8(remaining)
			}

			var chunk uint8
			for i := uint8(0); i < n; i++ {
				chunk = chunk<<1 | bits.Bit(pos)
				pos++
			}

			// chunk occupies bits [b-n, b) of the channel value
			shift := cb.Bits - n
			mask := uint8((uint16(1)<<n - 1) << shift)

			off := grid.offset(p, cb.Channel)
			grid.Pix[off] = grid.Pix[off]&^mask | chunk<<shift
		}
	}
	return nil
}
