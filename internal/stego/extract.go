package stego

// Extract walks grid in the same (pixel, channel) order as Embed, reading
// the low bits of each visited channel, and returns the message that
// precedes terminator.
//
// The walk stops at the terminator, at the first non-ASCII byte, or at the
// end of the order. The last two return ErrNotFound.
func Extract(grid *Grid, order Order, cfg BitConfig, terminator string) (string, error) {
	if !cfg.Valid() {
		return "", ErrInvalidConfig
	}
	if err := grid.checkOrder(order); err != nil {
		return "", err
	}
	return extract(grid, order, cfg.Channels(), terminator)
}

// extract is Extract without argument checks, shared with BruteForce.
func extract(grid *Grid, order Order, channels []ChannelBits, terminator string) (string, error) {
	d := newDecoder(terminator)

	for _, p := range order {
		for _, cb := range channels {
			low := grid.Pix[grid.offset(p, cb.Channel)] & uint8(uint16(1)<<cb.Bits-1)

			switch d.push(low, cb.Bits) {
			case decodeFound:
				return d.message(), nil
			case decodeInvalid:
				return "", ErrNotFound
			}
		}
	}
	return "", ErrNotFound
}
