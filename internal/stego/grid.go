package stego

import "fmt"

// Grid is a rectangular image flattened to pixel-major channel values.
//
// Pixel p occupies Pix[p*Channels : (p+1)*Channels] in R, G, B[, A] order.
// Channels is 3 for RGB and 4 for RGBA; the alpha channel is never written.
type Grid struct {
	Pix      []uint8
	Channels int
}

// NewGrid wraps pix as a Grid after checking its shape. pix is not copied.
func NewGrid(pix []uint8, channels int) (*Grid, error) {
	if channels != 3 && channels != 4 {
		return nil, fmt.Errorf("unsupported channel count %d (want 3 or 4)", channels)
	}
	if len(pix)%channels != 0 {
		return nil, fmt.Errorf("pixel data length %d is not a multiple of %d channels", len(pix), channels)
	}
	return &Grid{Pix: pix, Channels: channels}, nil
}

// Pixels returns the number of pixels in the grid.
func (g *Grid) Pixels() int {
	if g == nil || g.Channels == 0 {
		return 0
	}
	return len(g.Pix) / g.Channels
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	pix := make([]uint8, len(g.Pix))
	copy(pix, g.Pix)
	return &Grid{Pix: pix, Channels: g.Channels}
}

// offset returns the index in Pix of the given pixel's channel.
func (g *Grid) offset(pixel, channel int) int {
	return pixel*g.Channels + channel
}

// checkOrder verifies that order is non-empty and every index names a pixel
// of g.
func (g *Grid) checkOrder(order Order) error {
	n := g.Pixels()
	if len(order) == 0 || n == 0 {
		return ErrEmptyImage
	}
	if len(order) > n {
		return fmt.Errorf("%w: order covers %d pixels but grid has %d", ErrInvalidOrder, len(order), n)
	}
	for i, p := range order {
		if p < 0 || p >= n {
			return fmt.Errorf("%w: index %d at position %d (grid has %d pixels)", ErrInvalidOrder, p, i, n)
		}
	}
	return nil
}
