package imaging

import (
	"fmt"
	"image"

	"github.com/ironsheep/image-stego/internal/stego"
)

// ChannelCount returns 3 for an opaque *image.RGBA, 4 for *image.NRGBA and
// ErrUnsupportedMode for anything else.
func ChannelCount(img image.Image) (int, error) {
	switch src := img.(type) {
	case *image.NRGBA:
		return 4, nil
	case *image.RGBA:
		if !src.Opaque() {
			return 0, fmt.Errorf("%w: translucent premultiplied RGBA", ErrUnsupportedMode)
		}
		return 3, nil
	}
	return 0, fmt.Errorf("%w: %T", ErrUnsupportedMode, img)
}

// ToGrid copies the channel values of img into a new stego.Grid, row by row
// from the top-left pixel.
func ToGrid(img image.Image) (*stego.Grid, error) {
	channels, err := ChannelCount(img)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pix := make([]uint8, 0, w*h*channels)

	switch src := img.(type) {
	case *image.NRGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			i := src.PixOffset(bounds.Min.X, y)
			pix = append(pix, src.Pix[i:i+w*4]...)
		}
	case *image.RGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			row := src.Pix[src.PixOffset(bounds.Min.X, y):]
			for x := 0; x < w; x++ {
				pix = append(pix, row[x*4], row[x*4+1], row[x*4+2])
			}
		}
	}

	return stego.NewGrid(pix, channels)
}

// FromGrid builds an image with the given bounds from grid. A 4-channel grid
// becomes *image.NRGBA; a 3-channel grid becomes an opaque *image.RGBA.
func FromGrid(grid *stego.Grid, bounds image.Rectangle) (image.Image, error) {
	w, h := bounds.Dx(), bounds.Dy()
	if grid.Pixels() != w*h {
		return nil, fmt.Errorf("grid has %d pixels, bounds %v need %d", grid.Pixels(), bounds, w*h)
	}

	switch grid.Channels {
	case 4:
		dst := image.NewNRGBA(bounds)
		for y := 0; y < h; y++ {
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+w*4], grid.Pix[y*w*4:(y+1)*w*4])
		}
		return dst, nil
	case 3:
		dst := image.NewRGBA(bounds)
		for y := 0; y < h; y++ {
			row := dst.Pix[y*dst.Stride:]
			src := grid.Pix[y*w*3:]
			for x := 0; x < w; x++ {
				row[x*4] = src[x*3]
				row[x*4+1] = src[x*3+1]
				row[x*4+2] = src[x*3+2]
				row[x*4+3] = 0xFF
			}
		}
		return dst, nil
	}
	return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedMode, grid.Channels)
}
