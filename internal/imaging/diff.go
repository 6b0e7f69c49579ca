package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/fcolor"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// DistortionResult summarises how far a stego image departs from its cover.
type DistortionResult struct {
	// Pixels is the number of pixels compared.
	Pixels int `json:"pixels"`

	// ChangedPixels counts pixels where any channel differs.
	ChangedPixels int `json:"changed_pixels"`

	// ChangedChannels counts individual R, G, B or A values that differ.
	ChangedChannels int `json:"changed_channels"`

	// MaxChannelDelta is the largest absolute difference of a single channel (0-255).
	MaxChannelDelta int `json:"max_channel_delta"`

	// MeanDeltaE is the CIEDE2000 color difference averaged over all pixels.
	// Values below about 1.0 are not perceptible to the human eye.
	MeanDeltaE float64 `json:"mean_delta_e"`

	// MaxDeltaE is the largest CIEDE2000 difference of any single pixel.
	MaxDeltaE float64 `json:"max_delta_e"`

	// PSNR is the peak signal-to-noise ratio over RGB in decibels. Omitted
	// when the images are identical.
	PSNR *float64 `json:"psnr_db,omitempty"`
}

// Distortion compares cover and stego pixel by pixel. Both images must have
// the same dimensions.
func Distortion(cover, stego image.Image) (*DistortionResult, error) {
	cb, sb := cover.Bounds(), stego.Bounds()
	if cb.Dx() != sb.Dx() || cb.Dy() != sb.Dy() {
		return nil, fmt.Errorf("image sizes differ: %dx%d vs %dx%d", cb.Dx(), cb.Dy(), sb.Dx(), sb.Dy())
	}

	res := &DistortionResult{Pixels: cb.Dx() * cb.Dy()}
	var sumDeltaE, sumSquares float64

	for y := 0; y < cb.Dy(); y++ {
		for x := 0; x < cb.Dx(); x++ {
			c0 := color.NRGBAModel.Convert(cover.At(cb.Min.X+x, cb.Min.Y+y)).(color.NRGBA)
			c1 := color.NRGBAModel.Convert(stego.At(sb.Min.X+x, sb.Min.Y+y)).(color.NRGBA)
			if c0 == c1 {
				continue
			}
			res.ChangedPixels++

			for i, d := range [4]int{
				int(c0.R) - int(c1.R),
				int(c0.G) - int(c1.G),
				int(c0.B) - int(c1.B),
				int(c0.A) - int(c1.A),
			} {
				if d == 0 {
					continue
				}
				res.ChangedChannels++
				if d < 0 {
					d = -d
				}
				if d > res.MaxChannelDelta {
					res.MaxChannelDelta = d
				}
				if i < 3 {
					sumSquares += float64(d * d)
				}
			}

			de := toColorful(c0).DistanceCIEDE2000(toColorful(c1))
			sumDeltaE += de
			if de > res.MaxDeltaE {
				res.MaxDeltaE = de
			}
		}
	}

	if res.Pixels > 0 {
		res.MeanDeltaE = sumDeltaE / float64(res.Pixels)
	}
	if sumSquares > 0 {
		mse := sumSquares / float64(res.Pixels*3)
		psnr := 10 * math.Log10(255*255/mse)
		res.PSNR = &psnr
	}
	return res, nil
}

// toColorful ignores alpha; only the color channels carry visible change.
func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// DiffImageResult contains an amplified difference image.
type DiffImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Gain        int    `json:"gain"`
}

// DiffImage renders |cover - stego| per channel, multiplied by gain so that
// low-bit changes become visible, as a base64 PNG. gain is clamped to 1-255.
// Alpha is ignored, so changes in transparent pixels still show.
func DiffImage(cover, stego image.Image, gain int) (*DiffImageResult, error) {
	cb, sb := cover.Bounds(), stego.Bounds()
	if cb.Dx() != sb.Dx() || cb.Dy() != sb.Dy() {
		return nil, fmt.Errorf("image sizes differ: %dx%d vs %dx%d", cb.Dx(), cb.Dy(), sb.Dx(), sb.Dy())
	}
	if gain < 1 {
		gain = 1
	}
	if gain > 0xFF {
		gain = 0xFF
	}

	diff := blend.Blend(opaque(cover), opaque(stego), absDiff)
	amplified := adjust.Apply(diff, func(c color.RGBA) color.RGBA {
		return color.RGBA{
			R: amplify(c.R, gain),
			G: amplify(c.G, gain),
			B: amplify(c.B, gain),
			A: 0xFF,
		}
	})

	var buf bytes.Buffer
	if err := png.Encode(&buf, amplified); err != nil {
		return nil, fmt.Errorf("failed to encode diff image: %w", err)
	}

	return &DiffImageResult{
		Width:       amplified.Bounds().Dx(),
		Height:      amplified.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Gain:        gain,
	}, nil
}

// absDiff is the per-channel |bg - fg|. Half a step is added because Blend
// truncates when converting back to 8 bits, which would turn some one-unit
// differences into zero.
func absDiff(bg, fg fcolor.RGBAF64) fcolor.RGBAF64 {
	const half = 0.5 / 255
	return fcolor.RGBAF64{
		R: math.Abs(bg.R-fg.R) + half,
		G: math.Abs(bg.G-fg.G) + half,
		B: math.Abs(bg.B-fg.B) + half,
		A: 1,
	}
}

// opaque copies img with every alpha set to 0xFF, keeping the straight RGB
// values. Payload bits in transparent pixels would otherwise vanish when
// blend premultiplies by alpha.
func opaque(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xFF
	}
	return dst
}

func amplify(v uint8, gain int) uint8 {
	if n := int(v) * gain; n < 0xFF {
		return uint8(n)
	}
	return 0xFF
}
