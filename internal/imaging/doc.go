// Package imaging loads and saves cover and stego images and converts them to
// and from the raw channel grids used by package stego.
//
// Only lossless formats are handled: PNG and BMP. Any lossy re-encoding would
// destroy the low-order bits that carry the payload.
//
// # Color Modes
//
// Decoded images are accepted in two shapes:
//   - *image.RGBA that is fully opaque: treated as RGB (3 channels)
//   - *image.NRGBA: treated as RGBA (4 channels, alpha never modified)
//
// Paletted, grayscale, CMYK and 16-bit images are rejected with
// ErrUnsupportedMode. Converting them would change pixel values that the
// caller did not ask to change.
//
// # Resource Limits
//
// Image dimensions are read from the header before the pixel data is decoded.
// Images with fewer than Limits.MinPixels or more than Limits.MaxPixels pixels
// are rejected, so a tiny file that claims huge dimensions cannot exhaust
// memory.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Cached images are never
// modified: ToGrid always copies pixel data, so a stego operation on a cached
// image cannot leak into later calls.
//
// # Analysis
//
// Distortion and DiffImage compare a cover image with its stego counterpart.
// They report perceptual color difference (CIEDE2000) and render an amplified
// difference image showing where the payload went.
package imaging
