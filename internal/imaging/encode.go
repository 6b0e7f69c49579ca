package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/disintegration/imaging"
)

// Encode writes img to w in the format implied by filename (.png or .bmp).
func Encode(w io.Writer, img image.Image, filename string) error {
	if _, err := FormatFromPath(filename); err != nil {
		return err
	}
	format, err := imaging.FormatFromFilename(filename)
	if err != nil {
		return fmt.Errorf("failed to determine output format: %w", err)
	}
	if err := imaging.Encode(w, img, format, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// SaveImage encodes img to path, replacing any existing file only once the
// encoding has succeeded.
func SaveImage(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := Encode(&buf, img, path); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}
