package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/png" // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp" // Register BMP format decoder

	"github.com/ironsheep/image-stego/internal/stego"
)

var (
	// ErrUnsupportedFormat is returned for files that are not .png or .bmp.
	ErrUnsupportedFormat = errors.New("invalid extension")

	// ErrUnsupportedMode is returned for images that are neither RGB nor RGBA.
	ErrUnsupportedMode = errors.New("invalid image mode")

	// ErrTooFewPixels matches *PixelCountError for undersized images.
	ErrTooFewPixels = errors.New("need more pixels")

	// ErrTooManyPixels matches *PixelCountError for oversized images.
	ErrTooManyPixels = errors.New("image exceeds pixel limit")
)

// PixelCountError reports an image whose pixel count is outside Limits.
type PixelCountError struct {
	Pixels int
	Limit  int
	kind   error
}

func (e *PixelCountError) Error() string {
	if e.kind == ErrTooFewPixels {
		return fmt.Sprintf("%v: %d", e.kind, e.Limit-e.Pixels)
	}
	return fmt.Sprintf("%v: %d pixels (limit %d)", e.kind, e.Pixels, e.Limit)
}

func (e *PixelCountError) Unwrap() error { return e.kind }

// Limits bounds the pixel count of images the loader will decode.
type Limits struct {
	// MinPixels is the smallest accepted width*height.
	MinPixels int

	// MaxPixels is the largest accepted width*height. Zero disables the check.
	MaxPixels int
}

// DefaultLimits are used by NewImageCache.
var DefaultLimits = Limits{
	MinPixels: 16,
	MaxPixels: 89_478_485,
}

// ImageCache provides thread-safe caching of loaded images to avoid redundant disk reads.
//
// The cache stores decoded image.Image objects keyed by their file path. Once an image
// is loaded, subsequent Load() calls for the same path return the cached copy without
// disk I/O. Images that fail format, size or mode checks are never cached.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/cover.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	grid, err := imaging.ToGrid(img)
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
	limits Limits
}

// NewImageCache creates an empty cache that enforces DefaultLimits.
func NewImageCache() *ImageCache {
	return NewImageCacheWithLimits(DefaultLimits)
}

// NewImageCacheWithLimits creates an empty cache that enforces limits.
func NewImageCacheWithLimits(limits Limits) *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
		limits: limits,
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// The path must end in .png or .bmp (any case). The file is rejected before
// decoding if its header reports a pixel count outside the cache's limits.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := OpenImage(path, c.limits)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// Callers that overwrite an image file should evict it so the next Load
// sees the new contents.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// FormatFromPath returns "png" or "bmp" for a supported file name.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png", nil
	case ".bmp":
		return "bmp", nil
	}
	return "", fmt.Errorf("%w: %q (want .png or .bmp)", ErrUnsupportedFormat, filepath.Ext(path))
}

// OpenImage reads and decodes the image at path, enforcing limits.
func OpenImage(path string, limits Limits) (image.Image, error) {
	if _, err := FormatFromPath(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return Decode(f, limits)
}

// Decode checks the header of r against limits and then decodes the image.
func Decode(r io.ReadSeeker, limits Limits) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}
	if err := limits.check(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind image: %w", err)
	}
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func (l Limits) check(width, height int) error {
	px := width * height
	if px < l.MinPixels {
		return &PixelCountError{Pixels: px, Limit: l.MinPixels, kind: ErrTooFewPixels}
	}
	// Compare against the limit by division so width*height cannot overflow
	// past the check on 32-bit platforms.
	if l.MaxPixels > 0 && height > 0 && width > l.MaxPixels/height {
		return &PixelCountError{Pixels: px, Limit: l.MaxPixels, kind: ErrTooManyPixels}
	}
	return nil
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Pixels is Width * Height.
	Pixels int `json:"pixels"`

	// Format is "png" or "bmp", taken from the file extension.
	Format string `json:"format"`

	// Mode is "RGB" or "RGBA".
	Mode string `json:"mode"`

	// HasAlpha indicates whether the image has an alpha (transparency) channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// Bits is the channel configuration Capacity was computed for.
	Bits string `json:"bits"`

	// Capacity is the number of message characters the image can hold under
	// Bits. It is negative when not even the terminator fits.
	Capacity int `json:"capacity"`
}

// LoadImageInfo loads an image and reports its metadata and the message
// capacity for cfg.
func LoadImageInfo(cache *ImageCache, path string, cfg stego.BitConfig) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	channels, err := ChannelCount(img)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format, _ := FormatFromPath(path)
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()

	mode := "RGB"
	if channels == 4 {
		mode = "RGBA"
	}

	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Pixels:        pixels,
		Format:        format,
		Mode:          mode,
		HasAlpha:      channels == 4,
		FileSizeBytes: stat.Size(),
		Bits:          cfg.String(),
		Capacity:      stego.Capacity(pixels, cfg, stego.Terminator),
	}, nil
}
