package imaging

import (
	"bytes"
	"image/png"
	"log/slog"

	"github.com/gabriel-vasile/mimetype"

	"pinstack-blog-service/internal/custom_errors"
	ports "pinstack-blog-service/internal/domain/ports/output"
)

// CanonicalContentType is the only image type accepted and stored.
const CanonicalContentType = "image/png"

// DefaultMaxPixels caps decoded images at 25 megapixels, at most 200MB of
// pixel data for 16-bit RGBA.
const DefaultMaxPixels int64 = 25_000_000

// PNGCodec sniffs, decodes and re-encodes every image, even ones that are
// already PNG, so stored files never carry the uploader's original bytes.
type PNGCodec struct {
	maxPixels int64
	log       ports.Logger
	encoder   png.Encoder
}

func NewPNGCodec(maxPixels int64, log ports.Logger) *PNGCodec {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &PNGCodec{
		maxPixels: maxPixels,
		log:       log,
		encoder:   png.Encoder{CompressionLevel: png.DefaultCompression},
	}
}

func (c *PNGCodec) Normalize(data []byte) ([]byte, error) {
	detected := mimetype.Detect(data)
	if !isCanonical(detected) {
		c.log.Debug("Rejected image with unexpected sniffed type", slog.String("detected", detected.String()))
		return nil, custom_errors.InvalidFileType()
	}

	// the decoder allocates the whole pixel buffer from the IHDR dimensions
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		c.log.Debug("Failed to read image header", slog.String("error", err.Error()))
		return nil, custom_errors.ImageDecode(err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > c.maxPixels {
		c.log.Info("Rejected image over pixel limit",
			slog.Int("width", cfg.Width),
			slog.Int("height", cfg.Height),
			slog.Int64("max_pixels", c.maxPixels))
		return nil, custom_errors.ImageTooLarge(cfg.Width, cfg.Height, c.maxPixels)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		c.log.Debug("Failed to decode image", slog.String("error", err.Error()))
		return nil, custom_errors.ImageDecode(err)
	}

	var buf bytes.Buffer
	if err := c.encoder.Encode(&buf, img); err != nil {
		c.log.Error("Failed to encode image", slog.String("error", err.Error()))
		return nil, custom_errors.Image(err)
	}

	return buf.Bytes(), nil
}

// isCanonical accepts PNG and its subtypes (APNG decodes as its first frame).
func isCanonical(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is(CanonicalContentType) {
			return true
		}
	}
	return false
}
