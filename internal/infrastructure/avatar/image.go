// Package avatar resizes uploaded avatar images in a background worker pool.
package avatar

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"github.com/d8nd8/python-final-diplom/internal/domain/identity"
	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"golang.org/x/image/draw"
)

// Supported source formats, as reported by image.DecodeConfig
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatGIF  = "gif"
)

// Error codes
const (
	ErrCodeUnsupportedImage = "UNSUPPORTED_IMAGE"
	ErrCodeImageTooLarge    = "IMAGE_TOO_LARGE"
)

// Variant is one resized rendition of an avatar
type Variant struct {
	Name string
	Size int // square edge in pixels
}

// Variants lists the renditions produced for every upload, smallest first
var Variants = []Variant{
	{Name: identity.AvatarSmall, Size: 100},
	{Name: identity.AvatarMedium, Size: 200},
	{Name: identity.AvatarLarge, Size: 400},
}

// Validate checks the upload size and that the payload is a JPEG, PNG or GIF image.
// It only reads the image header.
func Validate(data []byte, maxSize int64) (string, error) {
	if len(data) == 0 {
		return "", shared.NewDomainError(ErrCodeUnsupportedImage, "Avatar file is empty")
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return "", shared.NewDomainError(ErrCodeImageTooLarge,
			fmt.Sprintf("Avatar must not exceed %d bytes", maxSize))
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", shared.NewDomainError(ErrCodeUnsupportedImage, "Avatar must be a JPEG, PNG or GIF image")
	}
	switch format {
	case FormatJPEG, FormatPNG, FormatGIF:
	default:
		return "", shared.NewDomainError(ErrCodeUnsupportedImage, "Avatar must be a JPEG, PNG or GIF image")
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return "", shared.NewDomainError(ErrCodeUnsupportedImage, "Avatar image has no pixels")
	}
	return format, nil
}

// Decode reads the full image
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode avatar: %w", err)
	}
	return img, format, nil
}

// Resize center-crops src to a square and scales it to size x size
func Resize(src image.Image, size int) image.Image {
	b := src.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	crop := image.Rect(x0, y0, x0+side, y0+side)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)
	return dst
}

// Encode writes img as JPEG when the source was JPEG and as PNG otherwise.
// Returns the encoded bytes, the content type and the file extension.
func Encode(img image.Image, sourceFormat string) ([]byte, string, string, error) {
	var buf bytes.Buffer
	if sourceFormat == FormatJPEG {
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			return nil, "", "", fmt.Errorf("encode jpeg: %w", err)
		}
		return buf.Bytes(), "image/jpeg", "jpg", nil
	}
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", "", fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), "image/png", "png", nil
}
