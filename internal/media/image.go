package media

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	apperrors "agridynamic/internal/errors"
)

var allowedFormats = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/png":  imaging.PNG,
	"image/gif":  imaging.GIF,
	"image/webp": -1, // accepted as-is, never re-encoded
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ErrNotAnImage is returned for uploads whose content is not an accepted image type.
var ErrNotAnImage = apperrors.Validation("Only images (jpeg, jpg, png, gif, webp) are allowed.", "image")

// Inspector checks uploaded images and shrinks oversized ones.
type Inspector struct {
	maxBytes     int64
	maxDimension int
}

// NewInspector creates an inspector. maxDimension <= 0 disables resizing.
func NewInspector(maxBytes int64, maxDimension int) *Inspector {
	return &Inspector{maxBytes: maxBytes, maxDimension: maxDimension}
}

// Prepare sniffs the real content type of upload, enforces the size limit and
// downscales JPEG/PNG images larger than the configured dimension.
func (i *Inspector) Prepare(upload UploadedBytes) (UploadedBytes, error) {
	if i.maxBytes > 0 && int64(len(upload.Data)) > i.maxBytes {
		return UploadedBytes{}, apperrors.Validation(
			fmt.Sprintf("Image must be at most %d bytes.", i.maxBytes), "image")
	}

	contentType := mimetype.Detect(upload.Data).String()
	format, ok := allowedFormats[contentType]
	if !ok {
		return UploadedBytes{}, ErrNotAnImage
	}
	upload.ContentType = contentType

	if i.maxDimension <= 0 || format == imaging.GIF || format < 0 {
		return upload, nil
	}

	img, err := imaging.Decode(bytes.NewReader(upload.Data), imaging.AutoOrientation(true))
	if err != nil {
		return UploadedBytes{}, ErrNotAnImage
	}
	bounds := img.Bounds()
	if bounds.Dx() <= i.maxDimension && bounds.Dy() <= i.maxDimension {
		return upload, nil
	}

	resized := imaging.Fit(img, i.maxDimension, i.maxDimension, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format); err != nil {
		return UploadedBytes{}, fmt.Errorf("encode resized image: %w", err)
	}
	upload.Data = buf.Bytes()
	return upload, nil
}

// Extension returns the file extension for a sniffed content type.
func Extension(contentType string) string {
	if ext, ok := extensions[contentType]; ok {
		return ext
	}
	return ""
}
