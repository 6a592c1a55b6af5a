// Package media decodes and encodes inline image payloads.
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"strings"

	_ "golang.org/x/image/webp" // register WebP decoder
)

// DefaultContentType is used when neither the caller nor the payload names a type.
const DefaultContentType = "image/jpeg"

// MaxImageBytes bounds a decoded inline image.
const MaxImageBytes = 8 << 20

var (
	// ErrNotDataURI is returned when the value is not an inline image.
	ErrNotDataURI = errors.New("not an image data URI")
	// ErrInvalidImage is returned when the payload does not decode as a supported image.
	ErrInvalidImage = errors.New("invalid image data")
	// ErrImageTooLarge is returned when the payload exceeds MaxImageBytes.
	ErrImageTooLarge = errors.New("image too large")
)

// Decoded is a verified inline image.
type Decoded struct {
	Data        []byte
	ContentType string
	Format      string
}

// IsDataURI reports whether s is an inline image payload.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:image")
}

// DecodeDataURI parses a data:image/...;base64, payload and verifies that the
// bytes are a png, jpeg, gif or webp image. declaredType overrides the media
// type embedded in the URI when it names an image type.
func DecodeDataURI(s, declaredType string) (*Decoded, error) {
	if !IsDataURI(s) {
		return nil, ErrNotDataURI
	}
	header, payload, ok := strings.Cut(s, ",")
	if !ok {
		return nil, ErrInvalidImage
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes+3 {
		return nil, ErrImageTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidImage
	}
	if len(data) > MaxImageBytes {
		return nil, ErrImageTooLarge
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImage
	}

	contentType := strings.ToLower(strings.TrimSpace(declaredType))
	if !strings.HasPrefix(contentType, "image/") {
		contentType = ""
	}
	if contentType == "" {
		contentType = headerType(header)
	}
	if contentType == "" {
		contentType = "image/" + format
	}

	return &Decoded{Data: data, ContentType: contentType, Format: format}, nil
}

// headerType extracts the media type from "data:image/png;base64".
func headerType(header string) string {
	mt := strings.TrimPrefix(header, "data:")
	mt, _, _ = strings.Cut(mt, ";")
	if !strings.HasPrefix(mt, "image/") {
		return ""
	}
	return mt
}

// EncodeDataURI renders data as a base64 data URI.
func EncodeDataURI(contentType string, data []byte) string {
	if contentType == "" {
		contentType = DefaultContentType
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
