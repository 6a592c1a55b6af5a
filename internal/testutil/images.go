package testutil

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
)

// PNGBytes encodes a tiny solid PNG.
func PNGBytes() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// PNGDataURI returns PNGBytes as a data URI.
func PNGDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(PNGBytes())
}
