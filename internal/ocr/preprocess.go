package ocr

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
)

// maxEdgePx caps the long edge sent to the cloud engine. Phone photos are
// routinely 4000px+; downscaling cuts upload time without hurting OCR.
const maxEdgePx = 2048

// downscale re-encodes oversized images to fit maxEdgePx. Any decode or
// encode failure returns the original bytes untouched: preprocessing is an
// optimization, never a gate.
func downscale(data []byte) ([]byte, string) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return data, ""
	}
	b := img.Bounds()
	if b.Dx() <= maxEdgePx && b.Dy() <= maxEdgePx {
		return data, ""
	}

	var resized image.Image
	if b.Dx() >= b.Dy() {
		resized = imaging.Resize(img, maxEdgePx, 0, imaging.Lanczos)
	} else {
		resized = imaging.Resize(img, 0, maxEdgePx, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return data, ""
	}
	return buf.Bytes(), "image/png"
}
