package media

import (
	"bytes"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

const (
	DefaultThumbnailWidth  = 480
	DefaultThumbnailHeight = 360
	DefaultJPEGQuality     = 80
)

// FitBox scales w x h to fit within maxW x maxH keeping the aspect ratio.
// Results are rounded down to even numbers and never upscale.
func FitBox(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	if w <= maxW && h <= maxH {
		return w, h
	}
	var tw, th int
	if maxW*h <= maxH*w {
		tw = maxW
		th = maxW * h / w
	} else {
		th = maxH
		tw = maxH * w / h
	}
	tw = (tw / 2) * 2
	th = (th / 2) * 2
	if tw < 2 {
		tw = 2
	}
	if th < 2 {
		th = 2
	}
	return tw, th
}

// Downscale fits img into maxW x maxH. Images already inside the box are
// returned unchanged.
func Downscale(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := FitBox(b.Dx(), b.Dy(), maxW, maxH)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// EncodeJPEG encodes img at the given quality.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
