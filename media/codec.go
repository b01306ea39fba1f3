package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"
)

// Codec is the boundary to the image library: geometry probing and preview
// encoding. Implementations must not modify the original file.
type Codec interface {
	Probe(path string) (Dimensions, error)
	ResizeAndEncode(path string, targetWidth int, opts EncodeOptions) ([]byte, error)
}

// ImagingCodec implements Codec with disintegration/imaging.
type ImagingCodec struct{}

func NewImagingCodec() ImagingCodec {
	return ImagingCodec{}
}

// Probe reads only the image header.
func (ImagingCodec) Probe(path string) (Dimensions, error) {
	file, err := os.Open(path)
	if err != nil {
		return Dimensions{}, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer file.Close()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return Dimensions{}, fmt.Errorf("failed to decode image header of %s: %w", path, err)
	}
	return Dimensions{Width: config.Width, Height: config.Height}, nil
}

// ResizeAndEncode scales the image to targetWidth, keeping the aspect ratio,
// and encodes it as JPEG. The standard library encoder always writes 4:2:0
// for colour images, so that is the only chroma mode accepted.
func (ImagingCodec) ResizeAndEncode(path string, targetWidth int, opts EncodeOptions) ([]byte, error) {
	if opts.Chroma != Chroma420 {
		return nil, fmt.Errorf("unsupported chroma subsampling %q", opts.Chroma)
	}
	if targetWidth <= 0 {
		return nil, fmt.Errorf("invalid target width %d", targetWidth)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}

	origWidth := img.Bounds().Dx()
	if origWidth <= 0 || img.Bounds().Dy() <= 0 {
		return nil, fmt.Errorf("invalid original image dimensions: %dx%d", origWidth, img.Bounds().Dy())
	}
	var out image.Image = img
	if targetWidth != origWidth {
		out = imaging.Resize(img, targetWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(opts.Quality)); err != nil {
		return nil, fmt.Errorf("preview encoding failed for %s: %w", path, err)
	}
	return buf.Bytes(), nil
}
