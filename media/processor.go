package media

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"
)

const (
	DefaultPreviewWidth   = 1600
	DefaultPreviewQuality = 82
	PreviewFileExtension  = ".jpg"
)

// Processor generates downsized JPEG previews of originals. It relies on a
// Store implementation for saving the results and a Codec for pixel work.
type Processor struct {
	store    Store
	codec    Codec
	maxWidth int
	opts     EncodeOptions
	logger   *zap.Logger
}

func NewProcessor(store Store, codec Codec, maxWidth, quality int, logger *zap.Logger) *Processor {
	if maxWidth <= 0 {
		maxWidth = DefaultPreviewWidth
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultPreviewQuality
	}
	return &Processor{
		store:    store,
		codec:    codec,
		maxWidth: maxWidth,
		opts:     EncodeOptions{Quality: quality, Chroma: Chroma420},
		logger:   logger,
	}
}

// PreviewName is the file name of a photo's preview. It carries the
// configured maximum width, not the encoded width.
func (p *Processor) PreviewName(photoID string) string {
	return fmt.Sprintf("%s_%d%s", photoID, p.maxWidth, PreviewFileExtension)
}

// TargetWidth never upscales.
func TargetWidth(originalWidth, maxWidth int) int {
	return max(1, min(originalWidth, maxWidth))
}

// Probe returns the geometry of an original.
func (p *Processor) Probe(originalPath string) (Dimensions, error) {
	return p.codec.Probe(originalPath)
}

// EnsurePreview makes sure a preview for photoID exists. An existing preview
// is never regenerated. Returns the preview file name and whether it was
// generated by this call.
func (p *Processor) EnsurePreview(photoID, originalPath string) (string, bool, error) {
	name := p.PreviewName(photoID)

	exists, err := p.store.Exists(name)
	if err != nil {
		return "", false, fmt.Errorf("failed to check preview %s: %w", name, err)
	}
	if exists {
		return name, false, nil
	}

	dims, err := p.codec.Probe(originalPath)
	if err != nil {
		return "", false, fmt.Errorf("failed to probe original for preview: %w", err)
	}
	if dims.Width <= 0 || dims.Height <= 0 {
		return "", false, fmt.Errorf("invalid original image dimensions: %dx%d", dims.Width, dims.Height)
	}

	targetWidth := TargetWidth(dims.Width, p.maxWidth)
	encoded, err := p.codec.ResizeAndEncode(originalPath, targetWidth, p.opts)
	if err != nil {
		return "", false, fmt.Errorf("failed to generate preview for %s: %w", photoID, err)
	}

	savedPath, err := p.store.Save(name, bytes.NewReader(encoded))
	if err != nil {
		return "", false, fmt.Errorf("failed to save preview via store: %w", err)
	}

	p.logger.Info("processor: generated preview",
		zap.String("photo", photoID),
		zap.String("path", savedPath),
		zap.Int("width", targetWidth))
	return name, true, nil
}
