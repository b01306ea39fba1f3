package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/camden-git/gallerymanifest/config"
	"github.com/camden-git/gallerymanifest/media"
	"github.com/camden-git/gallerymanifest/models"
	"github.com/camden-git/gallerymanifest/utils"
)

// RunRecorder receives a summary of every successful build.
type RunRecorder interface {
	RecordBuildRun(run *models.BuildRun) error
}

// Report summarises one build for the operator.
type Report struct {
	Photos            int
	Added             int
	Removed           int
	PreviewsGenerated int
	StartedAt         time.Time
	Duration          time.Duration
}

// Builder runs the manifest pipeline once, sequentially, photo by photo.
type Builder struct {
	Cfg       config.Config
	Codec     media.Codec
	Extractor utils.MetadataExtractor
	Recorder  RunRecorder // optional
	Logger    *zap.Logger
}

// New returns a Builder wired to the imaging codec and the EXIF extractor.
func New(cfg config.Config, logger *zap.Logger) *Builder {
	return &Builder{
		Cfg:       cfg,
		Codec:     media.NewImagingCodec(),
		Extractor: utils.NewExifExtractor(logger),
		Logger:    logger,
	}
}

// Run scans the input directory, makes sure every original has a preview,
// reconciles the sidecar and writes the sidecar and manifest. Nothing is
// written unless every photo was processed.
func (b *Builder) Run() (Report, error) {
	if err := b.Cfg.Validate(); err != nil {
		return Report{}, fmt.Errorf("invalid configuration: %w", err)
	}
	started := time.Now()

	for _, dir := range []string{filepath.Dir(b.Cfg.ManifestPath), filepath.Dir(b.Cfg.SidecarPath)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Report{}, fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	store, err := media.NewLocalStorage(b.Cfg.PreviewDir, b.Logger)
	if err != nil {
		return Report{}, fmt.Errorf("failed to initialize preview store: %w", err)
	}
	processor := media.NewProcessor(store, b.Codec, b.Cfg.PreviewWidth, b.Cfg.PreviewQuality, b.Logger)

	originals, err := Scan(b.Cfg.InputDir, b.Logger)
	if err != nil {
		return Report{}, err
	}
	b.Logger.Info("builder: scanned input directory",
		zap.String("path", b.Cfg.InputDir),
		zap.Int("originals", len(originals)))

	existing := LoadSidecar(b.Cfg.SidecarPath, b.Logger)

	photos := make([]Photo, 0, len(originals))
	generated := 0
	for _, original := range originals {
		photo, isNew, err := b.processPhoto(processor, original)
		if err != nil {
			return Report{}, err
		}
		if isNew {
			generated++
		}
		photos = append(photos, photo)
	}

	reconciled, err := Reconcile(existing, IDs(originals))
	if err != nil {
		return Report{}, err
	}

	opts := AssembleOptions{BaseURL: b.Cfg.BaseURL, DefaultAlbum: b.Cfg.DefaultAlbum}
	entries := make([]models.ManifestEntry, 0, len(photos))
	for _, photo := range photos {
		manual, _ := reconciled.Sidecar.Entry(photo.ID)
		entries = append(entries, AssembleEntry(photo, manual, opts))
	}
	SortManifest(entries, b.Cfg.SortOrder)

	if err := WriteSidecar(b.Cfg.SidecarPath, reconciled.Sidecar); err != nil {
		return Report{}, err
	}
	b.Logger.Info("builder: updated sidecar",
		zap.String("path", b.Cfg.SidecarPath),
		zap.Int("added", reconciled.Added),
		zap.Int("removed", reconciled.Removed))

	if err := WriteManifest(b.Cfg.ManifestPath, entries); err != nil {
		return Report{}, err
	}
	b.Logger.Info("builder: wrote manifest",
		zap.String("path", b.Cfg.ManifestPath),
		zap.Int("photos", len(entries)),
		zap.String("sort", string(b.Cfg.SortOrder)))

	report := Report{
		Photos:            len(entries),
		Added:             reconciled.Added,
		Removed:           reconciled.Removed,
		PreviewsGenerated: generated,
		StartedAt:         started,
		Duration:          time.Since(started),
	}
	b.record(report)
	return report, nil
}

// processPhoto runs every per-photo step; any error aborts the build.
func (b *Builder) processPhoto(processor *media.Processor, original Original) (Photo, bool, error) {
	previewName, isNew, err := processor.EnsurePreview(original.ID, original.Path)
	if err != nil {
		return Photo{}, false, fmt.Errorf("preview for %s: %w", original.Filename, err)
	}

	dims, err := processor.Probe(original.Path)
	if err != nil {
		return Photo{}, false, fmt.Errorf("probe %s: %w", original.Filename, err)
	}

	data, err := os.ReadFile(original.Path)
	if err != nil {
		return Photo{}, false, fmt.Errorf("read %s: %w", original.Filename, err)
	}
	capture := b.Extractor.Extract(data)
	if capture.IsEmpty() {
		b.Logger.Debug("builder: no capture metadata", zap.String("photo", original.ID))
	}

	return Photo{
		Original:    original,
		PreviewName: previewName,
		Dimensions:  dims,
		Capture:     capture,
	}, isNew, nil
}

// record stores the run in the ledger. The manifest is already published at
// this point, so a ledger failure only warns.
func (b *Builder) record(report Report) {
	if b.Recorder == nil {
		return
	}
	finished := report.StartedAt.Add(report.Duration)
	run := &models.BuildRun{
		StartedAt:         report.StartedAt.Unix(),
		FinishedAt:        finished.Unix(),
		DurationMillis:    report.Duration.Milliseconds(),
		Photos:            report.Photos,
		SidecarAdded:      report.Added,
		SidecarRemoved:    report.Removed,
		PreviewsGenerated: report.PreviewsGenerated,
		ManifestPath:      b.Cfg.ManifestPath,
		SortOrder:         string(b.Cfg.SortOrder),
	}
	if err := b.Recorder.RecordBuildRun(run); err != nil {
		b.Logger.Warn("builder: failed to record build run", zap.Error(err))
	}
}
