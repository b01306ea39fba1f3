package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/camden-git/gallerymanifest/builder"
	"github.com/camden-git/gallerymanifest/config"
	"github.com/camden-git/gallerymanifest/database"
)

var buildFlags struct {
	input    string
	previews string
	manifest string
	sidecar  string
	baseURL  string
	sort     string
	ledger   string
}

func registerBuildFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&buildFlags.input, "input", "", "Originals directory (overrides INPUT_DIR)")
	f.StringVar(&buildFlags.previews, "previews", "", "Preview output directory (overrides PREVIEW_DIR)")
	f.StringVar(&buildFlags.manifest, "manifest", "", "Manifest output path (overrides MANIFEST_PATH)")
	f.StringVar(&buildFlags.sidecar, "sidecar", "", "Photo sidecar path (overrides PHOTO_METADATA_PATH)")
	f.StringVar(&buildFlags.baseURL, "base-url", "", "Asset base URL (overrides R2_BASE_URL)")
	f.StringVar(&buildFlags.sort, "sort", "", "Manifest order: date, id or natural (overrides MANIFEST_SORT)")
	f.StringVar(&buildFlags.ledger, "ledger", "", "Build ledger database (overrides BUILD_LEDGER_PATH)")
}

// resolveConfig loads the environment configuration and applies the flags
// the user actually set.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return config.Config{}, err
	}

	paths := []struct {
		flag   string
		value  string
		target *string
	}{
		{"input", buildFlags.input, &cfg.InputDir},
		{"previews", buildFlags.previews, &cfg.PreviewDir},
		{"manifest", buildFlags.manifest, &cfg.ManifestPath},
		{"sidecar", buildFlags.sidecar, &cfg.SidecarPath},
	}
	for _, p := range paths {
		if !cmd.Flags().Changed(p.flag) {
			continue
		}
		abs, err := filepath.Abs(p.value)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to get absolute path for --%s '%s': %w", p.flag, p.value, err)
		}
		*p.target = abs
	}

	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL = config.NormalizeBaseURL(buildFlags.baseURL)
	}
	if cmd.Flags().Changed("sort") {
		order, ok := config.ParseSortOrder(buildFlags.sort)
		if !ok {
			return config.Config{}, fmt.Errorf("unknown sort order %q", buildFlags.sort)
		}
		cfg.SortOrder = order
	}
	if cmd.Flags().Changed("ledger") {
		cfg.LedgerPath = buildFlags.ledger
	}

	return cfg, cfg.Validate()
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return err
	}

	logger.Debug("configuration loaded",
		zap.String("input", cfg.InputDir),
		zap.String("previews", cfg.PreviewDir),
		zap.String("manifest", cfg.ManifestPath),
		zap.String("sidecar", cfg.SidecarPath),
		zap.String("base_url", cfg.BaseURL),
		zap.Int("preview_width", cfg.PreviewWidth),
		zap.Int("preview_quality", cfg.PreviewQuality),
		zap.String("sort", string(cfg.SortOrder)),
		zap.String("author", cfg.AuthorName),
		zap.String("download_all_url", cfg.DownloadAllURL))

	b := builder.New(cfg, logger)
	if cfg.LedgerPath != "" {
		ledger, err := database.OpenLedger(cfg.LedgerPath, logger)
		if err != nil {
			logger.Warn("build ledger unavailable, continuing without it",
				zap.String("path", cfg.LedgerPath), zap.Error(err))
		} else {
			defer ledger.Close()
			b.Recorder = ledger
		}
	}

	report, err := b.Run()
	if err != nil {
		logger.Error("build failed", zap.Error(err))
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d photos to %s (sidecar +%d -%d, %d new previews) in %s\n",
		report.Photos, cfg.ManifestPath, report.Added, report.Removed, report.PreviewsGenerated,
		report.Duration.Round(time.Millisecond))
	return nil
}
