package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	DefaultInputDir     = "assets/originals"
	DefaultPreviewDir   = "assets/previews"
	DefaultManifestPath = "src/data/manifest.json"
	DefaultSidecarPath  = "src/data/photos.json"
	DefaultAlbum        = "set01"
)

const (
	defaultPreviewWidth   = 1600
	defaultPreviewQuality = 82
)

// SortOrder selects how manifest entries are ordered.
type SortOrder string

const (
	SortByDate    SortOrder = "date"    // newest capture date first, undated last
	SortByID      SortOrder = "id"      // lexicographic photo ID
	SortByNatural SortOrder = "natural" // natural order of photo ID (img2 < img10)
)

// ErrMissingBaseURL is returned by Validate when no asset base URL is configured.
var ErrMissingBaseURL = errors.New("R2_BASE_URL is not set")

type Config struct {
	// base URL the CDN serves previews/ and originals/ under
	BaseURL string

	// source directory of original images
	InputDir string

	// generated artifacts
	PreviewDir   string
	ManifestPath string
	SidecarPath  string

	// preview generation settings
	PreviewWidth   int
	PreviewQuality int

	DefaultAlbum string
	SortOrder    SortOrder

	// optional sqlite ledger of build runs, disabled when empty
	LedgerPath string

	// consumed by the renderer only
	AuthorName     string
	DownloadAllURL string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int, valid func(int) bool) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || !valid(val) {
		zap.L().Warn("invalid integer setting, using default",
			zap.String("env", envVar),
			zap.String("value", valStr),
			zap.Int("default", defaultVal),
			zap.Error(err))
		return defaultVal
	}
	return val
}

func absEnvPath(key, defaultValue string) (string, error) {
	raw := getEnvOrDefault(key, defaultValue)
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for %s '%s': %w", key, raw, err)
	}
	return abs, nil
}

// ParseSortOrder maps a textual order to a SortOrder. The boolean is false
// for unknown values.
func ParseSortOrder(s string) (SortOrder, bool) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortByDate:
		return SortByDate, true
	case SortByID:
		return SortByID, true
	case SortByNatural:
		return SortByNatural, true
	}
	return "", false
}

// NormalizeBaseURL trims whitespace and trailing slashes.
func NormalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

// LoadConfig reads the configuration from the environment. It does not check
// required fields; call Validate once all overrides are applied.
func LoadConfig() (Config, error) {
	inputDir, err := absEnvPath("INPUT_DIR", DefaultInputDir)
	if err != nil {
		return Config{}, err
	}
	previewDir, err := absEnvPath("PREVIEW_DIR", DefaultPreviewDir)
	if err != nil {
		return Config{}, err
	}
	manifestPath, err := absEnvPath("MANIFEST_PATH", DefaultManifestPath)
	if err != nil {
		return Config{}, err
	}
	sidecarPath, err := absEnvPath("PHOTO_METADATA_PATH", DefaultSidecarPath)
	if err != nil {
		return Config{}, err
	}

	sortRaw := getEnvOrDefault("MANIFEST_SORT", string(SortByDate))
	order, ok := ParseSortOrder(sortRaw)
	if !ok {
		zap.L().Warn("invalid MANIFEST_SORT, using default",
			zap.String("value", sortRaw),
			zap.String("default", string(SortByDate)))
		order = SortByDate
	}

	cfg := Config{
		BaseURL:        NormalizeBaseURL(os.Getenv("R2_BASE_URL")),
		InputDir:       inputDir,
		PreviewDir:     previewDir,
		ManifestPath:   manifestPath,
		SidecarPath:    sidecarPath,
		PreviewWidth:   getEnvIntOrDefault("PREVIEW_WIDTH", defaultPreviewWidth, func(v int) bool { return v > 0 }),
		PreviewQuality: getEnvIntOrDefault("PREVIEW_QUALITY", defaultPreviewQuality, func(v int) bool { return v >= 1 && v <= 100 }),
		DefaultAlbum:   getEnvOrDefault("DEFAULT_ALBUM", DefaultAlbum),
		SortOrder:      order,
		LedgerPath:     os.Getenv("BUILD_LEDGER_PATH"),
		AuthorName:     os.Getenv("AUTHOR_NAME"),
		DownloadAllURL: os.Getenv("DOWNLOAD_ALL_URL"),
	}

	return cfg, nil
}

// Validate reports configuration that makes a build impossible.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if c.PreviewWidth <= 0 {
		return fmt.Errorf("preview width must be positive, got %d", c.PreviewWidth)
	}
	if _, ok := ParseSortOrder(string(c.SortOrder)); !ok {
		return fmt.Errorf("unknown sort order %q", c.SortOrder)
	}
	return nil
}
