package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/camden-git/gallerymanifest/config"
)

func clearBuildEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"R2_BASE_URL", "INPUT_DIR", "PREVIEW_DIR", "MANIFEST_PATH", "PHOTO_METADATA_PATH",
		"PREVIEW_WIDTH", "PREVIEW_QUALITY", "DEFAULT_ALBUM", "MANIFEST_SORT",
		"BUILD_LEDGER_PATH", "AUTHOR_NAME", "DOWNLOAD_ALL_URL",
	} {
		t.Setenv(key, "")
	}
}

func newBuildCmd(t *testing.T, flags map[string]string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	cmd := &cobra.Command{}
	registerBuildFlags(cmd)
	for name, value := range flags {
		require.NoError(t, cmd.Flags().Set(name, value))
	}
	var out bytes.Buffer
	cmd.SetOut(&out)
	return cmd, &out
}

func TestResolveConfigFlagsOverrideEnvironment(t *testing.T) {
	clearBuildEnv(t)
	t.Setenv("R2_BASE_URL", "https://env.example.com")
	t.Setenv("MANIFEST_SORT", "id")
	dir := t.TempDir()

	cmd, _ := newBuildCmd(t, map[string]string{
		"base-url": "https://flag.example.com/",
		"input":    dir,
		"sort":     "Natural",
	})
	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, "https://flag.example.com", cfg.BaseURL)
	assert.Equal(t, dir, cfg.InputDir)
	assert.Equal(t, config.SortByNatural, cfg.SortOrder)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, config.DefaultPreviewDir), cfg.PreviewDir, "unset flags keep the environment value")
}

func TestResolveConfigErrors(t *testing.T) {
	clearBuildEnv(t)

	cmd, _ := newBuildCmd(t, nil)
	_, err := resolveConfig(cmd)
	assert.ErrorIs(t, err, config.ErrMissingBaseURL)

	cmd, _ = newBuildCmd(t, map[string]string{"base-url": "https://x", "sort": "random"})
	_, err = resolveConfig(cmd)
	assert.ErrorContains(t, err, "unknown sort order")
}

func TestBuildThenHistory(t *testing.T) {
	logger = zap.NewNop()
	clearBuildEnv(t)

	root := t.TempDir()
	input := filepath.Join(root, "originals")
	require.NoError(t, os.MkdirAll(input, 0755))
	f, err := os.Create(filepath.Join(input, "harbor.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 8, 6))))
	require.NoError(t, f.Close())

	ledgerPath := filepath.Join(root, "ledger.db")
	manifestPath := filepath.Join(root, "data", "manifest.json")
	cmd, out := newBuildCmd(t, map[string]string{
		"base-url": "https://cdn.example.com",
		"input":    input,
		"previews": filepath.Join(root, "previews"),
		"manifest": manifestPath,
		"sidecar":  filepath.Join(root, "data", "photos.json"),
		"ledger":   ledgerPath,
	})
	require.NoError(t, runBuild(cmd, nil))
	assert.Contains(t, out.String(), "Wrote 1 photos")

	data, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id": "harbor"`)

	history := &cobra.Command{}
	history.Flags().StringVar(&buildFlags.ledger, "ledger", "", "")
	require.NoError(t, history.Flags().Set("ledger", ledgerPath))
	var historyOut bytes.Buffer
	history.SetOut(&historyOut)
	historyLimit = 5

	require.NoError(t, runHistory(history, nil))
	assert.Contains(t, historyOut.String(), "STARTED")
	assert.Contains(t, historyOut.String(), "date")
}

func TestHistoryRequiresLedger(t *testing.T) {
	logger = zap.NewNop()
	clearBuildEnv(t)

	history := &cobra.Command{}
	history.Flags().StringVar(&buildFlags.ledger, "ledger", "", "")
	err := runHistory(history, nil)
	assert.ErrorContains(t, err, "no build ledger configured")
}

func TestBuildSubcommand(t *testing.T) {
	clearBuildEnv(t)

	root := t.TempDir()
	input := filepath.Join(root, "originals")
	require.NoError(t, os.MkdirAll(input, 0755))
	f, err := os.Create(filepath.Join(input, "pier.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 4, 4))))
	require.NoError(t, f.Close())

	manifestPath := filepath.Join(root, "data", "manifest.json")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"build",
		"--base-url", "https://cdn.example.com",
		"--input", input,
		"--previews", filepath.Join(root, "previews"),
		"--manifest", manifestPath,
		"--sidecar", filepath.Join(root, "data", "photos.json"),
	})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Wrote 1 photos")

	data, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id": "pier"`)
}
