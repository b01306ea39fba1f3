package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/gallerymanifest/config"
	"github.com/camden-git/gallerymanifest/media"
	"github.com/camden-git/gallerymanifest/models"
)

func strPtr(s string) *string { return &s }

var testOpts = AssembleOptions{BaseURL: "https://cdn.example.com", DefaultAlbum: "set01"}

func testPhoto(id, filename string) Photo {
	return Photo{
		Original:    Original{ID: id, Filename: filename, Path: "/in/" + filename},
		PreviewName: id + "_1600.jpg",
		Dimensions:  media.Dimensions{Width: 4000, Height: 3000},
	}
}

func TestTitleFromID(t *testing.T) {
	assert.Equal(t, "sunset over bay", TitleFromID("sunset_over-bay"))
	assert.Equal(t, "a b", TitleFromID("a__-_b"))
	assert.Equal(t, " edge ", TitleFromID("_edge-"))
	assert.Equal(t, "plain", TitleFromID("plain"))
}

func TestAssembleEntryFallbacks(t *testing.T) {
	entry := AssembleEntry(testPhoto("sunset_over-bay", "sunset_over-bay.jpg"), models.NewSidecarEntry(), testOpts)

	assert.Equal(t, "sunset_over-bay", entry.ID)
	assert.Equal(t, "sunset over bay", entry.Title)
	assert.Equal(t, "", entry.Caption)
	assert.Equal(t, "set01", entry.Album)
	assert.Nil(t, entry.Location)
	assert.NotNil(t, entry.Tags)
	assert.Empty(t, entry.Tags)
	assert.Equal(t, "https://cdn.example.com/previews/sunset_over-bay_1600.jpg", entry.PreviewURL)
	assert.Equal(t, "https://cdn.example.com/originals/sunset_over-bay.jpg", entry.OriginalURL)
	assert.Equal(t, 4000, entry.Width)
	assert.Equal(t, 3000, entry.Height)
	assert.True(t, entry.Capture.IsEmpty())

	// zero value entry, as for a sidecar entry with tags: null
	entry = AssembleEntry(testPhoto("x", "x.png"), models.SidecarEntry{}, testOpts)
	assert.NotNil(t, entry.Tags)
}

func TestAssembleEntrySidecarPrecedence(t *testing.T) {
	manual := models.SidecarEntry{
		Title:    "Custom",
		Caption:  "Golden hour",
		Location: "Oakland",
		Tags:     []string{"sea", "dusk"},
		Album:    "bay",
	}
	photo := testPhoto("sunset_over-bay", "sunset_over-bay.jpg")
	photo.Capture = models.Capture{Camera: strPtr("X100V")}

	entry := AssembleEntry(photo, manual, testOpts)

	assert.Equal(t, "Custom", entry.Title)
	assert.Equal(t, "Golden hour", entry.Caption)
	require.NotNil(t, entry.Location)
	assert.Equal(t, "Oakland", *entry.Location)
	assert.Equal(t, []string{"sea", "dusk"}, entry.Tags)
	assert.Equal(t, "bay", entry.Album)
	assert.Equal(t, "X100V", *entry.Camera)
}

func entriesWithDates(dates map[string]string) []models.ManifestEntry {
	var entries []models.ManifestEntry
	for id, date := range dates {
		e := models.ManifestEntry{ID: id}
		if date != "" {
			e.DateTaken = strPtr(date)
		}
		entries = append(entries, e)
	}
	return entries
}

func ids(entries []models.ManifestEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestSortManifestByDate(t *testing.T) {
	entries := entriesWithDates(map[string]string{
		"jan":     "2024-01-01T00:00:00.000Z",
		"june":    "2024-06-01T00:00:00.000Z",
		"b":       "",
		"a":       "",
		"june-2":  "2024-06-01T00:00:00.000Z",
		"garbage": "not a date",
	})

	SortManifest(entries, config.SortByDate)
	assert.Equal(t, []string{"june", "june-2", "jan", "a", "b", "garbage"}, ids(entries))
}

func TestSortManifestUndatedByID(t *testing.T) {
	entries := entriesWithDates(map[string]string{"b": "", "a": ""})
	SortManifest(entries, config.SortByDate)
	assert.Equal(t, []string{"a", "b"}, ids(entries))
}

func TestSortManifestByID(t *testing.T) {
	entries := entriesWithDates(map[string]string{
		"img10": "2024-06-01T00:00:00.000Z",
		"img2":  "",
		"IMG1":  "",
	})
	SortManifest(entries, config.SortByID)
	assert.Equal(t, []string{"IMG1", "img10", "img2"}, ids(entries))
}

func TestSortManifestNatural(t *testing.T) {
	entries := entriesWithDates(map[string]string{
		"img10": "",
		"img2":  "",
		"img1":  "",
		"img01": "",
		"a":     "",
	})
	SortManifest(entries, config.SortByNatural)
	assert.Equal(t, []string{"a", "img01", "img1", "img2", "img10"}, ids(entries))
}

func TestWriteManifestFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")

	require.NoError(t, WriteManifest(path, nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	entry := AssembleEntry(testPhoto("a&b", "a&b.jpg"), models.NewSidecarEntry(), testOpts)
	entry.FocalLength = strPtr("50mm")
	require.NoError(t, WriteManifest(path, []models.ManifestEntry{entry}))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	want := `[
  {
    "id": "a&b",
    "title": "a&b",
    "caption": "",
    "previewUrl": "https://cdn.example.com/previews/a&b_1600.jpg",
    "originalUrl": "https://cdn.example.com/originals/a&b.jpg",
    "width": 4000,
    "height": 3000,
    "album": "set01",
    "location": null,
    "tags": [],
    "dateTaken": null,
    "camera": null,
    "lens": null,
    "focalLength": "50mm",
    "aperture": null,
    "iso": null,
    "shutterSpeed": null
  }
]`
	assert.Equal(t, want, string(data))
}
