package builder

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/facette/natsort"

	"github.com/camden-git/gallerymanifest/config"
	"github.com/camden-git/gallerymanifest/media"
	"github.com/camden-git/gallerymanifest/models"
	"github.com/camden-git/gallerymanifest/utils"
)

var separatorRuns = regexp.MustCompile(`[_-]+`)

// TitleFromID derives a display title from a photo ID.
func TitleFromID(id string) string {
	return separatorRuns.ReplaceAllString(id, " ")
}

// Photo is everything probed from disk for one original.
type Photo struct {
	Original
	PreviewName string
	Dimensions  media.Dimensions
	Capture     models.Capture
}

// AssembleOptions carries the run-wide settings used when building entries.
type AssembleOptions struct {
	BaseURL      string
	DefaultAlbum string
}

// AssembleEntry merges probed data with the sidecar entry. Non-empty sidecar
// values win over the fallbacks.
func AssembleEntry(photo Photo, manual models.SidecarEntry, opts AssembleOptions) models.ManifestEntry {
	title := manual.Title
	if title == "" {
		title = TitleFromID(photo.ID)
	}
	album := manual.Album
	if album == "" {
		album = opts.DefaultAlbum
	}
	var location *string
	if manual.Location != "" {
		loc := manual.Location
		location = &loc
	}
	tags := manual.Tags
	if tags == nil {
		tags = []string{}
	}

	return models.ManifestEntry{
		ID:          photo.ID,
		Title:       title,
		Caption:     manual.Caption,
		PreviewURL:  media.AssetURL(opts.BaseURL, media.AssetTypePreview, photo.PreviewName),
		OriginalURL: media.AssetURL(opts.BaseURL, media.AssetTypeOriginal, photo.Filename),
		Width:       photo.Dimensions.Width,
		Height:      photo.Dimensions.Height,
		Album:       album,
		Location:    location,
		Tags:        tags,
		Capture:     photo.Capture,
	}
}

func dateTaken(e models.ManifestEntry) (time.Time, bool) {
	if e.DateTaken == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, *e.DateTaken)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SortManifest orders entries in place. Every order ends in a comparison of
// IDs, which are unique, so the result does not depend on input order.
func SortManifest(entries []models.ManifestEntry, order config.SortOrder) {
	switch order {
	case config.SortByID:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].ID < entries[j].ID
		})
	case config.SortByNatural:
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := entries[i].ID, entries[j].ID
			// natsort.Compare is not strict: equal-valued numbers ("01", "1")
			// compare less in both directions
			lt, gt := natsort.Compare(a, b), natsort.Compare(b, a)
			if lt != gt {
				return lt
			}
			return a < b
		})
	default:
		sort.SliceStable(entries, func(i, j int) bool {
			ti, iDated := dateTaken(entries[i])
			tj, jDated := dateTaken(entries[j])
			switch {
			case iDated && jDated && !ti.Equal(tj):
				return ti.After(tj)
			case iDated != jDated:
				return iDated
			}
			return entries[i].ID < entries[j].ID
		})
	}
}

// WriteManifest persists the manifest as an indented JSON array.
func WriteManifest(path string, entries []models.ManifestEntry) error {
	if entries == nil {
		entries = []models.ManifestEntry{}
	}
	data, err := encodeJSON(entries)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := utils.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}
