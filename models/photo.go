package models

// Capture holds the EXIF capture metadata published for a photo. Every field
// is nullable; nil is written as JSON null.
type Capture struct {
	DateTaken    *string  `json:"dateTaken"`    // ISO-8601, UTC
	Camera       *string  `json:"camera"`       // EXIF Model
	Lens         *string  `json:"lens"`         // EXIF LensModel
	FocalLength  *string  `json:"focalLength"`  // e.g. "50mm"
	Aperture     *float64 `json:"aperture"`     // F-number
	ISO          *int     `json:"iso"`          // ISOSpeedRatings
	ShutterSpeed *float64 `json:"shutterSpeed"` // exposure time in seconds
}

// IsEmpty reports whether no capture field is set.
func (c Capture) IsEmpty() bool {
	return c == Capture{}
}

// SidecarEntry is the hand-authored part of a photo's description, stored in
// the sidecar file keyed by photo ID.
type SidecarEntry struct {
	Title    string   `json:"title"`
	Caption  string   `json:"caption"`
	Location string   `json:"location"`
	Tags     []string `json:"tags"`
	Album    string   `json:"album,omitempty"`
}

// NewSidecarEntry returns the entry written for a photo seen for the first time.
func NewSidecarEntry() SidecarEntry {
	return SidecarEntry{Tags: []string{}}
}

// ManifestEntry is the published record for one photo. Field names are read
// directly by the gallery front-end and must stay stable.
type ManifestEntry struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Caption     string   `json:"caption"`
	PreviewURL  string   `json:"previewUrl"`
	OriginalURL string   `json:"originalUrl"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Album       string   `json:"album"`
	Location    *string  `json:"location"`
	Tags        []string `json:"tags"`

	Capture
}
