// media/types.go
package media

type AssetType string

const (
	AssetTypePreview  AssetType = "preview"
	AssetTypeOriginal AssetType = "original"
)

// ChromaSubsampling names the JPEG chroma layout of an encoded preview.
type ChromaSubsampling string

const (
	Chroma420 ChromaSubsampling = "4:2:0"
)

// Dimensions of an image in pixels
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// EncodeOptions controls preview encoding
type EncodeOptions struct {
	Quality int
	Chroma  ChromaSubsampling
}
