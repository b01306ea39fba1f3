package media

import (
	"net/url"
	"strings"
)

// remoteDirs maps asset types to their directory on the CDN
var remoteDirs = map[AssetType]string{
	AssetTypePreview:  "previews",
	AssetTypeOriginal: "originals",
}

// AssetURL builds the public URL of an asset: <base>/<dir>/<escaped name>.
func AssetURL(baseURL string, assetType AssetType, name string) string {
	dir, ok := remoteDirs[assetType]
	if !ok {
		dir = string(assetType)
	}
	return strings.TrimRight(baseURL, "/") + "/" + dir + "/" + url.PathEscape(name)
}
