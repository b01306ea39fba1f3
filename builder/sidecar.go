package builder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/camden-git/gallerymanifest/models"
	"github.com/camden-git/gallerymanifest/utils"
)

// Sidecar maps photo IDs to their hand-authored entries. Values are kept as
// raw JSON so fields this tool does not know about survive a rewrite.
type Sidecar map[string]json.RawMessage

// Entry decodes the entry for id. ok is false when the ID is absent or its
// value is null or not an object.
func (s Sidecar) Entry(id string) (models.SidecarEntry, bool) {
	raw, present := s[id]
	if !present {
		return models.SidecarEntry{}, false
	}
	return decodeSidecarEntry(raw)
}

// decodeSidecarEntry decodes field by field so one mistyped value in a
// hand-written entry does not discard the others.
func decodeSidecarEntry(raw json.RawMessage) (models.SidecarEntry, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return models.SidecarEntry{}, false
	}

	var entry models.SidecarEntry
	decodeField(fields, "title", &entry.Title)
	decodeField(fields, "caption", &entry.Caption)
	decodeField(fields, "location", &entry.Location)
	decodeField(fields, "album", &entry.Album)
	if !decodeField(fields, "tags", &entry.Tags) {
		entry.Tags = nil
	}
	return entry, true
}

func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	*dst = v
	return true
}

// LoadSidecar reads the sidecar file. A missing or unparseable file is not an
// error: the build starts from an empty mapping.
func LoadSidecar(path string, logger *zap.Logger) Sidecar {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Info("sidecar: no metadata file found, will create new one",
			zap.String("path", path), zap.Error(err))
		return Sidecar{}
	}

	var sidecar Sidecar
	if err := json.Unmarshal(data, &sidecar); err != nil || sidecar == nil {
		logger.Info("sidecar: metadata file is not a JSON object, starting from empty",
			zap.String("path", path), zap.Error(err))
		return Sidecar{}
	}
	return sidecar
}

// Reconciliation is the sidecar rebuilt for the current set of photos.
type Reconciliation struct {
	Sidecar Sidecar
	Added   int // IDs that received a default entry
	Removed int // stale IDs dropped
}

// Reconcile runs in two phases: default entries are filled in for new IDs,
// then the mapping is rebuilt to hold exactly ids. Existing entries are
// carried over byte for byte. existing is not modified.
func Reconcile(existing Sidecar, ids []string) (Reconciliation, error) {
	defaultRaw, err := json.Marshal(models.NewSidecarEntry())
	if err != nil {
		return Reconciliation{}, fmt.Errorf("failed to encode default sidecar entry: %w", err)
	}

	filled := make(Sidecar, len(existing)+len(ids))
	for id, raw := range existing {
		filled[id] = raw
	}
	added := 0
	for _, id := range ids {
		if _, ok := filled.Entry(id); ok {
			continue
		}
		filled[id] = defaultRaw
		added++
	}

	current := make(map[string]struct{}, len(ids))
	rebuilt := make(Sidecar, len(ids))
	for _, id := range ids {
		current[id] = struct{}{}
		rebuilt[id] = filled[id]
	}

	removed := 0
	for id := range existing {
		if _, ok := current[id]; !ok {
			removed++
		}
	}

	return Reconciliation{Sidecar: rebuilt, Added: added, Removed: removed}, nil
}

// WriteSidecar persists the mapping as indented JSON with sorted keys.
func WriteSidecar(path string, sidecar Sidecar) error {
	if sidecar == nil {
		sidecar = Sidecar{}
	}
	data, err := encodeJSON(sidecar)
	if err != nil {
		return fmt.Errorf("failed to encode sidecar: %w", err)
	}
	if err := utils.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write sidecar %s: %w", path, err)
	}
	return nil
}

// encodeJSON is the one encoding used for every published file: two-space
// indent, no HTML escaping, no trailing newline.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
