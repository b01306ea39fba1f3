package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/camden-git/gallerymanifest/utils"
)

// Store defines the interface for persisting generated media assets
type Store interface {
	// Exists reports whether an asset with the given name is already stored
	Exists(name string) (bool, error)
	// Save stores data under name, replacing any previous asset atomically.
	// returns the absolute path written
	Save(name string, data io.Reader) (string, error)
	// GetFullPath returns the absolute filesystem path for an asset name
	GetFullPath(name string) (string, error)
}

// LocalStorage implements the Store interface using a flat local directory
type LocalStorage struct {
	basePath string // absolute path of the preview directory
	logger   *zap.Logger
}

// NewLocalStorage creates the directory if needed and returns a store rooted at it
func NewLocalStorage(basePath string, logger *zap.Logger) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory '%s': %w", absBasePath, err)
	}

	logger.Debug("media.store: initialized LocalStorage", zap.String("path", absBasePath))
	return &LocalStorage{basePath: absBasePath, logger: logger}, nil
}

func (ls *LocalStorage) Exists(name string) (bool, error) {
	fullPath, err := ls.GetFullPath(name)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(fullPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat asset '%s': %w", name, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("asset path '%s' is a directory", fullPath)
	}
	return true, nil
}

func (ls *LocalStorage) Save(name string, data io.Reader) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename cannot be empty for LocalStorage.Save")
	}
	fullSavePath, err := ls.GetFullPath(name)
	if err != nil {
		return "", err
	}

	if err := utils.WriteAtomic(fullSavePath, data); err != nil {
		return "", fmt.Errorf("failed to write asset '%s': %w", name, err)
	}

	ls.logger.Debug("media.store: saved asset", zap.String("path", fullSavePath))
	return fullSavePath, nil
}

// GetFullPath calculates the absolute path and performs security check
func (ls *LocalStorage) GetFullPath(name string) (string, error) {
	fullPath := filepath.Join(ls.basePath, filepath.Clean(name))

	absFullPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", name, err)
	}

	if absFullPath == ls.basePath || !strings.HasPrefix(absFullPath, ls.basePath+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid path: access denied for '%s'", name)
	}

	return absFullPath, nil
}
