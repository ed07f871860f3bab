package photostore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/uruhongore/academy/internal/pkg/logger"
)

// LocalBackend writes photos below a directory that the HTTP server exposes at baseURL.
type LocalBackend struct {
	basePath string
	baseURL  string
}

// NewLocalBackend creates the base directory if needed.
func NewLocalBackend(basePath, baseURL string) (*LocalBackend, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")
	return &LocalBackend{basePath: basePath, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Put writes data to basePath/key, replacing any previous file.
func (b *LocalBackend) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	dst, err := b.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		logger.Error().Err(err).Str("path", dst).Msg("Failed to write file")
		return "", fmt.Errorf("failed to save file content: %w", err)
	}
	return b.baseURL + "/" + key, nil
}

// Delete removes the file a URL returned by Put points to. A missing file is not an error.
func (b *LocalBackend) Delete(_ context.Context, url string) error {
	key := strings.TrimPrefix(strings.TrimPrefix(url, b.baseURL), "/")
	dst, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", dst).Msg("File to delete does not exist")
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	logger.Info().Str("path", dst).Msg("File deleted successfully")
	return nil
}

// path resolves key below basePath and refuses keys escaping it.
func (b *LocalBackend) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid file key: %q", key)
	}
	return filepath.Join(b.basePath, clean), nil
}
