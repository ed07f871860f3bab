// Package photostore validates, normalises and stores profile photos.
package photostore

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
	"github.com/uruhongore/academy/internal/pkg/logger"
)

const (
	// PhotoSize is the edge of the square stored photo, in pixels.
	PhotoSize   = 500
	jpegQuality = 85
	contentType = "image/jpeg"
)

// Backend keeps objects under a key and serves them from a URL.
type Backend interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// Store is the photo store used by the student service.
type Store struct {
	backend  Backend
	folder   string
	maxBytes int64
}

// New creates a Store writing into folder and rejecting payloads over maxBytes.
func New(backend Backend, folder string, maxBytes int64) *Store {
	return &Store{backend: backend, folder: strings.Trim(folder, "/"), maxBytes: maxBytes}
}

// Upload validates and normalises data and stores it as <folder>/<name>.jpg, returning its URL.
func (s *Store) Upload(ctx context.Context, name string, data []byte) (string, error) {
	normalized, err := Normalize(data, s.maxBytes)
	if err != nil {
		return "", err
	}

	key := name + ".jpg"
	if s.folder != "" {
		key = s.folder + "/" + key
	}

	url, err := s.backend.Put(ctx, key, normalized, contentType)
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Failed to store photo")
		return "", fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	logger.Info().Str("key", key).Int("bytes", len(normalized)).Msg("Photo stored")
	return url, nil
}

// Delete removes a stored photo by URL. Unknown URLs are not an error.
func (s *Store) Delete(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	if err := s.backend.Delete(ctx, url); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return nil
}

// Normalize rejects empty, oversized and non-image payloads, then crops the image to a
// PhotoSize square and re-encodes it as JPEG. JPEG, PNG, GIF and WebP are accepted.
func Normalize(data []byte, maxBytes int64) ([]byte, error) {
	if len(data) == 0 {
		return nil, apperrors.ErrEmptyImage
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", apperrors.ErrImageTooLarge, len(data), maxBytes)
	}

	sniffed := http.DetectContentType(data)
	if !strings.HasPrefix(sniffed, "image/") {
		return nil, fmt.Errorf("%w: detected %s", apperrors.ErrUnsupportedImage, sniffed)
	}

	var (
		img image.Image
		err error
	)
	if sniffed == "image/webp" {
		img, err = webp.Decode(bytes.NewReader(data))
	} else {
		img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnsupportedImage, err)
	}

	img = imaging.Fill(img, PhotoSize, PhotoSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", apperrors.ErrStorage, err)
	}
	return buf.Bytes(), nil
}
