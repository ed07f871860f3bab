package photostore

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// OSSConfig addresses an Alibaba Cloud OSS bucket.
type OSSConfig struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	PublicBaseURL   string
}

// OSSBackend stores photos in an OSS bucket.
type OSSBackend struct {
	bucket  *oss.Bucket
	baseURL string
}

// NewOSSBackend connects to the bucket. Without PublicBaseURL, URLs use the
// virtual-hosted form https://<bucket>.<endpoint>/<key>.
func NewOSSBackend(cfg OSSConfig) (*OSSBackend, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("oss bucket %s: %w", cfg.Bucket, err)
	}

	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		host := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
		base = "https://" + cfg.Bucket + "." + strings.TrimRight(host, "/")
	}
	return &OSSBackend{bucket: bucket, baseURL: base}, nil
}

// Put uploads data under key.
func (b *OSSBackend) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	err := b.bucket.PutObject(key, bytes.NewReader(data),
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=86400"),
	)
	if err != nil {
		return "", fmt.Errorf("oss put %s: %w", key, err)
	}
	return b.baseURL + "/" + key, nil
}

// Delete removes the object behind a URL returned by Put.
func (b *OSSBackend) Delete(ctx context.Context, rawURL string) error {
	key, err := objectKey(b.baseURL, rawURL)
	if err != nil {
		return err
	}
	if err := b.bucket.DeleteObject(key, oss.WithContext(ctx)); err != nil {
		return fmt.Errorf("oss delete %s: %w", key, err)
	}
	return nil
}

// objectKey extracts the object key from a public URL.
func objectKey(baseURL, rawURL string) (string, error) {
	if strings.HasPrefix(rawURL, baseURL+"/") {
		return strings.TrimPrefix(rawURL, baseURL+"/"), nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid object url %q: %w", rawURL, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", fmt.Errorf("invalid object url %q", rawURL)
	}
	return key, nil
}
