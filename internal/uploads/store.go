// Package uploads moves client assets into the private S3 bucket and mints
// the presigned URLs used to view them.
package uploads

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/editmelo/studio-platform/internal/observability/metrics"
	"github.com/editmelo/studio-platform/pkg/logging"
)

// MaxUploadBytes is the default per-file size cap.
const MaxUploadBytes = 10 << 20

// allowedTypes is the accepted content-type set for intake assets.
var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"application/pdf": true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// extensions maps accepted content types to the extension stored in the key.
var extensions = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/gif":       "gif",
	"image/webp":      "webp",
	"image/svg+xml":   "svg",
	"application/pdf": "pdf",
	"application/msword": "doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
}

// S3API is the subset of the S3 client used by Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// PresignAPI is the subset of the S3 presign client used by Store.
type PresignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// UploadedFileRef is what the client gets back for an accepted upload.
type UploadedFileRef struct {
	Path      string `json:"path"`
	SignedURL string `json:"signedUrl"`
	Name      string `json:"name"`
	Type      string `json:"type"`
}

// Store uploads assets and issues presigned GET URLs against a private
// bucket. Objects are never publicly readable.
type Store struct {
	bucket     string
	s3Client   S3API
	presigner  PresignAPI
	previewTTL time.Duration
	maxBytes   int64
	metrics    *metrics.FunnelMetrics
	logger     *logging.Logger
	now        func() time.Time
	randSuffix func() string
}

// StoreConfig carries Store dependencies.
type StoreConfig struct {
	Bucket     string
	S3Client   S3API
	Presigner  PresignAPI
	PreviewTTL time.Duration
	MaxBytes   int64
	Metrics    *metrics.FunnelMetrics
	Logger     *logging.Logger
}

// NewStore creates an asset store. PreviewTTL defaults to one hour and
// MaxBytes to MaxUploadBytes.
func NewStore(cfg StoreConfig) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	ttl := cfg.PreviewTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = MaxUploadBytes
	}
	return &Store{
		bucket:     cfg.Bucket,
		s3Client:   cfg.S3Client,
		presigner:  cfg.Presigner,
		previewTTL: ttl,
		maxBytes:   maxBytes,
		metrics:    cfg.Metrics,
		logger:     logger,
		now:        time.Now,
		randSuffix: randomSuffix,
	}
}

// MaxBytes reports the per-file size cap.
func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// ValidationError describes a rejected upload. The message is safe to show.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Upload validates and stores one file, returning its path and a short-lived
// preview URL.
func (s *Store) Upload(ctx context.Context, folder, filename, contentType string, size int64, body io.Reader) (*UploadedFileRef, error) {
	if size > s.maxBytes {
		return nil, &ValidationError{Message: fmt.Sprintf("File is too large (max %dMB)", s.maxBytes>>20)}
	}
	if !allowedTypes[contentType] {
		return nil, &ValidationError{Message: "File type is not allowed"}
	}

	key := s.objectKey(folder, filename, contentType)
	if _, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	}); err != nil {
		return nil, fmt.Errorf("uploads: s3 put %s: %w", key, err)
	}

	url, err := s.SignedURL(ctx, key, s.previewTTL)
	if err != nil {
		return nil, fmt.Errorf("uploads: presign %s: %w", key, err)
	}

	s.metrics.ObserveUploadBytes(size)
	s.logger.Info("asset uploaded",
		"key", key,
		"content_type", contentType,
		"size_bytes", size,
	)

	return &UploadedFileRef{
		Path:      key,
		SignedURL: url,
		Name:      filename,
		Type:      contentType,
	}, nil
}

// SignedURL mints one presigned GET URL for an object key.
func (s *Store) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) {
		o.Expires = ttl
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// SignedURLs presigns a batch of keys. A key that fails to presign maps to
// the empty string rather than failing the batch.
func (s *Store) SignedURLs(ctx context.Context, keys []string, ttl time.Duration) map[string]string {
	urls := make(map[string]string, len(keys))
	for _, key := range keys {
		url, err := s.SignedURL(ctx, key, ttl)
		if err != nil {
			s.logger.Error("presign failed", "key", key, "error", err)
			urls[key] = ""
			continue
		}
		urls[key] = url
	}
	return urls
}

// objectKey builds "<folder>/<unix-ms>-<rand>.<ext>". The client-supplied
// filename never reaches the key; only its content type picks the extension.
func (s *Store) objectKey(folder, filename, contentType string) string {
	folder = sanitizeFolder(folder)
	ext := extensions[contentType]
	if ext == "" {
		ext = strings.TrimPrefix(path.Ext(filename), ".")
	}
	name := fmt.Sprintf("%d-%s", s.now().UnixMilli(), s.randSuffix())
	if ext != "" {
		name += "." + ext
	}
	return folder + "/" + name
}

// sanitizeFolder keeps keys single-level: path separators and dots are
// stripped, and an empty result falls back to "uploads".
func sanitizeFolder(folder string) string {
	folder = strings.TrimSpace(folder)
	folder = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return -1
		}
	}, folder)
	if folder == "" {
		return "uploads"
	}
	return folder
}

func randomSuffix() string {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
