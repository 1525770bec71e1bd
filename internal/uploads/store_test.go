package uploads

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	puts []s3.PutObjectInput
	err  error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.puts = append(f.puts, *params)
	return &s3.PutObjectOutput{}, nil
}

type fakePresigner struct {
	failKeys map[string]bool
}

func (f *fakePresigner) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if f.failKeys[*params.Key] {
		return nil, errors.New("presign failed")
	}
	opts := s3.PresignOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	url := "https://assets.test/" + *params.Key + "?ttl=" + opts.Expires.String()
	return &v4.PresignedHTTPRequest{URL: url}, nil
}

func newTestStore(s3c *fakeS3, ps *fakePresigner) *Store {
	store := NewStore(StoreConfig{
		Bucket:    "studio-assets",
		S3Client:  s3c,
		Presigner: ps,
	})
	store.now = func() time.Time { return time.UnixMilli(1700000000000) }
	store.randSuffix = func() string { return "abc123" }
	return store
}

func TestUploadHappyPath(t *testing.T) {
	s3c := &fakeS3{}
	store := newTestStore(s3c, &fakePresigner{})

	ref, err := store.Upload(context.Background(), "logos", "Logo Final.png", "image/png", 1024, strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if ref.Path != "logos/1700000000000-abc123.png" {
		t.Errorf("unexpected key: %q", ref.Path)
	}
	if ref.Name != "Logo Final.png" || ref.Type != "image/png" {
		t.Errorf("metadata lost: %+v", ref)
	}
	if !strings.Contains(ref.SignedURL, ref.Path) {
		t.Errorf("signed URL does not reference the object: %q", ref.SignedURL)
	}
	if !strings.Contains(ref.SignedURL, "1h0m0s") {
		t.Errorf("expected 1h preview TTL, got %q", ref.SignedURL)
	}

	if len(s3c.puts) != 1 {
		t.Fatalf("expected 1 put, got %d", len(s3c.puts))
	}
	if *s3c.puts[0].Bucket != "studio-assets" {
		t.Errorf("wrong bucket: %q", *s3c.puts[0].Bucket)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	s3c := &fakeS3{}
	store := newTestStore(s3c, &fakePresigner{})

	_, err := store.Upload(context.Background(), "logos", "big.png", "image/png", MaxUploadBytes+1, strings.NewReader(""))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Message != "File is too large (max 10MB)" {
		t.Errorf("unexpected message: %q", verr.Message)
	}
	if len(s3c.puts) != 0 {
		t.Fatal("oversized file must not reach S3")
	}
}

func TestUploadHonorsConfiguredCap(t *testing.T) {
	s3c := &fakeS3{}
	store := NewStore(StoreConfig{
		Bucket:    "studio-assets",
		S3Client:  s3c,
		Presigner: &fakePresigner{},
		MaxBytes:  1 << 20,
	})

	_, err := store.Upload(context.Background(), "logos", "big.png", "image/png", (1<<20)+1, strings.NewReader(""))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Message != "File is too large (max 1MB)" {
		t.Errorf("unexpected message: %q", verr.Message)
	}

	if _, err := store.Upload(context.Background(), "logos", "ok.png", "image/png", 1<<20, strings.NewReader("x")); err != nil {
		t.Fatalf("file at the cap rejected: %v", err)
	}
	if store.MaxBytes() != 1<<20 {
		t.Errorf("MaxBytes() = %d", store.MaxBytes())
	}
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	s3c := &fakeS3{}
	store := newTestStore(s3c, &fakePresigner{})

	for _, ct := range []string{"application/x-sh", "text/html", "video/mp4", ""} {
		if _, err := store.Upload(context.Background(), "logos", "f", ct, 10, strings.NewReader("x")); err == nil {
			t.Errorf("content type %q should be rejected", ct)
		}
	}
	if len(s3c.puts) != 0 {
		t.Fatal("disallowed types must not reach S3")
	}
}

func TestUploadAllowsDocumentTypes(t *testing.T) {
	store := newTestStore(&fakeS3{}, &fakePresigner{})

	for _, ct := range []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	} {
		if _, err := store.Upload(context.Background(), "brand", "doc", ct, 10, strings.NewReader("x")); err != nil {
			t.Errorf("content type %q rejected: %v", ct, err)
		}
	}
}

func TestObjectKeySanitizesFolder(t *testing.T) {
	store := newTestStore(&fakeS3{}, &fakePresigner{})

	cases := map[string]string{
		"logos":        "logos/1700000000000-abc123.png",
		"../../etc":    "etc/1700000000000-abc123.png",
		"a/b":          "ab/1700000000000-abc123.png",
		"":             "uploads/1700000000000-abc123.png",
		"  ..  ":       "uploads/1700000000000-abc123.png",
		"brand_assets": "brand_assets/1700000000000-abc123.png",
	}
	for folder, want := range cases {
		if got := store.objectKey(folder, "x.png", "image/png"); got != want {
			t.Errorf("objectKey(%q) = %q, want %q", folder, got, want)
		}
	}
}

func TestSignedURLsBatchPartialFailure(t *testing.T) {
	store := newTestStore(&fakeS3{}, &fakePresigner{
		failKeys: map[string]bool{"logos/broken.png": true},
	})

	urls := store.SignedURLs(context.Background(), []string{"logos/ok.png", "logos/broken.png"}, 24*time.Hour)
	if urls["logos/broken.png"] != "" {
		t.Errorf("failed key should map to empty string, got %q", urls["logos/broken.png"])
	}
	if !strings.Contains(urls["logos/ok.png"], "logos/ok.png") {
		t.Errorf("good key missing URL: %q", urls["logos/ok.png"])
	}
	if !strings.Contains(urls["logos/ok.png"], "24h0m0s") {
		t.Errorf("expected 24h TTL, got %q", urls["logos/ok.png"])
	}
}

func TestUploadS3FailureIsNotValidation(t *testing.T) {
	store := newTestStore(&fakeS3{err: errors.New("access denied")}, &fakePresigner{})

	_, err := store.Upload(context.Background(), "logos", "x.png", "image/png", 10, strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected error")
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		t.Fatal("infrastructure failure must not be a validation error")
	}
}
