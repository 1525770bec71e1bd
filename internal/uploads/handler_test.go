package uploads

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"
)

func multipartBody(t *testing.T, folder, filename, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if folder != "" {
		if err := mw.WriteField("folder", folder); err != nil {
			t.Fatalf("write folder: %v", err)
		}
	}

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write content: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadAssetHappyPath(t *testing.T) {
	store := newTestStore(&fakeS3{}, &fakePresigner{})
	h := NewHandler(store, 0, nil)

	body, ct := multipartBody(t, "logos", "logo.png", "image/png", "png-bytes")
	req := httptest.NewRequest("POST", "/intake/assets", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.UploadAsset(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	var ref UploadedFileRef
	if err := json.Unmarshal(rec.Body.Bytes(), &ref); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(ref.Path, "logos/") {
		t.Errorf("unexpected path: %q", ref.Path)
	}
	if ref.SignedURL == "" || ref.Name != "logo.png" {
		t.Errorf("unexpected ref: %+v", ref)
	}
}

func TestUploadAssetMissingFile(t *testing.T) {
	store := newTestStore(&fakeS3{}, &fakePresigner{})
	h := NewHandler(store, 0, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("folder", "logos")
	_ = mw.Close()

	req := httptest.NewRequest("POST", "/intake/assets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.UploadAsset(rec, req)

	if rec.Code != 400 {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestUploadAssetDisallowedType(t *testing.T) {
	s3c := &fakeS3{}
	h := NewHandler(newTestStore(s3c, &fakePresigner{}), 0, nil)

	body, ct := multipartBody(t, "logos", "script.sh", "application/x-sh", "#!/bin/sh")
	req := httptest.NewRequest("POST", "/intake/assets", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.UploadAsset(rec, req)

	if rec.Code != 400 {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	if len(s3c.puts) != 0 {
		t.Fatal("rejected upload must not reach S3")
	}
}

func TestSignedURLsEndpoint(t *testing.T) {
	store := newTestStore(&fakeS3{}, &fakePresigner{
		failKeys: map[string]bool{"logos/broken.png": true},
	})
	h := NewHandler(store, 24*time.Hour, nil)

	payload, _ := json.Marshal(map[string]any{
		"filePaths": []string{"logos/ok.png", "logos/broken.png"},
	})
	req := httptest.NewRequest("POST", "/admin/signed-urls", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.SignedURLs(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		SignedURLs map[string]string `json:"signedUrls"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SignedURLs["logos/broken.png"] != "" {
		t.Errorf("failed path should be empty, got %q", resp.SignedURLs["logos/broken.png"])
	}
	if !strings.Contains(resp.SignedURLs["logos/ok.png"], "logos/ok.png") {
		t.Errorf("missing URL for good path: %q", resp.SignedURLs["logos/ok.png"])
	}
}

func TestSignedURLsRequiresPaths(t *testing.T) {
	h := NewHandler(newTestStore(&fakeS3{}, &fakePresigner{}), 0, nil)

	req := httptest.NewRequest("POST", "/admin/signed-urls", strings.NewReader(`{"filePaths":[]}`))
	rec := httptest.NewRecorder()
	h.SignedURLs(rec, req)
	if rec.Code != 400 {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestSignedURLsCustomExpiry(t *testing.T) {
	store := newTestStore(&fakeS3{}, &fakePresigner{})
	h := NewHandler(store, 24*time.Hour, nil)

	payload, _ := json.Marshal(map[string]any{
		"filePaths": []string{"logos/ok.png"},
		"expiresIn": 3600,
	})
	req := httptest.NewRequest("POST", "/admin/signed-urls", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.SignedURLs(rec, req)

	var resp struct {
		SignedURLs map[string]string `json:"signedUrls"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(resp.SignedURLs["logos/ok.png"], "1h0m0s") {
		t.Errorf("expected 1h TTL, got %q", resp.SignedURLs["logos/ok.png"])
	}
}
