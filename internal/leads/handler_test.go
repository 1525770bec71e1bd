package leads

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/editmelo/studio-platform/pkg/logging"
)

func newTestHandler(t *testing.T, cfg GuardConfig) (*Handler, *InMemoryRepository) {
	t.Helper()
	guard, repo := newTestGuard(t, cfg)
	return NewHandler(guard, logging.Default()), repo
}

func postLead(t *testing.T, handler *Handler, sub *Submission) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(sub)
	req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewReader(body))
	req.RemoteAddr = "203.0.113.50:41234"
	w := httptest.NewRecorder()
	handler.SubmitLead(w, req)
	return w
}

func TestSubmitLead_Success(t *testing.T) {
	handler, repo := newTestHandler(t, GuardConfig{})

	w := postLead(t, handler, validSubmission())

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["success"] != true {
		t.Errorf("expected success envelope, got %v", resp)
	}
	if repo.Count() != 1 {
		t.Errorf("expected one persisted record, got %d", repo.Count())
	}
}

func TestSubmitLead_HoneypotLooksLikeSuccess(t *testing.T) {
	handler, repo := newTestHandler(t, GuardConfig{})

	sub := validSubmission()
	sub.Honeypot = "filled by bot"
	w := postLead(t, handler, sub)

	if w.Code != http.StatusOK {
		t.Fatalf("honeypot response must be 200, got %d", w.Code)
	}
	if w.Body.String() == "" || !strings.Contains(w.Body.String(), `"success":true`) {
		t.Errorf("honeypot response must match the admit envelope, got %s", w.Body.String())
	}
	if repo.Count() != 0 {
		t.Error("honeypot hit must not persist")
	}
}

func TestSubmitLead_ValidationError(t *testing.T) {
	handler, _ := newTestHandler(t, GuardConfig{})

	sub := validSubmission()
	sub.Email = "no-at-sign"
	w := postLead(t, handler, sub)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] != "Invalid email format" {
		t.Errorf("unexpected error message: %q", resp["error"])
	}
}

func TestSubmitLead_SecurityError(t *testing.T) {
	handler, _ := newTestHandler(t, GuardConfig{Verifier: passingVerifier(0.1)})

	w := postLead(t, handler, validSubmission())

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp map[string]string
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if resp["error"] != "Security verification failed. Please try again." {
		t.Errorf("security failures must stay generic, got %q", resp["error"])
	}
}

func TestSubmitLead_StorageError(t *testing.T) {
	handler, _ := newTestHandler(t, GuardConfig{Repo: failingRepository{}})

	w := postLead(t, handler, validSubmission())

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Error("internal error detail must not reach the client")
	}
}

func TestSubmitLead_InvalidJSON(t *testing.T) {
	handler, _ := newTestHandler(t, GuardConfig{})

	req := httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader("{"))
	w := httptest.NewRecorder()
	handler.SubmitLead(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/leads", nil)
	req.RemoteAddr = "198.51.100.7:9999"
	if got := clientIP(req); got != "198.51.100.7" {
		t.Errorf("expected host without port, got %q", got)
	}

	req.RemoteAddr = "198.51.100.7"
	if got := clientIP(req); got != "198.51.100.7" {
		t.Errorf("expected bare host, got %q", got)
	}

	req.RemoteAddr = ""
	if got := clientIP(req); got != "unknown" {
		t.Errorf("expected unknown fallback, got %q", got)
	}
}
