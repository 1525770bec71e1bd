// Package captcha verifies reCAPTCHA tokens against Google's siteverify API.
package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/editmelo/studio-platform/pkg/logging"
)

const defaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Result is the relevant subset of a siteverify response. Score is nil for
// checkbox (v2) tokens; v3 tokens carry a 0..1 bot-likelihood score.
type Result struct {
	Success bool
	Score   *float64
	Action  string
}

// Verifier checks a captcha token issued by the browser.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (*Result, error)
}

// Config controls the Google verifier.
type Config struct {
	SecretKey  string
	VerifyURL  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// GoogleVerifier calls the siteverify endpoint with the configured secret.
type GoogleVerifier struct {
	secretKey  string
	verifyURL  string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewGoogleVerifier creates a configured verifier with sane defaults.
func NewGoogleVerifier(cfg Config) (*GoogleVerifier, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errors.New("captcha: secret key is required")
	}
	verifyURL := strings.TrimSpace(cfg.VerifyURL)
	if verifyURL == "" {
		verifyURL = defaultVerifyURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &GoogleVerifier{
		secretKey:  cfg.SecretKey,
		verifyURL:  verifyURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	Score      *float64 `json:"score,omitempty"`
	Action     string   `json:"action,omitempty"`
	ErrorCodes []string `json:"error-codes,omitempty"`
}

// Verify posts the token to siteverify and decodes the verdict.
func (v *GoogleVerifier) Verify(ctx context.Context, token, remoteIP string) (*Result, error) {
	form := url.Values{}
	form.Set("secret", v.secretKey)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("captcha: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("captcha: siteverify call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("captcha: siteverify returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("captcha: decode siteverify response: %w", err)
	}

	v.logger.Info("captcha verification result",
		"success", decoded.Success,
		"score", decoded.Score,
		"action", decoded.Action,
		"error_codes", decoded.ErrorCodes,
	)

	return &Result{
		Success: decoded.Success,
		Score:   decoded.Score,
		Action:  decoded.Action,
	}, nil
}

// StaticVerifier returns a fixed result; used in development and tests.
type StaticVerifier struct {
	Result Result
	Err    error
}

// Verify returns the configured result.
func (s *StaticVerifier) Verify(ctx context.Context, token, remoteIP string) (*Result, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	r := s.Result
	return &r, nil
}
