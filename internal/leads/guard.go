package leads

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/editmelo/studio-platform/internal/captcha"
	"github.com/editmelo/studio-platform/internal/observability/metrics"
	"github.com/editmelo/studio-platform/internal/ratelimit"
	"github.com/editmelo/studio-platform/pkg/logging"
)

var guardTracer = otel.Tracer("leads.guard")

// Notifier dispatches a new-lead email. Failures are the guard's to log, never
// the submitter's to see.
type Notifier interface {
	LeadSubmitted(ctx context.Context, lead *Lead, captchaScore *float64) error
}

// Decision is the outcome of an admitted pipeline run. BotTrapped decisions
// carry no lead: we answered the bot with a success shape and did nothing.
type Decision struct {
	BotTrapped   bool
	Lead         *Lead
	CaptchaScore *float64
}

// Guard runs the spam-defense pipeline over an untrusted lead submission.
// Stages run cheapest first and short-circuit on the first failure; no side
// effect happens before every check passes.
type Guard struct {
	limiter  *ratelimit.Limiter
	verifier captcha.Verifier
	repo     Repository
	notifier Notifier
	minScore float64
	metrics  *metrics.FunnelMetrics
	logger   *logging.Logger
}

// GuardConfig wires the guard's collaborators.
type GuardConfig struct {
	Limiter  *ratelimit.Limiter
	Verifier captcha.Verifier
	Repo     Repository
	Notifier Notifier
	MinScore float64
	Metrics  *metrics.FunnelMetrics
	Logger   *logging.Logger
}

// NewGuard creates a lead intake guard.
func NewGuard(cfg GuardConfig) *Guard {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	minScore := cfg.MinScore
	if minScore <= 0 {
		minScore = 0.3
	}
	return &Guard{
		limiter:  cfg.Limiter,
		verifier: cfg.Verifier,
		repo:     cfg.Repo,
		notifier: cfg.Notifier,
		minScore: minScore,
		metrics:  cfg.Metrics,
		logger:   logger,
	}
}

// Admit runs the pipeline. It returns a Decision on admit (including the
// silent bot admit) or one of ErrRateLimited, *ValidationError,
// ErrSecurityCheck, *StorageError.
func (g *Guard) Admit(ctx context.Context, sub *Submission, clientIP string) (*Decision, error) {
	ctx, span := guardTracer.Start(ctx, "leads.admit")
	defer span.End()
	span.SetAttributes(attribute.String("lead.client_ip", clientIP))

	// Stage 1: rate limit. Runs before anything else so abusive IPs cost us
	// one counter increment and nothing more.
	if g.limiter != nil && !g.limiter.Allow(ctx, clientIP) {
		g.metrics.ObserveLead("rate_limited")
		span.SetAttributes(attribute.String("lead.outcome", "rate_limited"))
		return nil, ErrRateLimited
	}

	// Stage 2: honeypot. A non-empty value means a bot filled the hidden
	// field. Answer with the success shape and stop: the caller must not be
	// able to distinguish detection from admission. This branch is kept
	// separate from the happy path on purpose.
	if strings.TrimSpace(sub.Honeypot) != "" {
		g.logger.Warn("honeypot triggered, dropping submission", "client_ip", clientIP)
		g.metrics.ObserveLead("bot_trapped")
		span.SetAttributes(attribute.String("lead.outcome", "bot_trapped"))
		return &Decision{BotTrapped: true}, nil
	}

	// Stages 3-5: required fields, length bounds, email shape.
	if verr := sub.Validate(); verr != nil {
		g.metrics.ObserveLead("validation_failed")
		span.SetAttributes(attribute.String("lead.outcome", "validation_failed"))
		return nil, verr
	}

	// Stage 6: captcha. The costly external round trip runs last among the
	// checks. Every failure mode collapses into the same generic error.
	score, err := g.verifyCaptcha(ctx, sub, clientIP)
	if err != nil {
		g.metrics.ObserveLead("captcha_failed")
		span.SetAttributes(attribute.String("lead.outcome", "captcha_failed"))
		return nil, err
	}

	// Stage 7: persist the normalized record.
	lead, err := g.repo.Create(ctx, sub.normalize())
	if err != nil {
		g.logger.Error("failed to save lead", "error", err, "client_ip", clientIP)
		g.metrics.ObserveLead("storage_failed")
		span.SetAttributes(attribute.String("lead.outcome", "storage_failed"))
		return nil, &StorageError{Err: err}
	}

	g.logger.Info("lead saved", "id", lead.ID, "company", lead.CompanyName)
	g.metrics.ObserveLead("admitted")
	span.SetAttributes(attribute.String("lead.outcome", "admitted"))

	// Stage 8: fire-and-forget notification. Detached from the request
	// context so a fast client disconnect cannot cancel the send.
	if g.notifier != nil {
		go g.dispatchNotification(lead, score)
	}

	return &Decision{Lead: lead, CaptchaScore: score}, nil
}

func (g *Guard) verifyCaptcha(ctx context.Context, sub *Submission, clientIP string) (*float64, error) {
	if strings.TrimSpace(sub.RecaptchaToken) == "" {
		g.logger.Warn("missing captcha token", "client_ip", clientIP)
		return nil, ErrSecurityCheck
	}
	if g.verifier == nil {
		g.logger.Error("captcha verifier not configured")
		return nil, ErrSecurityCheck
	}

	result, err := g.verifier.Verify(ctx, sub.RecaptchaToken, clientIP)
	if err != nil {
		g.logger.Error("captcha verification call failed", "error", err, "client_ip", clientIP)
		return nil, ErrSecurityCheck
	}
	if !result.Success {
		g.logger.Warn("captcha verification rejected token", "client_ip", clientIP)
		return nil, ErrSecurityCheck
	}
	if result.Score != nil {
		g.metrics.ObserveCaptchaScore(*result.Score)
		if *result.Score < g.minScore {
			g.logger.Warn("captcha score below threshold",
				"score", *result.Score,
				"min_score", g.minScore,
				"client_ip", clientIP,
			)
			return nil, ErrSecurityCheck
		}
	}
	return result.Score, nil
}

func (g *Guard) dispatchNotification(lead *Lead, score *float64) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := g.notifier.LeadSubmitted(ctx, lead, score); err != nil {
		g.logger.Error("lead notification failed", "error", err, "lead_id", lead.ID)
	}
}
