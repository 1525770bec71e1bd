package intake

import (
	"context"
	"time"

	"github.com/editmelo/studio-platform/internal/observability/metrics"
	"github.com/editmelo/studio-platform/pkg/logging"
)

// Notifier receives a copy of each stored intake. Delivery failures never
// surface to the client.
type Notifier interface {
	IntakeSubmitted(ctx context.Context, intake *Intake) error
}

// Service persists completed intake forms and fans out notifications.
// It satisfies Submitter for the wizard.
type Service struct {
	repo     Repository
	notifier Notifier
	metrics  *metrics.FunnelMetrics
	logger   *logging.Logger
}

// ServiceConfig carries Service dependencies. Repo is required; the rest are
// optional.
type ServiceConfig struct {
	Repo     Repository
	Notifier Notifier
	Metrics  *metrics.FunnelMetrics
	Logger   *logging.Logger
}

func NewService(cfg ServiceConfig) *Service {
	if cfg.Repo == nil {
		panic("intake: repository required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     cfg.Repo,
		notifier: cfg.Notifier,
		metrics:  cfg.Metrics,
		logger:   logger,
	}
}

// Submit validates the form, flattens the brand selections, and stores the
// intake. The notification goroutine runs detached so a slow email provider
// cannot hold up the response.
func (s *Service) Submit(ctx context.Context, form *Form) (*Intake, error) {
	if err := form.Validate(); err != nil {
		s.metrics.ObserveIntake("rejected")
		return nil, err
	}

	intake := &Intake{
		Form:        *form,
		BrandColors: FlattenColors(form.BrandColors),
		BrandFonts:  FlattenFonts(form.BrandFonts),
	}

	stored, err := s.repo.Create(ctx, intake)
	if err != nil {
		s.metrics.ObserveIntake("storage_error")
		s.logger.Error("intake insert failed", "error", err)
		return nil, &StorageError{Err: err}
	}

	s.metrics.ObserveIntake("submitted")
	s.logger.Info("intake submitted",
		"intake_id", stored.ID,
		"business_name", stored.Form.BusinessName,
	)

	if s.notifier != nil {
		go s.dispatchNotification(stored)
	}

	return stored, nil
}

func (s *Service) dispatchNotification(intake *Intake) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.notifier.IntakeSubmitted(ctx, intake); err != nil {
		s.logger.Error("intake notification failed",
			"intake_id", intake.ID,
			"error", err,
		)
	}
}
