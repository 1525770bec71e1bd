package intake

import (
	"context"
	"errors"
	"testing"
	"time"
)

type captureIntakeNotifier struct {
	ch  chan *Intake
	err error
}

func newCaptureIntakeNotifier() *captureIntakeNotifier {
	return &captureIntakeNotifier{ch: make(chan *Intake, 1)}
}

func (n *captureIntakeNotifier) IntakeSubmitted(ctx context.Context, intake *Intake) error {
	n.ch <- intake
	return n.err
}

func (n *captureIntakeNotifier) wait(t *testing.T) *Intake {
	t.Helper()
	select {
	case intake := <-n.ch:
		return intake
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
		return nil
	}
}

type failingRepo struct{}

func (failingRepo) Create(ctx context.Context, intake *Intake) (*Intake, error) {
	return nil, errors.New("connection refused")
}

func (failingRepo) GetByID(ctx context.Context, id string) (*Intake, error) {
	return nil, errors.New("connection refused")
}

func TestServiceSubmitPersistsAndNotifies(t *testing.T) {
	repo := NewInMemoryRepository()
	notifier := newCaptureIntakeNotifier()
	svc := NewService(ServiceConfig{Repo: repo, Notifier: notifier})

	form := validForm()
	form.BrandColors = []ColorEntry{{Label: "Primary", Value: "#0A2540"}}
	form.BrandFonts = []FontEntry{{Purpose: "Headings", Name: "Fraunces"}}

	stored, err := svc.Submit(context.Background(), form)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if stored.ID == "" {
		t.Fatal("expected stored ID")
	}
	if stored.BrandColors != "Primary: #0A2540" {
		t.Errorf("colors not flattened: %q", stored.BrandColors)
	}
	if stored.BrandFonts != "Headings: Fraunces" {
		t.Errorf("fonts not flattened: %q", stored.BrandFonts)
	}
	if repo.Count() != 1 {
		t.Fatalf("expected 1 stored intake, got %d", repo.Count())
	}

	notified := notifier.wait(t)
	if notified.ID != stored.ID {
		t.Errorf("notifier saw %q, want %q", notified.ID, stored.ID)
	}
}

func TestServiceSubmitRejectsInvalidForm(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(ServiceConfig{Repo: repo})

	form := validForm()
	form.ContactEmail = "nope"
	_, err := svc.Submit(context.Background(), form)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.Count() != 0 {
		t.Fatal("invalid form must not be stored")
	}
}

func TestServiceSubmitStorageFailure(t *testing.T) {
	notifier := newCaptureIntakeNotifier()
	svc := NewService(ServiceConfig{Repo: failingRepo{}, Notifier: notifier})

	_, err := svc.Submit(context.Background(), validForm())
	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected storage error, got %v", err)
	}

	select {
	case <-notifier.ch:
		t.Fatal("storage failure must not notify")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestServiceSubmitSurvivesNotifierFailure(t *testing.T) {
	notifier := newCaptureIntakeNotifier()
	notifier.err = errors.New("smtp down")
	svc := NewService(ServiceConfig{Repo: NewInMemoryRepository(), Notifier: notifier})

	if _, err := svc.Submit(context.Background(), validForm()); err != nil {
		t.Fatalf("notifier failure must not surface: %v", err)
	}
	notifier.wait(t)
}
