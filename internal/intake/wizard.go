package intake

import (
	"context"
	"strings"
)

// Step identifies one wizard screen. Steps run in declaration order.
type Step int

const (
	StepWelcome Step = iota
	StepBusiness
	StepBrand
	StepStructure
	StepServices
	StepAssets
	StepGoals
	StepReview

	stepCount
)

var stepNames = [stepCount]string{
	"welcome", "business", "brand", "structure", "services", "assets", "goals", "review",
}

func (s Step) String() string {
	if s < 0 || s >= stepCount {
		return "invalid"
	}
	return stepNames[s]
}

// stepGates holds one completion predicate per step, indexed by Step. A step's
// gate decides whether Next may leave it. Keeping this a table (rather than
// inline branching) keeps step addition and removal localized.
var stepGates = [stepCount]func(*Form) bool{
	StepWelcome: func(f *Form) bool {
		return strings.TrimSpace(f.ContactName) != "" && strings.TrimSpace(f.ContactEmail) != ""
	},
	StepBusiness: func(f *Form) bool {
		return strings.TrimSpace(f.BusinessName) != "" &&
			strings.TrimSpace(f.Industry) != "" &&
			strings.TrimSpace(f.Location) != "" &&
			strings.TrimSpace(f.BusinessDescription) != "" &&
			strings.TrimSpace(f.WebsiteGoal) != "" &&
			strings.TrimSpace(f.DesiredAction) != ""
	},
	StepBrand: optional,
	StepStructure: func(f *Form) bool {
		return len(f.DesiredPages) > 0 && strings.TrimSpace(f.DesiredPages[0].Name) != ""
	},
	StepServices: optional,
	StepAssets:   optional,
	StepGoals:    optional,
	StepReview:   optional,
}

func optional(*Form) bool { return true }

// Submitter persists a completed form and returns the stored record.
type Submitter interface {
	Submit(ctx context.Context, form *Form) (*Intake, error)
}

// Wizard is the multi-step intake state machine. It is single-session state:
// all mutations happen on one goroutine, matching one browser tab.
type Wizard struct {
	step     Step
	form     *Form
	complete bool
}

// NewWizard starts a wizard at the welcome step with a fresh form.
func NewWizard() *Wizard {
	return &Wizard{step: StepWelcome, form: NewForm()}
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	return w.step
}

// Form returns the mutable aggregate. Edits to it are the wizard's mutation
// contract: partial merges that never touch other steps' data.
func (w *Wizard) Form() *Form {
	return w.form
}

// Complete reports whether the wizard reached its terminal state.
func (w *Wizard) Complete() bool {
	return w.complete
}

// CanProceed evaluates the current step's completion predicate.
func (w *Wizard) CanProceed() bool {
	return stepGates[w.step](w.form)
}

// Next advances one step if the current step's gate passes. It reports
// whether the step changed. No skipping: one call moves at most one step.
func (w *Wizard) Next() bool {
	if w.step >= stepCount-1 {
		return false
	}
	if !w.CanProceed() {
		return false
	}
	w.step++
	return true
}

// Prev moves back one step. Always allowed except from the first step.
// Nothing entered so far is discarded.
func (w *Wizard) Prev() bool {
	if w.step <= StepWelcome {
		return false
	}
	w.step--
	return true
}

// Submit packages the aggregate and persists it through s. It is permitted
// only from the review step and succeeds at most once. On a storage failure
// the wizard stays on review so the user can retry; on success it enters the
// terminal complete state.
func (w *Wizard) Submit(ctx context.Context, s Submitter) (*Intake, error) {
	if w.step != StepReview {
		return nil, ErrNotReviewStep
	}
	if w.complete {
		return nil, ErrAlreadySubmitted
	}

	intake, err := s.Submit(ctx, w.form)
	if err != nil {
		return nil, err
	}

	w.complete = true
	return intake, nil
}

// Reset discards all state, as when the intake modal is closed.
func (w *Wizard) Reset() {
	w.step = StepWelcome
	w.form = NewForm()
	w.complete = false
}
