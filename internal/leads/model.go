package leads

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Field length limits enforced server-side, independent of client-side
// maxLength attributes.
const (
	MaxNameLen        = 100
	MaxEmailLen       = 255
	MaxPhoneLen       = 20
	MaxCompanyNameLen = 200
	MaxDescriptionLen = 2000
)

// Mailbox-shape check only; deliverability is not our problem.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Lead is a persisted lead record. Created once per admitted submission,
// never mutated, deleted only by admin action.
type Lead struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone,omitempty"`
	CompanyName        string    `json:"company_name"`
	CompanyDescription string    `json:"company_description"`
	CreatedAt          time.Time `json:"created_at"`
}

// Submission is the untrusted public payload. Honeypot is a form field hidden
// from humans; any value in it marks the sender as a bot.
type Submission struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	CompanyName        string `json:"companyName"`
	CompanyDescription string `json:"companyDescription"`
	RecaptchaToken     string `json:"recaptchaToken"`
	Honeypot           string `json:"honeypot"`
}

// Validate checks required fields, length bounds, and email shape, in that
// order, returning the first failure.
func (s *Submission) Validate() *ValidationError {
	if strings.TrimSpace(s.Name) == "" ||
		strings.TrimSpace(s.Email) == "" ||
		strings.TrimSpace(s.CompanyName) == "" ||
		strings.TrimSpace(s.CompanyDescription) == "" {
		return &ValidationError{Message: "Missing required fields"}
	}

	if len(strings.TrimSpace(s.Name)) > MaxNameLen {
		return &ValidationError{Message: fmt.Sprintf("Name is too long (max %d characters)", MaxNameLen)}
	}
	if len(strings.TrimSpace(s.Email)) > MaxEmailLen {
		return &ValidationError{Message: fmt.Sprintf("Email is too long (max %d characters)", MaxEmailLen)}
	}
	if len(strings.TrimSpace(s.CompanyName)) > MaxCompanyNameLen {
		return &ValidationError{Message: fmt.Sprintf("Company name is too long (max %d characters)", MaxCompanyNameLen)}
	}
	if len(strings.TrimSpace(s.CompanyDescription)) > MaxDescriptionLen {
		return &ValidationError{Message: fmt.Sprintf("Description is too long (max %d characters)", MaxDescriptionLen)}
	}
	if phone := strings.TrimSpace(s.Phone); phone != "" && len(phone) > MaxPhoneLen {
		return &ValidationError{Message: fmt.Sprintf("Phone number is too long (max %d characters)", MaxPhoneLen)}
	}

	if !emailPattern.MatchString(s.Email) {
		return &ValidationError{Message: "Invalid email format"}
	}

	return nil
}

// normalize produces the record to persist: all fields trimmed, email
// lower-cased.
func (s *Submission) normalize() *Lead {
	return &Lead{
		Name:               strings.TrimSpace(s.Name),
		Email:              strings.ToLower(strings.TrimSpace(s.Email)),
		Phone:              strings.TrimSpace(s.Phone),
		CompanyName:        strings.TrimSpace(s.CompanyName),
		CompanyDescription: strings.TrimSpace(s.CompanyDescription),
	}
}
