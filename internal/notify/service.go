package notify

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/editmelo/studio-platform/internal/intake"
	"github.com/editmelo/studio-platform/internal/leads"
	"github.com/editmelo/studio-platform/pkg/logging"
)

// Service sends the internal alert emails for new leads and completed
// intakes. It satisfies leads.Notifier and intake.Notifier.
type Service struct {
	email      EmailSender
	recipients []string
	logger     *logging.Logger
}

// NewService creates a notification service. With no sender or no recipients
// every call is a logged no-op.
func NewService(email EmailSender, recipients []string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:      email,
		recipients: recipients,
		logger:     logger,
	}
}

func (s *Service) enabled() bool {
	return s.email != nil && len(s.recipients) > 0
}

// LeadSubmitted emails the team about a newly captured lead.
func (s *Service) LeadSubmitted(ctx context.Context, lead *leads.Lead, captchaScore *float64) error {
	if !s.enabled() {
		s.logger.Debug("notify: email not configured, skipping lead alert", "lead_id", lead.ID)
		return nil
	}

	msg := EmailMessage{
		Subject: fmt.Sprintf("New Lead: %s", lead.CompanyName),
		Body:    leadTextBody(lead, captchaScore),
		HTML:    leadHTMLBody(lead, captchaScore),
	}
	return s.fanOut(ctx, msg)
}

// IntakeSubmitted emails the team about a completed client intake.
func (s *Service) IntakeSubmitted(ctx context.Context, record *intake.Intake) error {
	if !s.enabled() {
		s.logger.Debug("notify: email not configured, skipping intake alert", "intake_id", record.ID)
		return nil
	}

	msg := EmailMessage{
		Subject: fmt.Sprintf("New Client Intake: %s", record.Form.BusinessName),
		Body:    intakeTextBody(record),
		HTML:    intakeHTMLBody(record),
	}
	return s.fanOut(ctx, msg)
}

// fanOut delivers one message to every configured recipient. One failed
// recipient does not stop the rest; the first error is returned.
func (s *Service) fanOut(ctx context.Context, msg EmailMessage) error {
	var firstErr error
	for _, to := range s.recipients {
		m := msg
		m.To = to
		if err := s.email.Send(ctx, m); err != nil {
			s.logger.Error("notification send failed", "to", to, "subject", msg.Subject, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func leadTextBody(lead *leads.Lead, captchaScore *float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A new lead came in through the website.\n\n")
	fmt.Fprintf(&b, "Contact\n")
	fmt.Fprintf(&b, "  Name: %s\n", lead.Name)
	fmt.Fprintf(&b, "  Email: %s\n", lead.Email)
	if lead.Phone != "" {
		fmt.Fprintf(&b, "  Phone: %s\n", lead.Phone)
	}
	fmt.Fprintf(&b, "\nBusiness\n")
	fmt.Fprintf(&b, "  Company: %s\n", lead.CompanyName)
	fmt.Fprintf(&b, "  About: %s\n", lead.CompanyDescription)
	if captchaScore != nil {
		fmt.Fprintf(&b, "\nCaptcha score: %.2f\n", *captchaScore)
	}
	fmt.Fprintf(&b, "\nReceived: %s\n", time.Now().Format("January 2, 2006 at 3:04 PM"))
	return b.String()
}

func leadHTMLBody(lead *leads.Lead, captchaScore *float64) string {
	var b strings.Builder
	b.WriteString("<h2>New Lead</h2>")
	b.WriteString("<h3>Contact</h3><ul>")
	fmt.Fprintf(&b, "<li><strong>Name:</strong> %s</li>", html.EscapeString(lead.Name))
	fmt.Fprintf(&b, "<li><strong>Email:</strong> %s</li>", html.EscapeString(lead.Email))
	if lead.Phone != "" {
		fmt.Fprintf(&b, "<li><strong>Phone:</strong> %s</li>", html.EscapeString(lead.Phone))
	}
	b.WriteString("</ul><h3>Business</h3><ul>")
	fmt.Fprintf(&b, "<li><strong>Company:</strong> %s</li>", html.EscapeString(lead.CompanyName))
	fmt.Fprintf(&b, "<li><strong>About:</strong> %s</li>", html.EscapeString(lead.CompanyDescription))
	b.WriteString("</ul>")
	if captchaScore != nil {
		fmt.Fprintf(&b, "<p>Captcha score: %.2f</p>", *captchaScore)
	}
	return b.String()
}

func intakeTextBody(record *intake.Intake) string {
	f := record.Form
	var b strings.Builder
	fmt.Fprintf(&b, "A client completed the intake wizard.\n\n")
	fmt.Fprintf(&b, "Contact\n")
	fmt.Fprintf(&b, "  Name: %s\n", f.ContactName)
	fmt.Fprintf(&b, "  Email: %s\n", f.ContactEmail)
	if f.ContactPhone != "" {
		fmt.Fprintf(&b, "  Phone: %s\n", f.ContactPhone)
	}
	fmt.Fprintf(&b, "\nBusiness\n")
	fmt.Fprintf(&b, "  Name: %s\n", f.BusinessName)
	writeTextField(&b, "Industry", f.Industry)
	writeTextField(&b, "Location", f.Location)
	writeTextField(&b, "Description", f.BusinessDescription)
	writeTextField(&b, "Website goal", f.WebsiteGoal)
	writeTextField(&b, "Desired action", f.DesiredAction)
	fmt.Fprintf(&b, "\nBrand\n")
	writeTextField(&b, "Colors", record.BrandColors)
	writeTextField(&b, "Fonts", record.BrandFonts)
	writeTextField(&b, "Personality", f.BrandPersonality)
	writeTextField(&b, "Inspiration", f.InspirationWebsites)
	if len(f.DesiredPages) > 0 {
		fmt.Fprintf(&b, "\nPages\n")
		for _, p := range f.DesiredPages {
			fmt.Fprintf(&b, "  - %s", p.Name)
			if p.Purpose != "" {
				fmt.Fprintf(&b, " (%s)", p.Purpose)
			}
			b.WriteString("\n")
		}
	}
	if len(f.Services) > 0 {
		fmt.Fprintf(&b, "\nServices\n")
		for _, svc := range f.Services {
			if svc.Name == "" {
				continue
			}
			fmt.Fprintf(&b, "  - %s\n", svc.Name)
		}
	}
	fmt.Fprintf(&b, "\nGoals\n")
	writeTextField(&b, "Success looks like", f.SuccessDefinition)
	writeTextField(&b, "Challenges", f.CurrentChallenges)
	writeTextField(&b, "Competitors", f.Competitors)
	writeTextField(&b, "Avoid or include", f.AvoidOrInclude)
	fmt.Fprintf(&b, "\nIntake ID: %s\n", record.ID)
	return b.String()
}

func writeTextField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "  %s: %s\n", label, value)
}

func intakeHTMLBody(record *intake.Intake) string {
	f := record.Form
	var b strings.Builder
	b.WriteString("<h2>New Client Intake</h2>")

	b.WriteString("<h3>Contact</h3><ul>")
	writeHTMLField(&b, "Name", f.ContactName)
	writeHTMLField(&b, "Email", f.ContactEmail)
	writeHTMLField(&b, "Phone", f.ContactPhone)
	b.WriteString("</ul>")

	b.WriteString("<h3>Business</h3><ul>")
	writeHTMLField(&b, "Name", f.BusinessName)
	writeHTMLField(&b, "Industry", f.Industry)
	writeHTMLField(&b, "Location", f.Location)
	writeHTMLField(&b, "Description", f.BusinessDescription)
	writeHTMLField(&b, "Website goal", f.WebsiteGoal)
	writeHTMLField(&b, "Desired action", f.DesiredAction)
	b.WriteString("</ul>")

	b.WriteString("<h3>Brand</h3><ul>")
	writeHTMLField(&b, "Colors", record.BrandColors)
	writeHTMLField(&b, "Fonts", record.BrandFonts)
	writeHTMLField(&b, "Personality", f.BrandPersonality)
	writeHTMLField(&b, "Inspiration", f.InspirationWebsites)
	b.WriteString("</ul>")

	if len(f.DesiredPages) > 0 {
		b.WriteString("<h3>Pages</h3><ul>")
		for _, p := range f.DesiredPages {
			label := p.Name
			if p.Purpose != "" {
				label += " — " + p.Purpose
			}
			fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(label))
		}
		b.WriteString("</ul>")
	}

	if hasNamedService(f.Services) {
		b.WriteString("<h3>Services</h3><ul>")
		for _, svc := range f.Services {
			if svc.Name == "" {
				continue
			}
			fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(svc.Name))
		}
		b.WriteString("</ul>")
	}

	files := append(append([]intake.UploadedFile{}, f.LogoFiles...), f.BrandAssets...)
	if len(files) > 0 {
		b.WriteString("<h3>Files</h3><ul>")
		for _, file := range files {
			name := html.EscapeString(file.Name)
			if safeLink(file.URL) {
				fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`, html.EscapeString(file.URL), name)
			} else {
				fmt.Fprintf(&b, "<li>%s</li>", name)
			}
		}
		b.WriteString("</ul>")
	}

	b.WriteString("<h3>Goals</h3><ul>")
	writeHTMLField(&b, "Success looks like", f.SuccessDefinition)
	writeHTMLField(&b, "Challenges", f.CurrentChallenges)
	writeHTMLField(&b, "Competitors", f.Competitors)
	writeHTMLField(&b, "Avoid or include", f.AvoidOrInclude)
	b.WriteString("</ul>")

	fmt.Fprintf(&b, "<p>Intake ID: %s</p>", html.EscapeString(record.ID))
	return b.String()
}

func writeHTMLField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "<li><strong>%s:</strong> %s</li>", label, html.EscapeString(value))
}

func hasNamedService(services []intake.ServiceEntry) bool {
	for _, svc := range services {
		if svc.Name != "" {
			return true
		}
	}
	return false
}

// safeLink admits only http and https URLs into anchor tags. Anything else
// (javascript:, data:, relative paths) is rendered as plain text.
func safeLink(url string) bool {
	return strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "http://")
}

var (
	_ leads.Notifier  = (*Service)(nil)
	_ intake.Notifier = (*Service)(nil)
)
