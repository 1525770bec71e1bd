// Package intake implements the client-intake wizard: the form aggregate, the
// step state machine that gates navigation, and the submission service.
package intake

import (
	"fmt"
	"regexp"
	"strings"
)

// List caps mirrored by the form UI.
const (
	MaxColors = 6
	MaxFonts  = 3
)

// Field length limits enforced server-side.
const (
	maxContactNameLen  = 100
	maxContactEmailLen = 255
	maxContactPhoneLen = 20
	maxBusinessNameLen = 200
	maxDescriptionLen  = 2000
	maxIndustryLen     = 100
	maxLocationLen     = 200
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UploadedFile references an asset accepted by the upload flow. URL is a
// short-lived preview link; StoragePath is the durable key that gets
// persisted.
type UploadedFile struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	StoragePath string `json:"storage_path,omitempty"`
	Type        string `json:"type"`
}

// ColorEntry is one brand color, e.g. {Label: "Primary", Value: "#0A2540"}.
type ColorEntry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FontEntry is one brand font, e.g. {Purpose: "Headings", Name: "Fraunces"}.
type FontEntry struct {
	Purpose string `json:"purpose"`
	Name    string `json:"name"`
}

// PageEntry is one desired website page.
type PageEntry struct {
	Name    string `json:"name"`
	Purpose string `json:"purpose"`
	Notes   string `json:"notes"`
}

// ServiceEntry is one service the business offers.
type ServiceEntry struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	TargetAudience string `json:"target_audience"`
	Outcome        string `json:"outcome"`
	Price          string `json:"price"`
}

// Form is the full intake aggregate. Every step mutates a slice of it; the
// whole aggregate survives navigation in both directions and is submitted
// atomically from the review step.
type Form struct {
	// Contact
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`

	// Business information
	BusinessName        string `json:"business_name"`
	Industry            string `json:"industry"`
	Location            string `json:"location"`
	BusinessDescription string `json:"business_description"`
	WebsiteGoal         string `json:"website_goal"`
	DesiredAction       string `json:"desired_action"`

	// Brand identity
	BrandColors         []ColorEntry   `json:"brand_colors"`
	BrandFonts          []FontEntry    `json:"brand_fonts"`
	BrandPersonality    string         `json:"brand_personality"`
	InspirationWebsites string         `json:"inspiration_websites"`
	LogoFiles           []UploadedFile `json:"logo_files"`

	// Website structure
	DesiredPages []PageEntry `json:"desired_pages"`

	// Services
	Services []ServiceEntry `json:"services"`

	// Visual assets
	BrandAssets []UploadedFile `json:"brand_assets"`

	// Goals and expectations
	SuccessDefinition string `json:"success_definition"`
	CurrentChallenges string `json:"current_challenges"`
	Competitors       string `json:"competitors"`
	AvoidOrInclude    string `json:"avoid_or_include"`
}

// NewForm returns the empty aggregate the wizard starts from: one "Home" page
// and one blank service row are pre-seeded.
func NewForm() *Form {
	return &Form{
		DesiredPages: []PageEntry{{Name: "Home"}},
		Services:     []ServiceEntry{{}},
	}
}

// AddColor appends a blank color entry. Returns false once the cap is hit.
func (f *Form) AddColor() bool {
	if len(f.BrandColors) >= MaxColors {
		return false
	}
	f.BrandColors = append(f.BrandColors, ColorEntry{})
	return true
}

// RemoveColor deletes the entry at i. Out-of-range indexes are ignored.
func (f *Form) RemoveColor(i int) bool {
	if i < 0 || i >= len(f.BrandColors) {
		return false
	}
	f.BrandColors = append(f.BrandColors[:i], f.BrandColors[i+1:]...)
	return true
}

// UpdateColor replaces the entry at i.
func (f *Form) UpdateColor(i int, c ColorEntry) bool {
	if i < 0 || i >= len(f.BrandColors) {
		return false
	}
	f.BrandColors[i] = c
	return true
}

// AddFont appends a blank font entry. Returns false once the cap is hit.
func (f *Form) AddFont() bool {
	if len(f.BrandFonts) >= MaxFonts {
		return false
	}
	f.BrandFonts = append(f.BrandFonts, FontEntry{})
	return true
}

// RemoveFont deletes the entry at i.
func (f *Form) RemoveFont(i int) bool {
	if i < 0 || i >= len(f.BrandFonts) {
		return false
	}
	f.BrandFonts = append(f.BrandFonts[:i], f.BrandFonts[i+1:]...)
	return true
}

// UpdateFont replaces the entry at i.
func (f *Form) UpdateFont(i int, e FontEntry) bool {
	if i < 0 || i >= len(f.BrandFonts) {
		return false
	}
	f.BrandFonts[i] = e
	return true
}

// AddPage appends a blank page entry.
func (f *Form) AddPage() {
	f.DesiredPages = append(f.DesiredPages, PageEntry{})
}

// RemovePage deletes the page at i. Removing the last page is allowed; the
// structure step simply stops passing its gate until a named page is added.
func (f *Form) RemovePage(i int) bool {
	if i < 0 || i >= len(f.DesiredPages) {
		return false
	}
	f.DesiredPages = append(f.DesiredPages[:i], f.DesiredPages[i+1:]...)
	return true
}

// UpdatePage replaces the page at i.
func (f *Form) UpdatePage(i int, p PageEntry) bool {
	if i < 0 || i >= len(f.DesiredPages) {
		return false
	}
	f.DesiredPages[i] = p
	return true
}

// AddService appends a blank service entry.
func (f *Form) AddService() {
	f.Services = append(f.Services, ServiceEntry{})
}

// RemoveService deletes the service at i.
func (f *Form) RemoveService(i int) bool {
	if i < 0 || i >= len(f.Services) {
		return false
	}
	f.Services = append(f.Services[:i], f.Services[i+1:]...)
	return true
}

// UpdateService replaces the service at i.
func (f *Form) UpdateService(i int, s ServiceEntry) bool {
	if i < 0 || i >= len(f.Services) {
		return false
	}
	f.Services[i] = s
	return true
}

// AddLogoFile records an accepted logo upload.
func (f *Form) AddLogoFile(file UploadedFile) {
	f.LogoFiles = append(f.LogoFiles, file)
}

// RemoveLogoFile deletes the logo file at i.
func (f *Form) RemoveLogoFile(i int) bool {
	if i < 0 || i >= len(f.LogoFiles) {
		return false
	}
	f.LogoFiles = append(f.LogoFiles[:i], f.LogoFiles[i+1:]...)
	return true
}

// AddBrandAsset records an accepted brand asset upload.
func (f *Form) AddBrandAsset(file UploadedFile) {
	f.BrandAssets = append(f.BrandAssets, file)
}

// RemoveBrandAsset deletes the brand asset at i.
func (f *Form) RemoveBrandAsset(i int) bool {
	if i < 0 || i >= len(f.BrandAssets) {
		return false
	}
	f.BrandAssets = append(f.BrandAssets[:i], f.BrandAssets[i+1:]...)
	return true
}

// Validate checks required fields, length bounds, and email shape.
func (f *Form) Validate() *ValidationError {
	if strings.TrimSpace(f.ContactName) == "" ||
		strings.TrimSpace(f.ContactEmail) == "" ||
		strings.TrimSpace(f.BusinessName) == "" {
		return &ValidationError{Message: "Missing required fields"}
	}

	if len(f.ContactName) > maxContactNameLen {
		return &ValidationError{Message: fmt.Sprintf("Contact name is too long (max %d characters)", maxContactNameLen)}
	}
	if len(f.ContactEmail) > maxContactEmailLen {
		return &ValidationError{Message: fmt.Sprintf("Email is too long (max %d characters)", maxContactEmailLen)}
	}
	if len(f.ContactPhone) > maxContactPhoneLen {
		return &ValidationError{Message: fmt.Sprintf("Phone number is too long (max %d characters)", maxContactPhoneLen)}
	}
	if len(f.BusinessName) > maxBusinessNameLen {
		return &ValidationError{Message: fmt.Sprintf("Business name is too long (max %d characters)", maxBusinessNameLen)}
	}
	if len(f.BusinessDescription) > maxDescriptionLen {
		return &ValidationError{Message: fmt.Sprintf("Business description is too long (max %d characters)", maxDescriptionLen)}
	}
	if len(f.Industry) > maxIndustryLen {
		return &ValidationError{Message: fmt.Sprintf("Industry is too long (max %d characters)", maxIndustryLen)}
	}
	if len(f.Location) > maxLocationLen {
		return &ValidationError{Message: fmt.Sprintf("Location is too long (max %d characters)", maxLocationLen)}
	}

	if !emailPattern.MatchString(f.ContactEmail) {
		return &ValidationError{Message: "Invalid email format"}
	}

	return nil
}

// FlattenColors renders the structured color list as the legacy display
// string, e.g. "Primary: #0A2540; Accent: #FF5A1F". Entries without a value
// are skipped.
func FlattenColors(colors []ColorEntry) string {
	var parts []string
	for _, c := range colors {
		if c.Value == "" {
			continue
		}
		parts = append(parts, c.Label+": "+c.Value)
	}
	return strings.Join(parts, "; ")
}

// FlattenFonts renders the structured font list as the legacy display string,
// e.g. "Headings: Fraunces; Body: Inter". Entries without a name are skipped.
func FlattenFonts(fonts []FontEntry) string {
	var parts []string
	for _, f := range fonts {
		if f.Name == "" {
			continue
		}
		parts = append(parts, f.Purpose+": "+f.Name)
	}
	return strings.Join(parts, "; ")
}
