package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/editmelo/studio-platform/pkg/logging"
)

// AdminIntakesHandler handles admin API endpoints for client intake review.
type AdminIntakesHandler struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewAdminIntakesHandler creates a new admin intakes handler.
func NewAdminIntakesHandler(db *sql.DB, logger *logging.Logger) *AdminIntakesHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminIntakesHandler{
		db:     db,
		logger: logger,
	}
}

// IntakeSummary is the list-view shape: contact, business, and timestamps
// without the full form payload.
type IntakeSummary struct {
	ID           string `json:"id"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	BusinessName string `json:"business_name"`
	Industry     string `json:"industry,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// IntakeDetail is the full record, with structured lists decoded from their
// JSON columns.
type IntakeDetail struct {
	IntakeSummary
	ContactPhone        string          `json:"contact_phone,omitempty"`
	Location            string          `json:"location,omitempty"`
	BusinessDescription string          `json:"business_description,omitempty"`
	WebsiteGoal         string          `json:"website_goal,omitempty"`
	DesiredAction       string          `json:"desired_action,omitempty"`
	BrandColors         string          `json:"brand_colors,omitempty"`
	BrandFonts          string          `json:"brand_fonts,omitempty"`
	BrandPersonality    string          `json:"brand_personality,omitempty"`
	InspirationWebsites string          `json:"inspiration_websites,omitempty"`
	DesiredPages        json.RawMessage `json:"desired_pages,omitempty"`
	Services            json.RawMessage `json:"services,omitempty"`
	LogoFiles           json.RawMessage `json:"logo_files,omitempty"`
	BrandAssets         json.RawMessage `json:"brand_assets,omitempty"`
	SuccessDefinition   string          `json:"success_definition,omitempty"`
	CurrentChallenges   string          `json:"current_challenges,omitempty"`
	Competitors         string          `json:"competitors,omitempty"`
	AvoidOrInclude      string          `json:"avoid_or_include,omitempty"`
}

// IntakesListResponse represents a paginated list of intakes.
type IntakesListResponse struct {
	Intakes    []IntakeSummary `json:"intakes"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// ListIntakes returns a paginated list of intakes, newest first.
// GET /admin/intakes
func (h *AdminIntakesHandler) ListIntakes(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	offset := (page - 1) * pageSize

	var total int
	if err := h.db.QueryRowContext(r.Context(), `SELECT COUNT(*) FROM client_intakes`).Scan(&total); err != nil {
		h.logger.Error("failed to count intakes", "error", err)
		http.Error(w, "failed to list intakes", http.StatusInternalServerError)
		return
	}

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, contact_name, contact_email, business_name, COALESCE(industry, ''), created_at
		FROM client_intakes
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, pageSize, offset)
	if err != nil {
		h.logger.Error("failed to list intakes", "error", err)
		http.Error(w, "failed to list intakes", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	intakes := []IntakeSummary{}
	for rows.Next() {
		var s IntakeSummary
		var createdAt time.Time
		if err := rows.Scan(&s.ID, &s.ContactName, &s.ContactEmail, &s.BusinessName, &s.Industry, &createdAt); err != nil {
			h.logger.Error("failed to scan intake row", "error", err)
			http.Error(w, "failed to list intakes", http.StatusInternalServerError)
			return
		}
		s.CreatedAt = createdAt.Format(time.RFC3339)
		intakes = append(intakes, s)
	}
	if err := rows.Err(); err != nil {
		h.logger.Error("intake rows iteration failed", "error", err)
		http.Error(w, "failed to list intakes", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, IntakesListResponse{
		Intakes:    intakes,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	})
}

// GetIntake returns one intake with its full form payload.
// GET /admin/intakes/{intakeID}
func (h *AdminIntakesHandler) GetIntake(w http.ResponseWriter, r *http.Request) {
	intakeID := chi.URLParam(r, "intakeID")
	if intakeID == "" {
		http.Error(w, "missing intakeID", http.StatusBadRequest)
		return
	}

	var d IntakeDetail
	var createdAt time.Time
	err := h.db.QueryRowContext(r.Context(), `
		SELECT id, contact_name, contact_email, COALESCE(contact_phone, ''),
			business_name, COALESCE(industry, ''), COALESCE(location, ''),
			COALESCE(business_description, ''), COALESCE(website_goal, ''),
			COALESCE(desired_action, ''),
			COALESCE(brand_colors, ''), COALESCE(brand_fonts, ''),
			COALESCE(brand_personality, ''), COALESCE(inspiration_websites, ''),
			desired_pages, services, logo_files, brand_assets,
			COALESCE(success_definition, ''), COALESCE(current_challenges, ''),
			COALESCE(competitors, ''), COALESCE(avoid_or_include, ''),
			created_at
		FROM client_intakes
		WHERE id = $1
	`, intakeID).Scan(
		&d.ID, &d.ContactName, &d.ContactEmail, &d.ContactPhone,
		&d.BusinessName, &d.Industry, &d.Location,
		&d.BusinessDescription, &d.WebsiteGoal, &d.DesiredAction,
		&d.BrandColors, &d.BrandFonts, &d.BrandPersonality, &d.InspirationWebsites,
		&d.DesiredPages, &d.Services, &d.LogoFiles, &d.BrandAssets,
		&d.SuccessDefinition, &d.CurrentChallenges, &d.Competitors, &d.AvoidOrInclude,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		http.Error(w, "intake not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to get intake", "intake_id", intakeID, "error", err)
		http.Error(w, "failed to get intake", http.StatusInternalServerError)
		return
	}
	d.CreatedAt = createdAt.Format(time.RFC3339)

	writeJSON(w, http.StatusOK, d)
}

// DeleteIntake removes an intake.
// DELETE /admin/intakes/{intakeID}
func (h *AdminIntakesHandler) DeleteIntake(w http.ResponseWriter, r *http.Request) {
	intakeID := chi.URLParam(r, "intakeID")
	if intakeID == "" {
		http.Error(w, "missing intakeID", http.StatusBadRequest)
		return
	}

	result, err := h.db.ExecContext(r.Context(), `DELETE FROM client_intakes WHERE id = $1`, intakeID)
	if err != nil {
		h.logger.Error("failed to delete intake", "intake_id", intakeID, "error", err)
		http.Error(w, "failed to delete intake", http.StatusInternalServerError)
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		http.Error(w, "intake not found", http.StatusNotFound)
		return
	}

	h.logger.Info("intake deleted", "intake_id", intakeID)
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
