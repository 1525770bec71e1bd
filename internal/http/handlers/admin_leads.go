// Package handlers holds the admin review API. These endpoints run behind
// JWT auth plus an admin role check and read through database/sql.
package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/editmelo/studio-platform/pkg/logging"
)

// AdminLeadsHandler handles admin API endpoints for lead review.
type AdminLeadsHandler struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewAdminLeadsHandler creates a new admin leads handler.
func NewAdminLeadsHandler(db *sql.DB, logger *logging.Logger) *AdminLeadsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminLeadsHandler{
		db:     db,
		logger: logger,
	}
}

// LeadResponse represents a lead in API responses.
type LeadResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone,omitempty"`
	CompanyName        string `json:"company_name"`
	CompanyDescription string `json:"company_description"`
	CreatedAt          string `json:"created_at"`
}

// LeadsListResponse represents a paginated list of leads.
type LeadsListResponse struct {
	Leads      []LeadResponse `json:"leads"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// ListLeads returns a paginated list of leads, newest first.
// GET /admin/leads
func (h *AdminLeadsHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	offset := (page - 1) * pageSize

	var total int
	if err := h.db.QueryRowContext(r.Context(), `SELECT COUNT(*) FROM leads`).Scan(&total); err != nil {
		h.logger.Error("failed to count leads", "error", err)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, name, email, COALESCE(phone, ''), company_name, company_description, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, pageSize, offset)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	leads := []LeadResponse{}
	for rows.Next() {
		var lead LeadResponse
		var createdAt time.Time
		if err := rows.Scan(&lead.ID, &lead.Name, &lead.Email, &lead.Phone,
			&lead.CompanyName, &lead.CompanyDescription, &createdAt); err != nil {
			h.logger.Error("failed to scan lead row", "error", err)
			http.Error(w, "failed to list leads", http.StatusInternalServerError)
			return
		}
		lead.CreatedAt = createdAt.Format(time.RFC3339)
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		h.logger.Error("lead rows iteration failed", "error", err)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, LeadsListResponse{
		Leads:      leads,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	})
}

// GetLead returns one lead.
// GET /admin/leads/{leadID}
func (h *AdminLeadsHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")
	if leadID == "" {
		http.Error(w, "missing leadID", http.StatusBadRequest)
		return
	}

	var lead LeadResponse
	var createdAt time.Time
	err := h.db.QueryRowContext(r.Context(), `
		SELECT id, name, email, COALESCE(phone, ''), company_name, company_description, created_at
		FROM leads
		WHERE id = $1
	`, leadID).Scan(&lead.ID, &lead.Name, &lead.Email, &lead.Phone,
		&lead.CompanyName, &lead.CompanyDescription, &createdAt)
	if err == sql.ErrNoRows {
		http.Error(w, "lead not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to get lead", "lead_id", leadID, "error", err)
		http.Error(w, "failed to get lead", http.StatusInternalServerError)
		return
	}
	lead.CreatedAt = createdAt.Format(time.RFC3339)

	writeJSON(w, http.StatusOK, lead)
}

// DeleteLead removes a lead.
// DELETE /admin/leads/{leadID}
func (h *AdminLeadsHandler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")
	if leadID == "" {
		http.Error(w, "missing leadID", http.StatusBadRequest)
		return
	}

	result, err := h.db.ExecContext(r.Context(), `DELETE FROM leads WHERE id = $1`, leadID)
	if err != nil {
		h.logger.Error("failed to delete lead", "lead_id", leadID, "error", err)
		http.Error(w, "failed to delete lead", http.StatusInternalServerError)
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		http.Error(w, "lead not found", http.StatusNotFound)
		return
	}

	h.logger.Info("lead deleted", "lead_id", leadID)
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func pageParams(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func totalPages(total, pageSize int) int {
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return pages
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
