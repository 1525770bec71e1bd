package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/editmelo/studio-platform/pkg/logging"
)

func TestListIntakes_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewAdminIntakesHandler(db, logging.Default())

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM client_intakes`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := sqlmock.NewRows([]string{"id", "contact_name", "contact_email", "business_name", "industry", "created_at"}).
		AddRow("intake-1", "Dana Smith", "dana@example.com", "Bloom Floristry", "Retail", time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))
	mock.ExpectQuery(`SELECT id, contact_name`).
		WithArgs(20, 0).
		WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/admin/intakes", nil)
	rec := httptest.NewRecorder()
	handler.ListIntakes(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp IntakesListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Intakes, 1)
	assert.Equal(t, "Bloom Floristry", resp.Intakes[0].BusinessName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetIntake_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewAdminIntakesHandler(db, logging.Default())

	cols := []string{
		"id", "contact_name", "contact_email", "contact_phone",
		"business_name", "industry", "location",
		"business_description", "website_goal", "desired_action",
		"brand_colors", "brand_fonts", "brand_personality", "inspiration_websites",
		"desired_pages", "services", "logo_files", "brand_assets",
		"success_definition", "current_challenges", "competitors", "avoid_or_include",
		"created_at",
	}
	rows := sqlmock.NewRows(cols).AddRow(
		"intake-1", "Dana Smith", "dana@example.com", "",
		"Bloom Floristry", "Retail", "Austin, TX",
		"Flower shop", "More subscriptions", "Book a consultation",
		"Primary: #0A2540", "Headings: Fraunces", "", "",
		[]byte(`[{"name":"Home"}]`), []byte(`[{"name":"Weekly subscriptions"}]`), []byte(`[]`), []byte(`[]`),
		"", "", "", "",
		time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
	)
	mock.ExpectQuery(`SELECT id, contact_name`).
		WithArgs("intake-1").
		WillReturnRows(rows)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/admin/intakes/intake-1", nil), "intakeID", "intake-1")
	rec := httptest.NewRecorder()
	handler.GetIntake(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp IntakeDetail
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Primary: #0A2540", resp.BrandColors)
	assert.JSONEq(t, `[{"name":"Home"}]`, string(resp.DesiredPages))
	assert.Equal(t, "2025-08-01T00:00:00Z", resp.CreatedAt)
}

func TestGetIntake_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewAdminIntakesHandler(db, logging.Default())

	mock.ExpectQuery(`SELECT id, contact_name`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/admin/intakes/missing", nil), "intakeID", "missing")
	rec := httptest.NewRecorder()
	handler.GetIntake(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteIntake(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewAdminIntakesHandler(db, logging.Default())

	mock.ExpectExec(`DELETE FROM client_intakes`).
		WithArgs("intake-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/admin/intakes/intake-1", nil), "intakeID", "intake-1")
	rec := httptest.NewRecorder()
	handler.DeleteIntake(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
