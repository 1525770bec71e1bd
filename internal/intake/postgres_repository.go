package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxQuerier is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores client intakes in the relational database.
type PostgresRepository struct {
	pool pgxQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("intake: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Create inserts a new row and returns it with the generated ID.
func (r *PostgresRepository) Create(ctx context.Context, intake *Intake) (*Intake, error) {
	pages, err := json.Marshal(intake.Form.DesiredPages)
	if err != nil {
		return nil, fmt.Errorf("intake: marshal pages: %w", err)
	}
	services, err := json.Marshal(intake.Form.Services)
	if err != nil {
		return nil, fmt.Errorf("intake: marshal services: %w", err)
	}
	logoFiles, err := json.Marshal(intake.Form.LogoFiles)
	if err != nil {
		return nil, fmt.Errorf("intake: marshal logo files: %w", err)
	}
	brandAssets, err := json.Marshal(intake.Form.BrandAssets)
	if err != nil {
		return nil, fmt.Errorf("intake: marshal brand assets: %w", err)
	}
	colorsJSON, err := json.Marshal(intake.Form.BrandColors)
	if err != nil {
		return nil, fmt.Errorf("intake: marshal colors: %w", err)
	}
	fontsJSON, err := json.Marshal(intake.Form.BrandFonts)
	if err != nil {
		return nil, fmt.Errorf("intake: marshal fonts: %w", err)
	}

	id := uuid.New()
	query := `
		INSERT INTO client_intakes (
			id, contact_name, contact_email, contact_phone,
			business_name, industry, location, business_description,
			website_goal, desired_action,
			brand_colors, brand_fonts, brand_colors_json, brand_fonts_json,
			brand_personality, inspiration_websites,
			desired_pages, services, logo_files, brand_assets,
			success_definition, current_challenges, competitors, avoid_or_include
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
		RETURNING created_at
	`
	f := intake.Form
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		f.ContactName,
		f.ContactEmail,
		nullable(f.ContactPhone),
		f.BusinessName,
		f.Industry,
		f.Location,
		f.BusinessDescription,
		f.WebsiteGoal,
		f.DesiredAction,
		nullable(intake.BrandColors),
		nullable(intake.BrandFonts),
		colorsJSON,
		fontsJSON,
		nullable(f.BrandPersonality),
		nullable(f.InspirationWebsites),
		pages,
		services,
		logoFiles,
		brandAssets,
		nullable(f.SuccessDefinition),
		nullable(f.CurrentChallenges),
		nullable(f.Competitors),
		nullable(f.AvoidOrInclude),
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("intake: insert failed: %w", err)
	}

	stored := *intake
	stored.ID = id.String()
	stored.CreatedAt = createdAt
	return &stored, nil
}

// GetByID fetches a single intake. The structured lists are rehydrated from
// their JSON columns.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Intake, error) {
	query := `
		SELECT id, contact_name, contact_email, COALESCE(contact_phone, ''),
			business_name, industry, location, business_description,
			website_goal, desired_action,
			COALESCE(brand_colors, ''), COALESCE(brand_fonts, ''),
			brand_colors_json, brand_fonts_json,
			COALESCE(brand_personality, ''), COALESCE(inspiration_websites, ''),
			desired_pages, services, logo_files, brand_assets,
			COALESCE(success_definition, ''), COALESCE(current_challenges, ''),
			COALESCE(competitors, ''), COALESCE(avoid_or_include, ''),
			created_at
		FROM client_intakes
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var intake Intake
	var colorsJSON, fontsJSON, pages, services, logoFiles, brandAssets []byte
	if err := row.Scan(
		&intake.ID,
		&intake.Form.ContactName,
		&intake.Form.ContactEmail,
		&intake.Form.ContactPhone,
		&intake.Form.BusinessName,
		&intake.Form.Industry,
		&intake.Form.Location,
		&intake.Form.BusinessDescription,
		&intake.Form.WebsiteGoal,
		&intake.Form.DesiredAction,
		&intake.BrandColors,
		&intake.BrandFonts,
		&colorsJSON,
		&fontsJSON,
		&intake.Form.BrandPersonality,
		&intake.Form.InspirationWebsites,
		&pages,
		&services,
		&logoFiles,
		&brandAssets,
		&intake.Form.SuccessDefinition,
		&intake.Form.CurrentChallenges,
		&intake.Form.Competitors,
		&intake.Form.AvoidOrInclude,
		&intake.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrIntakeNotFound
		}
		return nil, fmt.Errorf("intake: select failed: %w", err)
	}

	for _, c := range []struct {
		name string
		raw  []byte
		dest any
	}{
		{"brand_colors_json", colorsJSON, &intake.Form.BrandColors},
		{"brand_fonts_json", fontsJSON, &intake.Form.BrandFonts},
		{"desired_pages", pages, &intake.Form.DesiredPages},
		{"services", services, &intake.Form.Services},
		{"logo_files", logoFiles, &intake.Form.LogoFiles},
		{"brand_assets", brandAssets, &intake.Form.BrandAssets},
	} {
		if len(c.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(c.raw, c.dest); err != nil {
			return nil, fmt.Errorf("intake: decode %s: %w", c.name, err)
		}
	}

	return &intake, nil
}

// nullable maps empty strings to NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
