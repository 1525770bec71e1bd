package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestPostgresRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := &PostgresRepository{pool: mock}
	createdAt := time.Now().UTC()

	anyArgs := make([]any, 24)
	for i := range anyArgs {
		anyArgs[i] = pgxmock.AnyArg()
	}
	mock.ExpectQuery("INSERT INTO client_intakes").
		WithArgs(anyArgs...).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	form := *validForm()
	form.BrandColors = []ColorEntry{{Label: "Primary", Value: "#0A2540"}}
	intake, err := repo.Create(context.Background(), &Intake{
		Form:        form,
		BrandColors: FlattenColors(form.BrandColors),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if intake.ID == "" {
		t.Error("expected generated ID")
	}
	if !intake.CreatedAt.Equal(createdAt) {
		t.Errorf("expected created_at from DB, got %v", intake.CreatedAt)
	}
	if intake.BrandColors != "Primary: #0A2540" {
		t.Errorf("flattened colors lost: %q", intake.BrandColors)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepositoryCreateDBError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := &PostgresRepository{pool: mock}
	mock.ExpectQuery("INSERT INTO client_intakes").
		WillReturnError(errors.New("connection refused"))

	if _, err := repo.Create(context.Background(), &Intake{Form: *validForm()}); err == nil {
		t.Fatal("expected insert error")
	}
}

func TestPostgresRepositoryGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := &PostgresRepository{pool: mock}
	mock.ExpectQuery("SELECT (.+) FROM client_intakes").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrIntakeNotFound) {
		t.Fatalf("expected ErrIntakeNotFound, got %v", err)
	}
}
