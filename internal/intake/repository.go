package intake

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Intake is a persisted client intake. BrandColors/BrandFonts hold the
// flattened display strings the legacy schema expects; the structured lists
// live on Form and are persisted alongside as JSON.
type Intake struct {
	ID          string    `json:"id"`
	Form        Form      `json:"form"`
	BrandColors string    `json:"brand_colors"`
	BrandFonts  string    `json:"brand_fonts"`
	CreatedAt   time.Time `json:"created_at"`
}

// Repository defines the interface for intake storage
type Repository interface {
	Create(ctx context.Context, intake *Intake) (*Intake, error)
	GetByID(ctx context.Context, id string) (*Intake, error)
}

// InMemoryRepository is a Repository backed by a process-local map.
type InMemoryRepository struct {
	mu      sync.RWMutex
	intakes map[string]*Intake
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		intakes: make(map[string]*Intake),
	}
}

// Create stores a new intake in memory
func (r *InMemoryRepository) Create(ctx context.Context, intake *Intake) (*Intake, error) {
	stored := *intake
	stored.ID = uuid.New().String()
	stored.CreatedAt = time.Now().UTC()

	r.mu.Lock()
	r.intakes[stored.ID] = &stored
	r.mu.Unlock()

	return &stored, nil
}

// GetByID retrieves an intake by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Intake, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	intake, ok := r.intakes[id]
	if !ok {
		return nil, ErrIntakeNotFound
	}

	return intake, nil
}

// Count returns the number of stored intakes. Test helper.
func (r *InMemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.intakes)
}
