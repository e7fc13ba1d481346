package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

// StateRepo is an in-memory TicketStateRepository.
type StateRepo struct {
	mu     sync.Mutex
	states map[string]*domain.TicketState
}

// NewStateRepo constructs an empty repository.
func NewStateRepo() *StateRepo {
	return &StateRepo{states: make(map[string]*domain.TicketState)}
}

// Add inserts a state directly, for test seeding.
func (r *StateRepo) Add(state domain.TicketState) domain.TicketState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if state.ID == "" {
		state.ID = uuid.NewString()
	}
	clone := state
	r.states[state.ID] = &clone
	return state
}

func (r *StateRepo) GetByID(ctx context.Context, id string) (*domain.TicketState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *state
	return &clone, nil
}

func (r *StateRepo) GetDefault(ctx context.Context) (*domain.TicketState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.firstMatching(func(s *domain.TicketState) bool { return s.IsDefault })
}

func (r *StateRepo) GetFirstFinal(ctx context.Context) (*domain.TicketState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.firstMatching(func(s *domain.TicketState) bool { return s.IsFinal })
}

func (r *StateRepo) List(ctx context.Context) ([]domain.TicketState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.TicketState, 0, len(r.states))
	for _, state := range r.states {
		out = append(out, *state)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (r *StateRepo) firstMatching(match func(*domain.TicketState) bool) (*domain.TicketState, error) {
	var best *domain.TicketState
	for _, state := range r.states {
		if !match(state) {
			continue
		}
		if best == nil || state.DisplayOrder < best.DisplayOrder {
			best = state
		}
	}
	if best == nil {
		return nil, pgx.ErrNoRows
	}
	clone := *best
	return &clone, nil
}

// CategoryRepo is an in-memory TicketCategoryRepository.
type CategoryRepo struct {
	mu         sync.Mutex
	categories map[string]*domain.TicketCategory
}

// NewCategoryRepo constructs an empty repository.
func NewCategoryRepo() *CategoryRepo {
	return &CategoryRepo{categories: make(map[string]*domain.TicketCategory)}
}

func (r *CategoryRepo) Create(ctx context.Context, category *domain.TicketCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*domain.TicketCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *category
	return &clone, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]domain.TicketCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.TicketCategory, 0, len(r.categories))
	for _, category := range r.categories {
		out = append(out, *category)
	}
	return out, nil
}

// NoteRepo is an in-memory NoteRepository.
type NoteRepo struct {
	mu    sync.Mutex
	notes []domain.Note
	// FailCreate forces the next Create to fail, for rollback tests.
	FailCreate error
}

// NewNoteRepo constructs an empty repository.
func NewNoteRepo() *NoteRepo {
	return &NoteRepo{}
}

func (r *NoteRepo) Create(ctx context.Context, note *domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCreate != nil {
		err := r.FailCreate
		r.FailCreate = nil
		return err
	}
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	note.CreatedAt = time.Now()
	r.notes = append(r.notes, *note)
	return nil
}

func (r *NoteRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Note
	for _, note := range r.notes {
		if note.TicketID == ticketID {
			out = append(out, note)
		}
	}
	return out, nil
}
