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

// ArticleRepo is an in-memory ArticleRepository.
type ArticleRepo struct {
	mu       sync.Mutex
	articles map[string]*domain.Article
}

// NewArticleRepo constructs an empty repository.
func NewArticleRepo() *ArticleRepo {
	return &ArticleRepo{articles: make(map[string]*domain.Article)}
}

func (r *ArticleRepo) Create(ctx context.Context, article *domain.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	article.CreatedAt = time.Now()
	article.UpdatedAt = article.CreatedAt
	clone := *article
	r.articles[article.ID] = &clone
	return nil
}

func (r *ArticleRepo) Update(ctx context.Context, article *domain.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[article.ID]; !ok {
		return pgx.ErrNoRows
	}
	article.UpdatedAt = time.Now()
	clone := *article
	r.articles[article.ID] = &clone
	return nil
}

func (r *ArticleRepo) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	article, ok := r.articles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *article
	return &clone, nil
}

func (r *ArticleRepo) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, article := range r.articles {
		if article.Slug == slug && article.IsPublished {
			clone := *article
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *ArticleRepo) ListByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Article
	for _, article := range r.articles {
		if article.OrganizationID == organizationID {
			out = append(out, *article)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// CannedResponseRepo is an in-memory CannedResponseRepository.
type CannedResponseRepo struct {
	mu        sync.Mutex
	responses map[string]*domain.CannedResponse
}

// NewCannedResponseRepo constructs an empty repository.
func NewCannedResponseRepo() *CannedResponseRepo {
	return &CannedResponseRepo{responses: make(map[string]*domain.CannedResponse)}
}

func (r *CannedResponseRepo) Create(ctx context.Context, response *domain.CannedResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if response.ID == "" {
		response.ID = uuid.NewString()
	}
	response.CreatedAt = time.Now()
	response.UpdatedAt = response.CreatedAt
	clone := *response
	r.responses[response.ID] = &clone
	return nil
}

func (r *CannedResponseRepo) GetByID(ctx context.Context, id string) (*domain.CannedResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	response, ok := r.responses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *response
	return &clone, nil
}

func (r *CannedResponseRepo) ListByOrganization(ctx context.Context, organizationID string) ([]domain.CannedResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.CannedResponse
	for _, response := range r.responses {
		if response.OrganizationID == organizationID && response.IsActive {
			out = append(out, *response)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}
