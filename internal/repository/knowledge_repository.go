package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

// ArticleRepository handles persistence for knowledge base articles.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	Update(ctx context.Context, article *domain.Article) error
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	// GetPublishedBySlug returns only published articles.
	GetPublishedBySlug(ctx context.Context, slug string) (*domain.Article, error)
	ListByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]domain.Article, error)
}

// CannedResponseRepository handles persistence for canned responses.
type CannedResponseRepository interface {
	Create(ctx context.Context, response *domain.CannedResponse) error
	GetByID(ctx context.Context, id string) (*domain.CannedResponse, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]domain.CannedResponse, error)
}

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository instantiates the repository.
func NewArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &articleRepository{pool: pool}
}

const articleColumns = `id, organization_id, title, slug, body, is_published, created_at, updated_at`

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	const query = `
        INSERT INTO articles (organization_id, title, slug, body, is_published)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		article.OrganizationID,
		article.Title,
		article.Slug,
		article.Body,
		article.IsPublished,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
}

func (r *articleRepository) Update(ctx context.Context, article *domain.Article) error {
	const query = `
        UPDATE articles SET title=$1, slug=$2, body=$3, is_published=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		article.Title,
		article.Slug,
		article.Body,
		article.IsPublished,
		article.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *articleRepository) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE slug=$1 AND is_published`
	return r.fetchSingle(ctx, query, slug)
}

func (r *articleRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Article, error) {
	var article domain.Article
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&article.ID,
		&article.OrganizationID,
		&article.Title,
		&article.Slug,
		&article.Body,
		&article.IsPublished,
		&article.CreatedAt,
		&article.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) ListByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]domain.Article, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + articleColumns + ` FROM articles WHERE organization_id=$1 ORDER BY updated_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Article
	for rows.Next() {
		var article domain.Article
		if err := rows.Scan(
			&article.ID,
			&article.OrganizationID,
			&article.Title,
			&article.Slug,
			&article.Body,
			&article.IsPublished,
			&article.CreatedAt,
			&article.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, article)
	}
	return result, rows.Err()
}

type cannedResponseRepository struct {
	pool *pgxpool.Pool
}

// NewCannedResponseRepository instantiates the repository.
func NewCannedResponseRepository(pool *pgxpool.Pool) CannedResponseRepository {
	return &cannedResponseRepository{pool: pool}
}

func (r *cannedResponseRepository) Create(ctx context.Context, response *domain.CannedResponse) error {
	const query = `
        INSERT INTO canned_responses (organization_id, title, body, is_active)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		response.OrganizationID,
		response.Title,
		response.Body,
		response.IsActive,
	).Scan(&response.ID, &response.CreatedAt, &response.UpdatedAt)
}

func (r *cannedResponseRepository) GetByID(ctx context.Context, id string) (*domain.CannedResponse, error) {
	const query = `
        SELECT id, organization_id, title, body, is_active, created_at, updated_at
        FROM canned_responses WHERE id=$1`
	var response domain.CannedResponse
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&response.ID,
		&response.OrganizationID,
		&response.Title,
		&response.Body,
		&response.IsActive,
		&response.CreatedAt,
		&response.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *cannedResponseRepository) ListByOrganization(ctx context.Context, organizationID string) ([]domain.CannedResponse, error) {
	const query = `
        SELECT id, organization_id, title, body, is_active, created_at, updated_at
        FROM canned_responses WHERE organization_id=$1 AND is_active ORDER BY title`
	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CannedResponse
	for rows.Next() {
		var response domain.CannedResponse
		if err := rows.Scan(
			&response.ID,
			&response.OrganizationID,
			&response.Title,
			&response.Body,
			&response.IsActive,
			&response.CreatedAt,
			&response.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, response)
	}
	return result, rows.Err()
}
