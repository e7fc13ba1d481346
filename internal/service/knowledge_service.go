package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/repository"
	apperrors "github.com/opsdesk/helpdesk-service/pkg/util"
)

const (
	articleCachePrefix = "kb:article:"
	articleCacheTTL    = 10 * time.Minute
)

// KnowledgeService manages the knowledge base: articles and canned
// responses. Published articles are publicly readable by slug and cached in
// Redis.
type KnowledgeService struct {
	articles repository.ArticleRepository
	canned   repository.CannedResponseRepository
	cache    *redis.Client
	logger   *zap.Logger
}

// KnowledgeDependencies bundles dependencies.
type KnowledgeDependencies struct {
	ArticleRepo repository.ArticleRepository
	CannedRepo  repository.CannedResponseRepository
	Cache       *redis.Client
	Logger      *zap.Logger
}

// NewKnowledgeService constructs the service.
func NewKnowledgeService(deps KnowledgeDependencies) *KnowledgeService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KnowledgeService{
		articles: deps.ArticleRepo,
		canned:   deps.CannedRepo,
		cache:    deps.Cache,
		logger:   logger,
	}
}

// ArticleInput describes article creation/update payload.
type ArticleInput struct {
	OrganizationID string
	Title          string
	Body           string
	IsPublished    bool
}

// CreateArticle adds an article; the slug derives from the title.
func (s *KnowledgeService) CreateArticle(ctx context.Context, input ArticleInput) (*domain.Article, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Body) == "" {
		return nil, apperrors.NewValidationError("article title and body are required", nil)
	}
	article := &domain.Article{
		OrganizationID: input.OrganizationID,
		Title:          strings.TrimSpace(input.Title),
		Slug:           slugify(input.Title),
		Body:           input.Body,
		IsPublished:    input.IsPublished,
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

// UpdateArticle replaces article content and publish state.
func (s *KnowledgeService) UpdateArticle(ctx context.Context, id string, input ArticleInput) (*domain.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "article", id)
	}
	oldSlug := article.Slug
	article.Title = strings.TrimSpace(input.Title)
	article.Slug = slugify(input.Title)
	article.Body = input.Body
	article.IsPublished = input.IsPublished
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidateArticle(ctx, oldSlug)
	s.invalidateArticle(ctx, article.Slug)
	return article, nil
}

// PublishedArticle fetches a published article by slug, cache-first.
func (s *KnowledgeService) PublishedArticle(ctx context.Context, slug string) (*domain.Article, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, articleCachePrefix+slug).Bytes(); err == nil {
			var cached domain.Article
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	article, err := s.articles.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundOr(err, "article", slug)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(article); err == nil {
			if err := s.cache.Set(ctx, articleCachePrefix+slug, raw, articleCacheTTL).Err(); err != nil {
				s.logger.Debug("article cache write failed", zap.Error(err))
			}
		}
	}
	return article, nil
}

// ListArticles returns an organization's articles.
func (s *KnowledgeService) ListArticles(ctx context.Context, organizationID string, limit, offset int) ([]domain.Article, error) {
	articles, err := s.articles.ListByOrganization(ctx, organizationID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return articles, nil
}

// CreateCannedResponse adds a reusable reply snippet.
func (s *KnowledgeService) CreateCannedResponse(ctx context.Context, organizationID, title, body string) (*domain.CannedResponse, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("canned response title and body are required", nil)
	}
	response := &domain.CannedResponse{
		OrganizationID: organizationID,
		Title:          strings.TrimSpace(title),
		Body:           body,
		IsActive:       true,
	}
	if err := s.canned.Create(ctx, response); err != nil {
		return nil, apperrors.MapError(err)
	}
	return response, nil
}

// ListCannedResponses returns an organization's active snippets.
func (s *KnowledgeService) ListCannedResponses(ctx context.Context, organizationID string) ([]domain.CannedResponse, error) {
	responses, err := s.canned.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return responses, nil
}

func (s *KnowledgeService) invalidateArticle(ctx context.Context, slug string) {
	if s.cache == nil || slug == "" {
		return
	}
	if err := s.cache.Del(ctx, articleCachePrefix+slug).Err(); err != nil {
		s.logger.Debug("article cache invalidation failed", zap.Error(err))
	}
}

func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
