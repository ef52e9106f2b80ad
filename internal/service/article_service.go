package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agridynamic/internal/cache"
	apperrors "agridynamic/internal/errors"
	"agridynamic/internal/media"
	"agridynamic/internal/model"
	"agridynamic/internal/repository"
)

const (
	listCacheTTL = 5 * time.Minute

	articlesCacheKey     = "articles:all"
	articleCardsCacheKey = "articles:cards"
)

// ErrArticleNotFound is returned when no article matches the id.
var ErrArticleNotFound = apperrors.NotFound("Entry not found")

// cardStatuses are the lifecycle states shown on listing cards.
var cardStatuses = []model.ArticleStatus{
	model.ArticleStatusUpcoming,
	model.ArticleStatusInProgress,
	model.ArticleStatusCompleted,
}

// ArticleInput carries create and update fields. Nil fields are not supplied.
type ArticleInput struct {
	Title           *string
	Description     *string
	Published       *bool
	Status          *string
	Background      *string
	Methodology     *string
	Results         *string
	Conclusions     *string
	Recommendations *string
	Application     *string
	Contributors    []string // nil means not supplied
	Image           media.Source
}

// Deleted confirms a removal.
type Deleted struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ArticleService manages project and article entries.
type ArticleService interface {
	List(ctx context.Context, filter model.ArticleFilter) ([]model.Article, error)
	Cards(ctx context.Context) ([]model.ArticleCard, error)
	Get(ctx context.Context, id string) (*model.Article, error)
	Create(ctx context.Context, author *uuid.UUID, in ArticleInput) (*model.Article, error)
	Update(ctx context.Context, id string, in ArticleInput) (*model.Article, error)
	Delete(ctx context.Context, id string) (*Deleted, error)
}

type articleService struct {
	repo   repository.ArticleRepository
	images *media.Resolver
	cache  *cache.Client
}

// NewArticleService creates a new article service.
func NewArticleService(repo repository.ArticleRepository, images *media.Resolver, cache *cache.Client) ArticleService {
	return &articleService{repo: repo, images: images, cache: cache}
}

// List returns entries newest first. Only the unfiltered listing is cached.
func (s *articleService) List(ctx context.Context, filter model.ArticleFilter) ([]model.Article, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.Validation("Please provide valid values for: status.", "status")
	}
	unfiltered := filter == model.ArticleFilter{}

	var articles []model.Article
	if unfiltered && s.cache.GetJSON(ctx, articlesCacheKey, &articles) {
		return articles, nil
	}

	articles, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	if unfiltered {
		s.cache.SetJSON(ctx, articlesCacheKey, articles, listCacheTTL)
	}
	return articles, nil
}

func (s *articleService) Cards(ctx context.Context) ([]model.ArticleCard, error) {
	var cards []model.ArticleCard
	if s.cache.GetJSON(ctx, articleCardsCacheKey, &cards) {
		return cards, nil
	}

	cards, err := s.repo.ListCards(ctx, cardStatuses)
	if err != nil {
		return nil, fmt.Errorf("list article cards: %w", err)
	}
	s.cache.SetJSON(ctx, articleCardsCacheKey, cards, listCacheTTL)
	return cards, nil
}

func (s *articleService) Get(ctx context.Context, id string) (*model.Article, error) {
	articleID, err := parseID("Entry", id)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, articleID)
}

// Create validates the entry, resolves its image and persists it. Nothing is
// stored when the image cannot be resolved.
func (s *articleService) Create(ctx context.Context, author *uuid.UUID, in ArticleInput) (*model.Article, error) {
	article := &model.Article{
		AuthorID:     author,
		Status:       model.ArticleStatusUpcoming,
		Contributors: []string{},
	}
	applyArticleInput(article, in)
	if err := checkEntity(article, "Image"); err != nil {
		return nil, err
	}

	image, err := s.images.ResolveCreate(ctx, media.FolderArticles, in.Image)
	if err != nil {
		return nil, err
	}
	article.Image = image

	if err := s.repo.Create(ctx, article); err != nil {
		s.releaseUpload(in.Image, image)
		return nil, fmt.Errorf("create article: %w", err)
	}

	s.invalidate(ctx)
	return article, nil
}

// Update merges the supplied fields. The replaced image is released only after
// the entry is saved.
func (s *articleService) Update(ctx context.Context, id string, in ArticleInput) (*model.Article, error) {
	articleID, err := parseID("Entry", id)
	if err != nil {
		return nil, err
	}
	article, err := s.find(ctx, articleID)
	if err != nil {
		return nil, err
	}

	applyArticleInput(article, in)
	if err := checkEntity(article, "Image"); err != nil {
		return nil, err
	}

	res, err := s.images.ResolveUpdate(ctx, media.FolderArticles, article.Image, in.Image)
	if err != nil {
		return nil, err
	}
	article.Image = res.URL

	if err := s.repo.Update(ctx, article); err != nil {
		s.releaseUpload(in.Image, res.URL)
		return nil, fmt.Errorf("update article: %w", err)
	}

	s.images.Release(res.Replaced)
	s.invalidate(ctx)
	return article, nil
}

func (s *articleService) Delete(ctx context.Context, id string) (*Deleted, error) {
	articleID, err := parseID("Entry", id)
	if err != nil {
		return nil, err
	}
	article, err := s.find(ctx, articleID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, articleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("delete article: %w", err)
	}

	s.images.Release(article.Image)
	s.invalidate(ctx)
	return &Deleted{ID: articleID.String(), Message: "Entry removed"}, nil
}

func (s *articleService) find(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("find article: %w", err)
	}
	return article, nil
}

// releaseUpload drops an asset uploaded for a write that was not persisted.
func (s *articleService) releaseUpload(src media.Source, ref string) {
	if _, uploaded := src.(media.UploadedBytes); uploaded {
		s.images.Release(ref)
	}
}

func (s *articleService) invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, articlesCacheKey, articleCardsCacheKey)
}

func applyArticleInput(a *model.Article, in ArticleInput) {
	setString(&a.Title, in.Title, strings.TrimSpace)
	setString(&a.Description, in.Description, strings.TrimSpace)
	setString(&a.Background, in.Background, sanitizeRich)
	setString(&a.Methodology, in.Methodology, sanitizeRich)
	setString(&a.Results, in.Results, sanitizeRich)
	setString(&a.Conclusions, in.Conclusions, sanitizeRich)
	setString(&a.Recommendations, in.Recommendations, sanitizeRich)
	setString(&a.Application, in.Application, sanitizeRich)
	if in.Published != nil {
		a.Published = *in.Published
	}
	if in.Status != nil && *in.Status != "" {
		a.Status = model.ArticleStatus(*in.Status)
	}
	if in.Contributors != nil {
		a.Contributors = cleanContributors(in.Contributors)
	}
}

func cleanContributors(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
