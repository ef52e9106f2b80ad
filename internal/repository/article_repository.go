package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agridynamic/internal/model"
)

// ArticleRepository defines article persistence operations.
type ArticleRepository interface {
	Create(ctx context.Context, article *model.Article) error
	Update(ctx context.Context, article *model.Article) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Article, error)
	List(ctx context.Context, filter model.ArticleFilter) ([]model.Article, error)
	ListCards(ctx context.Context, statuses []model.ArticleStatus) ([]model.ArticleCard, error)
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new article repository.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// Create creates a new article.
func (r *articleRepository) Create(ctx context.Context, article *model.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

// Update saves every column of an existing article.
func (r *articleRepository) Update(ctx context.Context, article *model.Article) error {
	return r.db.WithContext(ctx).Save(article).Error
}

// Delete removes an article. It returns gorm.ErrRecordNotFound when nothing was deleted.
func (r *articleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Article{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID finds an article by ID.
func (r *articleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	var article model.Article
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// List returns articles newest first.
func (r *articleRepository) List(ctx context.Context, filter model.ArticleFilter) ([]model.Article, error) {
	q := r.db.WithContext(ctx).Model(&model.Article{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Published != nil {
		q = q.Where("published = ?", *filter.Published)
	}

	articles := []model.Article{}
	if err := q.Order("created_at DESC").Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// ListCards returns the card projection of articles in the given statuses, newest first.
func (r *articleRepository) ListCards(ctx context.Context, statuses []model.ArticleStatus) ([]model.ArticleCard, error) {
	cards := []model.ArticleCard{}
	err := r.db.WithContext(ctx).Model(&model.Article{}).
		Select("id", "title", "description", "image", "contributors", "status", "created_at").
		Where("status IN ?", statuses).
		Order("created_at DESC").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}
