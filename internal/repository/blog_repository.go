package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/zfogg/curlmap/backend/internal/models"
	"gorm.io/gorm"
)

const DefaultBlogLimit = 50

// BlogRepository reads published blog posts
type BlogRepository interface {
	ListPosts(ctx context.Context, tag string, limit int) ([]models.BlogPost, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	GetFeaturedPost(ctx context.Context) (*models.BlogPost, error)
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog repository
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

// ListPosts returns posts newest first, optionally restricted to a tag
func (r *blogRepository) ListPosts(ctx context.Context, tag string, limit int) ([]models.BlogPost, error) {
	if limit <= 0 {
		limit = DefaultBlogLimit
	}

	q := r.db.WithContext(ctx).Model(&models.BlogPost{})
	if tag != "" {
		q = whereArrayOverlaps(q, "tags", []string{tag})
	}

	posts := make([]models.BlogPost, 0)
	if err := q.Order("published_at DESC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	return posts, nil
}

// GetPostBySlug returns a single post
func (r *blogRepository) GetPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBlogPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blog post: %w", err)
	}
	return &post, nil
}

// GetFeaturedPost returns the newest featured post, or nil when there is none
func (r *blogRepository) GetFeaturedPost(ctx context.Context) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.WithContext(ctx).
		Where("featured = ?", true).
		Order("published_at DESC").
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get featured blog post: %w", err)
	}
	return &post, nil
}
