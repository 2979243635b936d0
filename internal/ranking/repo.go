package ranking

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/internal/repo"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/db/models"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/enums"
)

// ListingFilter narrows the candidate set loaded for ranking.
type ListingFilter struct {
	Category     string
	City         string
	HomepageOnly bool
	Limit        int
}

// Repository loads rankable shops.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListActive(ctx context.Context, filter ListingFilter) ([]models.Shop, error)
	FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Shop, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a listing repository bound to db.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Bind(tx)}
}

// candidateOrder keeps listings the engine always ranks high ahead of any
// candidate limit: manual ranks first, then featured and promoted shops.
const candidateOrder = "manual_rank IS NULL, manual_rank DESC, is_featured DESC, " +
	"homepage_priority DESC, rank_score DESC, rating DESC, created_at DESC, id ASC"

func (r *repository) ListActive(ctx context.Context, filter ListingFilter) ([]models.Shop, error) {
	query := r.DB(ctx).
		Model(&models.Shop{}).
		Where("status = ?", enums.ShopStatusActive)
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("LOWER(category) = ?", strings.ToLower(category))
	}
	if city := strings.TrimSpace(filter.City); city != "" {
		query = query.Where("LOWER(city) = ?", strings.ToLower(city))
	}
	if filter.HomepageOnly {
		query = query.Where("(is_featured OR homepage_priority > 0 OR manual_rank IS NOT NULL)")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var shops []models.Shop
	if err := query.Order(candidateOrder).Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

func (r *repository) FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Shop, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var shops []models.Shop
	if err := r.DB(ctx).
		Where("id IN ?", ids).
		Where("status = ?", enums.ShopStatusActive).
		Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}
