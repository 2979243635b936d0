package plans

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/internal/repo"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/db/models"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/enums"
)

// Repository reads listing plans.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id string) (*models.Plan, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Plan, error)
	ListActive(ctx context.Context) ([]models.Plan, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a plan repository bound to db.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Bind(tx)}
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.Plan, error) {
	var plan models.Plan
	if err := r.DB(ctx).Where("id = ?", id).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []string) ([]models.Plan, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var plans []models.Plan
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repository) ListActive(ctx context.Context) ([]models.Plan, error) {
	var plans []models.Plan
	if err := r.DB(ctx).
		Where("status = ?", enums.PlanStatusActive).
		Order("priority DESC, id ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}
