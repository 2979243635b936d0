package commission

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/internal/repo"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/db/models"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/enums"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/pagination"
)

// Repository persists commissions and finds payments still awaiting one.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, commission *models.Commission) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Commission, error)
	FindByPaymentID(ctx context.Context, paymentID uuid.UUID) (*models.Commission, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) (bool, error)
	List(ctx context.Context, params ListQuery) ([]models.Commission, *pagination.Cursor, error)
	ListUncommissionedPayments(ctx context.Context, since time.Time, limit int) ([]models.Payment, error)
}

// ListQuery configures commission listing for one payee.
type ListQuery struct {
	AgentID    *uuid.UUID
	OperatorID *uuid.UUID
	Status     *enums.CommissionStatus
	Limit      int
	Cursor     *pagination.Cursor
}

type repository struct {
	repo.Base
}

// NewRepository returns a commission repository bound to db.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Bind(tx)}
}

func (r *repository) Create(ctx context.Context, commission *models.Commission) error {
	return r.DB(ctx).Create(commission).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Commission, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) FindByPaymentID(ctx context.Context, paymentID uuid.UUID) (*models.Commission, error) {
	return r.first(ctx, "payment_id = ?", paymentID)
}

func (r *repository) first(ctx context.Context, where string, arg any) (*models.Commission, error) {
	var commission models.Commission
	if err := r.DB(ctx).Where(where, arg).First(&commission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &commission, nil
}

// MarkPaid flips a pending commission to paid and reports whether a row
// changed. Rows already paid are left untouched.
func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) (bool, error) {
	res := r.DB(ctx).
		Model(&models.Commission{}).
		Where("id = ? AND status = ?", id, enums.CommissionStatusPending).
		Updates(map[string]any{
			"status":     enums.CommissionStatusPaid,
			"paid_at":    paidAt,
			"updated_at": paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) List(ctx context.Context, params ListQuery) ([]models.Commission, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := r.DB(ctx).Model(&models.Commission{})
	if params.AgentID != nil {
		query = query.Where("agent_id = ?", *params.AgentID)
	}
	if params.OperatorID != nil {
		query = query.Where("operator_id = ?", *params.OperatorID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var commissions []models.Commission
	if err := query.Order("created_at DESC, id DESC").Limit(pagination.LimitWithBuffer(limit)).Find(&commissions).Error; err != nil {
		return nil, nil, err
	}

	if len(commissions) > limit {
		commissions = commissions[:limit]
		last := commissions[limit-1]
		return commissions, &pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		}, nil
	}
	return commissions, nil, nil
}

// ListUncommissionedPayments returns completed payments with no commission,
// newest first.
func (r *repository) ListUncommissionedPayments(ctx context.Context, since time.Time, limit int) ([]models.Payment, error) {
	if limit <= 0 {
		limit = 200
	}
	var payments []models.Payment
	if err := r.DB(ctx).
		Model(&models.Payment{}).
		Where("status = ?", enums.PaymentStatusCompleted).
		Where("completed_at >= ?", since).
		Where("NOT EXISTS (SELECT 1 FROM commissions c WHERE c.payment_id = payments.id)").
		Order("completed_at DESC, id ASC").
		Limit(limit).
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
