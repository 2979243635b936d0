package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/enums"
)

// Commission is the immutable split of one completed payment. Only Status and
// PaidAt change after creation.
type Commission struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PaymentID      uuid.UUID              `gorm:"column:payment_id;type:uuid;not null;uniqueIndex"`
	ShopID         uuid.UUID              `gorm:"column:shop_id;type:uuid;not null"`
	AgentID        *uuid.UUID             `gorm:"column:agent_id;type:uuid"`
	OperatorID     *uuid.UUID             `gorm:"column:operator_id;type:uuid"`
	AgentAmount    decimal.Decimal        `gorm:"column:agent_amount;type:numeric(12,2);not null"`
	OperatorAmount decimal.Decimal        `gorm:"column:operator_amount;type:numeric(12,2);not null"`
	CompanyAmount  decimal.Decimal        `gorm:"column:company_amount;type:numeric(12,2);not null"`
	TotalAmount    decimal.Decimal        `gorm:"column:total_amount;type:numeric(12,2);not null"`
	CurrencyCode   string                 `gorm:"column:currency_code;not null"`
	Status         enums.CommissionStatus `gorm:"column:status;type:commission_status;not null;default:'pending'"`
	PaidAt         *time.Time             `gorm:"column:paid_at"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
