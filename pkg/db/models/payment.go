package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/enums"
)

// Payment records money a shop owner paid for a plan. Agent and operator are
// the referral parties credited at the time of payment.
type Payment struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID           uuid.UUID           `gorm:"column:shop_id;type:uuid;not null"`
	PlanID           *string             `gorm:"column:plan_id"`
	AgentID          *uuid.UUID          `gorm:"column:agent_id;type:uuid"`
	OperatorID       *uuid.UUID          `gorm:"column:operator_id;type:uuid"`
	Amount           decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	CurrencyCode     string              `gorm:"column:currency_code;not null"`
	Status           enums.PaymentStatus `gorm:"column:status;type:payment_status;not null"`
	GatewayReference *string             `gorm:"column:gateway_reference"`
	CompletedAt      *time.Time          `gorm:"column:completed_at"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
