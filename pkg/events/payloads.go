package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentCompletedEvent is emitted by the payment gateway integration once a
// shop's plan payment settles.
type PaymentCompletedEvent struct {
	PaymentID    uuid.UUID       `json:"payment_id"`
	ShopID       uuid.UUID       `json:"shop_id"`
	PlanID       string          `json:"plan_id,omitempty"`
	AgentID      *uuid.UUID      `json:"agent_id,omitempty"`
	OperatorID   *uuid.UUID      `json:"operator_id,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code"`
	CompletedAt  time.Time       `json:"completed_at"`
}
