package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/enums"
)

// Plan is a paid listing tier. Priority feeds the plan term of the rank score.
type Plan struct {
	ID           string           `gorm:"column:id;primaryKey"`
	Name         string           `gorm:"column:name;not null"`
	Status       enums.PlanStatus `gorm:"column:status;type:plan_status;not null"`
	Priority     int              `gorm:"column:priority;not null;default:0"`
	PriceAmount  decimal.Decimal  `gorm:"column:price_amount;type:numeric(12,2);not null"`
	CurrencyCode string           `gorm:"column:currency_code;not null"`
	DurationDays int              `gorm:"column:duration_days;not null"`
	Features     pq.StringArray   `gorm:"column:features;type:text[];default:ARRAY[]::text[]"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
