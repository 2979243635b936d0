package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/enums"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/types"
)

// Shop is a merchant's directory listing, the unit being ranked.
type Shop struct {
	ID               uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID          uuid.UUID            `gorm:"column:owner_id;type:uuid;not null"`
	Name             string               `gorm:"column:name;not null"`
	Category         string               `gorm:"column:category;not null"`
	City             string               `gorm:"column:city;not null"`
	Location         types.GeographyPoint `gorm:"column:location;type:geography(Point,4326)"`
	Status           enums.ShopStatus     `gorm:"column:status;type:shop_status;not null;default:'pending'"`
	PlanID           *string              `gorm:"column:plan_id"`
	PlanExpiresAt    *time.Time           `gorm:"column:plan_expires_at"`
	ManualRank       *int                 `gorm:"column:manual_rank"`
	IsFeatured       bool                 `gorm:"column:is_featured;not null;default:false"`
	HomepagePriority int                  `gorm:"column:homepage_priority;not null;default:0"`
	Rating           float64              `gorm:"column:rating;not null;default:0"`
	RankScore        float64              `gorm:"column:rank_score;not null;default:0"`
	AgentID          *uuid.UUID           `gorm:"column:agent_id;type:uuid"`
	OperatorID       *uuid.UUID           `gorm:"column:operator_id;type:uuid"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
