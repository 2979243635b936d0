package ranking

import (
	"math"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/errors"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/validate"
)

// ListingSnapshot is the read-only projection of a shop the engine scores.
// PlanPriority is resolved by the caller before scoring.
type ListingSnapshot struct {
	ID               uuid.UUID `json:"id"`
	PlanPriority     float64   `json:"plan_priority" validate:"gte=0,lte=100"`
	ManualRank       *int      `json:"manual_rank" validate:"omitempty,gte=0"`
	IsFeatured       bool      `json:"is_featured"`
	HomepagePriority int       `json:"homepage_priority" validate:"gte=0,lte=100"`
	Rating           float64   `json:"rating" validate:"gte=0,lte=5"`
	RankScoreStored  float64   `json:"rank_score_stored" validate:"gte=0,lte=100"`
	CreatedAt        time.Time `json:"created_at"`
}

// HasManualRank reports whether an administrator override is set. Zero is a
// valid override.
func (l ListingSnapshot) HasManualRank() bool {
	return l.ManualRank != nil
}

// Validate fails fast on inputs that would yield a meaningless score.
func (l ListingSnapshot) Validate() error {
	if err := validate.Struct(l); err != nil {
		return err
	}
	if l.CreatedAt.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"created_at": "is required"})
	}
	return nil
}

// Engine scores listings against an injectable clock.
type Engine struct {
	now func() time.Time
}

// NewEngine returns an engine bound to the wall clock.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// Score computes the rank score of listing at the engine's current time.
func (e *Engine) Score(listing ListingSnapshot, distanceKm *float64) (float64, error) {
	now := time.Now
	if e != nil && e.now != nil {
		now = e.now
	}
	return Score(listing, distanceKm, now())
}

// Score computes the rank score of listing as of now. A nil distanceKm means
// the viewer location is unknown and no distance penalty applies.
func Score(listing ListingSnapshot, distanceKm *float64, now time.Time) (float64, error) {
	if err := listing.Validate(); err != nil {
		return 0, err
	}
	if distanceKm != nil {
		if err := validate.Var("distance_km", *distanceKm, "gte=0"); err != nil {
			return 0, err
		}
	}

	if listing.ManualRank != nil {
		return float64(*listing.ManualRank) * manualRankMultiplier, nil
	}

	score := 0.0
	if listing.IsFeatured {
		score += featuredBonus
	}
	score += float64(listing.HomepagePriority) * homepagePriorityWeight
	score += listing.Rating * ratingWeight
	score += listing.RankScoreStored * storedScoreWeight
	if distanceKm != nil && *distanceKm > 0 {
		score -= math.Min(*distanceKm/distancePenaltyDivisor, maxDistancePenalty)
	}
	score += freshnessBonus(listing.CreatedAt, now)
	score += listing.PlanPriority * planPriorityWeight

	return math.Max(score, 0), nil
}

// freshnessBonus decays linearly over the first 30 whole days. Listings with a
// creation time in the future count as day zero.
func freshnessBonus(createdAt, now time.Time) float64 {
	days := math.Floor(now.Sub(createdAt).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return math.Max(0, freshnessWindowDays-days) * freshnessWeight
}
