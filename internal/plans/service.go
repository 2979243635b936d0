package plans

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/db/models"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/enums"
	pkgerrors "github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/errors"
)

// PriorityResolver resolves the plan priority of each shop ahead of scoring.
type PriorityResolver struct {
	repo Repository
}

// NewPriorityResolver builds a resolver backed by repo.
func NewPriorityResolver(repo Repository) (*PriorityResolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("plan repository required")
	}
	return &PriorityResolver{repo: repo}, nil
}

// Priorities returns the plan priority keyed by shop id. A shop earns its
// plan's priority only while the plan is active and the shop's subscription
// has not expired at now; every other shop maps to 0.
func (r *PriorityResolver) Priorities(ctx context.Context, shops []models.Shop, now time.Time) (map[uuid.UUID]float64, error) {
	out := make(map[uuid.UUID]float64, len(shops))
	ids := make([]string, 0, len(shops))
	seen := map[string]struct{}{}
	for _, shop := range shops {
		out[shop.ID] = 0
		if shop.PlanID == nil || *shop.PlanID == "" {
			continue
		}
		if _, ok := seen[*shop.PlanID]; ok {
			continue
		}
		seen[*shop.PlanID] = struct{}{}
		ids = append(ids, *shop.PlanID)
	}
	if len(ids) == 0 {
		return out, nil
	}

	plans, err := r.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plans")
	}
	priorityByPlan := make(map[string]float64, len(plans))
	for _, plan := range plans {
		if plan.Status != enums.PlanStatusActive {
			continue
		}
		priorityByPlan[plan.ID] = float64(plan.Priority)
	}

	for _, shop := range shops {
		if shop.PlanID == nil {
			continue
		}
		if shop.PlanExpiresAt != nil && !shop.PlanExpiresAt.After(now) {
			continue
		}
		if priority, ok := priorityByPlan[*shop.PlanID]; ok {
			out[shop.ID] = priority
		}
	}
	return out, nil
}
