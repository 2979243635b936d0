package plans

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/db/models"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/enums"
	pkgerrors "github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/errors"
)

type stubPlanRepo struct {
	plans     []models.Plan
	err       error
	requested []string
}

func (s *stubPlanRepo) WithTx(*gorm.DB) Repository { return s }

func (s *stubPlanRepo) FindByID(_ context.Context, id string) (*models.Plan, error) {
	for _, p := range s.plans {
		if p.ID == id {
			plan := p
			return &plan, nil
		}
	}
	return nil, nil
}

func (s *stubPlanRepo) FindByIDs(_ context.Context, ids []string) ([]models.Plan, error) {
	s.requested = ids
	return s.plans, s.err
}

func (s *stubPlanRepo) ListActive(context.Context) ([]models.Plan, error) {
	return s.plans, s.err
}

func strPtr(v string) *string { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func TestPrioritiesResolvesActiveUnexpiredPlans(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	repo := &stubPlanRepo{plans: []models.Plan{
		{ID: "gold", Status: enums.PlanStatusActive, Priority: 80},
		{ID: "silver", Status: enums.PlanStatusActive, Priority: 40},
		{ID: "legacy", Status: enums.PlanStatusDeprecated, Priority: 90},
	}}
	resolver, err := NewPriorityResolver(repo)
	if err != nil {
		t.Fatalf("NewPriorityResolver: %v", err)
	}

	gold := models.Shop{ID: uuid.New(), PlanID: strPtr("gold"), PlanExpiresAt: timePtr(now.Add(24 * time.Hour))}
	silverNoExpiry := models.Shop{ID: uuid.New(), PlanID: strPtr("silver")}
	expired := models.Shop{ID: uuid.New(), PlanID: strPtr("gold"), PlanExpiresAt: timePtr(now)}
	deprecated := models.Shop{ID: uuid.New(), PlanID: strPtr("legacy")}
	free := models.Shop{ID: uuid.New()}

	got, err := resolver.Priorities(context.Background(), []models.Shop{gold, silverNoExpiry, expired, deprecated, free}, now)
	if err != nil {
		t.Fatalf("Priorities: %v", err)
	}

	want := map[uuid.UUID]float64{
		gold.ID:           80,
		silverNoExpiry.ID: 40,
		expired.ID:        0,
		deprecated.ID:     0,
		free.ID:           0,
	}
	for id, priority := range want {
		if got[id] != priority {
			t.Fatalf("shop %s: expected %v, got %v", id, priority, got[id])
		}
	}
	if len(repo.requested) != 3 {
		t.Fatalf("expected plan ids to be de-duplicated, got %v", repo.requested)
	}
}

func TestPrioritiesSkipsLookupWithoutPlans(t *testing.T) {
	repo := &stubPlanRepo{err: errors.New("should not be called")}
	resolver, err := NewPriorityResolver(repo)
	if err != nil {
		t.Fatalf("NewPriorityResolver: %v", err)
	}
	got, err := resolver.Priorities(context.Background(), []models.Shop{{ID: uuid.New()}}, time.Now())
	if err != nil {
		t.Fatalf("Priorities: %v", err)
	}
	if len(got) != 1 || repo.requested != nil {
		t.Fatalf("expected no lookup, got %v requested=%v", got, repo.requested)
	}
}

func TestPrioritiesWrapsRepositoryError(t *testing.T) {
	resolver, err := NewPriorityResolver(&stubPlanRepo{err: errors.New("db down")})
	if err != nil {
		t.Fatalf("NewPriorityResolver: %v", err)
	}
	_, err = resolver.Priorities(context.Background(), []models.Shop{{ID: uuid.New(), PlanID: strPtr("gold")}}, time.Now())
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestNewPriorityResolverRequiresRepo(t *testing.T) {
	if _, err := NewPriorityResolver(nil); err == nil {
		t.Fatal("expected error for nil repository")
	}
}
