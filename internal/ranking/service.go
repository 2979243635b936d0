package ranking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/db/models"
	pkgerrors "github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/errors"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/logger"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/pagination"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/types"
)

const (
	defaultHomepageSize  = 24
	defaultMaxCandidates = 500
	defaultCacheTTL      = 30 * time.Minute
)

type planPriorityResolver interface {
	Priorities(ctx context.Context, shops []models.Shop, now time.Time) (map[uuid.UUID]float64, error)
}

type cacheRecorder interface {
	CacheHit()
	CacheMiss()
}

// ServiceParams groups dependencies for the ranking service.
type ServiceParams struct {
	Repo          Repository
	Plans         planPriorityResolver
	Cache         HomepageCache
	Metrics       cacheRecorder
	Logger        *logger.Logger
	HomepageSize  int
	MaxCandidates int
	CacheTTL      time.Duration
}

// Service ranks listings for directory queries and the homepage.
type Service struct {
	repo          Repository
	plans         planPriorityResolver
	cache         HomepageCache
	metrics       cacheRecorder
	logg          *logger.Logger
	homepageSize  int
	maxCandidates int
	cacheTTL      time.Duration
	now           func() time.Time
}

// ListingQuery selects and orders listings for one viewer.
type ListingQuery struct {
	Category string
	City     string
	Viewer   *types.GeographyPoint
	Limit    int
}

// RankedListing is a shop with the score it was ordered by.
type RankedListing struct {
	Shop       models.Shop
	Score      float64
	DistanceKm *float64
}

// NewService builds a ranking service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("listing repository is required")
	}
	if params.Plans == nil {
		return nil, errors.New("plan priority resolver is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	svc := &Service{
		repo:          params.Repo,
		plans:         params.Plans,
		cache:         params.Cache,
		metrics:       params.Metrics,
		logg:          params.Logger,
		homepageSize:  params.HomepageSize,
		maxCandidates: params.MaxCandidates,
		cacheTTL:      params.CacheTTL,
		now:           time.Now,
	}
	if svc.homepageSize <= 0 {
		svc.homepageSize = defaultHomepageSize
	}
	if svc.maxCandidates <= 0 {
		svc.maxCandidates = defaultMaxCandidates
	}
	if svc.cacheTTL <= 0 {
		svc.cacheTTL = defaultCacheTTL
	}
	return svc, nil
}

// RankListings returns active listings matching query in display order.
func (s *Service) RankListings(ctx context.Context, query ListingQuery) ([]RankedListing, error) {
	if query.Viewer != nil && !query.Viewer.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"viewer": "is invalid"})
	}
	shops, err := s.repo.ListActive(ctx, ListingFilter{
		Category: query.Category,
		City:     query.City,
		Limit:    s.maxCandidates,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listings")
	}
	ranked, err := s.rank(ctx, shops, query.Viewer)
	if err != nil {
		return nil, err
	}
	return truncate(ranked, pagination.NormalizeLimit(query.Limit)), nil
}

// HomepageListings serves the cached homepage order, recomputing on a miss.
func (s *Service) HomepageListings(ctx context.Context, limit int) ([]RankedListing, error) {
	if limit <= 0 || limit > s.homepageSize {
		limit = s.homepageSize
	}

	if s.cache != nil {
		entries, ok, err := s.cache.Load(ctx)
		if err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "homepage cache read failed")
		}
		if ok {
			s.recordCache(true)
			listings, err := s.hydrate(ctx, entries)
			if err != nil {
				return nil, err
			}
			return truncate(listings, limit), nil
		}
		s.recordCache(false)
	}

	ranked, err := s.computeHomepage(ctx)
	if err != nil {
		return nil, err
	}
	s.storeHomepage(ctx, ranked)
	return truncate(ranked, limit), nil
}

// RefreshHomepage recomputes and caches the homepage order, returning how many
// listings it holds.
func (s *Service) RefreshHomepage(ctx context.Context) (int, error) {
	ranked, err := s.computeHomepage(ctx)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		if err := s.cache.Store(ctx, toEntries(ranked), s.cacheTTL); err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store homepage order")
		}
	}
	return len(ranked), nil
}

func (s *Service) computeHomepage(ctx context.Context) ([]RankedListing, error) {
	shops, err := s.repo.ListActive(ctx, ListingFilter{HomepageOnly: true, Limit: s.maxCandidates})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load homepage listings")
	}
	ranked, err := s.rank(ctx, shops, nil)
	if err != nil {
		return nil, err
	}
	return truncate(ranked, s.homepageSize), nil
}

func (s *Service) storeHomepage(ctx context.Context, ranked []RankedListing) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Store(ctx, toEntries(ranked), s.cacheTTL); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "homepage cache write failed")
	}
}

// rank scores shops and orders them. Shops whose stored attributes fail
// validation are skipped with a warning rather than scored.
func (s *Service) rank(ctx context.Context, shops []models.Shop, viewer *types.GeographyPoint) ([]RankedListing, error) {
	if len(shops) == 0 {
		return []RankedListing{}, nil
	}
	now := s.now()
	priorities, err := s.plans.Priorities(ctx, shops, now)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]RankedListing, len(shops))
	entries := make([]Ranked, 0, len(shops))
	for _, shop := range shops {
		snapshot := Snapshot(shop, priorities[shop.ID])
		distance := viewerDistance(viewer, shop.Location)
		score, err := Score(snapshot, distance, now)
		if err != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"shop_id": shop.ID.String(),
				"error":   err.Error(),
			}), "skipping listing with invalid ranking inputs")
			continue
		}
		byID[shop.ID] = RankedListing{Shop: shop, Score: score, DistanceKm: distance}
		entries = append(entries, Ranked{ID: shop.ID, Score: score, Manual: snapshot.HasManualRank()})
	}

	Order(entries)
	out := make([]RankedListing, 0, len(entries))
	for _, entry := range entries {
		out = append(out, byID[entry.ID])
	}
	return out, nil
}

// hydrate loads the cached ids in cached order, dropping shops that have
// since been deactivated.
func (s *Service) hydrate(ctx context.Context, entries []Ranked) ([]RankedListing, error) {
	ids := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}
	shops, err := s.repo.FindActiveByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cached homepage listings")
	}
	byID := make(map[uuid.UUID]models.Shop, len(shops))
	for _, shop := range shops {
		byID[shop.ID] = shop
	}
	out := make([]RankedListing, 0, len(entries))
	for _, entry := range entries {
		shop, ok := byID[entry.ID]
		if !ok {
			continue
		}
		out = append(out, RankedListing{Shop: shop, Score: entry.Score})
	}
	return out, nil
}

func (s *Service) recordCache(hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.CacheHit()
		return
	}
	s.metrics.CacheMiss()
}

// Snapshot projects a stored shop into engine input.
func Snapshot(shop models.Shop, planPriority float64) ListingSnapshot {
	return ListingSnapshot{
		ID:               shop.ID,
		PlanPriority:     planPriority,
		ManualRank:       shop.ManualRank,
		IsFeatured:       shop.IsFeatured,
		HomepagePriority: shop.HomepagePriority,
		Rating:           shop.Rating,
		RankScoreStored:  shop.RankScore,
		CreatedAt:        shop.CreatedAt,
	}
}

func viewerDistance(viewer *types.GeographyPoint, location types.GeographyPoint) *float64 {
	if viewer == nil || location.IsZero() {
		return nil
	}
	d := viewer.DistanceKm(location)
	return &d
}

func toEntries(listings []RankedListing) []Ranked {
	entries := make([]Ranked, 0, len(listings))
	for _, listing := range listings {
		entries = append(entries, Ranked{
			ID:     listing.Shop.ID,
			Score:  listing.Score,
			Manual: listing.Shop.ManualRank != nil,
		})
	}
	return entries
}

func truncate(listings []RankedListing, limit int) []RankedListing {
	if limit > 0 && len(listings) > limit {
		return listings[:limit]
	}
	return listings
}
