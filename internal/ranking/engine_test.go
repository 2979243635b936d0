package ranking

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/errors"
)

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func assertScore(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected score %v, got %v", want, got)
	}
}

func baseListing() ListingSnapshot {
	return ListingSnapshot{
		ID:        uuid.New(),
		CreatedAt: fixedNow.Add(-90 * 24 * time.Hour),
	}
}

func TestScoreFeaturedFreshListing(t *testing.T) {
	listing := ListingSnapshot{
		ID:               uuid.New(),
		IsFeatured:       true,
		HomepagePriority: 10,
		Rating:           5,
		RankScoreStored:  0,
		CreatedAt:        fixedNow,
	}

	score, err := Score(listing, floatPtr(0), fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertScore(t, score, 48.5)
}

func TestScoreManualRank(t *testing.T) {
	listing := ListingSnapshot{
		ID:               uuid.New(),
		ManualRank:       intPtr(3),
		IsFeatured:       true,
		HomepagePriority: 100,
		Rating:           5,
		RankScoreStored:  100,
		PlanPriority:     100,
		CreatedAt:        fixedNow,
	}

	score, err := Score(listing, floatPtr(500), fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertScore(t, score, 3000)
	if score <= 48.5 {
		t.Fatalf("manual score %v should beat the featured example", score)
	}
}

func TestScoreTermWeights(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*ListingSnapshot)
		distance *float64
		want     float64
	}{
		{name: "empty old listing", mutate: func(*ListingSnapshot) {}, want: 0},
		{name: "featured", mutate: func(l *ListingSnapshot) { l.IsFeatured = true }, want: 30},
		{name: "homepage priority", mutate: func(l *ListingSnapshot) { l.HomepagePriority = 50 }, want: 10},
		{name: "rating", mutate: func(l *ListingSnapshot) { l.Rating = 4 }, want: 12},
		{name: "stored score", mutate: func(l *ListingSnapshot) { l.RankScoreStored = 40 }, want: 4},
		{name: "plan priority", mutate: func(l *ListingSnapshot) { l.PlanPriority = 50 }, want: 20},
		{
			name:     "distance penalty",
			mutate:   func(l *ListingSnapshot) { l.Rating = 4 },
			distance: floatPtr(25),
			want:     9.5,
		},
		{
			name:     "distance penalty capped",
			mutate:   func(l *ListingSnapshot) { l.Rating = 4 },
			distance: floatPtr(800),
			want:     7,
		},
		{
			name:     "zero distance has no penalty",
			mutate:   func(l *ListingSnapshot) { l.Rating = 4 },
			distance: floatPtr(0),
			want:     12,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			listing := baseListing()
			tc.mutate(&listing)
			score, err := Score(listing, tc.distance, fixedNow)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertScore(t, score, tc.want)
		})
	}
}

func TestFreshnessBonus(t *testing.T) {
	cases := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{name: "brand new", age: 0, want: 1.5},
		{name: "ten days", age: 10 * 24 * time.Hour, want: 1.0},
		{name: "partial day floors", age: 29*24*time.Hour + 23*time.Hour, want: 0.05},
		{name: "thirty days", age: 30 * 24 * time.Hour, want: 0},
		{name: "old", age: 400 * 24 * time.Hour, want: 0},
		{name: "future timestamp", age: -72 * time.Hour, want: 1.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertScore(t, freshnessBonus(fixedNow.Add(-tc.age), fixedNow), tc.want)
		})
	}
}

func TestScoreValidation(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*ListingSnapshot)
		distance *float64
	}{
		{name: "rating above five", mutate: func(l *ListingSnapshot) { l.Rating = 5.1 }},
		{name: "negative rating", mutate: func(l *ListingSnapshot) { l.Rating = -0.5 }},
		{name: "nan rating", mutate: func(l *ListingSnapshot) { l.Rating = math.NaN() }},
		{name: "negative manual rank", mutate: func(l *ListingSnapshot) { l.ManualRank = intPtr(-1) }},
		{name: "plan priority too high", mutate: func(l *ListingSnapshot) { l.PlanPriority = 101 }},
		{name: "infinite plan priority", mutate: func(l *ListingSnapshot) { l.PlanPriority = math.Inf(1) }},
		{name: "homepage priority negative", mutate: func(l *ListingSnapshot) { l.HomepagePriority = -1 }},
		{name: "stored score too high", mutate: func(l *ListingSnapshot) { l.RankScoreStored = 250 }},
		{name: "missing created at", mutate: func(l *ListingSnapshot) { l.CreatedAt = time.Time{} }},
		{name: "negative distance", mutate: func(*ListingSnapshot) {}, distance: floatPtr(-1)},
		{name: "nan distance", mutate: func(*ListingSnapshot) {}, distance: floatPtr(math.NaN())},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			listing := baseListing()
			tc.mutate(&listing)
			score, err := Score(listing, tc.distance, fixedNow)
			if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v (score %v)", err, score)
			}
			if score != 0 {
				t.Fatalf("expected no partial score, got %v", score)
			}
		})
	}
}

func TestManualRankDominatesEveryComputedScore(t *testing.T) {
	manual := baseListing()
	manual.ManualRank = intPtr(1)
	manualScore, err := Score(manual, nil, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, featured := range []bool{false, true} {
		for _, homepage := range []int{0, 50, MaxHomepagePriority} {
			for _, rating := range []float64{0, 2.5, MaxRating} {
				for _, stored := range []float64{0, MaxRankScoreStored} {
					for _, plan := range []float64{0, MaxPlanPriority} {
						listing := ListingSnapshot{
							ID:               uuid.New(),
							IsFeatured:       featured,
							HomepagePriority: homepage,
							Rating:           rating,
							RankScoreStored:  stored,
							PlanPriority:     plan,
							CreatedAt:        fixedNow,
						}
						score, err := Score(listing, nil, fixedNow)
						if err != nil {
							t.Fatalf("unexpected error: %v", err)
						}
						if score > maxNonManualScore+1e-9 {
							t.Fatalf("score %v exceeds bound %v", score, maxNonManualScore)
						}
						if score >= manualScore {
							t.Fatalf("computed score %v reached manual score %v", score, manualScore)
						}
					}
				}
			}
		}
	}
	assertScore(t, maxNonManualScore, 116.5)
}

func TestScoreMonotonicity(t *testing.T) {
	listing := baseListing()
	listing.CreatedAt = fixedNow.Add(-5 * 24 * time.Hour)
	listing.HomepagePriority = 5

	prev := -1.0
	for rating := 0.0; rating <= MaxRating; rating += 0.25 {
		listing.Rating = rating
		score, err := Score(listing, floatPtr(12), fixedNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if score < prev {
			t.Fatalf("score decreased from %v to %v at rating %v", prev, score, rating)
		}
		prev = score
	}

	listing.Rating = 3
	prev = math.MaxFloat64
	for distance := 0.0; distance <= 200; distance += 7.5 {
		score, err := Score(listing, floatPtr(distance), fixedNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if score > prev {
			t.Fatalf("score increased from %v to %v at distance %v", prev, score, distance)
		}
		prev = score
	}
}

func TestScoreNeverNegative(t *testing.T) {
	listing := baseListing()
	for _, distance := range []float64{0.5, 10, 49, 50, 1e6} {
		score, err := Score(listing, floatPtr(distance), fixedNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if score != 0 {
			t.Fatalf("expected clamp to 0 at distance %v, got %v", distance, score)
		}
	}
}

func TestScoreDeterministic(t *testing.T) {
	listing := ListingSnapshot{
		ID:               uuid.New(),
		IsFeatured:       true,
		HomepagePriority: 7,
		Rating:           3.7,
		RankScoreStored:  12.34,
		PlanPriority:     33,
		CreatedAt:        fixedNow.Add(-3*24*time.Hour - 5*time.Hour),
	}
	first, err := Score(listing, floatPtr(13.37), fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 100; i++ {
		again, err := Score(listing, floatPtr(13.37), fixedNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Float64bits(again) != math.Float64bits(first) {
			t.Fatalf("run %d: expected %v, got %v", i, first, again)
		}
	}
}

func TestEngineUsesInjectedClock(t *testing.T) {
	engine := &Engine{now: func() time.Time { return fixedNow }}
	listing := baseListing()
	listing.CreatedAt = fixedNow.Add(-20 * 24 * time.Hour)

	score, err := engine.Score(listing, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertScore(t, score, 0.5)

	if _, err := NewEngine().Score(listing, nil); err != nil {
		t.Fatalf("wall clock engine: %v", err)
	}
}
