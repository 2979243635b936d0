package ranking

// Scoring weights. These reproduce the existing directory order and must not
// be tuned independently: manualRankMultiplier has to stay above the largest
// attainable non-manual score (maxNonManualScore).
const (
	manualRankMultiplier = 1000.0

	featuredBonus          = 30.0
	homepagePriorityWeight = 0.2
	ratingWeight           = 3.0
	storedScoreWeight      = 0.1
	planPriorityWeight     = 0.4

	distancePenaltyDivisor = 10.0
	maxDistancePenalty     = 5.0

	freshnessWindowDays = 30
	freshnessWeight     = 0.05
)

// Input bounds enforced by ListingSnapshot validation.
const (
	MaxPlanPriority     = 100
	MaxHomepagePriority = 100
	MaxRating           = 5
	MaxRankScoreStored  = 100
)

// maxNonManualScore is 30 + 20 + 15 + 10 + 1.5 + 40.
const maxNonManualScore = featuredBonus +
	MaxHomepagePriority*homepagePriorityWeight +
	MaxRating*ratingWeight +
	MaxRankScoreStored*storedScoreWeight +
	freshnessWindowDays*freshnessWeight +
	MaxPlanPriority*planPriorityWeight
