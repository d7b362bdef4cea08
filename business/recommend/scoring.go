package recommend

import (
	"math"

	"shopRecommender/domain"
)

// ---- scalar primitives ----

func CategoryScore(profile *domain.PreferenceProfile, categoryID uint64, weight float64) float64 {
	return profile.Categories[categoryID] * weight
}

// BrandScore is zero for products without a brand or with a brand the profile never saw.
func BrandScore(profile *domain.PreferenceProfile, brand *string, weight float64) float64 {
	b := brandOf(brand)
	if b == "" {
		return 0
	}
	return profile.Brands[b] * weight
}

func PriceFit(r domain.PriceRange, price, bonus float64) float64 {
	if r.Contains(price) {
		return bonus
	}
	return 0
}

// LinearPopularity = views*ViewWeight + orders*OrderWeight + rating*RatingWeight
func LinearPopularity(p domain.Product, cfg Config) float64 {
	return float64(p.ViewCount)*cfg.ViewWeight +
		float64(p.OrderCount)*cfg.OrderWeight +
		p.AverageRating*cfg.RatingWeight
}

// DampenedPopularity uses log1p on the counters so that very popular products do not dominate.
func DampenedPopularity(p domain.Product, cfg Config) float64 {
	return log1p(p.ViewCount)*cfg.LogViewWeight +
		log1p(p.OrderCount)*cfg.LogOrderWeight +
		log1p(p.ReviewCount)*cfg.LogReviewWeight
}

// NormalizedRating maps a 0-5 star rating onto [0, scale].
func NormalizedRating(rating, scale float64) float64 {
	rating = math.Min(math.Max(rating, 0), 5)
	return rating / 5 * scale
}

// CompositeTrendingScore = views*0.1 + orders*2 + rating*reviews*0.5 with default weights.
func CompositeTrendingScore(p domain.Product, cfg Config) float64 {
	return float64(p.ViewCount)*cfg.TrendingViewWeight +
		float64(p.OrderCount)*cfg.TrendingOrderWeight +
		p.AverageRating*float64(p.ReviewCount)*cfg.TrendingRatingReviewWeight
}

func log1p(n int64) float64 {
	if n <= 0 {
		return 0
	}
	return math.Log1p(float64(n))
}

// ---- content scoring strategies ----

// ContentScorer scores one catalog product against a profile. ok=false drops the product.
type ContentScorer interface {
	Name() string
	Score(p domain.Product, profile *domain.PreferenceProfile) (cand domain.ScoredCandidate, ok bool)
}

func contentScorerFor(cfg Config) ContentScorer {
	switch cfg.ContentStrategy {
	case ContentPurchaseOverlap:
		return NewPurchaseOverlapScorer(cfg)
	default:
		return NewWeightedProfileScorer(cfg)
	}
}

// WeightedProfileScorer scores by accumulated category/brand weights, price fit and linear popularity.
type WeightedProfileScorer struct {
	cfg Config
}

func NewWeightedProfileScorer(cfg Config) WeightedProfileScorer {
	return WeightedProfileScorer{cfg: cfg}
}

func (WeightedProfileScorer) Name() string { return ContentWeightedProfile }

func (w WeightedProfileScorer) Score(p domain.Product, profile *domain.PreferenceProfile) (domain.ScoredCandidate, bool) {
	category := CategoryScore(profile, p.CategoryID, w.cfg.CategoryWeight)
	brand := BrandScore(profile, p.Brand, w.cfg.BrandWeight)

	total := category +
		brand +
		PriceFit(profile.PriceRange, p.Price, w.cfg.PriceFitBonus) +
		LinearPopularity(p, w.cfg)

	return domain.ScoredCandidate{
		ProductID:     p.ID,
		Score:         total,
		Source:        domain.SourceContent,
		Reason:        "Matches your interests",
		CategoryMatch: category > 0,
		BrandMatch:    brand > 0,
	}, true
}

// PurchaseOverlapScorer gives binary bonuses for categories and brands the user
// already bought from, plus dampened popularity. Purchased products are skipped.
type PurchaseOverlapScorer struct {
	cfg Config
}

func NewPurchaseOverlapScorer(cfg Config) PurchaseOverlapScorer {
	return PurchaseOverlapScorer{cfg: cfg}
}

func (PurchaseOverlapScorer) Name() string { return ContentPurchaseOverlap }

func (o PurchaseOverlapScorer) Score(p domain.Product, profile *domain.PreferenceProfile) (domain.ScoredCandidate, bool) {
	if _, bought := profile.PurchasedProducts[p.ID]; bought {
		return domain.ScoredCandidate{}, false
	}

	_, categoryMatch := profile.PurchasedCategories[p.CategoryID]
	brandMatch := false
	if b := brandOf(p.Brand); b != "" {
		_, brandMatch = profile.PurchasedBrands[b]
	}

	score := 0.0
	if categoryMatch {
		score += o.cfg.CategoryMatchBonus
	}
	if brandMatch {
		score += o.cfg.BrandMatchBonus
	}
	score += NormalizedRating(p.AverageRating, o.cfg.RatingScale)
	score += DampenedPopularity(p, o.cfg)

	if score <= 0 {
		return domain.ScoredCandidate{}, false
	}

	return domain.ScoredCandidate{
		ProductID:     p.ID,
		Score:         score,
		Source:        domain.SourceContent,
		Reason:        "Based on your purchase history",
		CategoryMatch: categoryMatch,
		BrandMatch:    brandMatch,
	}, true
}
