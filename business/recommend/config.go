package recommend

import (
	"context"
	"time"

	"shopRecommender/domain"
)

const (
	ContentWeightedProfile = "weighted_profile"
	ContentPurchaseOverlap = "purchase_overlap"

	TrendingPopularity     = "popularity"
	TrendingRecentActivity = "recent_activity"
)

type Config struct {
	// profile building
	ActivityWeights       map[domain.ActivityType]float64
	DefaultActivityWeight float64
	PurchaseWeight        float64
	// std used for the price range when fewer than two purchase prices exist, as a share of the mean
	PriceStdFallback float64

	// weighted_profile content scoring
	CategoryWeight float64
	BrandWeight    float64
	PriceFitBonus  float64
	ViewWeight     float64
	OrderWeight    float64
	RatingWeight   float64

	// purchase_overlap content scoring
	CategoryMatchBonus float64
	BrandMatchBonus    float64
	LogViewWeight      float64
	LogOrderWeight     float64
	LogReviewWeight    float64
	RatingScale        float64

	// popularity trending
	TrendingViewWeight         float64
	TrendingOrderWeight        float64
	TrendingRatingReviewWeight float64

	// recent_activity trending
	TrendingWindow time.Duration

	// collaborative filtering
	MinCommonProducts int
	MaxSimilarUsers   int

	// share of the limit reserved for collaborative results
	CollaborativeShare float64

	ContentStrategy  string
	TrendingStrategy string

	DefaultLimit int
	MaxLimit     int
	FetchTimeout time.Duration

	NumVariants int
}

const (
	defaultActivityWeight   = 1.0
	defaultPurchaseWeight   = 10.0
	defaultPriceStdFallback = 0.3

	defaultCategoryWeight = 3.0
	defaultBrandWeight    = 2.0
	defaultPriceFitBonus  = 5.0
	defaultViewWeight     = 0.01
	defaultOrderWeight    = 0.1
	defaultRatingWeight   = 2.0

	defaultCategoryMatchBonus = 5.0
	defaultBrandMatchBonus    = 3.0
	defaultLogViewWeight      = 0.1
	defaultLogOrderWeight     = 0.2
	defaultLogReviewWeight    = 0.1
	defaultRatingScale        = 2.0

	defaultTrendingViewWeight         = 0.1
	defaultTrendingOrderWeight        = 2.0
	defaultTrendingRatingReviewWeight = 0.5
	defaultTrendingWindow             = 7 * 24 * time.Hour

	defaultMinCommonProducts  = 2
	defaultMaxSimilarUsers    = 10
	defaultCollaborativeShare = 0.6

	defaultLimit        = 12
	defaultMaxLimit     = 100
	defaultFetchTimeout = 2 * time.Second
	defaultNumVariants  = 1
)

func defaultActivityWeights() map[domain.ActivityType]float64 {
	return map[domain.ActivityType]float64{
		domain.ActivityView:      1,
		domain.ActivitySearch:    1.5,
		domain.ActivityAddToCart: 2,
		domain.ActivityWishlist:  2.5,
		domain.ActivityPurchase:  5,
	}
}

func DefaultConfig() Config {
	return Config{
		ActivityWeights:       defaultActivityWeights(),
		DefaultActivityWeight: defaultActivityWeight,
		PurchaseWeight:        defaultPurchaseWeight,
		PriceStdFallback:      defaultPriceStdFallback,

		CategoryWeight: defaultCategoryWeight,
		BrandWeight:    defaultBrandWeight,
		PriceFitBonus:  defaultPriceFitBonus,
		ViewWeight:     defaultViewWeight,
		OrderWeight:    defaultOrderWeight,
		RatingWeight:   defaultRatingWeight,

		CategoryMatchBonus: defaultCategoryMatchBonus,
		BrandMatchBonus:    defaultBrandMatchBonus,
		LogViewWeight:      defaultLogViewWeight,
		LogOrderWeight:     defaultLogOrderWeight,
		LogReviewWeight:    defaultLogReviewWeight,
		RatingScale:        defaultRatingScale,

		TrendingViewWeight:         defaultTrendingViewWeight,
		TrendingOrderWeight:        defaultTrendingOrderWeight,
		TrendingRatingReviewWeight: defaultTrendingRatingReviewWeight,
		TrendingWindow:             defaultTrendingWindow,

		MinCommonProducts:  defaultMinCommonProducts,
		MaxSimilarUsers:    defaultMaxSimilarUsers,
		CollaborativeShare: defaultCollaborativeShare,

		ContentStrategy:  ContentWeightedProfile,
		TrendingStrategy: TrendingPopularity,

		DefaultLimit: defaultLimit,
		MaxLimit:     defaultMaxLimit,
		FetchTimeout: defaultFetchTimeout,
		NumVariants:  defaultNumVariants,
	}
}

// activityWeight returns the configured weight, or the default weight for unknown types.
func (cfg Config) activityWeight(t domain.ActivityType) float64 {
	if w, ok := cfg.ActivityWeights[t]; ok {
		return w
	}
	return cfg.DefaultActivityWeight
}

// read per-variant weight overrides from DB.
type ConfigRepository interface {
	GetConfig(ctx context.Context, variant int) (domain.RecommendConfig, bool, error)
	UpsertConfig(ctx context.Context, cfg domain.RecommendConfig) error
}
