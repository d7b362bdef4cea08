package domain

import (
	"time"

	"gorm.io/datatypes"
)

// RecommendConfig is one row of recommend_configs: the tuning of a single A/B variant.
// NULL columns fall back to the engine defaults; an explicit 0 is a real override.
type RecommendConfig struct {
	Variant int `json:"variant" gorm:"column:variant;primaryKey;autoIncrement:false" validate:"gte=0"`

	// activity_type -> weight, e.g. {"view": 1, "wishlist": 2.5}
	ActivityWeights       datatypes.JSONMap `json:"activity_weights" gorm:"column:activity_weights;type:jsonb"`
	DefaultActivityWeight *float64          `json:"default_activity_weight" gorm:"column:default_activity_weight" validate:"omitempty,gte=0"`
	PurchaseWeight        *float64          `json:"purchase_weight" gorm:"column:purchase_weight" validate:"omitempty,gte=0"`
	PriceStdFallback      *float64          `json:"price_std_fallback" gorm:"column:price_std_fallback" validate:"omitempty,gte=0"`

	// weighted_profile
	CategoryWeight *float64 `json:"category_weight" gorm:"column:category_weight" validate:"omitempty,gte=0"`
	BrandWeight    *float64 `json:"brand_weight" gorm:"column:brand_weight" validate:"omitempty,gte=0"`
	PriceFitBonus  *float64 `json:"price_fit_bonus" gorm:"column:price_fit_bonus" validate:"omitempty,gte=0"`
	ViewWeight     *float64 `json:"view_weight" gorm:"column:view_weight" validate:"omitempty,gte=0"`
	OrderWeight    *float64 `json:"order_weight" gorm:"column:order_weight" validate:"omitempty,gte=0"`
	RatingWeight   *float64 `json:"rating_weight" gorm:"column:rating_weight" validate:"omitempty,gte=0"`

	// purchase_overlap
	CategoryMatchBonus *float64 `json:"category_match_bonus" gorm:"column:category_match_bonus" validate:"omitempty,gte=0"`
	BrandMatchBonus    *float64 `json:"brand_match_bonus" gorm:"column:brand_match_bonus" validate:"omitempty,gte=0"`
	LogViewWeight      *float64 `json:"log_view_weight" gorm:"column:log_view_weight" validate:"omitempty,gte=0"`
	LogOrderWeight     *float64 `json:"log_order_weight" gorm:"column:log_order_weight" validate:"omitempty,gte=0"`
	LogReviewWeight    *float64 `json:"log_review_weight" gorm:"column:log_review_weight" validate:"omitempty,gte=0"`
	RatingScale        *float64 `json:"rating_scale" gorm:"column:rating_scale" validate:"omitempty,gte=0"`

	// popularity trending
	TrendingViewWeight         *float64 `json:"trending_view_weight" gorm:"column:trending_view_weight" validate:"omitempty,gte=0"`
	TrendingOrderWeight        *float64 `json:"trending_order_weight" gorm:"column:trending_order_weight" validate:"omitempty,gte=0"`
	TrendingRatingReviewWeight *float64 `json:"trending_rating_review_weight" gorm:"column:trending_rating_review_weight" validate:"omitempty,gte=0"`

	CollaborativeShare *float64 `json:"collaborative_share" gorm:"column:collaborative_share" validate:"omitempty,gte=0,lte=1"`
	MinCommonProducts  *int     `json:"min_common_products" gorm:"column:min_common_products" validate:"omitempty,gte=1"`
	MaxSimilarUsers    *int     `json:"max_similar_users" gorm:"column:max_similar_users" validate:"omitempty,gte=1"`

	ContentStrategy    string `json:"content_strategy" gorm:"column:content_strategy"`
	TrendingStrategy   string `json:"trending_strategy" gorm:"column:trending_strategy"`
	TrendingWindowDays *int   `json:"trending_window_days" gorm:"column:trending_window_days" validate:"omitempty,gte=1"`

	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (RecommendConfig) TableName() string {
	return "recommend_configs"
}
