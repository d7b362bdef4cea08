package domain

import (
	"math"
	"time"
)

// ActivityRecord is one (product, activity_type) aggregate of a user's activity.
type ActivityRecord struct {
	ProductID        uint64       `gorm:"column:product_id" json:"product_id"`
	ActivityType     ActivityType `gorm:"column:activity_type" json:"activity_type"`
	CategoryID       uint64       `gorm:"column:category_id" json:"category_id"`
	Price            float64      `gorm:"column:price" json:"price"`
	Brand            *string      `gorm:"column:brand" json:"brand,omitempty"`
	InteractionCount int64        `gorm:"column:interaction_count" json:"interaction_count"`
	LastInteraction  time.Time    `gorm:"column:last_interaction" json:"last_interaction"`
}

// PurchaseRecord is one product aggregate over a user's paid orders.
type PurchaseRecord struct {
	ProductID      uint64  `gorm:"column:product_id" json:"product_id"`
	CategoryID     uint64  `gorm:"column:category_id" json:"category_id"`
	Price          float64 `gorm:"column:price" json:"price"`
	Brand          *string `gorm:"column:brand" json:"brand,omitempty"`
	TotalPurchased int64   `gorm:"column:total_purchased" json:"total_purchased"`
}

// SimilarUser is another customer sharing paid purchases with the target user.
type SimilarUser struct {
	UserID         uint  `gorm:"column:user_id" json:"user_id"`
	CommonProducts int64 `gorm:"column:common_products" json:"common_products"`
}

// CoPurchase is a product bought by a group of similar users.
type CoPurchase struct {
	ProductID uint64  `gorm:"column:product_id" json:"product_id"`
	UserCount int64   `gorm:"column:user_count" json:"user_count"`
	AvgRating float64 `gorm:"column:avg_rating" json:"avg_rating"`
}

type PriceRange struct {
	Min float64
	Max float64
}

// Contains is inclusive on both ends.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

func UnboundedPriceRange() PriceRange {
	return PriceRange{Min: 0, Max: math.Inf(1)}
}

// PreferenceProfile is built per request and never persisted.
type PreferenceProfile struct {
	Categories map[uint64]float64
	Brands     map[string]float64
	PriceRange PriceRange

	// distinct sets taken from paid purchases only
	PurchasedProducts   map[uint64]struct{}
	PurchasedCategories map[uint64]struct{}
	PurchasedBrands     map[string]struct{}
}

func NewPreferenceProfile() *PreferenceProfile {
	return &PreferenceProfile{
		Categories:          make(map[uint64]float64),
		Brands:              make(map[string]float64),
		PriceRange:          UnboundedPriceRange(),
		PurchasedProducts:   make(map[uint64]struct{}),
		PurchasedCategories: make(map[uint64]struct{}),
		PurchasedBrands:     make(map[string]struct{}),
	}
}

type CandidateSource string

const (
	SourceCollaborative CandidateSource = "collaborative"
	SourceContent       CandidateSource = "content"
	SourceTrending      CandidateSource = "trending"
)

// ScoredCandidate is the explainable form of one recommended product.
type ScoredCandidate struct {
	ProductID     uint64          `json:"product_id"`
	Score         float64         `json:"score"`
	Source        CandidateSource `json:"source"`
	Reason        string          `json:"reason,omitempty"`
	CategoryMatch bool            `json:"category_match,omitempty"`
	BrandMatch    bool            `json:"brand_match,omitempty"`
}

// ProductIDs strips a ranked candidate list down to its ids.
func ProductIDs(cands []ScoredCandidate) []uint64 {
	ids := make([]uint64, 0, len(cands))
	for _, c := range cands {
		ids = append(ids, c.ProductID)
	}
	return ids
}
