package recommend

import (
	"context"
	"time"

	"shopRecommender/domain"
)

// ActivityRepository reads aggregates of the user_activities table.
type ActivityRepository interface {
	// GetUserActivity groups a user's activity by (product, activity_type).
	GetUserActivity(ctx context.Context, userID uint) ([]domain.ActivityRecord, error)
	// CountRecentActivity returns distinct active users per product since the given time.
	CountRecentActivity(ctx context.Context, since time.Time) (map[uint64]int64, error)
}

// PurchaseRepository reads aggregates over paid orders only.
type PurchaseRepository interface {
	GetPaidPurchases(ctx context.Context, userID uint) ([]domain.PurchaseRecord, error)
	// FindSimilarUsers ranks other users by the number of distinct products bought in common.
	FindSimilarUsers(ctx context.Context, userID uint, minCommon, limit int) ([]domain.SimilarUser, error)
	// FindCoPurchased returns recommendable products bought by userIDs and never bought by excludeUserID.
	FindCoPurchased(ctx context.Context, userIDs []uint, excludeUserID uint, limit int) ([]domain.CoPurchase, error)
}

// ProductRepository reads the recommendable catalog.
type ProductRepository interface {
	// FindRecommendable returns active, in-stock products ordered by id.
	FindRecommendable(ctx context.Context) ([]domain.Product, error)
}
