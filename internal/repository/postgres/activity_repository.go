package postgres

import (
	"context"
	"fmt"
	"time"

	"shopRecommender/business/recommend"
	"shopRecommender/domain"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	DB *gorm.DB
}

var _ recommend.ActivityRepository = (*ActivityRepository)(nil)

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) GetUserActivity(ctx context.Context, userID uint) ([]domain.ActivityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	rows := make([]domain.ActivityRecord, 0)
	err := r.DB.WithContext(ctx).
		Table("user_activities ua").
		Select(`ua.product_id, ua.activity_type, p.category_id, p.price, p.brand,
			COUNT(*) AS interaction_count, MAX(ua.created_at) AS last_interaction`).
		Joins("JOIN products p ON ua.product_id = p.id").
		Where("ua.user_id = ?", userID).
		Group("ua.product_id, ua.activity_type, p.category_id, p.price, p.brand").
		Order("ua.product_id ASC, ua.activity_type ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user activity: %w", err)
	}

	return rows, nil
}

type recentActivityRow struct {
	ProductID uint64 `gorm:"column:product_id"`
	Users     int64  `gorm:"column:users"`
}

func (r *ActivityRepository) CountRecentActivity(ctx context.Context, since time.Time) (map[uint64]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []recentActivityRow
	err := r.DB.WithContext(ctx).
		Model(&domain.UserActivity{}).
		Select("product_id, COUNT(DISTINCT user_id) AS users").
		Where("created_at >= ?", since).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count recent activity: %w", err)
	}

	out := make(map[uint64]int64, len(rows))
	for _, row := range rows {
		out[row.ProductID] = row.Users
	}
	return out, nil
}
