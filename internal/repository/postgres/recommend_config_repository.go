package postgres

import (
	"context"
	"errors"
	"fmt"

	"shopRecommender/business/recommend"
	"shopRecommender/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecommendConfigRepository struct {
	DB *gorm.DB
}

var _ recommend.ConfigRepository = (*RecommendConfigRepository)(nil)

func NewRecommendConfigRepository(db *gorm.DB) *RecommendConfigRepository {
	return &RecommendConfigRepository{DB: db}
}

func (r *RecommendConfigRepository) GetConfig(ctx context.Context, variant int) (domain.RecommendConfig, bool, error) {
	var cfg domain.RecommendConfig

	err := r.DB.WithContext(ctx).
		Where("variant = ?", variant).
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RecommendConfig{}, false, nil
	}
	if err != nil {
		return domain.RecommendConfig{}, false, fmt.Errorf("failed to get recommend config: %w", err)
	}

	return cfg, true, nil
}

func (r *RecommendConfigRepository) UpsertConfig(ctx context.Context, cfg domain.RecommendConfig) error {
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "variant"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"activity_weights",
				"default_activity_weight",
				"purchase_weight",
				"price_std_fallback",
				"category_weight",
				"brand_weight",
				"price_fit_bonus",
				"view_weight",
				"order_weight",
				"rating_weight",
				"category_match_bonus",
				"brand_match_bonus",
				"log_view_weight",
				"log_order_weight",
				"log_review_weight",
				"rating_scale",
				"trending_view_weight",
				"trending_order_weight",
				"trending_rating_review_weight",
				"collaborative_share",
				"min_common_products",
				"max_similar_users",
				"content_strategy",
				"trending_strategy",
				"trending_window_days",
				"updated_at",
			}),
		}).
		Create(&cfg).Error
	if err != nil {
		return fmt.Errorf("failed to upsert recommend config: %w", err)
	}

	return nil
}
