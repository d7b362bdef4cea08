package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	"shopRecommender/domain"
	"shopRecommender/pkg/logger"
)

// loadConfigForUser picks the user's A/B variant and loads its tuning.
func (s *Service) loadConfigForUser(ctx context.Context, userID uint) (Config, int) {
	variant := assignVariant(userID, s.defaultCfg.NumVariants)
	return s.loadConfig(ctx, variant), variant
}

// read config for a given variant from repo, falling back to defaultCfg.
// ctx carries the caller's fetch budget.
func (s *Service) loadConfig(ctx context.Context, variant int) Config {
	if s.cfgRepo == nil {
		return s.defaultCfg
	}

	row, ok, err := s.cfgRepo.GetConfig(ctx, variant)
	if err != nil {
		logger.Warn("recommend_config_load_failed",
			"trace_id", TraceIDFromContext(ctx),
			"variant", variant,
			"error", err,
		)
		return s.defaultCfg
	}
	if !ok {
		return s.defaultCfg
	}

	return applyOverrides(s.defaultCfg, row)
}

// applyOverrides copies every non-NULL DB value over the defaults. Negative
// weights and out-of-range counts keep the default.
func applyOverrides(base Config, row domain.RecommendConfig) Config {
	cfg := base

	cfg.ActivityWeights = make(map[domain.ActivityType]float64, len(base.ActivityWeights))
	for k, v := range base.ActivityWeights {
		cfg.ActivityWeights[k] = v
	}
	for k, raw := range row.ActivityWeights {
		if w, ok := toFloat(raw); ok && w >= 0 {
			cfg.ActivityWeights[domain.ActivityType(k)] = w
		}
	}

	for _, o := range []struct {
		dst *float64
		src *float64
	}{
		{&cfg.DefaultActivityWeight, row.DefaultActivityWeight},
		{&cfg.PurchaseWeight, row.PurchaseWeight},
		{&cfg.PriceStdFallback, row.PriceStdFallback},
		{&cfg.CategoryWeight, row.CategoryWeight},
		{&cfg.BrandWeight, row.BrandWeight},
		{&cfg.PriceFitBonus, row.PriceFitBonus},
		{&cfg.ViewWeight, row.ViewWeight},
		{&cfg.OrderWeight, row.OrderWeight},
		{&cfg.RatingWeight, row.RatingWeight},
		{&cfg.CategoryMatchBonus, row.CategoryMatchBonus},
		{&cfg.BrandMatchBonus, row.BrandMatchBonus},
		{&cfg.LogViewWeight, row.LogViewWeight},
		{&cfg.LogOrderWeight, row.LogOrderWeight},
		{&cfg.LogReviewWeight, row.LogReviewWeight},
		{&cfg.RatingScale, row.RatingScale},
		{&cfg.TrendingViewWeight, row.TrendingViewWeight},
		{&cfg.TrendingOrderWeight, row.TrendingOrderWeight},
		{&cfg.TrendingRatingReviewWeight, row.TrendingRatingReviewWeight},
	} {
		setWeight(o.dst, o.src)
	}

	if v := row.CollaborativeShare; v != nil && *v >= 0 && *v <= 1 {
		cfg.CollaborativeShare = *v
	}
	setCount(&cfg.MinCommonProducts, row.MinCommonProducts)
	setCount(&cfg.MaxSimilarUsers, row.MaxSimilarUsers)

	switch row.ContentStrategy {
	case ContentWeightedProfile, ContentPurchaseOverlap:
		cfg.ContentStrategy = row.ContentStrategy
	}
	switch row.TrendingStrategy {
	case TrendingPopularity, TrendingRecentActivity:
		cfg.TrendingStrategy = row.TrendingStrategy
	}
	if d := row.TrendingWindowDays; d != nil && *d > 0 {
		cfg.TrendingWindow = time.Duration(*d) * 24 * time.Hour
	}

	return cfg
}

func setWeight(dst, v *float64) {
	if v != nil && *v >= 0 {
		*dst = *v
	}
}

func setCount(dst, v *int) {
	if v != nil && *v > 0 {
		*dst = *v
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// assignVariant hashes the user into [0, numVariants). Anonymous users stay on variant 0.
func assignVariant(userID uint, numVariants int) int {
	if numVariants <= 1 || userID == 0 {
		return 0
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:recommend", userID)))
	v := h.Sum32()

	return int(v % uint32(numVariants))
}
