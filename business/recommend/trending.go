package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"shopRecommender/domain"
)

// TrendingStrategy ranks the recommendable catalog without any personalization.
type TrendingStrategy interface {
	Name() string
	Rank(ctx context.Context, catalog []domain.Product, limit int) ([]domain.ScoredCandidate, error)
}

func (s *Service) trendingStrategyFor(cfg Config) TrendingStrategy {
	switch cfg.TrendingStrategy {
	case TrendingRecentActivity:
		return NewRecentActivityTrending(s.activityRepo, cfg.TrendingWindow, s.now)
	default:
		return NewPopularityTrending(cfg)
	}
}

// PopularityTrending ranks by CompositeTrendingScore, then newest first, then id.
type PopularityTrending struct {
	cfg Config
}

func NewPopularityTrending(cfg Config) PopularityTrending {
	return PopularityTrending{cfg: cfg}
}

func (PopularityTrending) Name() string { return TrendingPopularity }

func (t PopularityTrending) Rank(_ context.Context, catalog []domain.Product, limit int) ([]domain.ScoredCandidate, error) {
	type scored struct {
		product domain.Product
		score   float64
	}

	list := make([]scored, 0, len(catalog))
	for _, p := range catalog {
		if !p.Recommendable() {
			continue
		}
		list = append(list, scored{product: p, score: CompositeTrendingScore(p, t.cfg)})
	}

	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if !a.product.CreatedAt.Equal(b.product.CreatedAt) {
			return a.product.CreatedAt.After(b.product.CreatedAt)
		}
		return a.product.ID < b.product.ID
	})

	out := make([]domain.ScoredCandidate, 0, min(limit, len(list)))
	for i := 0; i < len(list) && i < limit; i++ {
		out = append(out, trendingCandidate(list[i].product.ID, list[i].score))
	}
	return out, nil
}

// RecentActivityTrending ranks by distinct users active on a product inside the
// window, then order count, then rating, then id.
type RecentActivityTrending struct {
	activityRepo ActivityRepository
	window       time.Duration
	now          func() time.Time
}

func NewRecentActivityTrending(repo ActivityRepository, window time.Duration, now func() time.Time) RecentActivityTrending {
	if now == nil {
		now = time.Now
	}
	return RecentActivityTrending{activityRepo: repo, window: window, now: now}
}

func (RecentActivityTrending) Name() string { return TrendingRecentActivity }

func (t RecentActivityTrending) Rank(ctx context.Context, catalog []domain.Product, limit int) ([]domain.ScoredCandidate, error) {
	if t.activityRepo == nil {
		return nil, fmt.Errorf("recent activity trending: no activity repository")
	}

	window := t.window
	if window <= 0 {
		window = defaultTrendingWindow
	}

	counts, err := t.activityRepo.CountRecentActivity(ctx, t.now().Add(-window))
	if err != nil {
		return nil, fmt.Errorf("count recent activity: %w", err)
	}

	list := make([]domain.Product, 0, len(catalog))
	for _, p := range catalog {
		if p.Recommendable() {
			list = append(list, p)
		}
	}

	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if ca, cb := counts[a.ID], counts[b.ID]; ca != cb {
			return ca > cb
		}
		if a.OrderCount != b.OrderCount {
			return a.OrderCount > b.OrderCount
		}
		if a.AverageRating != b.AverageRating {
			return a.AverageRating > b.AverageRating
		}
		return a.ID < b.ID
	})

	out := make([]domain.ScoredCandidate, 0, min(limit, len(list)))
	for i := 0; i < len(list) && i < limit; i++ {
		out = append(out, trendingCandidate(list[i].ID, float64(counts[list[i].ID])))
	}
	return out, nil
}

func trendingCandidate(productID uint64, score float64) domain.ScoredCandidate {
	return domain.ScoredCandidate{
		ProductID: productID,
		Score:     score,
		Source:    domain.SourceTrending,
		Reason:    "Trending product",
	}
}
