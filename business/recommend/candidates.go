package recommend

import (
	"context"
	"fmt"
	"sort"

	"shopRecommender/domain"
)

// collaborativeCandidates recommends what similar customers bought. No similar
// users is a normal outcome and yields an empty list.
func (s *Service) collaborativeCandidates(
	ctx context.Context,
	userID uint,
	purchased map[uint64]struct{},
	limit int,
	cfg Config,
) ([]domain.ScoredCandidate, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	similar, err := s.purchaseRepo.FindSimilarUsers(ctx, userID, cfg.MinCommonProducts, cfg.MaxSimilarUsers)
	if err != nil {
		return nil, fmt.Errorf("find similar users: %w", err)
	}
	if len(similar) == 0 {
		return []domain.ScoredCandidate{}, nil
	}

	userIDs := make([]uint, 0, len(similar))
	for _, u := range similar {
		userIDs = append(userIDs, u.UserID)
	}

	rows, err := s.purchaseRepo.FindCoPurchased(ctx, userIDs, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("find co-purchased products: %w", err)
	}

	out := make([]domain.ScoredCandidate, 0, len(rows))
	for _, r := range rows {
		// the store already excludes these; an out-of-date snapshot must not leak them
		if _, bought := purchased[r.ProductID]; bought {
			continue
		}
		out = append(out, domain.ScoredCandidate{
			ProductID: r.ProductID,
			Score:     float64(r.UserCount),
			Source:    domain.SourceCollaborative,
			Reason:    "Customers with similar purchases bought this",
		})
		if len(out) == limit {
			break
		}
	}

	return out, nil
}

// contentCandidates scores the catalog against the profile. The catalog is
// ordered by id, and the stable sort keeps that order among equal scores.
func contentCandidates(
	catalog []domain.Product,
	profile *domain.PreferenceProfile,
	scorer ContentScorer,
	limit int,
) []domain.ScoredCandidate {

	if profile == nil || len(catalog) == 0 || limit <= 0 {
		return []domain.ScoredCandidate{}
	}

	scored := make([]domain.ScoredCandidate, 0, len(catalog))
	for _, p := range catalog {
		if !p.Recommendable() {
			continue
		}
		if c, ok := scorer.Score(p, profile); ok {
			scored = append(scored, c)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// trendingCandidates runs the configured trending strategy. When that strategy
// fails it falls back to the in-process popularity ranking, which cannot fail.
func (s *Service) trendingCandidates(
	ctx context.Context,
	cfg Config,
	catalog []domain.Product,
	limit int,
) []domain.ScoredCandidate {

	strategy := s.trendingStrategyFor(cfg)
	cands, err := strategy.Rank(ctx, catalog, limit)
	if err == nil {
		return cands
	}

	s.absorb(ctx, "trending_"+strategy.Name(), 0, err)

	cands, _ = NewPopularityTrending(cfg).Rank(ctx, catalog, limit)
	return cands
}
