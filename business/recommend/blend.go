package recommend

import (
	"math"

	"shopRecommender/domain"
)

// Blend merges the three candidate lists. The first floor(limit*collabShare)
// slots go to collaborative results; content results fill up to limit; trending
// backfills whatever is left. The output never repeats a product id.
func Blend(collab, content, trending []domain.ScoredCandidate, limit int, collabShare float64) []domain.ScoredCandidate {
	if limit <= 0 {
		return []domain.ScoredCandidate{}
	}

	// epsilon keeps e.g. 10*0.6 from rounding down to 5
	quota := int(math.Floor(float64(limit)*collabShare + 1e-9))
	quota = min(max(quota, 0), limit)

	out := make([]domain.ScoredCandidate, 0, limit)
	seen := make(map[uint64]struct{}, limit)

	take := func(list []domain.ScoredCandidate, upTo int) {
		for _, c := range list {
			if len(out) >= upTo {
				return
			}
			if _, dup := seen[c.ProductID]; dup {
				continue
			}
			seen[c.ProductID] = struct{}{}
			out = append(out, c)
		}
	}

	take(collab, quota)
	take(content, limit)
	take(trending, limit)

	return out
}
