package recommend

import (
	"math"

	"shopRecommender/domain"
)

// BuildProfile turns a user's activity and paid purchases into category, brand
// and price preferences. It returns nil for a cold-start user with neither.
func BuildProfile(activities []domain.ActivityRecord, purchases []domain.PurchaseRecord, cfg Config) *domain.PreferenceProfile {
	if len(activities) == 0 && len(purchases) == 0 {
		return nil
	}

	profile := domain.NewPreferenceProfile()

	for _, a := range activities {
		score := nonNegative(float64(a.InteractionCount) * cfg.activityWeight(a.ActivityType))
		accumulate(profile, a.CategoryID, a.Brand, score)
	}

	prices := make([]float64, 0, len(purchases))
	for _, p := range purchases {
		score := nonNegative(float64(p.TotalPurchased) * cfg.PurchaseWeight)
		accumulate(profile, p.CategoryID, p.Brand, score)

		profile.PurchasedProducts[p.ProductID] = struct{}{}
		profile.PurchasedCategories[p.CategoryID] = struct{}{}
		if b := brandOf(p.Brand); b != "" {
			profile.PurchasedBrands[b] = struct{}{}
		}
		prices = append(prices, p.Price)
	}

	if len(prices) > 0 {
		profile.PriceRange = priceRange(prices, cfg.PriceStdFallback)
	}

	return profile
}

func accumulate(profile *domain.PreferenceProfile, categoryID uint64, brand *string, score float64) {
	profile.Categories[categoryID] += score
	if b := brandOf(brand); b != "" {
		profile.Brands[b] += score
	}
}

// priceRange is mean ± population std, floored at zero.
func priceRange(prices []float64, stdFallback float64) domain.PriceRange {
	mean := 0.0
	for _, p := range prices {
		mean += p
	}
	mean /= float64(len(prices))

	std := mean * stdFallback
	if len(prices) > 1 {
		variance := 0.0
		for _, p := range prices {
			d := p - mean
			variance += d * d
		}
		std = math.Sqrt(variance / float64(len(prices)))
	}

	return domain.PriceRange{
		Min: math.Max(0, mean-std),
		Max: mean + std,
	}
}

func brandOf(b *string) string {
	if b == nil {
		return ""
	}
	return *b
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
