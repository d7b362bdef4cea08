// Package memory keeps the recommendation tables in process. It backs the
// DB_DRIVER=memory demo mode and serves as the fixture for engine tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"shopRecommender/business/recommend"
	"shopRecommender/domain"
)

var (
	_ recommend.ActivityRepository = (*Store)(nil)
	_ recommend.PurchaseRepository = (*Store)(nil)
	_ recommend.ProductRepository  = (*Store)(nil)
	_ recommend.ConfigRepository   = (*Store)(nil)
)

type Store struct {
	mu sync.RWMutex

	products   map[uint64]domain.Product
	orders     map[uint64]domain.Order
	items      []domain.OrderItem
	activities []domain.UserActivity
	configs    map[int]domain.RecommendConfig

	nextOrderID    uint64
	nextItemID     uint64
	nextActivityID uint64
}

func NewStore() *Store {
	return &Store{
		products: make(map[uint64]domain.Product),
		orders:   make(map[uint64]domain.Order),
		configs:  make(map[int]domain.RecommendConfig),
	}
}

// AddProduct inserts or replaces a product by id.
func (s *Store) AddProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// AddOrder stores an order with its line items and returns the order id.
func (s *Store) AddOrder(userID uint, paymentStatus string, createdAt time.Time, items ...domain.OrderItem) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextOrderID++
	id := s.nextOrderID
	s.orders[id] = domain.Order{
		ID:            id,
		UserID:        userID,
		PaymentStatus: paymentStatus,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}

	for _, it := range items {
		s.nextItemID++
		it.ID = s.nextItemID
		it.OrderID = id
		if it.Quantity == 0 {
			it.Quantity = 1
		}
		s.items = append(s.items, it)
	}
	return id
}

func (s *Store) AddActivity(a domain.UserActivity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextActivityID++
	a.ID = s.nextActivityID
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	s.activities = append(s.activities, a)
}

func (s *Store) GetUserActivity(ctx context.Context, userID uint) ([]domain.ActivityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type key struct {
		productID uint64
		activity  domain.ActivityType
	}
	groups := make(map[key]*domain.ActivityRecord)

	for _, a := range s.activities {
		if a.UserID != userID {
			continue
		}
		p, ok := s.products[a.ProductID]
		if !ok {
			continue
		}

		k := key{productID: a.ProductID, activity: a.ActivityType}
		rec, ok := groups[k]
		if !ok {
			rec = &domain.ActivityRecord{
				ProductID:    p.ID,
				ActivityType: a.ActivityType,
				CategoryID:   p.CategoryID,
				Price:        p.Price,
				Brand:        p.Brand,
			}
			groups[k] = rec
		}
		rec.InteractionCount++
		if a.CreatedAt.After(rec.LastInteraction) {
			rec.LastInteraction = a.CreatedAt
		}
	}

	out := make([]domain.ActivityRecord, 0, len(groups))
	for _, rec := range groups {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].ActivityType < out[j].ActivityType
	})
	return out, nil
}

func (s *Store) CountRecentActivity(ctx context.Context, since time.Time) (map[uint64]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make(map[uint64]map[uint]struct{})
	for _, a := range s.activities {
		if a.CreatedAt.Before(since) {
			continue
		}
		if users[a.ProductID] == nil {
			users[a.ProductID] = make(map[uint]struct{})
		}
		users[a.ProductID][a.UserID] = struct{}{}
	}

	out := make(map[uint64]int64, len(users))
	for pid, set := range users {
		out[pid] = int64(len(set))
	}
	return out, nil
}

func (s *Store) GetPaidPurchases(ctx context.Context, userID uint) ([]domain.PurchaseRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make(map[uint64]*domain.PurchaseRecord)
	for _, it := range s.items {
		o := s.orders[it.OrderID]
		if o.UserID != userID || o.PaymentStatus != domain.PaymentStatusPaid {
			continue
		}
		p, ok := s.products[it.ProductID]
		if !ok {
			continue
		}

		rec, ok := groups[p.ID]
		if !ok {
			rec = &domain.PurchaseRecord{
				ProductID:  p.ID,
				CategoryID: p.CategoryID,
				Price:      p.Price,
				Brand:      p.Brand,
			}
			groups[p.ID] = rec
		}
		rec.TotalPurchased += it.Quantity
	}

	out := make([]domain.PurchaseRecord, 0, len(groups))
	for _, rec := range groups {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (s *Store) FindSimilarUsers(ctx context.Context, userID uint, minCommon, limit int) ([]domain.SimilarUser, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	paid := s.paidProductsByUser()
	mine := paid[userID]
	if len(mine) == 0 {
		return []domain.SimilarUser{}, nil
	}

	out := make([]domain.SimilarUser, 0)
	for uid, theirs := range paid {
		if uid == userID {
			continue
		}
		common := 0
		for pid := range theirs {
			if _, ok := mine[pid]; ok {
				common++
			}
		}
		if common >= minCommon {
			out = append(out, domain.SimilarUser{UserID: uid, CommonProducts: int64(common)})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CommonProducts != out[j].CommonProducts {
			return out[i].CommonProducts > out[j].CommonProducts
		}
		return out[i].UserID < out[j].UserID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) FindCoPurchased(ctx context.Context, userIDs []uint, excludeUserID uint, limit int) ([]domain.CoPurchase, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	paid := s.paidProductsByUser()
	excluded := paid[excludeUserID]

	buyers := make(map[uint64]int64)
	for _, uid := range userIDs {
		for pid := range paid[uid] {
			if _, bought := excluded[pid]; bought {
				continue
			}
			if p, ok := s.products[pid]; !ok || !p.Recommendable() {
				continue
			}
			buyers[pid]++
		}
	}

	out := make([]domain.CoPurchase, 0, len(buyers))
	for pid, n := range buyers {
		out = append(out, domain.CoPurchase{
			ProductID: pid,
			UserCount: n,
			AvgRating: s.products[pid].AverageRating,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.UserCount != b.UserCount {
			return a.UserCount > b.UserCount
		}
		if a.AvgRating != b.AvgRating {
			return a.AvgRating > b.AvgRating
		}
		return a.ProductID < b.ProductID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) FindRecommendable(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.Recommendable() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetConfig(ctx context.Context, variant int) (domain.RecommendConfig, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendConfig{}, false, fmt.Errorf("context error: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.configs[variant]
	return cfg, ok, nil
}

func (s *Store) UpsertConfig(ctx context.Context, cfg domain.RecommendConfig) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg.UpdatedAt = time.Now()
	s.configs[cfg.Variant] = cfg
	return nil
}

// paidProductsByUser maps each user to the distinct products in their paid orders.
// Callers hold the read lock.
func (s *Store) paidProductsByUser() map[uint]map[uint64]struct{} {
	out := make(map[uint]map[uint64]struct{})
	for _, it := range s.items {
		o, ok := s.orders[it.OrderID]
		if !ok || o.PaymentStatus != domain.PaymentStatusPaid {
			continue
		}
		if out[o.UserID] == nil {
			out[o.UserID] = make(map[uint64]struct{})
		}
		out[o.UserID][it.ProductID] = struct{}{}
	}
	return out
}
