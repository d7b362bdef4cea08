//go:build !integration

package memory

import (
	"context"
	"testing"
	"time"

	"shopRecommender/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	for id := uint64(1); id <= 6; id++ {
		s.AddProduct(domain.Product{
			ID:            id,
			CategoryID:    id % 3,
			Price:         float64(id) * 10,
			AverageRating: float64(id%5) + 0.5,
			IsActive:      true,
			StockQuantity: 5,
		})
	}
	return s
}

func TestGetPaidPurchases_IgnoresUnpaidOrders(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	s.AddOrder(1, domain.PaymentStatusPaid, now, domain.OrderItem{ProductID: 1, Quantity: 2})
	s.AddOrder(1, domain.PaymentStatusPaid, now, domain.OrderItem{ProductID: 1, Quantity: 1})
	s.AddOrder(1, "pending", now, domain.OrderItem{ProductID: 2, Quantity: 1})

	got, err := s.GetPaidPurchases(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 purchase record, got %d", len(got))
	}
	if got[0].ProductID != 1 || got[0].TotalPurchased != 3 {
		t.Fatalf("unexpected record: %+v", got[0])
	}
	if got[0].Price != 10 {
		t.Fatalf("expected catalog price 10, got %v", got[0].Price)
	}
}

func TestGetUserActivity_GroupsByProductAndType(t *testing.T) {
	s := newTestStore(t)
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.AddActivity(domain.UserActivity{UserID: 7, ProductID: 3, ActivityType: domain.ActivityView, CreatedAt: t0})
	s.AddActivity(domain.UserActivity{UserID: 7, ProductID: 3, ActivityType: domain.ActivityView, CreatedAt: t0.Add(time.Hour)})
	s.AddActivity(domain.UserActivity{UserID: 7, ProductID: 3, ActivityType: domain.ActivityWishlist, CreatedAt: t0})
	s.AddActivity(domain.UserActivity{UserID: 8, ProductID: 3, ActivityType: domain.ActivityView, CreatedAt: t0})
	// unknown product is dropped like an inner join
	s.AddActivity(domain.UserActivity{UserID: 7, ProductID: 99, ActivityType: domain.ActivityView, CreatedAt: t0})

	got, err := s.GetUserActivity(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 groups, got %d: %+v", len(got), got)
	}
	if got[0].ActivityType != domain.ActivityView || got[0].InteractionCount != 2 {
		t.Fatalf("unexpected view group: %+v", got[0])
	}
	if !got[0].LastInteraction.Equal(t0.Add(time.Hour)) {
		t.Fatalf("expected last interaction %v, got %v", t0.Add(time.Hour), got[0].LastInteraction)
	}
	if got[1].ActivityType != domain.ActivityWishlist || got[1].InteractionCount != 1 {
		t.Fatalf("unexpected wishlist group: %+v", got[1])
	}
}

func TestFindSimilarUsers_OverlapThresholdAndOrder(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	s.AddOrder(1, domain.PaymentStatusPaid, now,
		domain.OrderItem{ProductID: 1}, domain.OrderItem{ProductID: 2}, domain.OrderItem{ProductID: 3})
	s.AddOrder(2, domain.PaymentStatusPaid, now,
		domain.OrderItem{ProductID: 1}, domain.OrderItem{ProductID: 2}, domain.OrderItem{ProductID: 3})
	s.AddOrder(3, domain.PaymentStatusPaid, now,
		domain.OrderItem{ProductID: 1}, domain.OrderItem{ProductID: 2})
	s.AddOrder(4, domain.PaymentStatusPaid, now, domain.OrderItem{ProductID: 1})
	// unpaid overlap does not count
	s.AddOrder(5, "pending", now,
		domain.OrderItem{ProductID: 1}, domain.OrderItem{ProductID: 2})

	got, err := s.FindSimilarUsers(context.Background(), 1, 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 similar users, got %+v", got)
	}
	if got[0].UserID != 2 || got[0].CommonProducts != 3 {
		t.Fatalf("unexpected first similar user: %+v", got[0])
	}
	if got[1].UserID != 3 || got[1].CommonProducts != 2 {
		t.Fatalf("unexpected second similar user: %+v", got[1])
	}

	got, _ = s.FindSimilarUsers(context.Background(), 1, 2, 1)
	if len(got) != 1 {
		t.Fatalf("expected limit to cap result at 1, got %d", len(got))
	}
}

func TestFindCoPurchased_ExcludesOwnAndUnrecommendable(t *testing.T) {
	s := newTestStore(t)
	s.AddProduct(domain.Product{ID: 6, IsActive: true, StockQuantity: 0})
	now := time.Now()
	s.AddOrder(1, domain.PaymentStatusPaid, now, domain.OrderItem{ProductID: 1})
	s.AddOrder(2, domain.PaymentStatusPaid, now,
		domain.OrderItem{ProductID: 1}, domain.OrderItem{ProductID: 4}, domain.OrderItem{ProductID: 6})
	s.AddOrder(3, domain.PaymentStatusPaid, now,
		domain.OrderItem{ProductID: 4}, domain.OrderItem{ProductID: 5})

	got, err := s.FindCoPurchased(context.Background(), []uint{2, 3}, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.CoPurchase{
		{ProductID: 4, UserCount: 2, AvgRating: 4.5},
		{ProductID: 5, UserCount: 1, AvgRating: 0.5},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestFindRecommendable_OrderedByID(t *testing.T) {
	s := newTestStore(t)
	s.AddProduct(domain.Product{ID: 3, IsActive: false, StockQuantity: 5})

	got, err := s.FindRecommendable(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := make([]uint64, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	want := []uint64{1, 2, 4, 5, 6}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}

func TestCountRecentActivity_DistinctUsersInWindow(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	s.AddActivity(domain.UserActivity{UserID: 1, ProductID: 2, ActivityType: domain.ActivityView, CreatedAt: now})
	s.AddActivity(domain.UserActivity{UserID: 1, ProductID: 2, ActivityType: domain.ActivityView, CreatedAt: now})
	s.AddActivity(domain.UserActivity{UserID: 2, ProductID: 2, ActivityType: domain.ActivitySearch, CreatedAt: now})
	s.AddActivity(domain.UserActivity{UserID: 3, ProductID: 5, ActivityType: domain.ActivityView, CreatedAt: now.Add(-30 * 24 * time.Hour)})

	got, err := s.CountRecentActivity(context.Background(), now.Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[2] != 2 {
		t.Fatalf("expected 2 distinct users on product 2, got %d", got[2])
	}
	if _, ok := got[5]; ok {
		t.Fatalf("expected activity outside the window to be ignored")
	}
}

func TestConfig_UpsertThenGet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, ok, err := s.GetConfig(ctx, 1); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	weight := 4.0
	if err := s.UpsertConfig(ctx, domain.RecommendConfig{Variant: 1, CategoryWeight: &weight}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok, err := s.GetConfig(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.CategoryWeight == nil || *got.CategoryWeight != 4 {
		t.Fatalf("expected category weight 4, got %v", got.CategoryWeight)
	}
}

func TestCanceledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.FindRecommendable(ctx); err == nil {
		t.Fatalf("expected error for canceled context")
	}
	if _, err := s.GetUserActivity(ctx, 1); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}

func TestSeedDemo(t *testing.T) {
	s := NewStore()
	SeedDemo(s, time.Now())

	got, err := s.FindRecommendable(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range got {
		if p.ID == 7 || p.ID == 14 {
			t.Fatalf("product %d must not be recommendable", p.ID)
		}
	}

	similar, _ := s.FindSimilarUsers(context.Background(), 1, 2, 10)
	if len(similar) == 0 || similar[0].UserID != 2 {
		t.Fatalf("expected user 2 to be most similar to user 1, got %+v", similar)
	}
}
