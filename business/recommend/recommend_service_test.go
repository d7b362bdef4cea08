//go:build !integration

package recommend_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"shopRecommender/business/recommend"
	"shopRecommender/domain"
	"shopRecommender/internal/repository/memory"
)

var errStoreDown = errors.New("store unreachable")

// failingPurchases breaks the collaborative queries while purchases still load.
type failingPurchases struct {
	*memory.Store
	failProfile bool
}

func (f failingPurchases) GetPaidPurchases(ctx context.Context, userID uint) ([]domain.PurchaseRecord, error) {
	if f.failProfile {
		return nil, errStoreDown
	}
	return f.Store.GetPaidPurchases(ctx, userID)
}

func (f failingPurchases) FindSimilarUsers(context.Context, uint, int, int) ([]domain.SimilarUser, error) {
	return nil, errStoreDown
}

type failingActivity struct{ *memory.Store }

func (f failingActivity) GetUserActivity(context.Context, uint) ([]domain.ActivityRecord, error) {
	return nil, errStoreDown
}

// slowActivity blocks until the fetch deadline passes.
type slowActivity struct{ *memory.Store }

func (s slowActivity) GetUserActivity(ctx context.Context, _ uint) ([]domain.ActivityRecord, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// flakyCatalog fails the first catalog read only.
type flakyCatalog struct {
	*memory.Store
	calls *atomic.Int32
}

func (f flakyCatalog) FindRecommendable(ctx context.Context) ([]domain.Product, error) {
	if f.calls.Add(1) == 1 {
		return nil, errStoreDown
	}
	return f.Store.FindRecommendable(ctx)
}

func newService(store *memory.Store) *recommend.Service {
	return recommend.NewService(store, store, store, store, recommend.DefaultConfig())
}

// seedCatalog adds n recommendable products spread over five categories.
func seedCatalog(store *memory.Store, n int) {
	brands := []string{"Acme", "Globex", "Initech"}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		b := brands[i%len(brands)]
		store.AddProduct(domain.Product{
			ID:            uint64(i),
			Name:          fmt.Sprintf("product-%d", i),
			CategoryID:    uint64(i%5 + 1),
			Price:         float64(10 * i),
			Brand:         &b,
			AverageRating: float64(i%5) + 0.5,
			ReviewCount:   int64(i * 3),
			ViewCount:     int64(i * 40 % 700),
			OrderCount:    int64(i * 7 % 90),
			IsActive:      true,
			StockQuantity: 10,
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
		})
	}
}

func seedHistory(store *memory.Store) {
	now := time.Now()
	paid := func(userID uint, ids ...uint64) {
		items := make([]domain.OrderItem, 0, len(ids))
		for _, id := range ids {
			items = append(items, domain.OrderItem{ProductID: id, Quantity: 1})
		}
		store.AddOrder(userID, domain.PaymentStatusPaid, now, items...)
	}

	paid(1, 1, 2, 3)
	paid(2, 1, 2, 3, 4, 5, 6)
	paid(3, 2, 3, 7, 8)
	paid(4, 1, 9)
	store.AddOrder(1, "pending", now, domain.OrderItem{ProductID: 10})

	store.AddActivity(domain.UserActivity{UserID: 1, ProductID: 11, ActivityType: domain.ActivityView, CreatedAt: now})
	store.AddActivity(domain.UserActivity{UserID: 5, ProductID: 12, ActivityType: domain.ActivityWishlist, CreatedAt: now})
}

func hasDuplicates(ids []uint64) bool {
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

func equalIDs(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRecommend_ColdStartMatchesTrending(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(store, 20)
	seedHistory(store)
	svc := newService(store)
	ctx := context.Background()

	trending, err := svc.Trending(ctx, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.ProductIDs(trending)

	for _, userID := range []uint{0, 99, 1000} {
		got, err := svc.Recommend(ctx, userID, 8)
		if err != nil {
			t.Fatalf("user %d: unexpected error: %v", userID, err)
		}
		if !equalIDs(got, want) {
			t.Fatalf("user %d: expected trending %v, got %v", userID, want, got)
		}
	}
}

func TestRecommend_LengthAndUniqueness(t *testing.T) {
	const catalogSize = 30

	store := memory.NewStore()
	seedCatalog(store, catalogSize)
	seedHistory(store)
	svc := newService(store)
	ctx := context.Background()

	for _, userID := range []uint{0, 1, 2, 3, 4, 5, 77} {
		for limit := 1; limit <= catalogSize+5; limit++ {
			got, err := svc.Recommend(ctx, userID, limit)
			if err != nil {
				t.Fatalf("user %d limit %d: unexpected error: %v", userID, limit, err)
			}
			if hasDuplicates(got) {
				t.Fatalf("user %d limit %d: duplicate ids in %v", userID, limit, got)
			}
			if want := min(limit, catalogSize); len(got) != want {
				t.Fatalf("user %d limit %d: expected %d ids, got %d", userID, limit, want, len(got))
			}
		}
	}
}

func TestExplain_CollaborativeExcludesPurchased(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(store, 20)
	seedHistory(store)
	svc := newService(store)

	got, err := svc.Explain(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	purchased := map[uint64]bool{1: true, 2: true, 3: true}
	collab := 0
	for _, c := range got {
		if c.Source != domain.SourceCollaborative {
			continue
		}
		collab++
		if purchased[c.ProductID] {
			t.Fatalf("collaborative candidate %d was already purchased", c.ProductID)
		}
	}
	// users 2 and 3 share at least two products with user 1
	if collab == 0 {
		t.Fatalf("expected collaborative candidates, got %+v", got)
	}
	// product 4 is bought by user 2 only, 7 and 8 by user 3 only; 4 wins on rating
	if got[0].ProductID != 4 || got[0].Reason != "Customers with similar purchases bought this" {
		t.Fatalf("expected product 4 first, got %+v", got[0])
	}
}

func TestRecommend_CollaborativeFailureStillServes(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(store, 20)
	seedHistory(store)
	ctx := context.Background()

	svc := recommend.NewService(store, failingPurchases{Store: store}, store, store, recommend.DefaultConfig())
	got, err := svc.Explain(ctx, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("expected a full list, got %d", len(got))
	}
	for _, c := range got {
		if c.Source == domain.SourceCollaborative {
			t.Fatalf("no collaborative candidates expected after failure, got %+v", c)
		}
	}

	// every purchase query down and no activity: the list is pure trending
	svc = recommend.NewService(store, failingPurchases{Store: store, failProfile: true}, store, store, recommend.DefaultConfig())
	got, err = svc.Explain(ctx, 4, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) == 0 {
		t.Fatalf("expected non-empty fallback list")
	}
	for _, c := range got {
		if c.Source != domain.SourceTrending {
			t.Fatalf("expected trending candidates only, got %+v", c)
		}
	}
}

func TestRecommend_ActivityFailureUsesPurchases(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(store, 20)
	seedHistory(store)

	svc := recommend.NewService(failingActivity{store}, store, store, store, recommend.DefaultConfig())
	got, err := svc.Recommend(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 10 || hasDuplicates(got) {
		t.Fatalf("unexpected result %v", got)
	}
}

func TestRecommend_TimeoutDegradesToTrending(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(store, 20)
	seedHistory(store)

	cfg := recommend.DefaultConfig()
	cfg.FetchTimeout = 20 * time.Millisecond
	svc := recommend.NewService(slowActivity{store}, store, store, store, cfg)
	ctx := context.Background()

	start := time.Now()
	got, err := svc.Recommend(ctx, 1, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("request took %v", elapsed)
	}

	trending, _ := svc.Trending(ctx, 6)
	if !equalIDs(got, domain.ProductIDs(trending)) {
		t.Fatalf("expected trending %v, got %v", domain.ProductIDs(trending), got)
	}
}

func TestRecommend_CallerDeadlineDegradesToTrending(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(store, 20)
	seedHistory(store)

	cfg := recommend.DefaultConfig()
	cfg.FetchTimeout = time.Second
	svc := recommend.NewService(slowActivity{store}, store, store, store, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	got, err := svc.Recommend(ctx, 1, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatalf("the fetch budget must expire before the caller deadline")
	}

	trending, _ := svc.Trending(context.Background(), 6)
	want := domain.ProductIDs(trending)
	if len(want) != 6 || !equalIDs(got, want) {
		t.Fatalf("expected trending %v, got %v", want, got)
	}
}

func TestRecommend_CatalogFailureStillBackfills(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(store, 20)
	seedHistory(store)

	catalog := flakyCatalog{Store: store, calls: new(atomic.Int32)}
	svc := recommend.NewService(store, store, catalog, store, recommend.DefaultConfig())

	got, err := svc.Explain(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 10 || hasDuplicates(domain.ProductIDs(got)) {
		t.Fatalf("expected 10 unique products, got %v", domain.ProductIDs(got))
	}
	if got[0].Source != domain.SourceCollaborative {
		t.Fatalf("expected collaborative picks first, got %+v", got[0])
	}
	if got[len(got)-1].Source != domain.SourceTrending {
		t.Fatalf("expected trending backfill last, got %+v", got[len(got)-1])
	}
	if n := catalog.calls.Load(); n != 2 {
		t.Fatalf("expected one catalog retry, got %d reads", n)
	}
}

func TestRecommend_PartialProfileFailureCountsAsFallback(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(store, 20)
	seedHistory(store)

	fallback := recommend.RequestsTotal.WithLabelValues(recommend.PathFallback)
	coldStart := recommend.RequestsTotal.WithLabelValues(recommend.PathColdStart)
	beforeFallback, beforeCold := testutil.ToFloat64(fallback), testutil.ToFloat64(coldStart)

	// user 5 has activity but no purchases; with activity down the profile is empty
	svc := recommend.NewService(failingActivity{store}, store, store, store, recommend.DefaultConfig())
	got, err := svc.Recommend(context.Background(), 5, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("expected trending list, got %v", got)
	}

	if d := testutil.ToFloat64(fallback) - beforeFallback; d != 1 {
		t.Fatalf("expected one fallback request, got %v", d)
	}
	if d := testutil.ToFloat64(coldStart) - beforeCold; d != 0 {
		t.Fatalf("expected no cold start request, got %v", d)
	}
}

func TestRecommend_EmptyCatalog(t *testing.T) {
	store := memory.NewStore()
	store.AddProduct(domain.Product{ID: 1, IsActive: false, StockQuantity: 5})
	store.AddProduct(domain.Product{ID: 2, IsActive: true, StockQuantity: 0})
	store.AddOrder(1, domain.PaymentStatusPaid, time.Now(), domain.OrderItem{ProductID: 1})
	svc := newService(store)

	for _, userID := range []uint{0, 1, 9} {
		got, err := svc.Recommend(context.Background(), userID, 10)
		if err != nil {
			t.Fatalf("user %d: unexpected error: %v", userID, err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("user %d: expected empty list, got %v", userID, got)
		}
	}
}

func TestRecommend_Limits(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(store, 150)
	svc := newService(store)
	ctx := context.Background()

	if _, err := svc.Recommend(ctx, 1, -1); !errors.Is(err, domain.ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
	if _, err := svc.Trending(ctx, -5); !errors.Is(err, domain.ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}

	got, _ := svc.Recommend(ctx, 0, 0)
	if len(got) != 12 {
		t.Fatalf("expected default limit 12, got %d", len(got))
	}

	got, _ = svc.Recommend(ctx, 0, 500)
	if len(got) != 100 {
		t.Fatalf("expected max limit 100, got %d", len(got))
	}
}

func TestExplain_VariantOverrideSwitchesStrategy(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(store, 20)
	seedHistory(store)
	ctx := context.Background()

	if err := store.UpsertConfig(ctx, domain.RecommendConfig{
		Variant:         0,
		ContentStrategy: recommend.ContentPurchaseOverlap,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := newService(store).Explain(ctx, 4, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content := 0
	for _, c := range got {
		if c.Source != domain.SourceContent {
			continue
		}
		content++
		if c.Reason != "Based on your purchase history" {
			t.Fatalf("expected purchase overlap reason, got %q", c.Reason)
		}
		if c.ProductID == 1 || c.ProductID == 9 {
			t.Fatalf("purchased product %d recommended by purchase overlap", c.ProductID)
		}
	}
	if content == 0 {
		t.Fatalf("expected content candidates, got %+v", got)
	}
}

func TestRecommend_CanceledContextReturnsEmpty(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(store, 10)
	seedHistory(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := newService(store).Recommend(ctx, 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected nothing for a canceled request, got %v", got)
	}
}
