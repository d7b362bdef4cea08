package memory

import (
	"time"

	"shopRecommender/domain"
)

const (
	categorySmartphones uint64 = iota + 1
	categoryLaptops
	categoryTablets
	categoryAccessories
	categorySmartWatches
	categoryHeadphones
)

// SeedDemo fills the store with a small electronics catalog, a few paid
// orders and browsing history so every serving path can be tried by hand.
// Users 1-3 share purchases, user 4 only browsed, user 5 is new.
func SeedDemo(s *Store, now time.Time) {
	brand := func(b string) *string { return &b }

	products := []domain.Product{
		{ID: 1, Name: "Galaxy S24", CategoryID: categorySmartphones, Price: 899, Brand: brand("Samsung"), AverageRating: 4.6, ReviewCount: 120, ViewCount: 5400, OrderCount: 310, StockQuantity: 40},
		{ID: 2, Name: "iPhone 15", CategoryID: categorySmartphones, Price: 999, Brand: brand("Apple"), AverageRating: 4.7, ReviewCount: 210, ViewCount: 8100, OrderCount: 450, StockQuantity: 25},
		{ID: 3, Name: "Pixel 8", CategoryID: categorySmartphones, Price: 699, Brand: brand("Google"), AverageRating: 4.4, ReviewCount: 75, ViewCount: 2300, OrderCount: 120, StockQuantity: 18},
		{ID: 4, Name: "MacBook Air M3", CategoryID: categoryLaptops, Price: 1299, Brand: brand("Apple"), AverageRating: 4.8, ReviewCount: 95, ViewCount: 3900, OrderCount: 160, StockQuantity: 12},
		{ID: 5, Name: "ThinkPad X1 Carbon", CategoryID: categoryLaptops, Price: 1499, Brand: brand("Lenovo"), AverageRating: 4.5, ReviewCount: 40, ViewCount: 1200, OrderCount: 55, StockQuantity: 9},
		{ID: 6, Name: "iPad Air", CategoryID: categoryTablets, Price: 599, Brand: brand("Apple"), AverageRating: 4.6, ReviewCount: 88, ViewCount: 2700, OrderCount: 140, StockQuantity: 30},
		{ID: 7, Name: "Galaxy Tab S9", CategoryID: categoryTablets, Price: 799, Brand: brand("Samsung"), AverageRating: 4.3, ReviewCount: 35, ViewCount: 1500, OrderCount: 60, StockQuantity: 0},
		{ID: 8, Name: "USB-C Charger 65W", CategoryID: categoryAccessories, Price: 49, Brand: brand("Anker"), AverageRating: 4.5, ReviewCount: 300, ViewCount: 6000, OrderCount: 900, StockQuantity: 200},
		{ID: 9, Name: "Phone Case", CategoryID: categoryAccessories, Price: 19, AverageRating: 4.0, ReviewCount: 60, ViewCount: 2000, OrderCount: 500, StockQuantity: 500},
		{ID: 10, Name: "Galaxy Watch 6", CategoryID: categorySmartWatches, Price: 329, Brand: brand("Samsung"), AverageRating: 4.2, ReviewCount: 45, ViewCount: 1800, OrderCount: 80, StockQuantity: 22},
		{ID: 11, Name: "Apple Watch Series 9", CategoryID: categorySmartWatches, Price: 399, Brand: brand("Apple"), AverageRating: 4.7, ReviewCount: 130, ViewCount: 4200, OrderCount: 260, StockQuantity: 35},
		{ID: 12, Name: "WH-1000XM5", CategoryID: categoryHeadphones, Price: 399, Brand: brand("Sony"), AverageRating: 4.8, ReviewCount: 150, ViewCount: 3600, OrderCount: 190, StockQuantity: 15},
		{ID: 13, Name: "AirPods Pro", CategoryID: categoryHeadphones, Price: 249, Brand: brand("Apple"), AverageRating: 4.6, ReviewCount: 220, ViewCount: 5200, OrderCount: 410, StockQuantity: 60},
		{ID: 14, Name: "Discontinued Earbuds", CategoryID: categoryHeadphones, Price: 59, Brand: brand("Generic"), AverageRating: 3.1, ReviewCount: 10, ViewCount: 300, OrderCount: 12, StockQuantity: 100},
	}

	for i, p := range products {
		p.IsActive = p.ID != 14
		p.CreatedAt = now.Add(-time.Duration(len(products)-i) * 24 * time.Hour)
		p.UpdatedAt = p.CreatedAt
		s.AddProduct(p)
	}

	ago := func(days int) time.Time { return now.Add(-time.Duration(days) * 24 * time.Hour) }
	item := func(productID uint64, qty int64) domain.OrderItem {
		return domain.OrderItem{ProductID: productID, Quantity: qty, Price: s.products[productID].Price}
	}

	s.AddOrder(1, domain.PaymentStatusPaid, ago(30), item(2, 1), item(13, 1), item(8, 2))
	s.AddOrder(1, domain.PaymentStatusPaid, ago(12), item(11, 1))
	s.AddOrder(2, domain.PaymentStatusPaid, ago(20), item(2, 1), item(13, 1), item(4, 1))
	s.AddOrder(2, domain.PaymentStatusPaid, ago(3), item(6, 1))
	s.AddOrder(3, domain.PaymentStatusPaid, ago(15), item(13, 1), item(11, 1), item(12, 1))
	s.AddOrder(3, "pending", ago(1), item(5, 1))

	view := func(userID uint, productID uint64, t domain.ActivityType, daysAgo int) {
		s.AddActivity(domain.UserActivity{UserID: userID, ProductID: productID, ActivityType: t, CreatedAt: ago(daysAgo)})
	}
	view(1, 4, domain.ActivityView, 2)
	view(1, 4, domain.ActivityWishlist, 2)
	view(1, 12, domain.ActivityView, 5)
	view(4, 1, domain.ActivityView, 1)
	view(4, 1, domain.ActivityAddToCart, 1)
	view(4, 10, domain.ActivityView, 2)
	view(4, 3, domain.ActivitySearch, 4)
	view(2, 12, domain.ActivityView, 6)
	view(3, 8, domain.ActivityView, 1)
}
