package postgres

import (
	"context"
	"fmt"

	"shopRecommender/business/recommend"
	"shopRecommender/domain"

	"gorm.io/gorm"
)

// OrdersRepository aggregates paid orders for profiling and collaborative filtering.
type OrdersRepository struct {
	DB *gorm.DB
}

var _ recommend.PurchaseRepository = (*OrdersRepository)(nil)

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{
		DB: db,
	}
}

func (r *OrdersRepository) GetPaidPurchases(ctx context.Context, userID uint) ([]domain.PurchaseRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	rows := make([]domain.PurchaseRecord, 0)
	err := r.DB.WithContext(ctx).
		Table("order_items oi").
		Select("oi.product_id, p.category_id, p.price, p.brand, SUM(oi.quantity) AS total_purchased").
		Joins("JOIN orders o ON oi.order_id = o.id").
		Joins("JOIN products p ON oi.product_id = p.id").
		Where("o.user_id = ? AND o.payment_status = ?", userID, domain.PaymentStatusPaid).
		Group("oi.product_id, p.category_id, p.price, p.brand").
		Order("oi.product_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get paid purchases: %w", err)
	}

	return rows, nil
}

const similarUsersQuery = `
SELECT o2.user_id, COUNT(DISTINCT oi2.product_id) AS common_products
FROM order_items oi1
JOIN orders o1 ON oi1.order_id = o1.id
JOIN order_items oi2 ON oi1.product_id = oi2.product_id
JOIN orders o2 ON oi2.order_id = o2.id
WHERE o1.user_id = ?
  AND o2.user_id <> ?
  AND o1.payment_status = ?
  AND o2.payment_status = ?
GROUP BY o2.user_id
HAVING COUNT(DISTINCT oi2.product_id) >= ?
ORDER BY common_products DESC, o2.user_id ASC
LIMIT ?`

func (r *OrdersRepository) FindSimilarUsers(ctx context.Context, userID uint, minCommon, limit int) ([]domain.SimilarUser, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	rows := make([]domain.SimilarUser, 0)
	err := r.DB.WithContext(ctx).
		Raw(similarUsersQuery,
			userID, userID,
			domain.PaymentStatusPaid, domain.PaymentStatusPaid,
			minCommon, limit,
		).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find similar users: %w", err)
	}

	return rows, nil
}

const coPurchasedQuery = `
SELECT oi.product_id,
       COUNT(DISTINCT o.user_id) AS user_count,
       AVG(p.average_rating) AS avg_rating
FROM order_items oi
JOIN orders o ON oi.order_id = o.id
JOIN products p ON oi.product_id = p.id
WHERE o.user_id IN ?
  AND o.payment_status = ?
  AND p.is_active = TRUE
  AND p.stock_quantity > 0
  AND oi.product_id NOT IN (
      SELECT oi2.product_id
      FROM order_items oi2
      JOIN orders o2 ON oi2.order_id = o2.id
      WHERE o2.user_id = ? AND o2.payment_status = ?
  )
GROUP BY oi.product_id
ORDER BY user_count DESC, avg_rating DESC, oi.product_id ASC
LIMIT ?`

func (r *OrdersRepository) FindCoPurchased(ctx context.Context, userIDs []uint, excludeUserID uint, limit int) ([]domain.CoPurchase, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	rows := make([]domain.CoPurchase, 0)
	if len(userIDs) == 0 {
		return rows, nil
	}

	err := r.DB.WithContext(ctx).
		Raw(coPurchasedQuery,
			userIDs, domain.PaymentStatusPaid,
			excludeUserID, domain.PaymentStatusPaid,
			limit,
		).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find co-purchased products: %w", err)
	}

	return rows, nil
}
