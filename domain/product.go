package domain

import (
	"time"
)

// CREATE TABLE public.products (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     name            TEXT NOT NULL,
//     category_id     BIGINT NOT NULL,
//     price           NUMERIC(10,2) NOT NULL,
//     brand           TEXT,
//     average_rating  NUMERIC(3,2) DEFAULT 0,
//     review_count    INTEGER DEFAULT 0,
//     view_count      INTEGER DEFAULT 0,
//     order_count     INTEGER DEFAULT 0,
//     is_active       BOOLEAN DEFAULT TRUE,
//     stock_quantity  INTEGER DEFAULT 0,
//     created_at      TIMESTAMPTZ DEFAULT NOW(),
//     updated_at      TIMESTAMPTZ DEFAULT NOW()
// );

type Product struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"column:name;type:text" json:"name"`
	CategoryID    uint64    `gorm:"column:category_id;default:0" json:"category_id"`
	Price         float64   `gorm:"column:price;type:numeric" json:"price"`
	Brand         *string   `gorm:"column:brand;type:text" json:"brand,omitempty"`
	AverageRating float64   `gorm:"column:average_rating;type:numeric;default:0" json:"average_rating"`
	ReviewCount   int64     `gorm:"column:review_count;default:0" json:"review_count"`
	ViewCount     int64     `gorm:"column:view_count;default:0" json:"view_count"`
	OrderCount    int64     `gorm:"column:order_count;default:0" json:"order_count"`
	IsActive      bool      `gorm:"column:is_active;default:true" json:"is_active"`
	StockQuantity int64     `gorm:"column:stock_quantity;default:0" json:"stock_quantity"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// Recommendable reports whether the product may be shown as a candidate.
func (p Product) Recommendable() bool {
	return p.IsActive && p.StockQuantity > 0
}
