package domain

import (
	"time"

	"gorm.io/datatypes"
)

type ActivityType string

const (
	ActivityView      ActivityType = "view"
	ActivitySearch    ActivityType = "search"
	ActivityAddToCart ActivityType = "add_to_cart"
	ActivityWishlist  ActivityType = "wishlist"
	ActivityPurchase  ActivityType = "purchase"
)

// UserActivity is one raw row of the user_activities table.
type UserActivity struct {
	ID           uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint           `gorm:"column:user_id;not null" json:"user_id"`
	ProductID    uint64         `gorm:"column:product_id" json:"product_id"`
	ActivityType ActivityType   `gorm:"column:activity_type;type:text;not null" json:"activity_type"`
	Metadata     datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (UserActivity) TableName() string {
	return "user_activities"
}
