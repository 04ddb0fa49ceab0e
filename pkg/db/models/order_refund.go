package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderRefund records a full or partial refund issued against an order.
type OrderRefund struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Reason     *string         `gorm:"column:reason"`
	RefundedAt time.Time       `gorm:"column:refunded_at;not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides GORM's pluralization.
func (OrderRefund) TableName() string { return "order_refunds" }
