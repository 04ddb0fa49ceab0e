package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses that count toward tax reporting.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// Order represents a placed e-commerce order with its captured totals.
type Order struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber     int64           `gorm:"column:order_number;not null;uniqueIndex"`
	Status          string          `gorm:"column:status;type:text;not null;default:'pending'"`
	OrderDate       time.Time       `gorm:"column:order_date;not null;index"`
	ShipState       string          `gorm:"column:ship_state;type:text;not null"`
	ShipCity        string          `gorm:"column:ship_city;type:text"`
	ShipPostcode    string          `gorm:"column:ship_postcode;type:text"`
	GrossTotal      decimal.Decimal `gorm:"column:gross_total;type:numeric(12,2);not null"`
	TaxTotal        decimal.Decimal `gorm:"column:tax_total;type:numeric(12,2);not null;default:0"`
	ProductTax      decimal.Decimal `gorm:"column:product_tax;type:numeric(12,2);not null;default:0"`
	ShippingTotal   decimal.Decimal `gorm:"column:shipping_total;type:numeric(12,2);not null;default:0"`
	ShippingTax     decimal.Decimal `gorm:"column:shipping_tax;type:numeric(12,2);not null;default:0"`
	CustomerEmail   string          `gorm:"column:customer_email;type:text"`
	Refunds         []OrderRefund   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides GORM's pluralization.
func (Order) TableName() string { return "orders" }
