// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	BaseModel
	UserID        uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index"`
	OrderNumber   string        `json:"order_number" gorm:"size:20;uniqueIndex;not null"`
	Status        OrderStatus   `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"type:varchar(20);default:'pending';index"`

	ShippingName       string `json:"shipping_name" gorm:"size:255;not null"`
	ShippingPhone      string `json:"shipping_phone" gorm:"size:30;not null"`
	ShippingAddress    string `json:"shipping_address" gorm:"size:500;not null"`
	ShippingCity       string `json:"shipping_city" gorm:"size:100;not null"`
	ShippingPostalCode string `json:"shipping_postal_code,omitempty" gorm:"size:20"`

	Subtotal    float64 `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	ShippingFee float64 `json:"shipping_fee" gorm:"type:decimal(10,2);not null"`
	Total       float64 `json:"total" gorm:"type:decimal(10,2);not null"`
	Notes       string  `json:"notes,omitempty" gorm:"type:text"`

	PaymentReference string     `json:"payment_reference,omitempty" gorm:"size:255"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`

	User  User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem carries a denormalized copy of the product name, SKU and unit
// price so the order history survives later catalog edits.
type OrderItem struct {
	BaseModel
	OrderID       uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	ProductName   string    `json:"product_name" gorm:"size:255;not null"`
	ProductSKU    string    `json:"product_sku" gorm:"size:100"`
	SelectedSize  string    `json:"selected_size,omitempty" gorm:"size:50"`
	SelectedColor string    `json:"selected_color,omitempty" gorm:"size:50"`
	Quantity      int       `json:"quantity" gorm:"not null"`
	UnitPrice     float64   `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	TotalPrice    float64   `json:"total_price" gorm:"type:decimal(10,2);not null"`

	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
