// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Category struct {
	BaseModel
	Name        string `json:"name" gorm:"size:100;not null;index"`
	Slug        string `json:"slug" gorm:"size:100;uniqueIndex;not null"`
	Description string `json:"description" gorm:"type:text"`
	Image       string `json:"image,omitempty" gorm:"size:500"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`

	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

type Product struct {
	BaseModel
	Name            string         `json:"name" gorm:"size:255;not null;index"`
	Slug            string         `json:"slug" gorm:"size:255;uniqueIndex;not null"`
	Description     string         `json:"description" gorm:"type:text"`
	Price           float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	DiscountedPrice *float64       `json:"discounted_price,omitempty" gorm:"type:decimal(10,2)"`
	StockQuantity   int            `json:"stock_quantity" gorm:"default:0"`
	SKU             string         `json:"sku" gorm:"size:100;uniqueIndex"`
	CategoryID      uuid.UUID      `json:"category_id" gorm:"type:uuid;not null;index"`
	Status          ProductStatus  `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	Rating          float64        `json:"rating" gorm:"type:decimal(3,2);default:0"`
	ReviewCount     int64          `json:"review_count" gorm:"default:0"`
	Images          pq.StringArray `json:"images" gorm:"type:text[]"`
	Tags            pq.StringArray `json:"tags" gorm:"type:text[]"`
	Sizes           pq.StringArray `json:"sizes" gorm:"type:text[]"`
	Colors          pq.StringArray `json:"colors" gorm:"type:text[]"`

	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// EffectivePrice is the discounted price when one is set, else the base price.
func (p *Product) EffectivePrice() float64 {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.Price
}

func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}
