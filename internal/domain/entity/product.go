package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog item sold from two stock pools: loose retail units and
// unopened packs. Each pool carries its own base price; the settlement engine
// reads prices and stock and writes only the deduction.
type Product struct {
	ID  uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SKU string    `gorm:"size:100;uniqueIndex;not null" json:"sku"`

	Name       string     `gorm:"size:255;not null" json:"name"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`
	BrandID    *uuid.UUID `gorm:"type:uuid;index" json:"brand_id,omitempty"`

	RetailPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"retail_price"`
	PackPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"pack_price"`
	PackSize    int             `gorm:"default:1" json:"pack_size"`

	RetailStock int `gorm:"default:0" json:"retail_stock"`
	PackStock   int `gorm:"default:0" json:"pack_stock"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Brand    *Brand    `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Product) TableName() string {
	return "products"
}

// Category groups products for pricing-rule selectors
type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (Category) TableName() string {
	return "categories"
}

// Brand groups products for pricing-rule selectors
type Brand struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *Brand) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (Brand) TableName() string {
	return "brands"
}
