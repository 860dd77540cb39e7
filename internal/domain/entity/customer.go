package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is the carrier for credit balances and customer-specific pricing.
// A walk-in sale has no customer and therefore no special pricing and no utang.
type Customer struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name  string    `gorm:"size:255;not null" json:"name"`
	Phone string    `gorm:"size:50" json:"phone,omitempty"`
	Notes string    `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (Customer) TableName() string {
	return "customers"
}
