package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles understood by the engine
const (
	RoleManager = "manager"
	RoleCashier = "cashier"
	RoleRider   = "rider"
)

// User is an authenticated actor. The engine trusts the auth middleware for
// identity and role; it never authenticates on its own.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:50;not null;index" json:"role"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (User) TableName() string {
	return "users"
}

// IsManager reports whether this user can approve price violations, release
// goods on balance, and decide variances.
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}
