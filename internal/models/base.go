package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the string primary key and timestamps shared by every table.
type Base struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// All lists every model for migration, in dependency order.
func All() []any {
	return []any{
		&Role{},
		&Status{},
		&User{},
		&Category{},
		&Brand{},
		&Attribute{},
		&Product{},
		&Promotion{},
		&Order{},
		&DeliveryInfo{},
		&CartItem{},
		&Favourite{},
		&VerificationCode{},
	}
}
