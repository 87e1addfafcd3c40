package models

import "time"

// Role names seeded on startup.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// Role groups users by permission level.
type Role struct {
	Base
	Name string `json:"name" gorm:"uniqueIndex;type:varchar(50);not null"`
}

// User represents a customer or an administrator.
type User struct {
	Base
	Username  string `json:"username" gorm:"uniqueIndex;type:varchar(100);not null"`
	Email     string `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string `json:"-" gorm:"type:varchar(255);not null"`
	FirstName string `json:"first_name" gorm:"type:varchar(100)"`
	LastName  string `json:"last_name" gorm:"type:varchar(100)"`
	Phone     string `json:"phone" gorm:"type:varchar(30)"`
	RoleID    string `json:"role_id" gorm:"type:varchar(36);not null"`
	Role      *Role  `json:"role,omitempty"`
}

// VerificationCode is a one-time password recovery code.
type VerificationCode struct {
	Base
	Email     string    `json:"email" gorm:"index;type:varchar(255);not null"`
	Code      string    `json:"-" gorm:"type:varchar(6);not null"`
	ExpiresAt time.Time `json:"expires_at"`
}
