package models

// Lifecycle labels shared by orders, products and promotions.
const (
	StatusPending        = "Pending"
	StatusOutForDelivery = "Out for delivery"
	StatusDelivered      = "Delivered"
	StatusCancelled      = "Cancelled"
	StatusActive         = "Active"
	StatusInactive       = "Inactive"
	StatusExpired        = "Expired"
)

// DefaultStatuses are seeded on startup.
var DefaultStatuses = []string{
	StatusPending,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
	StatusActive,
	StatusInactive,
	StatusExpired,
}

// Status is a named lifecycle label.
type Status struct {
	Base
	Name string `json:"name" gorm:"uniqueIndex;type:varchar(50);not null"`
}
