package models

// Order is one product line bought at checkout. A checkout with several cart
// lines produces several orders.
type Order struct {
	Base
	UserID       string        `json:"user_id" gorm:"type:varchar(36);not null;index"`
	User         *User         `json:"user,omitempty"`
	ProductID    string        `json:"product_id" gorm:"type:varchar(36);not null;index"`
	Product      *Product      `json:"product,omitempty"`
	Quantity     int           `json:"quantity" gorm:"not null"`
	UnitPrice    float64       `json:"unit_price" gorm:"not null"`
	StatusID     string        `json:"status_id" gorm:"type:varchar(36);not null;index"`
	Status       *Status       `json:"status,omitempty"`
	DeliveryInfo *DeliveryInfo `json:"delivery_info,omitempty"`
}

// Total is the amount paid for the order line.
func (o *Order) Total() float64 {
	return o.UnitPrice * float64(o.Quantity)
}

// DeliveryInfo is the shipping contact captured at checkout.
type DeliveryInfo struct {
	Base
	OrderID    string `json:"order_id" gorm:"uniqueIndex;type:varchar(36);not null"`
	FullName   string `json:"full_name" gorm:"type:varchar(150);not null"`
	Phone      string `json:"phone" gorm:"type:varchar(30);not null"`
	Address    string `json:"address" gorm:"type:varchar(255);not null"`
	City       string `json:"city" gorm:"type:varchar(100);not null"`
	PostalCode string `json:"postal_code" gorm:"type:varchar(20)"`
	Country    string `json:"country" gorm:"type:varchar(100);not null"`
	Notes      string `json:"notes" gorm:"type:varchar(500)"`
}
