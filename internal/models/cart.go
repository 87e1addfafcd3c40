package models

// CartItem is one product line in a user's cart.
type CartItem struct {
	Base
	UserID    string   `json:"user_id" gorm:"uniqueIndex:idx_cart_user_product;type:varchar(36);not null"`
	ProductID string   `json:"product_id" gorm:"uniqueIndex:idx_cart_user_product;type:varchar(36);not null"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int      `json:"quantity" gorm:"not null"`
}

// Favourite marks a product as liked by a user.
type Favourite struct {
	Base
	UserID    string   `json:"user_id" gorm:"uniqueIndex:idx_favourite_user_product;type:varchar(36);not null"`
	ProductID string   `json:"product_id" gorm:"uniqueIndex:idx_favourite_user_product;type:varchar(36);not null"`
	Product   *Product `json:"product,omitempty"`
}
