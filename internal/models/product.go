package models

// Product is a device offered in the store.
type Product struct {
	Base
	Name        string  `json:"name" gorm:"uniqueIndex;type:varchar(150);not null"`
	Description string  `json:"description" gorm:"type:text"`
	ImageURL    string  `json:"image_url" gorm:"type:varchar(500)"`
	Price       float64 `json:"price" gorm:"not null"`
	Quantity    int     `json:"quantity" gorm:"not null;default:0"`
	// PriceWithDiscount is set only while an active promotion covers the product.
	PriceWithDiscount *float64    `json:"price_with_discount"`
	CategoryID        string      `json:"category_id" gorm:"type:varchar(36);not null;index"`
	Category          *Category   `json:"category,omitempty"`
	BrandID           *string     `json:"brand_id" gorm:"type:varchar(36);index"`
	Brand             *Brand      `json:"brand,omitempty"`
	Attributes        []Attribute `json:"attributes,omitempty" gorm:"many2many:product_attributes"`
	StatusID          string      `json:"status_id" gorm:"type:varchar(36);not null"`
	Status            *Status     `json:"status,omitempty"`
	Active            bool        `json:"active" gorm:"not null"`
	// Favourite is true while at least one user keeps the product in favourites.
	Favourite bool `json:"favourite" gorm:"not null"`
}

// EffectivePrice is the price a customer pays right now.
func (p *Product) EffectivePrice() float64 {
	if p.PriceWithDiscount != nil {
		return *p.PriceWithDiscount
	}
	return p.Price
}
