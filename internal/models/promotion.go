package models

import "time"

// Promotion duration types.
const (
	DurationDays    = "days"
	DurationHours   = "hours"
	DurationMinutes = "minutes"
	DurationSeconds = "seconds"
)

// Promotion is a percentage discount applied to products for a bounded window.
// Days promotions use StartDate/EndDate; the sub-day types describe a window
// inside the unit through their Start*/End* pair.
type Promotion struct {
	Base
	Name          string     `json:"name" gorm:"uniqueIndex;type:varchar(150);not null"`
	Description   string     `json:"description" gorm:"type:varchar(500)"`
	Percentage    float64    `json:"percentage" gorm:"not null"`
	DurationType  string     `json:"duration_type" gorm:"type:varchar(10);not null"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	StartHour     *int       `json:"start_hour,omitempty"`
	EndHour       *int       `json:"end_hour,omitempty"`
	StartMinute   *int       `json:"start_minute,omitempty"`
	EndMinute     *int       `json:"end_minute,omitempty"`
	StartSecond   *int       `json:"start_second,omitempty"`
	EndSecond     *int       `json:"end_second,omitempty"`
	RemainingTime int64      `json:"remaining_time" gorm:"not null;default:0"`
	StatusID      string     `json:"status_id" gorm:"type:varchar(36);not null"`
	Status        *Status    `json:"status,omitempty"`
	Active        bool       `json:"active" gorm:"not null;index"`
	Products      []Product  `json:"products,omitempty" gorm:"many2many:promotion_products"`
	Categories    []Category `json:"categories,omitempty" gorm:"many2many:promotion_categories"`
}
