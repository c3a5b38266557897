package models

import (
	"time"

	"gorm.io/gorm"
)

// RoomType carries two rate pairs: KES rates for East African guests and
// USD rates for everyone else, each split by single/double occupancy.
type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string  `gorm:"size:100" json:"name"`
	Slug        string  `gorm:"uniqueIndex;size:100" json:"slug"`
	Description string  `gorm:"type:text" json:"description"`
	Capacity    uint    `json:"capacity"`
	BedType     string  `gorm:"size:50" json:"bed_type"`
	SizeSqm     float64 `gorm:"column:size_sqm" json:"size_sqm"`
	Amenities   string  `gorm:"type:text" json:"amenities"`

	SingleRateEA   float64 `gorm:"column:single_rate_ea" json:"single_rate_ea"`
	DoubleRateEA   float64 `gorm:"column:double_rate_ea" json:"double_rate_ea"`
	SingleRateIntl float64 `gorm:"column:single_rate_intl" json:"single_rate_intl"`
	DoubleRateIntl float64 `gorm:"column:double_rate_intl" json:"double_rate_intl"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
