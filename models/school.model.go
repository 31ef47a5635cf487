package models

import "gorm.io/gorm"

// School is the top-level group entity for assignment rollups
type School struct {
	gorm.Model
	Name      string `json:"name" gorm:"not null"`
	City      string `json:"city"`
	IsDeleted bool   `gorm:"default:false"`
}
