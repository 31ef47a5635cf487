package models

import "gorm.io/gorm"

// Community is a growth community inside a school; members are linked
// through UserRole rows carrying the community id
type Community struct {
	gorm.Model
	Name      string `json:"name" gorm:"not null"`
	SchoolID  *uint  `json:"school_id" gorm:"index"`
	IsDeleted bool   `gorm:"default:false"`
}
