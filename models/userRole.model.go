package models

import "gorm.io/gorm"

// Role types recognised by the permission middleware
const (
	RoleAdmin      = "ADMIN"
	RoleConsultant = "CONSULTANT"
	RoleTeacher    = "TEACHER"
	RoleStudent    = "STUDENT"
)

// UserRole scopes a role to an optional school or community.
// A user may hold several roles at once (e.g. consultant in two schools).
type UserRole struct {
	gorm.Model
	UserID      uint   `json:"user_id" gorm:"index;not null"`
	RoleType    string `json:"role_type" gorm:"index;not null"`
	SchoolID    *uint  `json:"school_id" gorm:"index"`
	CommunityID *uint  `json:"community_id" gorm:"index"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`
	IsDeleted   bool   `gorm:"default:false"`
}
