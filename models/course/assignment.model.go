package course

import (
	"time"

	"gorm.io/gorm"
)

// CourseAssignment is an explicit grant of a single course to a single user.
// The partial unique index enforces one live row per (course, user) at the
// storage layer; soft-deleted rows stay out of it so re-assignment after an
// unassign creates a fresh grant.
type CourseAssignment struct {
	gorm.Model
	CourseID   uint      `json:"course_id" gorm:"not null;index:idx_live_course_grant,unique,where:is_deleted = false"`
	UserID     uint      `json:"user_id" gorm:"index;not null;index:idx_live_course_grant"`
	AssignedBy uint      `json:"assigned_by"`
	AssignedAt time.Time `json:"assigned_at"`
	IsDeleted  bool      `gorm:"default:false"`
}

// LearningPathAssignment grants every course of a path to a user transitively.
// One live row per (path, user), enforced the same way.
type LearningPathAssignment struct {
	gorm.Model
	LearningPathID uint      `json:"learning_path_id" gorm:"not null;index:idx_live_path_grant,unique,where:is_deleted = false"`
	UserID         uint      `json:"user_id" gorm:"index;not null;index:idx_live_path_grant"`
	AssignedBy     uint      `json:"assigned_by"`
	AssignedAt     time.Time `json:"assigned_at"`
	IsDeleted      bool      `gorm:"default:false"`
}
