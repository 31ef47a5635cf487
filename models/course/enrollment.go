package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment tracks a user's progress in a course. An enrollment may exist
// without any assignment row (self-enrollment or migrated data) and is
// deliberately preserved when assignments are removed, so a later
// re-assignment resumes progress instead of restarting it.
type Enrollment struct {
	gorm.Model
	UserID           uint       `json:"user_id" gorm:"index;not null"`
	CourseID         uint       `json:"course_id" gorm:"index;not null"`
	Status           string     `json:"status" gorm:"default:'ENROLLED'"` // ENROLLED, IN_PROGRESS, COMPLETED
	LessonsCompleted int        `json:"lessons_completed" gorm:"default:0"`
	TotalLessons     int        `json:"total_lessons" gorm:"default:0"`
	CompletedAt      *time.Time `json:"completed_at"`
	EnrolledBy       uint       `json:"enrolled_by"`
	IsDeleted        bool       `gorm:"default:false"`
}

// IsComplete reports whether every lesson of the course has been finished.
// A course with zero lessons is never considered complete.
func (e *Enrollment) IsComplete() bool {
	return e.TotalLessons > 0 && e.LessonsCompleted >= e.TotalLessons
}
