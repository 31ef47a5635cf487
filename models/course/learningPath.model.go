package course

import "gorm.io/gorm"

// LearningPath is an ordered sequence of courses assigned as a unit
type LearningPath struct {
	gorm.Model
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	Status      string `json:"status" gorm:"default:'ACTIVE'"` // ACTIVE, INACTIVE
	IsDeleted   bool   `gorm:"default:false"`
}

// LearningPathCourse links a course into a path at a sequence position.
// Membership is owned by the path editor; the assignment subsystem only reads it.
type LearningPathCourse struct {
	gorm.Model
	LearningPathID uint `json:"learning_path_id" gorm:"index;not null"`
	CourseID       uint `json:"course_id" gorm:"index;not null"`
	Position       int  `json:"position" gorm:"default:0"`
	IsDeleted      bool `gorm:"default:false"`
}
