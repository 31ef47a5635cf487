package models

import "gorm.io/gorm"

// Audit actions written by the assignment mutation endpoints
const (
	AuditActionAssigned   = "assigned"
	AuditActionUnassigned = "unassigned"
)

// AuditLog records who did what to whom for every successful mutation.
// SourceContext carries the content type plus any extra provenance detail
// (e.g. "course" or "learning_path").
type AuditLog struct {
	gorm.Model
	RequestID     string `json:"request_id" gorm:"index"`
	ActorID       uint   `json:"actor_id" gorm:"index;not null"`
	Action        string `json:"action" gorm:"not null"`
	TargetUserID  uint   `json:"target_user_id" gorm:"index;not null"`
	ContentType   string `json:"content_type" gorm:"not null"`
	ContentID     uint   `json:"content_id" gorm:"index;not null"`
	SourceContext string `json:"source_context"`
}
