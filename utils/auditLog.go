package utils

import (
	"log"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"

	"github.com/go-resty/resty/v2"
)

// RecordAudit writes one audit row for a successful assignment mutation and
// forwards it to the monitoring webhook when one is configured. Audit
// failures are logged, never propagated: a mutation that succeeded must not
// be reported as failed because its audit write was not.
func RecordAudit(requestID string, actorID uint, action string, targetUserID uint, contentType string, contentID uint, sourceContext string) {
	entry := models.AuditLog{
		RequestID:     requestID,
		ActorID:       actorID,
		Action:        action,
		TargetUserID:  targetUserID,
		ContentType:   contentType,
		ContentID:     contentID,
		SourceContext: sourceContext,
	}

	if err := database.Database.Db.Create(&entry).Error; err != nil {
		log.Printf("[AUDIT] failed to write audit log (request %s): %v", requestID, err)
		return
	}

	if config.AppConfig.AuditWebhookURL != "" {
		go forwardAuditEvent(entry)
	}
}

// forwardAuditEvent pushes an audit entry to the external monitoring webhook
func forwardAuditEvent(entry models.AuditLog) {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second)

	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"request_id":     entry.RequestID,
			"actor_id":       entry.ActorID,
			"action":         entry.Action,
			"target_user_id": entry.TargetUserID,
			"content_type":   entry.ContentType,
			"content_id":     entry.ContentID,
			"source_context": entry.SourceContext,
			"occurred_at":    entry.CreatedAt.Format(time.RFC3339),
		}).
		Post(config.AppConfig.AuditWebhookURL)

	if err != nil {
		log.Printf("[AUDIT] webhook delivery failed (request %s): %v", entry.RequestID, err)
		return
	}
	if resp.IsError() {
		log.Printf("[AUDIT] webhook returned %d (request %s)", resp.StatusCode(), entry.RequestID)
	}
}
