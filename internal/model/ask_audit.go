package model

import "time"

const (
	AskStatusOK            = "ok"
	AskStatusUpstreamError = "upstream_error"
)

// AskAudit is an append-only record of ask round trips, persisted
// asynchronously by the audit worker.
type AskAudit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;index" json:"project_id"`
	DialogID  uint      `gorm:"index" json:"dialog_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Prompt    string    `gorm:"type:text;not null" json:"prompt"`
	Answer    string    `gorm:"type:text" json:"answer"`
	Status    string    `gorm:"size:32;not null" json:"status"`
	LatencyMS int64     `json:"latency_ms"`
	CreatedAt time.Time `json:"created_at"`
}
