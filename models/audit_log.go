package models

import (
	"time"
)

// AuditAction names an administrative action
type AuditAction string

const (
	AuditActionBan           AuditAction = "ban"
	AuditActionUnban         AuditAction = "unban"
	AuditActionAdjustBalance AuditAction = "adjust_balance"
	AuditActionUpdateConfig  AuditAction = "update_config"
	AuditActionUpsertCase    AuditAction = "upsert_case"
)

// AuditLog is an append-only record of an administrative action
type AuditLog struct {
	ID        int64          `db:"id"`
	ActorID   string         `db:"actor_id"`
	Action    AuditAction    `db:"action"`
	TargetID  string         `db:"target_id"`
	Metadata  map[string]any `db:"metadata"`
	CreatedAt time.Time      `db:"created_at"`
}
