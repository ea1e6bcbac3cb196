package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gemarcade/database"
	"gemarcade/models"
)

// AuditLogRepository implements the AuditLogRepository interface
type AuditLogRepository struct {
	q queryable
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *database.DB) *AuditLogRepository {
	return &AuditLogRepository{q: db.Pool}
}

// newAuditLogRepositoryWithTx creates a new audit log repository with a transaction
func newAuditLogRepositoryWithTx(tx queryable) *AuditLogRepository {
	return &AuditLogRepository{q: tx}
}

// Append records an administrative action
func (r *AuditLogRepository) Append(ctx context.Context, entry *models.AuditLog) error {
	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal audit metadata: %w", err)
	}

	query := `
		INSERT INTO audit_logs (actor_id, action, target_id, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query, entry.ActorID, entry.Action, entry.TargetID, raw).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append audit log: %w", err)
	}
	return nil
}

// GetByTarget returns the newest audit records for a target
func (r *AuditLogRepository) GetByTarget(ctx context.Context, targetID string, limit int) ([]*models.AuditLog, error) {
	query := `
		SELECT id, actor_id, action, target_id, metadata, created_at
		FROM audit_logs
		WHERE target_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, targetID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		var entry models.AuditLog
		var raw []byte
		if err := rows.Scan(&entry.ID, &entry.ActorID, &entry.Action, &entry.TargetID, &raw, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		if err := json.Unmarshal(raw, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audit metadata: %w", err)
		}
		logs = append(logs, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit logs: %w", err)
	}
	return logs, nil
}
