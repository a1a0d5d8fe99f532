package postgresql

import (
	"context"
	"fmt"

	"github.com/lojaops/commission-backend-go/internal/domain/commission"
	"github.com/lojaops/commission-backend-go/internal/pkg/database"
)

type auditLogRepository struct {
	db *database.DB
}

func NewAuditLogRepository(db *database.DB) commission.AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) InsertBatch(ctx context.Context, entries []commission.AuditLogEntry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO commission_audit_logs (
			id, commission_id, action_type, old_value, new_value,
			old_status, new_status, reason, actor_id, actor_name
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for _, e := range entries {
		_, err := q.Exec(ctx, query,
			e.ID, e.CommissionID, e.ActionType, e.OldValue, e.NewValue,
			e.OldStatus, e.NewStatus, e.Reason, e.ActorID, e.ActorName,
		)
		if err != nil {
			return fmt.Errorf("failed to insert audit entry for commission %s: %w", e.CommissionID, err)
		}
	}

	return nil
}

func (r *auditLogRepository) Find(ctx context.Context, commissionID *string) ([]commission.AuditLogEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, commission_id, action_type, old_value, new_value,
			   old_status, new_status, reason, actor_id, actor_name, created_at
		FROM commission_audit_logs
	`
	args := []interface{}{}
	if commissionID != nil {
		query += " WHERE commission_id = $1"
		args = append(args, *commissionID)
	}
	query += " ORDER BY created_at"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []commission.AuditLogEntry
	for rows.Next() {
		var e commission.AuditLogEntry
		if err := rows.Scan(
			&e.ID, &e.CommissionID, &e.ActionType, &e.OldValue, &e.NewValue,
			&e.OldStatus, &e.NewStatus, &e.Reason, &e.ActorID, &e.ActorName, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
