package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/site-safety-service/internal/domain"
)

// AuditRepository is the append-only store for record audit entries.
// Entries are returned oldest first, ties broken by insertion order, and
// are never updated or deleted. FetchAuditTrail satisfies the audit trail
// reader's Source contract.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	FetchAuditTrail(ctx context.Context, recordType domain.RecordType, recordID string) ([]domain.AuditEntry, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository builds the repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	const query = `
        INSERT INTO record_audit_log (record_id, record_type, user_id, action, old_values, new_values, reason)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`

	oldValues, err := marshalValues(entry.OldValues)
	if err != nil {
		return fmt.Errorf("marshal old_values: %w", err)
	}
	newValues, err := marshalValues(entry.NewValues)
	if err != nil {
		return fmt.Errorf("marshal new_values: %w", err)
	}

	return r.pool.QueryRow(ctx, query,
		entry.RecordID,
		entry.RecordType,
		entry.UserID,
		entry.Action,
		oldValues,
		newValues,
		entry.Reason,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *auditRepository) FetchAuditTrail(ctx context.Context, recordType domain.RecordType, recordID string) ([]domain.AuditEntry, error) {
	const query = `
        SELECT id, record_id, record_type, user_id, action, old_values, new_values, reason, created_at
        FROM record_audit_log
        WHERE record_type=$1 AND record_id=$2
        ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, recordType, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		var oldValues, newValues []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.RecordID,
			&entry.RecordType,
			&entry.UserID,
			&entry.Action,
			&oldValues,
			&newValues,
			&entry.Reason,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(oldValues) > 0 {
			if err := json.Unmarshal(oldValues, &entry.OldValues); err != nil {
				return nil, fmt.Errorf("unmarshal old_values: %w", err)
			}
		}
		if len(newValues) > 0 {
			if err := json.Unmarshal(newValues, &entry.NewValues); err != nil {
				return nil, fmt.Errorf("unmarshal new_values: %w", err)
			}
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func marshalValues(values map[string]any) ([]byte, error) {
	if values == nil {
		values = map[string]any{}
	}
	return json.Marshal(values)
}
