package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/site-safety-service/internal/domain"
	"github.com/spec-kit/site-safety-service/internal/lifecycle"
)

// RecordFilter captures listing parameters for a user's records.
type RecordFilter struct {
	Statuses         []domain.RecordStatus
	Category         *string
	Severity         *domain.Severity
	FollowUpRequired *bool
	Limit            int
	Offset           int
}

// RecordRepository encapsulates persistence for near-miss reports and
// safety observations. Both record types share the same column set; the
// record type selects the table.
type RecordRepository interface {
	Create(ctx context.Context, record *domain.Record) error
	Update(ctx context.Context, record *domain.Record) error
	GetByID(ctx context.Context, recordType domain.RecordType, id string) (*domain.Record, error)
	ListByUser(ctx context.Context, recordType domain.RecordType, userID string, filter RecordFilter) ([]domain.Record, error)
	UpdateStatus(ctx context.Context, recordType domain.RecordType, recordID string, patch lifecycle.StatusPatch) error
}

type recordRepository struct {
	pool *pgxpool.Pool
}

// NewRecordRepository instantiates the repository.
func NewRecordRepository(pool *pgxpool.Pool) RecordRepository {
	return &recordRepository{pool: pool}
}

func tableFor(recordType domain.RecordType) (string, error) {
	switch recordType {
	case domain.RecordTypeNearMiss:
		return "near_miss_reports", nil
	case domain.RecordTypeObservation:
		return "safety_observations", nil
	}
	return "", fmt.Errorf("record type %q has no table", recordType)
}

const recordColumns = `id, user_id, status, due_date, completed_date, description, category,
        severity, location, observation_type, witnesses, third_party_involved, third_party_details,
        equipment_faulty, equipment_fault_details, supervisor_notified, supervisor_name,
        follow_up_required, assigned_to, photos, created_at, updated_at`

func (r *recordRepository) Create(ctx context.Context, record *domain.Record) error {
	table, err := tableFor(record.Type)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
        INSERT INTO %s (user_id, status, due_date, description, category, severity, location,
            observation_type, witnesses, third_party_involved, third_party_details,
            equipment_faulty, equipment_fault_details, supervisor_notified, supervisor_name,
            follow_up_required, assigned_to, photos)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
        RETURNING id, created_at, updated_at`, table)

	witnesses, err := marshalWitnesses(record.Witnesses)
	if err != nil {
		return err
	}

	return r.pool.QueryRow(ctx, query,
		record.UserID,
		domain.NormalizeStatus(record.Status),
		record.DueDate,
		record.Description,
		record.Category,
		nullIfEmpty(string(record.Severity)),
		record.Location,
		record.ObservationType,
		witnesses,
		record.ThirdPartyInvolved,
		record.ThirdPartyDetails,
		record.EquipmentFaulty,
		record.EquipmentFaultDetails,
		record.SupervisorNotified,
		record.SupervisorName,
		record.FollowUpRequired,
		record.AssignedTo,
		record.Photos,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
}

func (r *recordRepository) Update(ctx context.Context, record *domain.Record) error {
	table, err := tableFor(record.Type)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
        UPDATE %s SET due_date=$1, description=$2, category=$3, severity=$4, location=$5,
            observation_type=$6, witnesses=$7, third_party_involved=$8, third_party_details=$9,
            equipment_faulty=$10, equipment_fault_details=$11, supervisor_notified=$12,
            supervisor_name=$13, follow_up_required=$14, assigned_to=$15, photos=$16,
            updated_at=NOW()
        WHERE id=$17`, table)

	witnesses, err := marshalWitnesses(record.Witnesses)
	if err != nil {
		return err
	}

	cmd, err := r.pool.Exec(ctx, query,
		record.DueDate,
		record.Description,
		record.Category,
		nullIfEmpty(string(record.Severity)),
		record.Location,
		record.ObservationType,
		witnesses,
		record.ThirdPartyInvolved,
		record.ThirdPartyDetails,
		record.EquipmentFaulty,
		record.EquipmentFaultDetails,
		record.SupervisorNotified,
		record.SupervisorName,
		record.FollowUpRequired,
		record.AssignedTo,
		record.Photos,
		record.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *recordRepository) GetByID(ctx context.Context, recordType domain.RecordType, id string) (*domain.Record, error) {
	table, err := tableFor(recordType)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id=$1`, recordColumns, table)

	record := domain.Record{Type: recordType}
	if err := scanRecord(r.pool.QueryRow(ctx, query, id), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *recordRepository) ListByUser(ctx context.Context, recordType domain.RecordType, userID string, filter RecordFilter) ([]domain.Record, error) {
	table, err := tableFor(recordType)
	if err != nil {
		return nil, err
	}

	clauses := []string{"user_id=$1"}
	args := []any{userID}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Severity != nil {
		args = append(args, *filter.Severity)
		clauses = append(clauses, fmt.Sprintf("severity=$%d", len(args)))
	}
	if filter.FollowUpRequired != nil {
		args = append(args, *filter.FollowUpRequired)
		clauses = append(clauses, fmt.Sprintf("follow_up_required=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		recordColumns, table, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Record
	for rows.Next() {
		record := domain.Record{Type: recordType}
		if err := scanRecord(rows, &record); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

// UpdateStatus applies a lifecycle status patch. completed_date is only
// written when the patch touches it, preserving the stored value on
// transitions that leave it alone.
func (r *recordRepository) UpdateStatus(ctx context.Context, recordType domain.RecordType, recordID string, patch lifecycle.StatusPatch) error {
	table, err := tableFor(recordType)
	if err != nil {
		return err
	}

	var cmd pgconn.CommandTag
	if patch.TouchCompleted {
		query := fmt.Sprintf(`UPDATE %s SET status=$1, completed_date=$2, updated_at=NOW() WHERE id=$3`, table)
		cmd, err = r.pool.Exec(ctx, query, patch.Status, patch.CompletedDate, recordID)
	} else {
		query := fmt.Sprintf(`UPDATE %s SET status=$1, updated_at=NOW() WHERE id=$2`, table)
		cmd, err = r.pool.Exec(ctx, query, patch.Status, recordID)
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable, record *domain.Record) error {
	var severity *string
	var witnesses []byte
	if err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.Status,
		&record.DueDate,
		&record.CompletedDate,
		&record.Description,
		&record.Category,
		&severity,
		&record.Location,
		&record.ObservationType,
		&witnesses,
		&record.ThirdPartyInvolved,
		&record.ThirdPartyDetails,
		&record.EquipmentFaulty,
		&record.EquipmentFaultDetails,
		&record.SupervisorNotified,
		&record.SupervisorName,
		&record.FollowUpRequired,
		&record.AssignedTo,
		&record.Photos,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		return err
	}
	if severity != nil {
		record.Severity = domain.Severity(*severity)
	}
	if len(witnesses) > 0 {
		if err := json.Unmarshal(witnesses, &record.Witnesses); err != nil {
			return fmt.Errorf("unmarshal witnesses: %w", err)
		}
	}
	record.Status = domain.NormalizeStatus(record.Status)
	return nil
}

func marshalWitnesses(witnesses []domain.Witness) ([]byte, error) {
	if witnesses == nil {
		witnesses = []domain.Witness{}
	}
	data, err := json.Marshal(witnesses)
	if err != nil {
		return nil, fmt.Errorf("marshal witnesses: %w", err)
	}
	return data, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
