package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/site-safety-service/internal/domain"
)

// TemplateRepository stores saved report form presets.
type TemplateRepository interface {
	Create(ctx context.Context, template *domain.ReportTemplate) error
	Update(ctx context.Context, template *domain.ReportTemplate) error
	GetByID(ctx context.Context, id string) (*domain.ReportTemplate, error)
	ListByUser(ctx context.Context, userID string, recordType *domain.RecordType) ([]domain.ReportTemplate, error)
	Delete(ctx context.Context, id string) error
}

type templateRepository struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository builds the repository.
func NewTemplateRepository(pool *pgxpool.Pool) TemplateRepository {
	return &templateRepository{pool: pool}
}

func (r *templateRepository) Create(ctx context.Context, template *domain.ReportTemplate) error {
	const query = `
        INSERT INTO report_templates (user_id, name, record_type, fields)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`

	fields, err := marshalFields(template.Fields)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, query,
		template.UserID,
		template.Name,
		template.RecordType,
		fields,
	).Scan(&template.ID, &template.CreatedAt, &template.UpdatedAt)
}

func (r *templateRepository) Update(ctx context.Context, template *domain.ReportTemplate) error {
	const query = `
        UPDATE report_templates SET name=$1, record_type=$2, fields=$3, updated_at=NOW()
        WHERE id=$4`

	fields, err := marshalFields(template.Fields)
	if err != nil {
		return err
	}
	cmd, err := r.pool.Exec(ctx, query, template.Name, template.RecordType, fields, template.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*domain.ReportTemplate, error) {
	const query = `
        SELECT id, user_id, name, record_type, fields, created_at, updated_at
        FROM report_templates WHERE id=$1`

	var template domain.ReportTemplate
	var fields []byte
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&template.ID,
		&template.UserID,
		&template.Name,
		&template.RecordType,
		&fields,
		&template.CreatedAt,
		&template.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &template.Fields); err != nil {
			return nil, fmt.Errorf("unmarshal fields: %w", err)
		}
	}
	return &template, nil
}

func (r *templateRepository) ListByUser(ctx context.Context, userID string, recordType *domain.RecordType) ([]domain.ReportTemplate, error) {
	query := `
        SELECT id, user_id, name, record_type, fields, created_at, updated_at
        FROM report_templates WHERE user_id=$1`
	args := []any{userID}
	if recordType != nil {
		query += ` AND record_type=$2`
		args = append(args, *recordType)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ReportTemplate
	for rows.Next() {
		var template domain.ReportTemplate
		var fields []byte
		if err := rows.Scan(
			&template.ID,
			&template.UserID,
			&template.Name,
			&template.RecordType,
			&fields,
			&template.CreatedAt,
			&template.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(fields) > 0 {
			if err := json.Unmarshal(fields, &template.Fields); err != nil {
				return nil, fmt.Errorf("unmarshal fields: %w", err)
			}
		}
		result = append(result, template)
	}
	return result, rows.Err()
}

func (r *templateRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM report_templates WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func marshalFields(fields map[string]any) ([]byte, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal fields: %w", err)
	}
	return data, nil
}
