package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tcarvalho/doc-analyst/internal/core/domain"
)

type RecordRepository struct {
	db *sql.DB
}

func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *RecordRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026052801)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS document_records (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	file_name TEXT NOT NULL,
	upload_date TIMESTAMPTZ NOT NULL,
	category TEXT NOT NULL,
	content TEXT NOT NULL,
	report JSONB,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	created_seq BIGSERIAL
);

ALTER TABLE document_records ADD COLUMN IF NOT EXISTS created_seq BIGSERIAL;

CREATE INDEX IF NOT EXISTS idx_document_records_created_seq ON document_records(created_seq DESC);
CREATE INDEX IF NOT EXISTS idx_document_records_status ON document_records(status);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// Save upserts by id. Immutable creation fields stay untouched on conflict;
// only the lifecycle outcome (report, status, error message) is replaced.
func (r *RecordRepository) Save(ctx context.Context, rec *domain.DocumentRecord) error {
	reportJSON, err := marshalReport(rec.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO document_records (
	id, title, file_name, upload_date, category, content, report, status, error_message
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
	report = EXCLUDED.report,
	status = EXCLUDED.status,
	error_message = EXCLUDED.error_message
`,
		rec.ID, rec.Title, rec.FileName, rec.UploadDate, string(rec.Category),
		rec.Content, reportJSON, string(rec.Status), rec.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

// GetAll lists newest first. created_seq is assigned once at insert and never
// updated, so the order holds even when upload timestamps collide.
func (r *RecordRepository) GetAll(ctx context.Context) ([]domain.DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, file_name, upload_date, category, content, report, status, error_message
FROM document_records
ORDER BY created_seq DESC
`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.DocumentRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

func (r *RecordRepository) GetByID(ctx context.Context, id string) (*domain.DocumentRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, file_name, upload_date, category, content, report, status, error_message
FROM document_records
WHERE id = $1
`, id)

	rec, err := scanRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrRecordNotFound, "get record", fmt.Errorf("id %s", id))
		}
		return nil, err
	}
	return rec, nil
}

// Delete removes the record. Deleting an unknown id is a no-op.
func (r *RecordRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM document_records WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

func scanRecord(scan func(dest ...any) error) (*domain.DocumentRecord, error) {
	var rec domain.DocumentRecord
	var category, status string
	var reportRaw []byte

	err := scan(
		&rec.ID, &rec.Title, &rec.FileName, &rec.UploadDate, &category,
		&rec.Content, &reportRaw, &status, &rec.ErrorMessage,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan record: %w", err)
	}

	if len(reportRaw) > 0 {
		var report domain.AnalysisReport
		if err := json.Unmarshal(reportRaw, &report); err != nil {
			return nil, fmt.Errorf("unmarshal report: %w", err)
		}
		rec.Report = &report
	}
	rec.Category = domain.Category(category)
	rec.Status = domain.RecordStatus(status)
	return &rec, nil
}

func marshalReport(report *domain.AnalysisReport) ([]byte, error) {
	if report == nil {
		return nil, nil
	}
	return json.Marshal(report)
}
