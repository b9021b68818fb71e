package ports

import (
	"context"
	"io"

	"github.com/tcarvalho/doc-analyst/internal/core/domain"
)

// RecordStore persists the document history. Save upserts by id; a record
// saved under a new id surfaces first in GetAll order, a known id is replaced
// in place. Delete on an absent id is a no-op.
type RecordStore interface {
	GetAll(ctx context.Context) ([]domain.DocumentRecord, error)
	Save(ctx context.Context, rec *domain.DocumentRecord) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.DocumentRecord, error)
}

// ContentExtractor classifies an upload and produces its normalized payload.
// It never touches the record store.
type ContentExtractor interface {
	Extract(ctx context.Context, filename, declaredMIME string, size int64, body io.Reader) (domain.Category, string, error)
}

// AnalysisEngine obtains a structured report for normalized content.
type AnalysisEngine interface {
	Analyze(ctx context.Context, category domain.Category, content string) (*domain.AnalysisReport, error)
}
