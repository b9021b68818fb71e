package ports

import (
	"context"
	"io"

	"github.com/tcarvalho/doc-analyst/internal/core/domain"
)

// DocumentIntake is the inbound contract for the document lifecycle.
type DocumentIntake interface {
	Submit(ctx context.Context, filename, declaredMIME string, size int64, body io.Reader) (*domain.DocumentRecord, error)
	Remove(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.DocumentRecord, error)
	Find(ctx context.Context, id string) (*domain.DocumentRecord, error)
}
