package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tcarvalho/doc-analyst/internal/core/domain"
	"github.com/tcarvalho/doc-analyst/internal/core/ports"
)

// AnalysisFailureMessage is the user-facing text persisted on a failed
// record. The technical cause goes to the log, not to the end user.
const AnalysisFailureMessage = "Erro ao processar documento com IA."

// IntakeUseCase owns the document lifecycle: extraction, record creation,
// analysis and the processing→completed/failed transitions.
type IntakeUseCase struct {
	store     ports.RecordStore
	extractor ports.ContentExtractor
	engine    ports.AnalysisEngine
}

func NewIntakeUseCase(
	store ports.RecordStore,
	extractor ports.ContentExtractor,
	engine ports.AnalysisEngine,
) *IntakeUseCase {
	return &IntakeUseCase{
		store:     store,
		extractor: extractor,
		engine:    engine,
	}
}

// Submit runs the full pipeline for one upload and returns the finished
// record. Extraction failures surface to the caller before any record
// exists; analysis failures are converted into a persisted failed record.
func (uc *IntakeUseCase) Submit(
	ctx context.Context,
	filename, declaredMIME string,
	size int64,
	body io.Reader,
) (*domain.DocumentRecord, error) {
	category, content, err := uc.extractor.Extract(ctx, filename, declaredMIME, size, body)
	if err != nil {
		return nil, err
	}

	rec := &domain.DocumentRecord{
		ID:         uuid.NewString(),
		Title:      filename,
		FileName:   filename,
		UploadDate: time.Now().UTC(),
		Category:   category,
		Content:    content,
		Status:     domain.StatusProcessing,
	}
	if err := uc.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist processing record: %w", err)
	}

	report, err := uc.engine.Analyze(ctx, category, content)
	if err != nil {
		slog.Error("document analysis failed",
			"record_id", rec.ID,
			"category", category,
			"error", err,
		)
		rec.MarkFailed(AnalysisFailureMessage)
	} else {
		rec.MarkCompleted(report)
	}

	if err := uc.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist analysis outcome: %w", err)
	}
	return rec, nil
}

// Remove deletes the record unconditionally. Removing an unknown id is not
// an error.
func (uc *IntakeUseCase) Remove(ctx context.Context, id string) error {
	if err := uc.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// List returns all records, most recently created first.
func (uc *IntakeUseCase) List(ctx context.Context) ([]domain.DocumentRecord, error) {
	records, err := uc.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

func (uc *IntakeUseCase) Find(ctx context.Context, id string) (*domain.DocumentRecord, error) {
	rec, err := uc.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find record: %w", err)
	}
	return rec, nil
}
