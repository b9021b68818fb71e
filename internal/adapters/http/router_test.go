package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/tcarvalho/doc-analyst/internal/core/domain"
	"github.com/tcarvalho/doc-analyst/internal/core/ports"
	"github.com/tcarvalho/doc-analyst/internal/observability/metrics"
)

type intakeFake struct {
	submitFn func(ctx context.Context, filename, declaredMIME string, size int64, body io.Reader) (*domain.DocumentRecord, error)
	removeFn func(ctx context.Context, id string) error
	listFn   func(ctx context.Context) ([]domain.DocumentRecord, error)
	findFn   func(ctx context.Context, id string) (*domain.DocumentRecord, error)
}

func (f *intakeFake) Submit(ctx context.Context, filename, declaredMIME string, size int64, body io.Reader) (*domain.DocumentRecord, error) {
	return f.submitFn(ctx, filename, declaredMIME, size, body)
}

func (f *intakeFake) Remove(ctx context.Context, id string) error {
	return f.removeFn(ctx, id)
}

func (f *intakeFake) List(ctx context.Context) ([]domain.DocumentRecord, error) {
	return f.listFn(ctx)
}

func (f *intakeFake) Find(ctx context.Context, id string) (*domain.DocumentRecord, error) {
	return f.findFn(ctx, id)
}

var _ ports.DocumentIntake = (*intakeFake)(nil)

func newTestHandler(t *testing.T, accessKey string, intake ports.DocumentIntake) http.Handler {
	t.Helper()
	return NewRouter(accessKey, intake, metrics.NewHTTPServerMetrics("test")).Handler()
}

func multipartUpload(t *testing.T, filename, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestSubmitReturnsCreatedRecord(t *testing.T) {
	intake := &intakeFake{
		submitFn: func(_ context.Context, filename, declaredMIME string, size int64, body io.Reader) (*domain.DocumentRecord, error) {
			if filename != "report.txt" {
				t.Fatalf("filename = %q", filename)
			}
			if declaredMIME != "text/plain" {
				t.Fatalf("declaredMIME = %q", declaredMIME)
			}
			content, _ := io.ReadAll(body)
			if string(content) != "Q1 budget needs approval" {
				t.Fatalf("content = %q", content)
			}
			return &domain.DocumentRecord{
				ID:         "rec-1",
				Title:      filename,
				FileName:   filename,
				UploadDate: time.Now().UTC(),
				Category:   domain.CategoryText,
				Status:     domain.StatusCompleted,
				Report:     &domain.AnalysisReport{Summary: "Pedido de aprovação."},
			}, nil
		},
	}
	handler := newTestHandler(t, "", intake)

	body, contentType := multipartUpload(t, "report.txt", "text/plain", "Q1 budget needs approval")
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var rec domain.DocumentRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if rec.ID != "rec-1" || rec.Status != domain.StatusCompleted {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestSubmitUnsupportedFormatMapsToBadRequest(t *testing.T) {
	intake := &intakeFake{
		submitFn: func(context.Context, string, string, int64, io.Reader) (*domain.DocumentRecord, error) {
			return nil, domain.WrapError(domain.ErrUnsupportedFormat, "extract content", io.ErrUnexpectedEOF)
		},
	}
	handler := newTestHandler(t, "", intake)

	body, contentType := multipartUpload(t, "archive.zip", "application/zip", "PK...")
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] != msgUnsupportedFormat {
		t.Fatalf("error message = %q", resp["error"])
	}
}

func TestSubmitMissingFileFieldIsBadRequest(t *testing.T) {
	intake := &intakeFake{
		submitFn: func(context.Context, string, string, int64, io.Reader) (*domain.DocumentRecord, error) {
			t.Fatal("intake must not be called without a file")
			return nil, nil
		},
	}
	handler := newTestHandler(t, "", intake)

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "text/plain")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestConcurrentSubmitIsRejected(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	intake := &intakeFake{
		submitFn: func(context.Context, string, string, int64, io.Reader) (*domain.DocumentRecord, error) {
			close(started)
			<-release
			return &domain.DocumentRecord{ID: "rec-1", Category: domain.CategoryText, Status: domain.StatusCompleted}, nil
		},
	}
	handler := newTestHandler(t, "", intake)

	firstDone := make(chan int)
	go func() {
		body, contentType := multipartUpload(t, "a.txt", "text/plain", "first")
		req := httptest.NewRequest(http.MethodPost, "/v1/documents", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		firstDone <- rr.Code
	}()

	<-started

	body, contentType := multipartUpload(t, "b.txt", "text/plain", "second")
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("concurrent submit status = %d", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] != msgBusy {
		t.Fatalf("error message = %q", resp["error"])
	}

	close(release)
	if code := <-firstDone; code != http.StatusCreated {
		t.Fatalf("first submit status = %d", code)
	}
}

func TestAccessGateRequiresKey(t *testing.T) {
	intake := &intakeFake{
		listFn: func(context.Context) ([]domain.DocumentRecord, error) {
			return []domain.DocumentRecord{}, nil
		},
	}
	handler := newTestHandler(t, "secret", intake)

	req := httptest.NewRequest(http.MethodGet, "/v1/documents", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("missing key status = %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/documents", nil)
	req.Header.Set("X-Access-Key", "wrong")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key status = %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/documents", nil)
	req.Header.Set("X-Access-Key", "secret")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("correct key status = %d", rr.Code)
	}
}

func TestAccessGateExemptsHealthz(t *testing.T) {
	handler := newTestHandler(t, "secret", &intakeFake{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rr.Code)
	}
}

func TestListDocumentsWrapsRecords(t *testing.T) {
	intake := &intakeFake{
		listFn: func(context.Context) ([]domain.DocumentRecord, error) {
			return []domain.DocumentRecord{
				{ID: "rec-2", Status: domain.StatusFailed},
				{ID: "rec-1", Status: domain.StatusCompleted},
			}, nil
		},
	}
	handler := newTestHandler(t, "", intake)

	req := httptest.NewRequest(http.MethodGet, "/v1/documents", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp struct {
		Documents []domain.DocumentRecord `json:"documents"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Documents) != 2 || resp.Documents[0].ID != "rec-2" {
		t.Fatalf("unexpected documents: %+v", resp.Documents)
	}
}

func TestFindUnknownRecordIsNotFound(t *testing.T) {
	intake := &intakeFake{
		findFn: func(_ context.Context, id string) (*domain.DocumentRecord, error) {
			return nil, domain.WrapError(domain.ErrRecordNotFound, "get record", io.EOF)
		},
	}
	handler := newTestHandler(t, "", intake)

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/missing", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] != msgNotFound {
		t.Fatalf("error message = %q", resp["error"])
	}
}

func TestDeleteRecordReturnsNoContent(t *testing.T) {
	var removedID string
	intake := &intakeFake{
		removeFn: func(_ context.Context, id string) error {
			removedID = id
			return nil
		},
	}
	handler := newTestHandler(t, "", intake)

	req := httptest.NewRequest(http.MethodDelete, "/v1/documents/rec-1", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rr.Code)
	}
	if removedID != "rec-1" {
		t.Fatalf("removed id = %q", removedID)
	}
}
