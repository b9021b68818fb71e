package domain

import "time"

// Category is the classified content type of an uploaded file.
type Category string

const (
	CategoryText        Category = "TEXT"
	CategoryPDF         Category = "PDF"
	CategoryImage       Category = "IMAGE"
	CategoryWord        Category = "WORD"
	CategoryUnsupported Category = "UNSUPPORTED"
)

type RecordStatus string

const (
	StatusPending    RecordStatus = "pending"
	StatusProcessing RecordStatus = "processing"
	StatusCompleted  RecordStatus = "completed"
	StatusFailed     RecordStatus = "failed"
)

// Request priorities and risk severities as produced by the analysis engine.
const (
	PriorityNormal = "Normal"
	PriorityUrgent = "Urgente"

	SeverityLow    = "Baixo"
	SeverityMedium = "Médio"
	SeverityHigh   = "Alto"
)

type RequestItem struct {
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

type Risk struct {
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// AnalysisReport is the structured engine output for a completed record.
// Slice order is the relevance order produced by the engine and is preserved.
type AnalysisReport struct {
	Summary         string        `json:"summary"`
	KeyPoints       []string      `json:"keyPoints"`
	Requests        []RequestItem `json:"requests"`
	Risks           []Risk        `json:"risks"`
	Benefits        []string      `json:"benefits"`
	Keywords        []string      `json:"keywords"`
	AdditionalNotes string        `json:"additionalNotes,omitempty"`
}

// DocumentRecord is one uploaded document and its analysis outcome.
// ID, Title, FileName, UploadDate, Category and Content are fixed at creation.
type DocumentRecord struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	FileName   string    `json:"file_name"`
	UploadDate time.Time `json:"upload_date"`
	Category   Category  `json:"category"`

	// Content is the normalized payload submitted for analysis: plain text
	// for Text/Word, a base64 data URI for PDF/Image. Persisted but not
	// exposed over the API.
	Content string `json:"-"`

	Report       *AnalysisReport `json:"report,omitempty"`
	Status       RecordStatus    `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// MarkCompleted attaches the analysis outcome. A completed record always
// carries a report and never an error message.
func (r *DocumentRecord) MarkCompleted(report *AnalysisReport) {
	r.Report = report
	r.Status = StatusCompleted
	r.ErrorMessage = ""
}

// MarkFailed records the failure. Any report held so far is discarded so a
// failed record never carries stale analysis output.
func (r *DocumentRecord) MarkFailed(message string) {
	r.Report = nil
	r.Status = StatusFailed
	r.ErrorMessage = message
}
