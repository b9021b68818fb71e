// Package extractor turns an arbitrary uploaded file into a
// (category, normalized payload) pair: plain text for Text/Word documents,
// a base64 data URI for PDF and image binaries.
package extractor

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/tcarvalho/doc-analyst/internal/core/domain"
)

const wordMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// smallFileFallbackLimit: files without a recognizable type are still
// accepted as plain text when below this size. Deliberate best-effort
// policy carried over from the upload widget, with a known false-positive
// risk for small binary files.
const smallFileFallbackLimit = 100_000

const defaultMaxUploadBytes = 15 << 20

type Extractor struct {
	maxUploadBytes int64
}

func New(maxUploadBytes int64) *Extractor {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Extractor{maxUploadBytes: maxUploadBytes}
}

// Classify maps an upload to its content category. Priority order matters:
// Word detection runs first so a .docx with a generic declared MIME type is
// still treated as Word, and a declared "pdf" wins over a .txt suffix.
func Classify(filename, declaredMIME string, size int64) domain.Category {
	name := strings.ToLower(filename)
	mime := strings.ToLower(declaredMIME)

	switch {
	case strings.HasSuffix(name, ".docx") || mime == wordMIME:
		return domain.CategoryWord
	case strings.Contains(mime, "pdf"):
		return domain.CategoryPDF
	case strings.Contains(mime, "image"):
		return domain.CategoryImage
	case strings.Contains(mime, "text") ||
		strings.HasSuffix(name, ".md") ||
		strings.HasSuffix(name, ".txt"):
		return domain.CategoryText
	case size < smallFileFallbackLimit && !strings.HasSuffix(name, ".doc"):
		return domain.CategoryText
	default:
		return domain.CategoryUnsupported
	}
}

func (e *Extractor) Extract(
	_ context.Context,
	filename, declaredMIME string,
	size int64,
	body io.Reader,
) (domain.Category, string, error) {
	if size > e.maxUploadBytes {
		return domain.CategoryUnsupported, "", domain.WrapError(
			domain.ErrInvalidInput,
			"read upload",
			fmt.Errorf("file too large: %d bytes (max %d)", size, e.maxUploadBytes),
		)
	}

	category := Classify(filename, declaredMIME, size)
	if category == domain.CategoryUnsupported {
		return category, "", domain.WrapError(
			domain.ErrUnsupportedFormat,
			"classify upload",
			fmt.Errorf("%s (%s)", filename, declaredMIME),
		)
	}

	raw, err := io.ReadAll(io.LimitReader(body, e.maxUploadBytes+1))
	if err != nil {
		return category, "", domain.WrapError(domain.ErrExtraction, "read upload", err)
	}
	if int64(len(raw)) > e.maxUploadBytes {
		return category, "", domain.WrapError(
			domain.ErrInvalidInput,
			"read upload",
			fmt.Errorf("payload exceeds %d bytes", e.maxUploadBytes),
		)
	}

	switch category {
	case domain.CategoryWord:
		text, err := extractDocxText(raw)
		if err != nil {
			return category, "", err
		}
		return category, text, nil

	case domain.CategoryText:
		if !utf8.Valid(raw) {
			return category, "", domain.WrapError(
				domain.ErrExtraction,
				"decode text",
				fmt.Errorf("payload of %s is not valid UTF-8", filename),
			)
		}
		return category, string(raw), nil

	case domain.CategoryPDF, domain.CategoryImage:
		return category, encodeDataURI(category, declaredMIME, raw), nil

	default:
		return category, "", domain.WrapError(
			domain.ErrUnsupportedFormat,
			"extract upload",
			errors.New("no extraction path for category "+string(category)),
		)
	}
}

// encodeDataURI wraps the raw bytes the way a browser FileReader would.
// Downstream consumers strip the prefix before use.
func encodeDataURI(category domain.Category, declaredMIME string, raw []byte) string {
	mime := "application/pdf"
	if category == domain.CategoryImage {
		mime = "image/jpeg"
		if strings.HasPrefix(strings.ToLower(declaredMIME), "image/") {
			mime = strings.ToLower(declaredMIME)
		}
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw)
}
