package domain

import (
	"errors"
	"fmt"
)

var (
	// Classification/extraction stage. None of these create a record.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyDocument     = errors.New("document contains no extractable text")
	ErrExtraction        = errors.New("content extraction failed")

	// Analysis stage. These transition the record to failed.
	ErrConfiguration   = errors.New("engine credentials not configured")
	ErrEngineCall      = errors.New("engine call failed")
	ErrEngineEmpty     = errors.New("engine returned no text")
	ErrEngineMalformed = errors.New("engine returned malformed output")

	ErrRecordNotFound = errors.New("record not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBusy           = errors.New("another submission in flight")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
