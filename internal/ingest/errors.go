package ingest

import "fmt"

// IngestionError is a file-level failure detected before any content is
// parsed: empty file, unreadable file, unsupported extension.
type IngestionError struct {
	Filename string
	Cause    string
	Err      error
}

func (e *IngestionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Cause, e.Err)
	}
	return e.Cause
}

func (e *IngestionError) Unwrap() error { return e.Err }

// ParseError means the file content is not in the expected format at all,
// as opposed to a well-formed file holding invalid questions.
type ParseError struct {
	Format string // "json" or "csv"
	Err    error
}

func (e *ParseError) Error() string {
	switch e.Format {
	case FormatJSON:
		return fmt.Sprintf("Invalid JSON format. Please check your file. (%v)", e.Err)
	case FormatCSV:
		return fmt.Sprintf("Invalid CSV format. Please check your file. (%v)", e.Err)
	}
	return fmt.Sprintf("invalid %s payload: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
