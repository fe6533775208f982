// Package ingest turns uploaded question files into candidate records.
package ingest

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhisek/certquiz/internal/question"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Adapter parses one upload format into candidates for the validator.
type Adapter interface {
	// Format returns the short format name, e.g. "json".
	Format() string

	// Parse decodes data. A payload that cannot be decoded at all returns a
	// *ParseError; per-record problems are carried on the candidates.
	Parse(data []byte) ([]question.Candidate, error)
}

var adapters = map[string]Adapter{
	".json": JSONAdapter{},
	".csv":  CSVAdapter{},
}

// AdapterFor returns the adapter registered for the extension of filename.
func AdapterFor(filename string) (Adapter, bool) {
	a, ok := adapters[strings.ToLower(filepath.Ext(filename))]
	return a, ok
}

// Parse runs the file-level checks and the adapter chosen by the filename's
// extension. The extension is only a hint: each adapter checks the shape of
// the content itself.
func Parse(data []byte, filename string) ([]question.Candidate, error) {
	a, ok := AdapterFor(filename)
	if !ok {
		return nil, &IngestionError{
			Filename: filename,
			Cause:    "Unsupported file type. Please upload JSON or CSV.",
		}
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, &IngestionError{Filename: filename, Cause: "File is empty."}
	}
	return a.Parse(data)
}

// Load parses and validates in one step.
func Load(data []byte, filename string) ([]question.Question, error) {
	cands, err := Parse(data, filename)
	if err != nil {
		return nil, err
	}
	return question.ValidateBatch(cands)
}

// ReadFile reads an upload from disk, mapping failures to IngestionError.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		cause := "Error reading file."
		if errors.Is(err, fs.ErrNotExist) {
			cause = "File not found."
		}
		return nil, &IngestionError{Filename: path, Cause: cause, Err: err}
	}
	return data, nil
}
