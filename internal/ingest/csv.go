package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abhisek/certquiz/internal/question"
)

// maxOptions is the number of option columns a CSV row may carry.
const maxOptions = 4

// CSVAdapter reads a header row followed by one question per row.
//
// Columns: question, option1..option4 (or options1..options4),
// correctAnswer (or correct), and optionally explanation and id. Header
// names are matched case-insensitively. Blank option cells are dropped.
type CSVAdapter struct{}

func (CSVAdapter) Format() string { return FormatCSV }

func (CSVAdapter) Parse(data []byte) ([]question.Candidate, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	hdr, err := cr.Read()
	if err != nil {
		return nil, &ParseError{Format: FormatCSV, Err: fmt.Errorf("reading header: %w", err)}
	}
	idx := map[string]int{}
	for i, h := range hdr {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := idx["question"]; !ok {
		return nil, &ParseError{Format: FormatCSV, Err: errors.New("missing column: question")}
	}
	if !hasOptionColumn(idx) {
		return nil, &ParseError{Format: FormatCSV, Err: errors.New("missing column: option1")}
	}

	var out []question.Candidate
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Format: FormatCSV, Err: err}
		}
		if blankRow(rec) {
			continue
		}
		out = append(out, rowCandidate(idx, rec))
	}
	return out, nil
}

func hasOptionColumn(idx map[string]int) bool {
	for n := 1; n <= maxOptions; n++ {
		if _, ok := idx[fmt.Sprintf("option%d", n)]; ok {
			return true
		}
		if _, ok := idx[fmt.Sprintf("options%d", n)]; ok {
			return true
		}
	}
	return false
}

func rowCandidate(idx map[string]int, rec []string) question.Candidate {
	c := question.Candidate{
		Question:      cell(idx, rec, "question"),
		CorrectAnswer: firstNonBlank(cell(idx, rec, "correctanswer"), cell(idx, rec, "correct")),
		Explanation:   cell(idx, rec, "explanation"),
	}
	for n := 1; n <= maxOptions; n++ {
		opt := firstNonBlank(
			cell(idx, rec, fmt.Sprintf("option%d", n)),
			cell(idx, rec, fmt.Sprintf("options%d", n)),
		)
		if opt != "" {
			c.Options = append(c.Options, opt)
		}
	}
	if raw := cell(idx, rec, "id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.Problems = append(c.Problems, fmt.Sprintf("id must be an integer, got %q", raw))
		} else {
			c.ID = &id
		}
	}
	return c
}

// cell returns the trimmed value of column name, or "" when the column or
// the cell is absent.
func cell(idx map[string]int, rec []string, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func blankRow(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
