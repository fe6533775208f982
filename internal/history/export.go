package history

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strconv"
)

// ExportFilename is the suggested name for exported history.
const ExportFilename = "quiz_history.csv"

var exportHeader = []string{"Date", "Questions", "Correct", "Score", "TimeUsed"}

// ExportText renders entries as CSV with a header row.
func ExportText(entries []Entry) string {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer cannot fail.
	_ = writeCSV(&buf, entries)
	return buf.String()
}

// WriteExport writes the current history as CSV to w.
func (s *Store) WriteExport(ctx context.Context, w io.Writer) error {
	return writeCSV(w, s.List(ctx))
}

func writeCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			e.Date,
			strconv.Itoa(e.TotalQuestions),
			strconv.Itoa(e.CorrectAnswers),
			strconv.Itoa(e.Score) + "%",
			e.TimeUsed,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
