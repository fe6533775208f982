// Package history keeps the local log of finished quizzes.
package history

import (
	"fmt"
	"time"

	"github.com/abhisek/certquiz/internal/scoring"
)

// DateLayout is the ISO-8601 layout used for Entry.Date (UTC, milliseconds).
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// Entry is one finished quiz. JSON field names are part of the persisted
// format and must not change.
type Entry struct {
	Date           string `json:"date"`
	TotalQuestions int    `json:"totalQuestions"`
	CorrectAnswers int    `json:"correctAnswers"`
	Score          int    `json:"score"`
	TimeUsed       string `json:"timeUsed"`
}

// NewEntry builds the history entry for a result finished at now.
func NewEntry(r scoring.Result, now time.Time) Entry {
	return Entry{
		Date:           now.UTC().Format(DateLayout),
		TotalQuestions: r.Total,
		CorrectAnswers: r.Correct,
		Score:          r.Score,
		TimeUsed:       FormatTime(r.TimeUsed),
	}
}

// Time parses Date. Entries written by other tools may carry a date in a
// different layout; the zero time is returned for those.
func (e Entry) Time() time.Time {
	for _, layout := range []string{DateLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, e.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FormatTime renders seconds as MM:SS.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
