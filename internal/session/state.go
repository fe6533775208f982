package session

import (
	"errors"
	"fmt"

	"github.com/abhisek/certquiz/internal/history"
	"github.com/abhisek/certquiz/internal/question"
	"github.com/abhisek/certquiz/internal/scoring"
)

// Phase is the lifecycle phase of a quiz.
type Phase int

const (
	PhaseSetup    Phase = iota // Choosing a pool and settings
	PhaseActive                // Answering questions while the clock runs
	PhaseFinished              // Results are available
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// MaxMinutes caps the time limit at one day.
const MaxMinutes = 24 * 60

// Config is the quiz length and time limit chosen during setup.
type Config struct {
	Count   int
	Minutes int
}

var (
	ErrNotSetup          = errors.New("quiz must be reset before starting again")
	ErrNotActive         = errors.New("no quiz in progress")
	ErrNotFinished       = errors.New("quiz has not finished")
	ErrOptionOutOfRange  = errors.New("option index out of range")
	ErrNoQuestionsLoaded = errors.New("no questions loaded")
)

// ConfigError rejects a Config at start. Message is shown to the user.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// Validate checks cfg against a pool of poolSize questions.
func (cfg Config) Validate(poolSize int) error {
	switch {
	case cfg.Count < 1:
		return &ConfigError{Field: "count", Message: "Please choose at least 1 question."}
	case cfg.Count > poolSize:
		return &ConfigError{
			Field: "count",
			Message: fmt.Sprintf(
				"The maximum number of questions available is %d. Please select %d or fewer questions.",
				poolSize, poolSize),
		}
	case cfg.Minutes < 1:
		return &ConfigError{Field: "minutes", Message: "The time limit must be at least 1 minute."}
	case cfg.Minutes > MaxMinutes:
		return &ConfigError{
			Field:   "minutes",
			Message: fmt.Sprintf("The time limit can be at most %d minutes.", MaxMinutes),
		}
	}
	return nil
}

// Outcome is everything known about a finished quiz.
type Outcome struct {
	SessionID string
	Result    scoring.Result
	Breakdown []scoring.QuestionResult
	Entry     history.Entry

	// TimeLimit is the configured limit in seconds.
	TimeLimit int

	// Expired is set when the countdown reached zero.
	Expired bool

	// SaveErr is non-nil when the history entry could not be stored.
	SaveErr error
}

// Snapshot is a read-only copy of the session state for rendering.
type Snapshot struct {
	ID        string
	Phase     Phase
	Config    Config
	Index     int
	Total     int
	Questions []question.Question
	Answers   []scoring.Answer
	Remaining int
	Outcome   *Outcome
}

// Current returns the question at Index. Only valid while active.
func (s Snapshot) Current() (question.Question, scoring.Answer) {
	if s.Index < 0 || s.Index >= len(s.Questions) {
		return question.Question{}, scoring.Unanswered
	}
	return s.Questions[s.Index], s.Answers[s.Index]
}

// IsLast reports whether Index is the final question.
func (s Snapshot) IsLast() bool { return s.Index == s.Total-1 }

// Answered counts the answered questions.
func (s Snapshot) Answered() int {
	n := 0
	for _, a := range s.Answers {
		if a.Answered() {
			n++
		}
	}
	return n
}
