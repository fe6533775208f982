package question

import "slices"

// Question is a validated multiple-choice question. Values are treated as
// immutable once they leave ValidateBatch; use Clone before handing one to
// code that may modify the options slice.
type Question struct {
	// ID is unique within a pool. Either supplied by the source file or the
	// 1-based position of the record in its batch.
	ID int `json:"id"`

	// Prompt is the question text shown to the user.
	Prompt string `json:"question"`

	// Options are the answer choices in display order. At least two.
	Options []string `json:"options"`

	// CorrectAnswer is the text of the correct option. Correctness is keyed
	// on this string, not on an option position.
	CorrectAnswer string `json:"correctAnswer"`

	// Explanation is shown on the results screen. Optional.
	Explanation string `json:"explanation,omitempty"`
}

// Clone returns a deep copy of q.
func (q Question) Clone() Question {
	q.Options = slices.Clone(q.Options)
	return q
}

// CorrectIndex returns the position of the first option equal to
// CorrectAnswer, or -1.
func (q Question) CorrectIndex() int {
	return slices.Index(q.Options, q.CorrectAnswer)
}

// IsCorrect reports whether choosing option i answers q correctly.
func (q Question) IsCorrect(i int) bool {
	if i < 0 || i >= len(q.Options) {
		return false
	}
	return q.Options[i] == q.CorrectAnswer
}

// Candidate is the common shape every ingestion adapter produces. It is not
// trusted until it passes validation.
type Candidate struct {
	// ID is set when the source format carries its own identifier.
	ID *int

	Question      string
	Options       []string
	CorrectAnswer string
	Explanation   string

	// Problems lists decode failures the adapter found for this record,
	// e.g. a non-string option in a JSON array. A candidate with problems
	// is always invalid.
	Problems []string
}

// CloneAll deep-copies a slice of questions.
func CloneAll(qs []Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q.Clone()
	}
	return out
}
