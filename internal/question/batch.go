package question

import (
	"fmt"
	"strings"
)

// ValidationError reports a batch whose content is well-formed but invalid.
// The whole batch is rejected; Invalid counts the offending records.
type ValidationError struct {
	Total   int
	Invalid int
	Issues  []Issue
}

func (e *ValidationError) Error() string {
	if e.Total == 0 {
		return "No questions found. Please check your file format."
	}
	return fmt.Sprintf("Found %d invalid questions. Please check your file format.", e.Invalid)
}

// Detail lists every issue on its own line.
func (e *ValidationError) Detail() string {
	var b strings.Builder
	for _, is := range e.Issues {
		b.WriteString(is.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// ValidateBatch validates every candidate and assigns identifiers. The batch
// is atomic: if any record fails, no questions are returned.
func ValidateBatch(cands []Candidate) ([]Question, error) {
	if len(cands) == 0 {
		return nil, &ValidationError{}
	}

	rules := DefaultRules()
	out := make([]Question, 0, len(cands))
	verr := &ValidationError{Total: len(cands)}
	for i, c := range cands {
		q, issues := validateWith(rules, i, c)
		if len(issues) > 0 {
			verr.Invalid++
			verr.Issues = append(verr.Issues, issues...)
			continue
		}
		out = append(out, q)
	}
	if verr.Invalid > 0 {
		return nil, verr
	}

	if err := assignIDs(cands, out); err != nil {
		return nil, err
	}
	return out, nil
}

// assignIDs gives each question its source id or its 1-based position.
// Duplicate ids fail the whole batch.
func assignIDs(cands []Candidate, qs []Question) error {
	seen := make(map[int]int, len(qs))
	verr := &ValidationError{Total: len(qs)}
	for i := range qs {
		id := i + 1
		if cands[i].ID != nil {
			id = *cands[i].ID
		}
		if first, dup := seen[id]; dup {
			verr.Invalid++
			verr.Issues = append(verr.Issues, Issue{
				Index:   i,
				Rule:    "id",
				Message: fmt.Sprintf("id %d already used by record %d", id, first+1),
			})
			continue
		}
		seen[id] = i
		qs[i].ID = id
	}
	if verr.Invalid > 0 {
		return verr
	}
	return nil
}
