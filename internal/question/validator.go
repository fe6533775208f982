package question

import (
	"fmt"
	"slices"
	"strings"
)

// Rule checks one aspect of a candidate record.
// Implementations should be stateless and safe for concurrent use.
type Rule interface {
	// Name returns a short identifier used in issues and logs.
	Name() string

	// Check returns an empty string if the candidate passes, otherwise a
	// human-readable description of the failure.
	Check(c Candidate) string
}

// DefaultRules is the rule chain applied by Validate and ValidateBatch.
func DefaultRules() []Rule {
	return []Rule{
		decodeRule{},
		promptRule{},
		optionsRule{},
		answerRule{},
	}
}

type decodeRule struct{}

func (decodeRule) Name() string { return "decode" }

func (decodeRule) Check(c Candidate) string {
	if len(c.Problems) == 0 {
		return ""
	}
	return strings.Join(c.Problems, "; ")
}

type promptRule struct{}

func (promptRule) Name() string { return "question" }

func (promptRule) Check(c Candidate) string {
	if strings.TrimSpace(c.Question) == "" {
		return "question is empty"
	}
	return ""
}

type optionsRule struct{}

func (optionsRule) Name() string { return "options" }

func (optionsRule) Check(c Candidate) string {
	if len(c.Options) < 2 {
		return fmt.Sprintf("need at least 2 options, got %d", len(c.Options))
	}
	nonEmpty := 0
	for _, o := range c.Options {
		if strings.TrimSpace(o) != "" {
			nonEmpty++
		}
	}
	if nonEmpty < 2 {
		return fmt.Sprintf("need at least 2 non-empty options, got %d", nonEmpty)
	}
	return ""
}

type answerRule struct{}

func (answerRule) Name() string { return "correctAnswer" }

func (answerRule) Check(c Candidate) string {
	if strings.TrimSpace(c.CorrectAnswer) == "" {
		return "correctAnswer is empty"
	}
	if !slices.Contains(c.Options, c.CorrectAnswer) {
		return fmt.Sprintf("correctAnswer %q is not one of the options", c.CorrectAnswer)
	}
	return ""
}

// Issue describes one failed rule for one record of a batch.
type Issue struct {
	Index   int    // 0-based position in the batch
	Rule    string // Name of the rule that failed
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("record %d: %s: %s", i.Index+1, i.Rule, i.Message)
}

// Validate runs the default rule chain on c. On success it returns the
// question with ID left at zero; IDs are assigned per batch.
func Validate(c Candidate) (Question, []Issue) {
	return validateWith(DefaultRules(), 0, c)
}

func validateWith(rules []Rule, index int, c Candidate) (Question, []Issue) {
	var issues []Issue
	for _, r := range rules {
		if msg := r.Check(c); msg != "" {
			issues = append(issues, Issue{Index: index, Rule: r.Name(), Message: msg})
		}
	}
	if len(issues) > 0 {
		return Question{}, issues
	}
	return Question{
		Prompt:        c.Question,
		Options:       slices.Clone(c.Options),
		CorrectAnswer: c.CorrectAnswer,
		Explanation:   c.Explanation,
	}, nil
}
