// Package scoring computes quiz results from answers.
package scoring

import "github.com/abhisek/certquiz/internal/question"

// Answer is the option index chosen for a question, or Unanswered.
type Answer int

// Unanswered marks a question the user never answered.
const Unanswered Answer = -1

// Answered reports whether a holds a choice.
func (a Answer) Answered() bool { return a >= 0 }

// Result summarizes one finished quiz.
type Result struct {
	Total   int
	Correct int
	Score   int // percent, 0-100
	// TimeUsed is the number of seconds spent before the quiz finished.
	TimeUsed int
}

// QuestionResult is the per-question breakdown shown on the results screen.
type QuestionResult struct {
	Question question.Question
	Answer   Answer
	Correct  bool
}

// Score counts correct answers and computes the percentage. An answer is
// correct when it is set and its option text equals the correct answer.
// Answers beyond len(selected) are ignored; missing answers count as
// unanswered.
func Score(selected []question.Question, answers []Answer) Result {
	r := Result{Total: len(selected)}
	for i, q := range selected {
		if i < len(answers) && isCorrect(q, answers[i]) {
			r.Correct++
		}
	}
	r.Score = Percent(r.Correct, r.Total)
	return r
}

// Breakdown returns per-question correctness in quiz order.
func Breakdown(selected []question.Question, answers []Answer) []QuestionResult {
	out := make([]QuestionResult, len(selected))
	for i, q := range selected {
		a := Unanswered
		if i < len(answers) {
			a = answers[i]
		}
		out[i] = QuestionResult{Question: q, Answer: a, Correct: isCorrect(q, a)}
	}
	return out
}

// Percent returns round-half-up of 100*correct/total, or 0 when total is 0.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}

func isCorrect(q question.Question, a Answer) bool {
	return a.Answered() && q.IsCorrect(int(a))
}
