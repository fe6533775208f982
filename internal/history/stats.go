package history

import "github.com/abhisek/certquiz/internal/scoring"

// Stats summarises a history log.
type Stats struct {
	Quizzes int

	// Average is the mean of the per-quiz scores, rounded.
	Average int
	Best    int
	Worst   int

	// Overall is the percentage of all questions ever answered correctly.
	Questions int
	Correct   int
	Overall   int

	// Trend is the latest score minus the mean of the earlier ones; zero
	// with fewer than two quizzes.
	Trend int
}

// Summarize computes Stats over entries in chronological order.
func Summarize(entries []Entry) Stats {
	var st Stats
	if len(entries) == 0 {
		return st
	}

	st.Quizzes = len(entries)
	st.Best, st.Worst = entries[0].Score, entries[0].Score
	sum := 0
	for _, e := range entries {
		sum += e.Score
		st.Best = max(st.Best, e.Score)
		st.Worst = min(st.Worst, e.Score)
		st.Questions += e.TotalQuestions
		st.Correct += e.CorrectAnswers
	}
	st.Average = roundDiv(sum, len(entries))
	st.Overall = scoring.Percent(st.Correct, st.Questions)

	if n := len(entries); n > 1 {
		earlier := sum - entries[n-1].Score
		st.Trend = entries[n-1].Score - roundDiv(earlier, n-1)
	}
	return st
}

// roundDiv is round-half-up a/b for non-negative a and positive b.
func roundDiv(a, b int) int {
	return (2*a + b) / (2 * b)
}
