package results

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/certquiz/internal/history"
	"github.com/abhisek/certquiz/internal/scoring"
	"github.com/abhisek/certquiz/internal/ui/components"
	"github.com/abhisek/certquiz/internal/ui/layout"
	"github.com/abhisek/certquiz/internal/ui/theme"
)

func (s *ResultsScreen) View(width, height int) string {
	cw := layout.ContentWidth(width)
	summary := s.renderSummary(cw - 6)

	review := s.reviewLines(cw - 6)
	s.lines = len(review)

	// Card border and padding take 4 rows, the summary its own height.
	room := max(height-lipgloss.Height(summary)-6, 3)
	start := min(s.offset, max(len(review)-1, 0))
	end := min(start+room, len(review))

	var b strings.Builder
	b.WriteString(summary)
	b.WriteString("\n")
	b.WriteString(strings.Join(review[start:end], "\n"))
	if end < len(review) {
		b.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("↓ %d more lines", len(review)-end)))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, components.Card(b.String(), cw))
}

func (s *ResultsScreen) renderSummary(w int) string {
	res := s.outcome.Result

	var b strings.Builder
	b.WriteString(theme.Title.Render("Quiz complete"))
	if s.outcome.Expired {
		b.WriteString("  " + lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).Render("Time's up!"))
	}
	b.WriteString("\n\n")

	b.WriteString(theme.ScoreStyle(res.Score).Render(fmt.Sprintf("Score: %d%%", res.Score)))
	b.WriteString(theme.Body.Render(fmt.Sprintf("   %d of %d correct", res.Correct, res.Total)))
	b.WriteString("\n")
	b.WriteString(components.ProgressBar{
		Done: res.Correct, Total: res.Total, Width: w, Color: theme.ScoreStyle(res.Score).GetForeground(),
	}.View())
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Time used: %s of %s",
		history.FormatTime(res.TimeUsed), history.FormatTime(s.outcome.TimeLimit))))
	b.WriteString("\n")

	if s.outcome.SaveErr != nil {
		b.WriteString(theme.ErrorText.Render("This result could not be saved to history."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Bold(true).Render("Review"))
	return b.String()
}

// reviewLines renders the breakdown one line per slice element so the view
// can scroll it.
func (s *ResultsScreen) reviewLines(w int) []string {
	var lines []string
	for i, qr := range s.outcome.Breakdown {
		lines = append(lines, reviewQuestion(i, qr, w)...)
		lines = append(lines, "")
	}
	return lines
}

func reviewQuestion(i int, qr scoring.QuestionResult, w int) []string {
	mark := theme.Incorrect.Render("✗")
	if qr.Correct {
		mark = theme.Correct.Render("✓")
	}
	head := fmt.Sprintf("%s %d. %s", mark, i+1, qr.Question.Prompt)
	lines := strings.Split(theme.Body.Width(w).Render(head), "\n")

	for j, opt := range qr.Question.Options {
		chosen := qr.Answer.Answered() && int(qr.Answer) == j
		lines = append(lines, components.ReviewLine(j, opt, qr.Question.IsCorrect(j), chosen))
	}
	if !qr.Answer.Answered() {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Warning).Render("   Not answered"))
	}
	if qr.Question.Explanation != "" {
		text := theme.Hint.Width(w).Render("   " + qr.Question.Explanation)
		lines = append(lines, strings.Split(text, "\n")...)
	}
	return lines
}
