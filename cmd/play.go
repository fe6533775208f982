package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/certquiz/internal/controller"
	"github.com/abhisek/certquiz/internal/history"
	"github.com/abhisek/certquiz/internal/session"
	"github.com/abhisek/certquiz/internal/ui/components"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Take a quiz in plain line mode (no full-screen UI)",
	Long: `Take a timed quiz by typing answers at a prompt.

At each question type the option number to answer and move on, press Enter to
skip, "b" to go back, or "f" to finish early. The result is saved to history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bank, _ := cmd.Flags().GetString("bank")
		count, _ := cmd.Flags().GetInt("count")
		minutes, _ := cmd.Flags().GetInt("minutes")

		return withController(cmd, logger, func(ctrl *controller.Controller) error {
			ctx := cmd.Context()
			if bank != "" {
				n, err := ctrl.OnFilePath(ctx, bank)
				if err != nil {
					return fmt.Errorf("%s", controller.UserMessage(err))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d questions from %s.\n", n, bank)
			}

			cfg := ctrl.DefaultConfig()
			if count > 0 {
				cfg.Count = count
			}
			if minutes > 0 {
				cfg.Minutes = minutes
			}
			if err := ctrl.OnConfigSubmit(cfg.Count, cfg.Minutes); err != nil {
				return fmt.Errorf("%s", controller.UserMessage(err))
			}

			out, err := playLines(ctx, ctrl, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			printOutcome(cmd.OutOrStdout(), out)
			return nil
		})
	},
}

func init() {
	playCmd.Flags().String("bank", "", "JSON or CSV question file (default: configured bank or built-in questions)")
	playCmd.Flags().Int("count", 0, "Number of questions (default: from config, capped at the bank size)")
	playCmd.Flags().Int("minutes", 0, "Time limit in minutes (default: from config)")
}

// playLines runs the active quiz against a line-oriented reader until it
// finishes, the input closes or the timer runs out.
func playLines(ctx context.Context, ctrl *controller.Controller, in io.Reader, w io.Writer) (*session.Outcome, error) {
	scanner := bufio.NewScanner(in)

	for {
		snap := ctrl.Snapshot()
		if snap.Phase == session.PhaseFinished {
			fmt.Fprintln(w, "\nTime's up!")
			return snap.Outcome, nil
		}

		q, a := snap.Current()
		fmt.Fprintf(w, "\n── Question %d/%d ──  time left %s\n", snap.Index+1, snap.Total, history.FormatTime(snap.Remaining))
		fmt.Fprintln(w, q.Prompt)
		for i, opt := range q.Options {
			mark := " "
			if int(a) == i {
				mark = "*"
			}
			fmt.Fprintf(w, " %s%d) %s\n", mark, i+1, opt)
		}
		fmt.Fprintf(w, "\nAnswer [1-%d, Enter=skip, b=back, f=finish]: ", len(q.Options))

		if !scanner.Scan() {
			fmt.Fprintln(w, "\n(input closed, submitting)")
			return finishOrCollect(ctx, ctrl)
		}
		if ctrl.Session.Phase() == session.PhaseFinished {
			continue
		}

		input := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch input {
		case "":
		case "b":
			if err := ctrl.OnPrevious(); err != nil {
				fmt.Fprintln(w, controller.UserMessage(err))
			}
			continue
		case "f":
			return finishOrCollect(ctx, ctrl)
		default:
			n, err := strconv.Atoi(input)
			if err != nil || n < 1 || n > len(q.Options) {
				fmt.Fprintf(w, "Please type a number from 1 to %d.\n", len(q.Options))
				continue
			}
			if err := ctrl.OnOptionClick(n - 1); err != nil {
				// Only fails when the countdown finished the quiz first.
				continue
			}
		}

		out, err := ctrl.OnNext(ctx)
		if err != nil {
			continue
		}
		if out != nil {
			return out, nil
		}
	}
}

// finishOrCollect finishes the quiz, or returns the outcome if the timer
// already did.
func finishOrCollect(ctx context.Context, ctrl *controller.Controller) (*session.Outcome, error) {
	out, err := ctrl.OnFinishEarly(ctx)
	if err == nil {
		return out, nil
	}
	if snap := ctrl.Snapshot(); snap.Outcome != nil {
		return snap.Outcome, nil
	}
	return nil, err
}

func printOutcome(w io.Writer, out *session.Outcome) {
	if out == nil {
		return
	}
	res := out.Result
	fmt.Fprintln(w, "\n══ Results ══")
	fmt.Fprintf(w, "Score: %d%% (%d of %d correct)\n", res.Score, res.Correct, res.Total)
	fmt.Fprintf(w, "Time used: %s of %s\n", history.FormatTime(res.TimeUsed), history.FormatTime(out.TimeLimit))
	if out.SaveErr != nil {
		fmt.Fprintln(w, "Warning: this result could not be saved to history.")
	}

	for i, qr := range out.Breakdown {
		mark := "✗"
		if qr.Correct {
			mark = "✓"
		}
		fmt.Fprintf(w, "\n%s %d. %s\n", mark, i+1, qr.Question.Prompt)
		if qr.Answer.Answered() {
			fmt.Fprintf(w, "   Your answer: %s) %s\n", components.Label(int(qr.Answer)), qr.Question.Options[qr.Answer])
		} else {
			fmt.Fprintln(w, "   Not answered")
		}
		if !qr.Correct {
			fmt.Fprintf(w, "   Correct answer: %s\n", qr.Question.CorrectAnswer)
		}
		if qr.Question.Explanation != "" {
			fmt.Fprintf(w, "   %s\n", qr.Question.Explanation)
		}
	}
}
