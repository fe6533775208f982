package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/certquiz/internal/controller"
	"github.com/abhisek/certquiz/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show, export or clear past quiz results",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past results, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		return withController(cmd, logger, func(ctrl *controller.Controller) error {
			entries := ctrl.AllHistory(cmd.Context())
			w := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(w, "No quizzes taken yet.")
				return nil
			}

			fmt.Fprintf(w, "%-20s  %9s  %6s  %6s\n", "Date", "Correct", "Score", "Time")
			fmt.Fprintln(w, strings.Repeat("─", 48))
			shown := 0
			for i := len(entries) - 1; i >= 0; i-- {
				if limit > 0 && shown == limit {
					break
				}
				e := entries[i]
				date := e.Date
				if t := e.Time(); !t.IsZero() {
					date = t.Local().Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(w, "%-20s  %9s  %5d%%  %6s\n",
					date, fmt.Sprintf("%d/%d", e.CorrectAnswers, e.TotalQuestions), e.Score, e.TimeUsed)
				shown++
			}
			return nil
		})
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise past results",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(cmd, logger, func(ctrl *controller.Controller) error {
			st := history.Summarize(ctrl.AllHistory(cmd.Context()))
			w := cmd.OutOrStdout()
			if st.Quizzes == 0 {
				fmt.Fprintln(w, "No quizzes taken yet.")
				return nil
			}
			fmt.Fprintf(w, "Quizzes taken:     %d\n", st.Quizzes)
			fmt.Fprintf(w, "Average score:     %d%%\n", st.Average)
			fmt.Fprintf(w, "Best / worst:      %d%% / %d%%\n", st.Best, st.Worst)
			fmt.Fprintf(w, "Questions correct: %d of %d (%d%%)\n", st.Correct, st.Questions, st.Overall)
			if st.Quizzes > 1 {
				fmt.Fprintf(w, "Latest vs before:  %+d points\n", st.Trend)
			}
			return nil
		})
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write past results as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		return withController(cmd, logger, func(ctrl *controller.Controller) error {
			if output == "-" {
				return ctrl.History.WriteExport(cmd.Context(), cmd.OutOrStdout())
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := ctrl.History.WriteExport(cmd.Context(), f); err != nil {
				f.Close()
				return fmt.Errorf("write %s: %w", output, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "History exported to %s\n", output)
			return nil
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all past results",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("this deletes every saved result; re-run with --yes to confirm")
		}
		return withController(cmd, logger, func(ctrl *controller.Controller) error {
			if err := ctrl.OnClearHistory(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		})
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 10, "Number of results to show (0 = all)")
	historyExportCmd.Flags().StringP("output", "o", history.ExportFilename, `Output file, "-" for stdout`)
	historyClearCmd.Flags().Bool("yes", false, "Confirm deletion")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
}
