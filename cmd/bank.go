package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/certquiz/internal/controller"
	"github.com/abhisek/certquiz/internal/ingest"
	"github.com/abhisek/certquiz/internal/question"
	"github.com/abhisek/certquiz/internal/ui/components"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Validate, inspect and create question bank files",
}

var bankCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a JSON or CSV question file without loading it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		qs, err := loadBank(args[0])
		if err != nil {
			var verr *question.ValidationError
			if errors.As(err, &verr) {
				fmt.Fprint(cmd.ErrOrStderr(), verr.Detail())
			}
			return fmt.Errorf("%s: %s", args[0], controller.UserMessage(err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d valid questions\n", args[0], len(qs))
		return nil
	},
}

var bankShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print the questions in a bank, with answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		qs, err := loadBank(args[0])
		if err != nil {
			return fmt.Errorf("%s: %s", args[0], controller.UserMessage(err))
		}
		hideAnswers, _ := cmd.Flags().GetBool("hide-answers")

		w := cmd.OutOrStdout()
		for i, q := range qs {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%d. %s\n", q.ID, q.Prompt)
			for j, opt := range q.Options {
				mark := " "
				if !hideAnswers && q.IsCorrect(j) {
					mark = "✓"
				}
				fmt.Fprintf(w, "  %s %s) %s\n", mark, components.Label(j), opt)
			}
			if !hideAnswers && q.Explanation != "" {
				fmt.Fprintf(w, "  %s\n", q.Explanation)
			}
		}
		fmt.Fprintf(w, "\n%d questions\n", len(qs))
		return nil
	},
}

var bankSampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write a sample question file to start from",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		var data []byte
		switch strings.ToLower(format) {
		case ingest.FormatJSON:
			data = ingest.SampleJSON()
		case ingest.FormatCSV:
			data = ingest.SampleCSV()
		default:
			return fmt.Errorf("invalid format %q: must be json or csv", format)
		}

		if output == "" || output == "-" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("write sample: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Sample written to %s\n", output)
		return nil
	},
}

func loadBank(path string) ([]question.Question, error) {
	data, err := ingest.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ingest.Load(data, path)
}

func init() {
	bankShowCmd.Flags().Bool("hide-answers", false, "Do not mark correct answers")
	bankSampleCmd.Flags().StringP("format", "f", ingest.FormatJSON, "Sample format: json or csv")
	bankSampleCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")

	bankCmd.AddCommand(bankCheckCmd)
	bankCmd.AddCommand(bankShowCmd)
	bankCmd.AddCommand(bankSampleCmd)
}
