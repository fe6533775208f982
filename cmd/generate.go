package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/certquiz/internal/bankgen"
	"github.com/abhisek/certquiz/internal/llm"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft a question bank on a topic with the configured LLM",
	Long: `Generate a multiple-choice question bank with an LLM and write it as JSON.

The output is validated exactly like an uploaded file, so it can be loaded
with "certquiz play --bank" or from the setup screen. Review generated
questions before relying on them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		count, _ := cmd.Flags().GetInt("count")
		level, _ := cmd.Flags().GetString("level")
		avoidPath, _ := cmd.Flags().GetString("avoid")
		output, _ := cmd.Flags().GetString("output")

		in := bankgen.Input{Topic: topic, Count: count, Level: level}
		if avoidPath != "" {
			existing, err := loadBank(avoidPath)
			if err != nil {
				return fmt.Errorf("read %s: %w", avoidPath, err)
			}
			for _, q := range existing {
				in.Avoid = append(in.Avoid, q.Prompt)
			}
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		provider, err := llm.NewProvider(ctx, appConfig.LLM, st.EventRepo(), logger)
		if errors.Is(err, llm.ErrNotConfigured) {
			return fmt.Errorf("%w\nset CERTQUIZ_OPENAI_API_KEY, CERTQUIZ_ANTHROPIC_API_KEY, CERTQUIZ_GEMINI_API_KEY or CERTQUIZ_OPENROUTER_API_KEY", err)
		}
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Generating %d questions on %q with %s...\n", count, topic, provider.ModelID())
		bank, err := bankgen.New(provider, bankgen.DefaultConfig(), logger).Generate(ctx, in)
		if err != nil {
			return err
		}

		if output == "" {
			output = bank.Filename
		}
		if output == "-" {
			_, err = cmd.OutOrStdout().Write(bank.Data)
			return err
		}
		if err := os.WriteFile(output, bank.Data, 0o644); err != nil {
			return fmt.Errorf("write bank: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d questions to %s\n", bank.Records, output)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("topic", "t", "", "Exam or subject to write questions for (required)")
	generateCmd.Flags().IntP("count", "n", 10, "Number of questions to request")
	generateCmd.Flags().String("level", "", "Difficulty hint, e.g. associate or professional")
	generateCmd.Flags().String("avoid", "", "Existing bank whose questions should not be repeated")
	generateCmd.Flags().StringP("output", "o", "", `Output file, "-" for stdout (default: generated-<topic>.json)`)
	_ = generateCmd.MarkFlagRequired("topic")
}
