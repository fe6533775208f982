package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/certquiz/internal/controller"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete saved results, and optionally the whole local database",
	Long: `reset clears quiz history from the configured history backend.
With --all the local SQLite database, including the LLM request log, is
removed as well.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		all, _ := cmd.Flags().GetBool("all")
		if !yes {
			return fmt.Errorf("this deletes saved data; re-run with --yes to confirm")
		}

		err := withController(cmd, logger, func(ctrl *controller.Controller) error {
			return ctrl.OnClearHistory(cmd.Context())
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")

		if !all {
			return nil
		}
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}
		// SQLite WAL mode leaves -wal and -shm files next to the database.
		for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
			if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("remove %s: %w", p, err)
			}
		}
		logger.Info().Str("path", dbPath).Msg("database removed")
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", dbPath)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
	resetCmd.Flags().Bool("all", false, "Also remove the local database")
}
