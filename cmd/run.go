package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/certquiz/internal/app"
	"github.com/abhisek/certquiz/internal/controller"
)

// runApp opens the store, builds the controller, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	log, closeLog := fileLogger()
	defer closeLog.Close()

	log.Info().Str("history_backend", appConfig.History.Backend).Bool("ai", appConfig.LLM.Enabled()).Msg("starting")
	return withController(cmd, log, func(ctrl *controller.Controller) error {
		return app.Run(ctrl, log)
	})
}
