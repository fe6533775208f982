package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/certquiz/internal/app"
	"github.com/abhisek/certquiz/internal/config"
	"github.com/abhisek/certquiz/internal/controller"
	"github.com/abhisek/certquiz/internal/logging"
	"github.com/abhisek/certquiz/internal/store"
)

// Loaded by the root PersistentPreRunE before any command runs.
var (
	appConfig config.Config
	logger    = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "certquiz",
	Short: "Timed certification practice quizzes in the terminal",
	Long: `certquiz runs timed multiple-choice practice exams from a built-in question
bank or your own JSON/CSV files, and keeps a history of your scores.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Log.Level = lvl
		}
		appConfig = cfg
		logger = logging.New(os.Stderr, cfg.Log.Level, false)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CERTQUIZ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: user config dir/certquiz/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then CERTQUIZ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// withController opens the store, builds a controller from the loaded
// config and calls fn. Everything is closed when fn returns.
func withController(cmd *cobra.Command, log zerolog.Logger, fn func(*controller.Controller) error) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	ctrl, closer, err := app.Build(cmd.Context(), appConfig, st, log)
	if err != nil {
		return err
	}
	defer closer.Close()

	return fn(ctrl)
}

// fileLogger sends logs to the configured log file while a full-screen UI
// owns the terminal.
func fileLogger() (zerolog.Logger, io.Closer) {
	path := appConfig.Log.File
	if path == "" {
		p, err := logging.DefaultLogPath()
		if err != nil {
			return zerolog.Nop(), io.NopCloser(nil)
		}
		path = p
	}
	l, c, err := logging.NewFile(path, appConfig.Log.Level)
	if err != nil {
		logger.Warn().Err(err).Msg("file logging disabled")
		return zerolog.Nop(), io.NopCloser(nil)
	}
	return l, c
}
