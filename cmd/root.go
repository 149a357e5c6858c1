package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/tinysteps/internal/app"
	"github.com/abhisek/tinysteps/internal/config"
	"github.com/abhisek/tinysteps/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tinysteps",
	Short: "AI lesson planning and homework grading for early childhood educators",
	Long: "tinysteps generates lesson plans and STEM activities, grades homework and " +
		"tracks student progress for early childhood classrooms.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a config file (default: ./tinysteps.yaml or the data directory)")
	pf.String("db", "", "Database DSN or SQLite path (overrides TINYSTEPS_DB_DSN)")
	pf.String("tenant", "local", "Tenant (school) id used for AI calls and usage")
	pf.String("user", "cli", "User (teacher) id used for AI calls and usage")
	pf.BoolP("verbose", "v", false, "Log diagnostics to stderr")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(stemCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and environment; --db takes priority
// over both.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if dsn, _ := cmd.Flags().GetString("db"); dsn != "" {
		cfg.DB.DSN = dsn
	}
	return cfg, nil
}

// newLogger returns the configured logger, or a silent one for one-shot
// commands run without --verbose.
func newLogger(cmd *cobra.Command, cfg *config.Config, always bool) (*logger.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !always && !verbose {
		return logger.Nop(), nil
	}
	return logger.New(cfg.Log.Mode, cfg.Log.HashSalt)
}

// openApp loads configuration and assembles the services. The caller
// closes the returned App.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := newLogger(cmd, cfg, false)
	if err != nil {
		return nil, err
	}
	return app.New(cmd.Context(), cfg, log, app.Options{})
}

// identity returns the --tenant and --user flags.
func identity(cmd *cobra.Command) (tenant, user string) {
	tenant, _ = cmd.Flags().GetString("tenant")
	user, _ = cmd.Flags().GetString("user")
	return tenant, user
}
