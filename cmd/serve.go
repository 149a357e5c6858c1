package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/tinysteps/internal/api"
	"github.com/abhisek/tinysteps/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTP.Addr = addr
		}
		log, err := newLogger(cmd, cfg, true)
		if err != nil {
			return err
		}
		defer log.Sync()

		if cfg.Log.Mode == "prod" {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg, log, app.Options{})
		if err != nil {
			return err
		}
		defer func() {
			if err := a.Close(); err != nil {
				log.Warn("shutdown failed", "error", err)
			}
		}()

		router := api.NewRouter(api.RouterConfig{
			Client:   a.Client,
			Lessons:  a.Lessons,
			Grader:   a.Grader,
			STEM:     a.STEM,
			Recorder: a.Recorder,
			Log:      log,
		})
		log.Info("starting tinysteps", "version", version, "ai_available", a.Client.Available(), "model", a.Client.ModelID())
		return api.Serve(ctx, cfg.HTTP.Addr, router, log)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides http.addr)")
}
