package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/chatloom/chatloom/internal"
	"github.com/chatloom/chatloom/internal/httpapi"
	"github.com/chatloom/chatloom/internal/llm"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API consumed by the web UI.

The server exposes conversation create/list/select/delete plus message
submission with optional SSE streaming.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, store, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if err := cfg.RequireProvider(); err != nil {
			return err
		}

		provider := llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		ctrl := internal.NewController(store, provider, cfg.SystemPrompt, cfg.RequestTimeout)

		addr := cfg.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           httpapi.NewServer(ctrl).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", addr).Str("model", cfg.OpenAIModel).Msg("chatloom API listening")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides CHATLOOM_ADDR)")
}
