package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/chat2md/internal/api"
	"github.com/dgallion1/chat2md/internal/pipeline"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newServeCmd(o *overrides) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP control API",
		Long: `Serve exposes runs, uploads, the document index and the progress ledger over
HTTP. Set CHAT2MD_API_KEY to require a bearer token on /api routes. On
SIGINT or SIGTERM the server stops accepting requests and waits for the
active run to finish.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, o)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			log := newLogger(cmd.ErrOrStderr(), cfg)

			gateway, closeGateway, err := newGateway(cfg, log)
			if err != nil {
				return err
			}
			defer closeGateway()

			orch, err := pipeline.NewOrchestrator(cfg, gateway, afero.NewOsFs(), log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			orch.Start(ctx)

			httpServer := &http.Server{
				Addr:         ":" + cfg.Port,
				Handler:      api.NewServer(orch, gateway, log, cfg.APIKey, cfg.MaxUploadBytes),
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 120 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("starting chat2md", "port", cfg.Port, "input", cfg.InputDir, "output", cfg.OutputDir)
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					orch.Stop()
					return err
				}
			case <-ctx.Done():
			}

			// Graceful shutdown.
			log.Info("shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				log.Warn("http shutdown", "error", err)
			}
			orch.Stop()
			return nil
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port, overriding CHAT2MD_PORT (default 8091)")
	return cmd
}
