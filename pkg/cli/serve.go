package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/briareus/pkg/cli/config"
	httpctrl "github.com/secmon-lab/briareus/pkg/controller/http"
	"github.com/secmon-lab/briareus/pkg/service/worker"
	"github.com/secmon-lab/briareus/pkg/usecase"
	"github.com/secmon-lab/briareus/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var repoCfg config.Repository
	var workflowCfg config.Workflow
	var sourcesCfg config.Sources
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("BRIAREUS_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, workflowCfg.Flags()...)
	flags = append(flags, sourcesCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the pipeline server with background workers",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			workflow, err := workflowCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load workflow configuration")
			}

			sources, err := sourcesCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure signal sources")
			}
			logger.Info("Signal sources configured", "sources", sourcesCfg)

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			notifier, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Slack notifier")
			}
			if notifier != nil {
				logger.Info("Slack notifications enabled", "slack", slackCfg)
			}

			uc := usecase.New(repo,
				usecase.WithWorkflowConfig(workflow),
				usecase.WithSources(sources...),
				usecase.WithNotifier(notifier),
			)

			cycleWorker := worker.NewCycleWorker(uc, workflow.CycleInterval)
			cycleWorker.Start(ctx)

			healthWorker := worker.NewHealthWorker(uc, repo, workflow.HealthCheckInterval)
			healthWorker.Start(ctx)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				cycleWorker.Stop()
				healthWorker.Stop()
				return err
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)

				// Stop workers first so no new cycle starts during shutdown
				cycleWorker.Stop()
				healthWorker.Stop()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logger.Info("Server shutdown completed")
				return nil
			}
		},
	}
}
