package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"estateadmin/api"
	"estateadmin/config"
	"estateadmin/core"
	"estateadmin/logger"

	"github.com/spf13/cobra"
)

var (
	startServerPort    string
	startSweepInterval time.Duration
	startDraftTTL      time.Duration
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Starts the dashboard server and its background session sweeper",
	Long: `Starts the web dashboard and API server together with the sweeper that
expires old sessions and abandoned form drafts.
Press Ctrl+C to gracefully shut down all services.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("--- Start Command: Run ---")

		actualServerPort := startServerPort
		if !cmd.Flags().Changed("server-port") {
			actualServerPort = config.AppConfig.Server.Port
			logger.Info("Start Command: Server port flag not set, using config value: %s", actualServerPort)
		}
		if actualServerPort == "" {
			logger.Error("Start Command: Server port is empty after checking flag and config, defaulting to 8780")
			actualServerPort = "8780"
		}

		a, err := buildApp()
		if err != nil {
			return err
		}
		a.setupHandlers(config.AppConfig.Server.SessionTTL)

		var wg sync.WaitGroup
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sweeper := core.NewSessionSweeper(ctx, startSweepInterval, startDraftTTL, a.store)
		sweeper.Start()

		wg.Add(1)
		go func(parentCtx context.Context) {
			defer wg.Done()
			server := &http.Server{
				Addr:              ":" + actualServerPort,
				Handler:           api.NewRouter(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-parentCtx.Done()
				logger.Info("Start Command Goroutine(API): Shutdown signal received...")
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					logger.Error("Start Command Goroutine(API): Graceful shutdown failed: %v", err)
				} else {
					logger.Info("Start Command Goroutine(API): Gracefully stopped.")
				}
			}()

			logger.Info("Start Command Goroutine(API): Listening on :%s", actualServerPort)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Start Command Goroutine(API): ListenAndServe error: %v", err)
				cancel()
			}
			logger.Info("Start Command Goroutine(API): Finished.")
		}(ctx)

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		logger.Info("Start Command: All services launched. Press Ctrl+C to exit.")

		select {
		case sig := <-sigs:
			logger.Info("Start Command: Received signal: %s. Initiating shutdown...", sig)
		case <-ctx.Done():
			logger.Info("Start Command: Context cancelled (likely due to a service error). Initiating shutdown...")
		}

		cancel()
		sweeper.Stop()

		shutdownComplete := make(chan struct{})
		go func() {
			wg.Wait()
			close(shutdownComplete)
		}()

		select {
		case <-shutdownComplete:
			logger.Info("Start Command: All services shut down.")
		case <-time.After(10 * time.Second):
			logger.Error("Start Command: Shutdown timed out. Forcing exit.")
		}
		return nil
	},
}

func init() {
	startCmd.Flags().StringVar(&startServerPort, "server-port", "8780", "Port for the dashboard server (overrides config)")
	startCmd.Flags().DurationVar(&startSweepInterval, "sweep-interval", 10*time.Minute, "How often expired sessions and stale drafts are removed")
	startCmd.Flags().DurationVar(&startDraftTTL, "draft-ttl", 7*24*time.Hour, "Age after which untouched form drafts are removed (0 keeps them)")
	rootCmd.AddCommand(startCmd)
}
