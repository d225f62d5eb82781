package cmd

import (
	"net/http"

	"estateadmin/api"
	"estateadmin/config"
	"estateadmin/logger"

	"github.com/spf13/cobra"
)

var standaloneServerPort string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts only the dashboard server, without the background sweeper",
	RunE: func(cmd *cobra.Command, args []string) error {
		portToUse := standaloneServerPort
		if !cmd.Flags().Changed("port") && config.AppConfig.Server.Port != "" {
			portToUse = config.AppConfig.Server.Port
		}

		logger.Info("--- Server Command: Run ---")
		a, err := buildApp()
		if err != nil {
			return err
		}
		a.setupHandlers(config.AppConfig.Server.SessionTTL)

		logger.Info("Server Command: Attempting to ListenAndServe on :%s...", portToUse)
		if err := http.ListenAndServe(":"+portToUse, api.NewRouter()); err != nil {
			logger.Fatal("Could not start server: %v", err)
		}
		return nil
	},
}

func init() {
	serverCmd.Flags().StringVarP(&standaloneServerPort, "port", "p", "8780", "Port for the server to listen on")
	rootCmd.AddCommand(serverCmd)
}
