package cmd

import (
	"fmt"
	"os"

	"estateadmin/config"
	"estateadmin/database"
	"estateadmin/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile         string
	dbPath          string // Bound to --dbpath flag
	appLogPathFlag  string
	mailLogPathFlag string
	logLevelFlag    string
)

// Commands that must not touch the database.
var noDatabaseCmds = map[string]bool{
	"completion":                    true,
	cobra.ShellCompRequestCmd:       true,
	cobra.ShellCompNoDescRequestCmd: true,
	"version":                       true,
	"generate":                      true,
	"help":                          true,
}

var rootCmd = &cobra.Command{
	Use:   "estateadmin",
	Short: "Admin dashboard server for the DMCI property website",
	Long: `estateadmin serves the property admin dashboard. It relays list and
mutation requests to the backend API with the signed-in admin's token, renders
the list screens, and sends the inquiry reply and new-property emails.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(cfgFile, appLogPathFlag, mailLogPathFlag, logLevelFlag); err != nil {
			return fmt.Errorf("failed to initialize config in PersistentPreRunE: %w", err)
		}
		if noDatabaseCmds[cmd.Name()] {
			return nil
		}

		finalDBPath := config.AppConfig.Database.Path
		if dbPath != "" {
			expanded, err := config.ExpandTilde(dbPath)
			if err != nil {
				logger.Error("Error expanding tilde in --dbpath flag '%s': %v. Using original.", dbPath, err)
				expanded = dbPath
			}
			finalDBPath = expanded
			logger.Info("PersistentPreRunE: Using database path from --dbpath flag: '%s'", finalDBPath)
		}
		if finalDBPath == "" {
			logger.Error("PersistentPreRunE: Database path is empty after checking flag and config! Falling back to 'estateadmin.db' in CWD.")
			finalDBPath = "estateadmin.db"
		}

		if err := database.InitDB(finalDBPath); err != nil {
			return fmt.Errorf("failed to initialize database at %s: %w", finalDBPath, err)
		}
		logger.Debug("Database initialized at: %s", finalDBPath)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := database.Close(); err != nil {
			logger.Error("Closing database: %v", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/estateadmin/config.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "dbpath", "", "path to SQLite database file (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&appLogPathFlag, "app-log", "", "path for the application log file (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&mailLogPathFlag, "mail-log", "", "path for the mail log file (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: DEBUG, INFO, ERROR (overrides config/default)")
}
