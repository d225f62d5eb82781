package cmd

import (
	"context"
	"fmt"
	"time"

	"estateadmin/core"
	"estateadmin/database"

	"github.com/spf13/cobra"
)

var sessionsDraftTTL time.Duration

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect and clean up dashboard sessions",
}

var sessionsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := database.CountSessions()
		if err != nil {
			return err
		}
		fmt.Printf("%d sessions stored.\n", n)
		return nil
	},
}

var sessionsSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove expired sessions and stale drafts once",
	RunE: func(cmd *cobra.Command, args []string) error {
		before, err := database.CountSessions()
		if err != nil {
			return err
		}
		sweeper := core.NewSessionSweeper(context.Background(), time.Minute, sessionsDraftTTL, nil)
		sweeper.Sweep(time.Now())
		after, err := database.CountSessions()
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d expired sessions, %d remain.\n", before-after, after)
		return nil
	},
}

func init() {
	sessionsSweepCmd.Flags().DurationVar(&sessionsDraftTTL, "draft-ttl", 7*24*time.Hour, "Age after which untouched form drafts are removed (0 keeps them)")
	sessionsCmd.AddCommand(sessionsCountCmd)
	sessionsCmd.AddCommand(sessionsSweepCmd)
	rootCmd.AddCommand(sessionsCmd)
}
