package cmd

import (
	"fmt"

	"estateadmin/version"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.AppVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
