package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"estateadmin/database"

	"github.com/spf13/cobra"
)

var (
	emailTestTo  string
	emailLogKind string
	emailLogMax  int
)

var emailCmd = &cobra.Command{
	Use:   "email",
	Short: "Send test emails and inspect the send history",
}

var emailTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a sample email with the configured mail settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := a.notifier.SendTest(ctx, emailTestTo); err != nil {
			return fmt.Errorf("sending test email: %w", err)
		}
		fmt.Printf("Test email sent to %s.\n", emailTestTo)
		return nil
	},
}

var emailLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the most recent send attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, total, err := database.GetEmailLogPaginated(emailLogKind, emailLogMax, 0)
		if err != nil {
			return err
		}
		if total == 0 {
			fmt.Println("No emails have been sent yet.")
			return nil
		}
		writer := new(tabwriter.Writer)
		writer.Init(os.Stdout, 0, 8, 1, '\t', 0)
		fmt.Fprintln(writer, "WHEN\tKIND\tRECIPIENT\tSTATUS\tERROR")
		fmt.Fprintln(writer, "----\t----\t---------\t------\t-----")
		for _, e := range entries {
			fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Kind, e.Recipient, e.Status, e.Error)
		}
		writer.Flush()
		fmt.Printf("\n%d of %d entries\n", len(entries), total)
		return nil
	},
}

func init() {
	emailTestCmd.Flags().StringVar(&emailTestTo, "to", "", "Recipient address")
	emailTestCmd.MarkFlagRequired("to")
	emailLogCmd.Flags().StringVar(&emailLogKind, "kind", "", "Only show one kind (inquiry_reply, property_broadcast, test)")
	emailLogCmd.Flags().IntVarP(&emailLogMax, "limit", "n", 20, "Number of entries to show")

	emailCmd.AddCommand(emailTestCmd)
	emailCmd.AddCommand(emailLogCmd)
	rootCmd.AddCommand(emailCmd)
}
