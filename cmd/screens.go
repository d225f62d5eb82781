package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"estateadmin/core"
	"estateadmin/logger"
	"estateadmin/models"

	"github.com/spf13/cobra"
)

var (
	screenToken   string
	screenSearch  string
	screenFilter  string
	screenPage    int
	screenPerPage int
	screenColumns string
	screenLegacy  bool
)

var screensCmd = &cobra.Command{
	Use:     "screens",
	Short:   "Inspect the dashboard list screens",
	Aliases: []string{"s"},
}

var screensListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the configured screens",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		writer := new(tabwriter.Writer)
		writer.Init(os.Stdout, 0, 8, 1, '\t', 0)
		fmt.Fprintln(writer, "KEY\tLABEL\tENDPOINT\tFILTER")
		fmt.Fprintln(writer, "---\t-----\t--------\t------")
		for _, s := range a.screens.All() {
			filter := "-"
			if s.Filter != nil {
				filter = s.Filter.Field
			}
			fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", s.Key, s.Label, s.Endpoint, filter)
		}
		return writer.Flush()
	},
}

var screensShowCmd = &cobra.Command{
	Use:   "show <screen>",
	Short: "Fetch a screen's collection and print one page of it",
	Long: `Fetches the collection behind a screen from the backend API using the given
token and prints the page selected by the search, filter and paging flags.
With --legacy the filter value is routed across every known dimension the way
the old single filter dropdown did.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		screen, ok := a.screens.Get(args[0])
		if !ok {
			return fmt.Errorf("unknown screen %q, see 'screens list'", args[0])
		}
		token := screenToken
		if token == "" {
			token = os.Getenv("ESTATEADMIN_TOKEN")
		}
		if token == "" {
			return errors.New("a backend token is required (--token or ESTATEADMIN_TOKEN)")
		}

		q := url.Values{}
		q.Set("search", screenSearch)
		q.Set("page", strconv.Itoa(screenPage))
		if screenPerPage > 0 {
			q.Set("per_page", strconv.Itoa(screenPerPage))
		}
		if screenColumns != "" {
			q.Set("columns", screenColumns)
		}
		if !screenLegacy && screenFilter != "" {
			q.Set("filter", screenFilter)
		}
		state := screen.ViewStateFromQuery(q)

		sess := models.Session{ID: "cli", Token: token}
		rows, err := a.store.Rows(context.Background(), sess, screen.Endpoint)
		if err != nil {
			logger.Error("screens show: %v", err)
			return fmt.Errorf("fetching %s: %s", screen.Key, core.ErrorMessage(err))
		}

		var result models.TableResult
		if screenLegacy {
			set := core.RouteFilterValue(core.LegacyDimensions, models.FilterSet{}, screenFilter)
			fields := screen.SearchFields
			if len(fields) == 0 {
				fields = core.DefaultSearchFields
			}
			result = core.ComputeVisibleRows(rows, screen.Columns, state, fields, core.ActiveFilters(core.LegacyDimensions, set))
		} else {
			result = screen.Compute(rows, state)
		}
		printTable(screen, state, result)
		return nil
	},
}

func printTable(screen core.Screen, state models.ViewState, result models.TableResult) {
	cols := core.VisibleColumns(screen.Columns, state)
	writer := new(tabwriter.Writer)
	writer.Init(os.Stdout, 0, 8, 1, '\t', 0)

	labels := make([]string, len(cols))
	rules := make([]string, len(cols))
	for i, c := range cols {
		labels[i] = strings.ToUpper(c.Label)
		rules[i] = strings.Repeat("-", len(c.Label))
	}
	fmt.Fprintln(writer, strings.Join(labels, "\t"))
	fmt.Fprintln(writer, strings.Join(rules, "\t"))
	for _, row := range result.PageRows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = strings.ReplaceAll(c.Cell(row), "\t", " ")
		}
		fmt.Fprintln(writer, strings.Join(cells, "\t"))
	}
	writer.Flush()

	p := core.NewPager(state, result)
	fmt.Printf("\nShowing %d to %d of %d entries (page %d of %d)\n", p.StartIndex(), p.EndIndex(), p.TotalMatched, p.Page, p.TotalPages)
}

func init() {
	screensShowCmd.Flags().StringVar(&screenToken, "token", "", "Backend bearer token (default $ESTATEADMIN_TOKEN)")
	screensShowCmd.Flags().StringVarP(&screenSearch, "search", "s", "", "Search term")
	screensShowCmd.Flags().StringVarP(&screenFilter, "filter", "f", "", "Filter option key")
	screensShowCmd.Flags().IntVarP(&screenPage, "page", "p", 1, "Page number")
	screensShowCmd.Flags().IntVar(&screenPerPage, "per-page", 0, "Rows per page (default from the screen)")
	screensShowCmd.Flags().StringVar(&screenColumns, "columns", "", "Comma separated column keys to show")
	screensShowCmd.Flags().BoolVar(&screenLegacy, "legacy", false, "Route the filter value across all known dimensions")

	screensCmd.AddCommand(screensListCmd)
	screensCmd.AddCommand(screensShowCmd)
	rootCmd.AddCommand(screensCmd)
}
