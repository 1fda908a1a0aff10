package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/pocketctl/pocketctl/pocket"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search saved items by title and URL",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to the results")
	searchCmd.Flags().IntVarP(&listCount, "count", "n", 0, "stop after this many matching items (0 = no limit)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	req := pocket.NewRetrieveRequest().
		State(pocket.StateAll).
		Detail(pocket.DetailComplete).
		Search(query)
	if err := req.Err(); err != nil {
		return err
	}

	f, err := compileFilter()
	if err != nil {
		return err
	}

	logger.Debug().Str("query", query).Msg("searching items")

	items, err := retrieveFiltered(cmd.Context(), req, f, listCount)
	if err != nil {
		return err
	}

	printItems(items)
	return nil
}
