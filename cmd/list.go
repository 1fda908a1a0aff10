package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pocketctl/pocketctl/filter"
	"github.com/pocketctl/pocketctl/pocket"
)

var (
	listState    string
	listFavorite bool
	listTag      string
	listUntagged bool
	listDomain   string
	listCount    int
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved items matching the filter criteria",
	Long: `List items in your reading list. Server-side flags (--state, --tag,
--domain) narrow what is fetched; --filter and --preset apply an
expression to the fetched items locally.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	listCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a named filter from config or a built-in preset")
	listCmd.Flags().StringVar(&listState, "state", "unread", "item state: unread, archive or all")
	listCmd.Flags().BoolVar(&listFavorite, "favorite", false, "only favorited items")
	listCmd.Flags().StringVar(&listTag, "tag", "", "only items carrying this tag")
	listCmd.Flags().BoolVar(&listUntagged, "untagged", false, "only items without tags")
	listCmd.Flags().StringVar(&listDomain, "domain", "", "only items saved from this domain")
	listCmd.Flags().IntVarP(&listCount, "count", "n", 0, "stop after this many matching items (0 = no limit)")
}

func runList(cmd *cobra.Command, args []string) error {
	req, err := buildListRequest()
	if err != nil {
		return err
	}

	f, err := compileFilter()
	if err != nil {
		return err
	}

	items, err := retrieveFiltered(cmd.Context(), req, f, listCount)
	if err != nil {
		return err
	}

	printItems(items)
	return nil
}

// buildListRequest translates the server-side list flags into a request.
func buildListRequest() (*pocket.RetrieveRequest, error) {
	req := pocket.NewRetrieveRequest().Detail(pocket.DetailComplete)

	switch listState {
	case "unread":
		req.State(pocket.StateUnread)
	case "archive":
		req.State(pocket.StateArchive)
	case "all":
		req.State(pocket.StateAll)
	default:
		return nil, fmt.Errorf("invalid state %q (must be unread, archive or all)", listState)
	}

	if listFavorite {
		req.FavoritedOnly()
	}
	if listTag != "" {
		req.Tag(listTag)
	}
	if listUntagged {
		req.Untagged()
	}
	if listDomain != "" {
		req.Domain(listDomain)
	}

	return req, req.Err()
}

// retrieveFiltered streams pages from the service, keeps the items matching
// the filter, and stops once limit matches are collected (0 means no limit).
func retrieveFiltered(ctx context.Context, req *pocket.RetrieveRequest, f *filter.Filter, limit int) ([]pocket.Item, error) {
	var items []pocket.Item
	for item, err := range client.RetrieveAll(ctx, req) {
		if err != nil {
			return nil, err
		}
		if item.Deleted() {
			continue
		}
		if f != nil {
			ok, err := f.Match(item)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		items = append(items, item)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

// printItems writes the result list to stdout in the standard layout.
func printItems(items []pocket.Item) {
	if len(items) == 0 {
		fmt.Println("No items found matching the filter criteria.")
		return
	}

	fmt.Printf("\nFound %d items:\n", len(items))
	fmt.Println(strings.Repeat("-", 80))

	for _, item := range items {
		fmt.Printf("• %s", item.Title())
		if bool(item.Favorite) {
			fmt.Printf(" ★")
		}
		if item.Status == pocket.StatusArchived {
			fmt.Printf(" [ARCHIVED]")
		}
		fmt.Println()
		if cfg.Safety.ShowDetails {
			fmt.Printf("  ID: %s\n", item.ItemID)
			fmt.Printf("  URL: %s\n", item.URL())
			if tags := item.TagNames(); len(tags) > 0 {
				fmt.Printf("  Tags: %s\n", strings.Join(tags, ", "))
			}
			if added := item.TimeAdded.Time(); !added.IsZero() {
				fmt.Printf("  Added: %s\n", added.Format("2006-01-02"))
			}
			if item.WordCount > 0 {
				fmt.Printf("  Words: %d\n", item.WordCount)
			}
		}
	}
}
