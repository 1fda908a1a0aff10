package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pocketctl/pocketctl/pocket"
	"github.com/pocketctl/pocketctl/urlclean"
)

var (
	noConfirm   bool
	targetsFile string
)

// archiveCmd represents the archive command
var archiveCmd = &cobra.Command{
	Use:   "archive [item-id...]",
	Short: "Archive items by ID or by filter",
	Long: `Archive items from your reading list. Pass item IDs directly, select
unread items with --filter/--preset, or read URLs from a file with
--file. Items already archived are skipped.`,
	RunE: runArchive,
}

func init() {
	archiveCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "archive unread items matching this expression")
	archiveCmd.Flags().StringVarP(&preset, "preset", "p", "", "archive unread items matching this preset")
	archiveCmd.Flags().StringVar(&targetsFile, "file", "", "archive the items saved under the URLs in this file")
	archiveCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "skip confirmation prompt")
}

func runArchive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	itemIDs, items, err := resolveTargets(cmd, args, pocket.StateUnread)
	if err != nil {
		return err
	}

	// Already archived items drop out so the batch stays idempotent.
	if len(items) > 0 {
		kept := items[:0]
		ids := itemIDs[:0]
		for _, item := range items {
			if item.Status == pocket.StatusArchived {
				continue
			}
			kept = append(kept, item)
			ids = append(ids, item.ItemID)
		}
		items, itemIDs = kept, ids
	}
	if len(itemIDs) == 0 {
		fmt.Println("No items to archive.")
		return nil
	}

	if cfg.Safety.DryRun {
		fmt.Printf("[DRY RUN] Would archive %d items:\n", len(itemIDs))
		printTargets(itemIDs, items)
		return nil
	}

	if len(items) > 0 && !noConfirm {
		printTargets(itemIDs, items)
		if !confirm(fmt.Sprintf("Archive %d items?", len(itemIDs))) {
			logger.Info().Msg("archive cancelled")
			return nil
		}
	}

	results, err := client.ArchiveItems(ctx, itemIDs...)
	if err != nil {
		return err
	}

	reportResults(results, "archived")
	return nil
}

// resolveTargets turns command arguments, a URL file or a filter selection
// into item IDs. Except for the bare-ID form the matched items are returned
// as well, so the confirmation prompt can describe them and callers can
// skip items already in the desired state.
func resolveTargets(cmd *cobra.Command, args []string, state pocket.ItemState) ([]string, []pocket.Item, error) {
	selections := 0
	for _, chosen := range []bool{len(args) > 0, targetsFile != "", filterExpr != "" || preset != ""} {
		if chosen {
			selections++
		}
	}
	if selections > 1 {
		return nil, nil, fmt.Errorf("pass item IDs, --file or a filter, not a combination")
	}

	if len(args) > 0 {
		return args, nil, nil
	}

	if targetsFile != "" {
		items, err := itemsFromURLFile(cmd.Context(), targetsFile)
		if err != nil {
			return nil, nil, err
		}
		itemIDs := make([]string, 0, len(items))
		for _, item := range items {
			itemIDs = append(itemIDs, item.ItemID)
		}
		return itemIDs, items, nil
	}

	f, err := compileFilter()
	if err != nil {
		return nil, nil, err
	}
	if f == nil {
		return nil, nil, fmt.Errorf("no items selected: pass IDs, --file or --filter/--preset")
	}

	req := pocket.NewRetrieveRequest().State(state).Detail(pocket.DetailComplete)
	items, err := retrieveFiltered(cmd.Context(), req, f, 0)
	if err != nil {
		return nil, nil, err
	}

	itemIDs := make([]string, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ItemID)
	}
	return itemIDs, items, nil
}

// itemsFromURLFile maps the URLs in a file onto saved items by canonical
// URL. URLs not found in the list are reported and skipped.
func itemsFromURLFile(ctx context.Context, path string) ([]pocket.Item, error) {
	urls, err := readURLFile(path)
	if err != nil {
		return nil, err
	}

	all, err := client.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items: %w", err)
	}

	index := make(map[string]pocket.Item, len(all))
	for _, item := range all {
		if item.Deleted() {
			continue
		}
		index[urlclean.Clean(item.URL())] = item
	}

	items := make([]pocket.Item, 0, len(urls))
	for _, url := range urls {
		item, ok := index[urlclean.Clean(url)]
		if !ok {
			logger.Warn().Str("url", url).Msg("not in the reading list, skipping")
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func printTargets(itemIDs []string, items []pocket.Item) {
	for _, item := range items {
		fmt.Printf("  • %s\n", item.Title())
	}
	if len(items) == 0 {
		for _, id := range itemIDs {
			fmt.Printf("  • %s\n", id)
		}
	}
}
