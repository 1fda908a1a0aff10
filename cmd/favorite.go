package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pocketctl/pocketctl/pocket"
)

var unfavorite bool

// favoriteCmd represents the favorite command
var favoriteCmd = &cobra.Command{
	Use:   "favorite [item-id...]",
	Short: "Favorite items by ID or by filter",
	Long: `Mark items as favorites. Pass item IDs directly, select items with
--filter/--preset, or read URLs from a file with --file. Items already
in the requested state are skipped. Use --undo to remove the favorite
mark instead.`,
	RunE: runFavorite,
}

func init() {
	favoriteCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "favorite items matching this expression")
	favoriteCmd.Flags().StringVarP(&preset, "preset", "p", "", "favorite items matching this preset")
	favoriteCmd.Flags().StringVar(&targetsFile, "file", "", "favorite the items saved under the URLs in this file")
	favoriteCmd.Flags().BoolVar(&unfavorite, "undo", false, "remove the favorite mark instead")
	favoriteCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "skip confirmation prompt")
}

func runFavorite(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	verb := "favorited"
	build := pocket.Favorite
	if unfavorite {
		verb = "unfavorited"
		build = pocket.Unfavorite
	}

	itemIDs, items, err := resolveTargets(cmd, args, pocket.StateAll)
	if err != nil {
		return err
	}

	// Items already in the requested state drop out.
	if len(items) > 0 {
		kept := items[:0]
		ids := itemIDs[:0]
		for _, item := range items {
			if bool(item.Favorite) != unfavorite {
				continue // already in the requested state
			}
			kept = append(kept, item)
			ids = append(ids, item.ItemID)
		}
		items, itemIDs = kept, ids
	}

	if len(itemIDs) == 0 {
		fmt.Println("No items to update.")
		return nil
	}

	if cfg.Safety.DryRun {
		fmt.Printf("[DRY RUN] Would have %d items %s:\n", len(itemIDs), verb)
		printTargets(itemIDs, items)
		return nil
	}

	if len(items) > 0 && !noConfirm {
		printTargets(itemIDs, items)
		if !confirm(fmt.Sprintf("Update %d items?", len(itemIDs))) {
			logger.Info().Msg("favorite cancelled")
			return nil
		}
	}

	actions := make([]pocket.Action, 0, len(itemIDs))
	for _, id := range itemIDs {
		actions = append(actions, build(id))
	}

	results, err := client.Send(ctx, actions)
	if err != nil {
		return err
	}

	reportResults(results, verb)
	return nil
}
