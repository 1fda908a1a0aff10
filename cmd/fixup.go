package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pocketctl/pocketctl/pocket"
	"github.com/pocketctl/pocketctl/urlclean"
)

// fixupCmd represents the fixup command
var fixupCmd = &cobra.Command{
	Use:   "fixup",
	Short: "Tidy the reading list",
	Long: `Apply two maintenance passes over the whole list:

  - archive favorited items still sitting in the unread list
  - re-save items under their canonical URL (https, no www, no
    tracking query) and delete the old entry

Both passes run against a single snapshot of the list.`,
	RunE: runFixup,
}

func init() {
	fixupCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "skip confirmation prompt")
}

func runFixup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	items, err := client.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch items: %w", err)
	}

	var toArchive []pocket.Item
	var toResave []pocket.Item
	for _, item := range items {
		if item.Deleted() {
			continue
		}
		if bool(item.Favorite) && item.Status == pocket.StatusUnread {
			toArchive = append(toArchive, item)
		}
		if cleaned := urlclean.Clean(item.URL()); cleaned != item.URL() {
			toResave = append(toResave, item)
		}
	}

	if len(toArchive) == 0 && len(toResave) == 0 {
		fmt.Println("Nothing to fix up.")
		return nil
	}

	fmt.Printf("Fixup plan: archive %d favorited unread items, re-save %d items under canonical URLs.\n",
		len(toArchive), len(toResave))

	if cfg.Safety.DryRun {
		for _, item := range toArchive {
			fmt.Printf("  [archive] %s\n", item.Title())
		}
		for _, item := range toResave {
			fmt.Printf("  [re-save] %s -> %s\n", item.URL(), urlclean.Clean(item.URL()))
		}
		return nil
	}

	if !noConfirm && !confirm("Apply fixup?") {
		logger.Info().Msg("fixup cancelled")
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)

	if len(toArchive) > 0 {
		g.Go(func() error {
			itemIDs := make([]string, 0, len(toArchive))
			for _, item := range toArchive {
				itemIDs = append(itemIDs, item.ItemID)
			}
			results, err := client.ArchiveItems(ctx, itemIDs...)
			if err != nil {
				return fmt.Errorf("archive pass: %w", err)
			}
			reportResults(results, "archived")
			return nil
		})
	}

	if len(toResave) > 0 {
		g.Go(func() error {
			actions := make([]pocket.Action, 0, 2*len(toResave))
			for _, item := range toResave {
				add := pocket.Add(urlclean.Clean(item.URL()))
				if tags := item.TagNames(); len(tags) > 0 {
					add = add.WithTags(tags...)
				}
				actions = append(actions, add, pocket.Delete(item.ItemID))
			}
			results, err := client.Send(ctx, actions)
			if err != nil {
				return fmt.Errorf("re-save pass: %w", err)
			}
			reportResults(results, "rewritten")
			return nil
		})
	}

	return g.Wait()
}
