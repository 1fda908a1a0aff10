package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pocketctl/pocketctl/pocket"
	"github.com/pocketctl/pocketctl/urlclean"
)

var (
	addFile         string
	addTags         []string
	addSkipExisting bool
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [url...]",
	Short: "Save URLs to your reading list",
	Long: `Save one or more URLs in a single batch. URLs can be given as
arguments or read from a file with one URL per line. Lines starting
with # are skipped. URLs already in the list (compared after
canonicalization) are not saved again unless --skip-existing=false.`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addFile, "file", "", "read URLs from this file, one per line")
	addCmd.Flags().StringSliceVar(&addTags, "tags", nil, "tags to apply to every saved URL")
	addCmd.Flags().BoolVar(&addSkipExisting, "skip-existing", true, "skip URLs already in the list")
}

func runAdd(cmd *cobra.Command, args []string) error {
	urls := append([]string(nil), args...)

	if addFile != "" {
		fromFile, err := readURLFile(addFile)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}

	if len(urls) == 0 {
		return fmt.Errorf("no URLs given: pass them as arguments or with --file")
	}

	ctx := cmd.Context()

	if addSkipExisting {
		existing, err := existingURLSet(ctx)
		if err != nil {
			return err
		}

		kept := urls[:0]
		for _, url := range urls {
			if _, ok := existing[urlclean.Clean(url)]; ok {
				logger.Debug().Str("url", url).Msg("already saved, skipping")
				continue
			}
			kept = append(kept, url)
		}
		skipped := len(urls) - len(kept)
		if skipped > 0 {
			fmt.Printf("Skipping %d already saved URLs.\n", skipped)
		}
		urls = kept
	}

	if len(urls) == 0 {
		fmt.Println("Nothing to add.")
		return nil
	}

	if cfg.Safety.DryRun {
		fmt.Printf("[DRY RUN] Would add %d URLs:\n", len(urls))
		for _, url := range urls {
			fmt.Printf("  • %s\n", url)
		}
		return nil
	}

	actions := make([]pocket.Action, 0, len(urls))
	for _, url := range urls {
		action := pocket.Add(url)
		if len(addTags) > 0 {
			action = action.WithTags(addTags...)
		}
		actions = append(actions, action)
	}

	results, err := client.Send(ctx, actions)
	if err != nil {
		return err
	}

	reportResults(results, "added")
	return nil
}

// readURLFile reads one URL per line, skipping blanks and # comments.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open URL file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL file: %w", err)
	}
	return urls, nil
}

// existingURLSet fetches the whole list and indexes it by canonical URL.
func existingURLSet(ctx context.Context) (map[string]struct{}, error) {
	items, err := client.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch existing items: %w", err)
	}

	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.Deleted() {
			continue
		}
		set[urlclean.Clean(item.URL())] = struct{}{}
	}
	return set, nil
}

// reportResults prints per-action outcomes and returns nothing; failures
// within a batch are reported but do not abort the command.
func reportResults(results []pocket.ActionResult, verb string) {
	var failed int
	for _, result := range results {
		if result.Succeeded() {
			continue
		}
		failed++
		logger.Warn().Err(result.Err).Msg("action failed")
	}

	fmt.Printf("%d of %d items %s.\n", len(results)-failed, len(results), verb)
}
