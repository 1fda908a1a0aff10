package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pocketctl/pocketctl/config"
	"github.com/pocketctl/pocketctl/filter"
	"github.com/pocketctl/pocketctl/pocket"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *pocket.Client

	// Command flags
	filterExpr string
	preset     string
	dryRun     bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pocketctl",
	Short: "A tool to manage a Pocket reading list from the command line",
	Long: `pocketctl is a CLI tool for managing your Pocket reading list: listing
and searching saved items with filter expressions, adding bookmarks in
bulk, and archiving or favoriting items in batches.`,
	PersistentPreRunE: initializeApp,
}

// SetVersion sets the version information for the root command
func SetVersion(version, buildTime string) {
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "d", false, "perform a dry run without making changes")

	// Add subcommands
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(favoriteCmd)
	rootCmd.AddCommand(fixupCmd)
}

// initializeApp initializes the configuration and the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Override dry-run from command line if specified
	if cmd.Flags().Changed("dry-run") {
		cfg.Safety.DryRun = dryRun
	}

	client, err = pocket.NewClient(cfg.Pocket.ConsumerKey, logger)
	if err != nil {
		return fmt.Errorf("failed to create Pocket client: %w", err)
	}

	// Stored credentials let every command except auth skip the handshake
	if cfg.Pocket.AccessToken != "" {
		client.SetAuthorization(pocket.Authorization{
			AccessToken: cfg.Pocket.AccessToken,
			Username:    cfg.Pocket.Username,
		})
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format, color only when writing to a terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// compileFilter resolves the --filter/--preset flags into a compiled filter.
// Returns nil when no filter was requested, which matches everything.
// Named filters from the config file shadow the built-in presets.
func compileFilter() (*filter.Filter, error) {
	if filterExpr != "" {
		f, err := filter.Compile(filterExpr)
		if err != nil {
			return nil, fmt.Errorf("invalid filter expression: %w", err)
		}
		return f, nil
	}

	if preset != "" {
		if expression, ok := cfg.Filter[preset]; ok {
			f, err := filter.Compile(expression)
			if err != nil {
				return nil, fmt.Errorf("invalid filter '%s' in config: %w", preset, err)
			}
			return f, nil
		}
		return filter.Preset(preset)
	}

	return nil, nil
}

// confirm asks the user a yes/no question on stdout, defaulting to no.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	var response string
	fmt.Scanln(&response)
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}
