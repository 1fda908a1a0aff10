package config

// Config represents the complete configuration structure
type Config struct {
	Pocket  PocketConfig  `mapstructure:"pocket"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Safety  SafetyConfig  `mapstructure:"safety"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PocketConfig holds the API credentials
type PocketConfig struct {
	ConsumerKey string `mapstructure:"consumer_key"`
	AccessToken string `mapstructure:"access_token"`
	Username    string `mapstructure:"username"`
	RedirectURI string `mapstructure:"redirect_uri"`
}

// FilterConfig contains named filter definitions usable with list --filter
type FilterConfig map[string]string

// SafetyConfig contains safety-related settings
type SafetyConfig struct {
	DryRun      bool `mapstructure:"dry_run"`
	ShowDetails bool `mapstructure:"show_details"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
