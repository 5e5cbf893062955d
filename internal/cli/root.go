package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zcashme/promotebot/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "promotebot",
	Short: "Promote Bot - daily ZcashMe community draft generator",
	Long: `Promote Bot aggregates the last 24 hours of ZcashMe activity
(new members and new profile verifications), resolves each member's
X/Twitter handle from their profile links, and writes a deterministic
draft pair (JSON + Markdown) for the downstream publishing step.

The bot only reads from the data source. It never posts anything itself.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Promote Bot.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("promotebot v0.2.1")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.promotebot/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.promotebot")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match PROMOTEBOT_*
	viper.SetEnvPrefix("PROMOTEBOT")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the run configuration from defaults, the config
// file, and the environment. Credentials come from the environment only
// and are never written to disk.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if v := viper.GetString("output.dir"); v != "" {
		cfg.Output.Dir = v
	}
	if v := viper.GetString("output.json_name"); v != "" {
		cfg.Output.JSONName = v
	}
	if v := viper.GetString("output.markdown_name"); v != "" {
		cfg.Output.MarkdownName = v
	}
	if v := viper.GetString("archive.path"); v != "" {
		cfg.Archive.Path = v
	}
	if viper.IsSet("archive.enabled") {
		cfg.Archive.Enabled = viper.GetBool("archive.enabled")
	}
	if v := viper.GetInt("concurrency.link_workers"); v > 0 {
		cfg.Concurrency.LinkWorkers = v
	}
	if v := viper.GetDuration("source.timeout"); v > 0 {
		cfg.Source.Timeout = v
	}
	if v := viper.GetFloat64("source.requests_per_second"); v > 0 {
		cfg.Source.RequestsPerSecond = v
	}

	cfg.Source.URL = os.Getenv("SUPABASE_URL")
	cfg.Source.APIKey = os.Getenv("SUPABASE_API_KEY")
	cfg.Publish.APIKey = os.Getenv("TWITTER_API_KEY")
	cfg.Publish.AccessToken = os.Getenv("TWITTER_ACCESS_TOKEN")
	cfg.Publish.ListID = os.Getenv("TWITTER_LIST_ID")

	cfg.Output.Verbose = verbose

	return cfg
}
