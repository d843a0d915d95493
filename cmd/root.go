package cmd

import (
	"log"

	"github.com/avisri/jobscout/internal/listings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "jobscout"
)

type Config struct {
	Search      *listings.SearchFilters `mapstructure:"search"`
	ProfileFile string                  `mapstructure:"profile-file"`
	Relays      []string                `mapstructure:"relays"`
	Provider    *ProviderConfig         `mapstructure:"provider"`
	AI          *AIConfig               `mapstructure:"ai"`
	Match       *MatchConfig            `mapstructure:"match"`
}

type ProviderConfig struct {
	AppID      string `mapstructure:"app-id"`
	AppKeyFile string `mapstructure:"app-key-file"`
	Country    string `mapstructure:"country"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type MatchConfig struct {
	Threshold int `mapstructure:"threshold"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobscout is a cli for acquiring job listings and ranking them against a candidate profile",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("gemini-key-file", "JOBSCOUT_GEMINI_KEY_FILE"); err != nil {
		log.Fatalf("binding JOBSCOUT_GEMINI_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("provider-key-file", "JOBSCOUT_PROVIDER_KEY_FILE"); err != nil {
		log.Fatalf("binding JOBSCOUT_PROVIDER_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobscout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
