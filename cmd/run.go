package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/avisri/jobscout/internal/ai"
	"github.com/avisri/jobscout/internal/ai/gemini"
	"github.com/avisri/jobscout/internal/listings"
	"github.com/avisri/jobscout/internal/logger"
	"github.com/avisri/jobscout/internal/matching"
	"github.com/avisri/jobscout/internal/profile"
	"github.com/avisri/jobscout/internal/relay"
	"github.com/avisri/jobscout/internal/retry"
	"github.com/avisri/jobscout/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptReportByEmployers = "Report by employers"
	PromptResultsToFile     = "Dump results to file"
	PromptExit              = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptReportByEmployers, PromptResultsToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search for job listings and rank them against the configured profile",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("profile-file", "p", "", "candidate profile file (JSON). Overrides the config value.")
	runCmd.Flags().IntP("threshold", "t", 0, "minimum match score to report. Default is 50.")

	viper.BindPFlag("profile-file", runCmd.Flags().Lookup("profile-file"))
	viper.BindPFlag("match.threshold", runCmd.Flags().Lookup("threshold"))
}

// run is the main command for the cli.
func run(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting jobscout", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Search == nil {
		logger.Fatal("a search section with keywords is required")
	}
	if err := config.Search.Validate(); err != nil {
		logger.Fatal("invalid search configuration", zap.Error(err))
	}

	profileFile := strings.TrimSpace(viper.GetString("profile-file"))
	if profileFile == "" && config.ProfileFile != "" {
		profileFile = config.ProfileFile
	}
	if profileFile == "" {
		logger.Fatal("a candidate profile is required",
			zap.String("hint", "set profile-file in the configuration file or pass --profile-file"),
		)
	}

	candidate, err := profile.Load(profileFile)
	if err != nil {
		logger.Fatal("loading candidate profile", zap.Error(err))
	}

	generator := buildGenerator(ctx, config.AI, logger)

	relayClient := relay.New(relay.FromTemplates(config.Relays), logger)
	provider := buildProvider(config.Provider, relayClient, logger)

	service := listings.NewService(provider, listings.NewSynthesizer(generator, logger), logger)

	logger.Info("starting the search", zap.String("keywords", config.Search.Keywords))

	postings, err := service.Search(ctx, *config.Search)
	if err != nil {
		logger.Fatal("acquiring listings", zap.Error(err))
	}

	logger.Info("acquired listings",
		zap.Int("count", len(postings)),
		zap.String("source", firstSource(postings)),
	)

	retryCfg := retry.DefaultConfig
	retryCfg.Logger = logger
	if config.AI != nil && config.AI.Gemini != nil && config.AI.Gemini.MaxRetries > 0 {
		retryCfg.MaxAttempts = config.AI.Gemini.MaxRetries
	}

	scorer := matching.NewScorer(generator, retryCfg, nil, logger)

	threshold := 0
	if config.Match != nil {
		threshold = config.Match.Threshold
	}
	orchestrator := matching.NewOrchestrator(scorer, threshold, logger)

	results, err := orchestrator.MatchAll(ctx, postings, candidate)
	if err != nil {
		logger.Fatal("matching failed", zap.Error(err))
	}

	if len(results) == 0 {
		logger.Info("exiting", zap.String("reason", "no listings scored above the threshold"))
		return
	}

	printResults(results)

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, results); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, results []matching.Result) error {
	switch action {
	case PromptReportByEmployers:
		pretty, _ := json.MarshalIndent(reportByEmployer(results), "", "  ")
		logger.Info(string(pretty), zap.Int("results count", len(results)))
		return nil
	case PromptResultsToFile:
		filename, err := dumpResults(results)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping results to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// buildGenerator returns the Gemini backend when an api key is configured,
// or an uninitialized generator otherwise. The uninitialized generator fails
// every call, which pushes listings to the seed tier and matching to the
// heuristic path instead of aborting the run.
func buildGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) ai.Generator {
	var keyFile, model string
	if cfg != nil && cfg.Gemini != nil {
		keyFile = cfg.Gemini.APIKeyFile
		model = cfg.Gemini.Model
	}
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("gemini-key-file"))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: keyFile,
	})
	if err != nil {
		logger.Warn("ai backend unavailable, degraded tiers will be used",
			zap.Error(err),
			zap.String("hint", "set ai.gemini.api-key-file or JOBSCOUT_GEMINI_KEY_FILE"),
		)
		return (*gemini.Generator)(nil)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, model, logger)
	if err != nil {
		logger.Warn("creating ai backend failed, degraded tiers will be used", zap.Error(err))
		return (*gemini.Generator)(nil)
	}

	return generator
}

func buildProvider(cfg *ProviderConfig, relayClient *relay.Client, logger *zap.Logger) *listings.ProviderClient {
	if cfg == nil || cfg.AppID == "" {
		logger.Info("listing provider not configured, synthetic tier is first in line")
		return nil
	}

	keyFile := cfg.AppKeyFile
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("provider-key-file"))
	}

	appKey, err := secrets.Load(secrets.Source{
		Name: "provider app key",
		File: keyFile,
	})
	if err != nil {
		logger.Warn("provider app key unavailable, skipping provider tier", zap.Error(err))
		return nil
	}

	return listings.NewProviderClient(cfg.AppID, appKey, cfg.Country, relayClient, logger)
}

func printResults(results []matching.Result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tTITLE\tEMPLOYER\tLISTING\tMATCH")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			r.Score, r.Posting.Title, r.Posting.Employer, r.Posting.Source, r.Source,
		)
	}
	w.Flush()
}

func reportByEmployer(results []matching.Result) map[string][]string {
	report := make(map[string][]string)
	for _, r := range results {
		report[r.Posting.Employer] = append(report[r.Posting.Employer],
			fmt.Sprintf("%s (score %d)", r.Posting.Title, r.Score),
		)
	}
	return report
}

func dumpResults(results []matching.Result) (string, error) {
	file, err := os.CreateTemp("", app+"-results-*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return "", err
	}

	return file.Name(), nil
}

func firstSource(postings []listings.Posting) string {
	if len(postings) == 0 {
		return ""
	}
	return string(postings[0].Source)
}
