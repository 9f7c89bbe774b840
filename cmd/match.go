package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nadlan-crm/brokerctl/internal/alerts"
	"github.com/nadlan-crm/brokerctl/internal/crm"
	"github.com/nadlan-crm/brokerctl/internal/logger"
	"github.com/nadlan-crm/brokerctl/internal/matching"
	"github.com/nadlan-crm/brokerctl/internal/secrets"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var errDeclined = errors.New("declined from prompt")

var confirmPrompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptYes, PromptNo},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score all property/buyer pairs and create the qualifying matches",
	Run: func(cmd *cobra.Command, _ []string) {
		runMatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().Bool("strict", false, "require every criterion to match exactly and alert the system manager")
	matchCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before creating matches")
}

func runMatch(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, client := mustClient(ctx, logger)

	strict, _ := cmd.Flags().GetBool("strict")

	logger.Info("starting match generation", zap.String("version", version), zap.Bool("strict", strict))

	properties, buyers, existing, err := loadMatchingData(client)
	if err != nil {
		logger.Fatal("loading crm data", zap.Error(err))
	}

	logger.Info("loaded crm data",
		zap.Int("properties", properties.Len()),
		zap.Int("buyers", buyers.Len()),
		zap.Int("existing_matches", existing.Len()),
	)

	generate := matching.Generate
	if strict {
		generate = matching.GenerateStrict
	}

	result := generate(properties, buyers, existing.PairKeys(), logger)

	logger.Info("scored pairs",
		zap.Int("pairs", result.Pairs),
		zap.Int("already_matched", result.Existing),
		zap.Int("candidates", result.Created.Len()),
	)

	if result.Created.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no new matches found"))
		return
	}

	if err := confirm(cmd); err != nil {
		logger.Info("exiting", zap.Error(err))
		return
	}

	// One bulk write: either every candidate is created or none is.
	if err := client.BulkCreateMatches(result.Created); err != nil {
		logger.Fatal("creating matches", zap.Error(err))
	}

	logger.Info("created matches", zap.Int("count", result.Created.Len()))

	if strict {
		notifyMatches(ctx, config, logger, result.Created.Len())
	}
}

func loadMatchingData(client *crm.Client) (*crm.Properties, *crm.Buyers, *crm.Matches, error) {
	properties, err := client.ListProperties()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list properties: %w", err)
	}

	buyers, err := client.ListBuyers()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list buyers: %w", err)
	}

	matches, err := client.ListMatches()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list matches: %w", err)
	}

	return properties, buyers, matches, nil
}

// notifyMatches fires the automation alert. Failures are logged, never
// fatal: the matches are already created.
func notifyMatches(ctx context.Context, config *Config, logger *zap.Logger, created int) {
	if config.Alerts == nil || !config.Alerts.Enabled {
		logger.Info("alerts are not configured, skipping notification")
		return
	}

	opts := []func(*alerts.Client){}
	if config.Alerts.TokenFile != "" {
		token, err := secrets.LoadFile("alerts token", config.Alerts.TokenFile)
		if err != nil {
			logger.Warn("loading alerts token", zap.Error(err))
			return
		}
		opts = append(opts, alerts.WithToken(token))
	}

	alertsClient := alerts.NewClient(config.Alerts.Endpoint, opts...)
	if err := alertsClient.GenerateAndAlertMatches(ctx, map[string]any{"created_count": created}); err != nil {
		logger.Warn("sending match alert", zap.Error(err))
		return
	}

	logger.Info("alerted the system manager about new matches", zap.Int("count", created))
}

func confirm(cmd *cobra.Command) error {
	if auto, _ := cmd.Flags().GetBool("auto-approve"); auto {
		return nil
	}

	_, action, err := confirmPrompt.Run()
	if err != nil {
		return err
	}

	if action != PromptYes {
		return errDeclined
	}

	return nil
}

// mustClient builds the CRM client from the config, exiting on any problem.
func mustClient(ctx context.Context, logger *zap.Logger) (*Config, *crm.Client) {
	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil || config.API == nil {
		logger.Fatal("api configuration is required")
	}

	tokenFile := config.API.TokenFile
	if tokenFile == "" {
		tokenFile = viper.GetString("api.token-file")
	}

	token, err := secrets.LoadFile("crm api token", tokenFile)
	if err != nil {
		logger.Fatal(
			"loading crm api token",
			zap.Error(err),
			zap.String("hint", "set BROKERCTL_TOKEN_FILE environment variable or the 'api.token-file' key in the configuration file"),
		)
	}

	client := crm.New(ctx, logger, token)
	if config.API.BaseURL != "" {
		client.APIURL = config.API.BaseURL
	}
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	return config, client
}
