package cmd

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nadlan-crm/brokerctl/internal/alerts"
	"github.com/nadlan-crm/brokerctl/internal/logger"
)

var staleLeadsCmd = &cobra.Command{
	Use:   "stale-leads",
	Short: "Report buyer leads left untreated for more than 4 hours",
	Run: func(_ *cobra.Command, _ []string) {
		runStaleLeads()
	},
}

func init() {
	rootCmd.AddCommand(staleLeadsCmd)
}

func runStaleLeads() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	_, client := mustClient(ctx, logger)

	buyers, err := client.ListBuyers()
	if err != nil {
		logger.Fatal("list buyers", zap.Error(err))
	}

	contacts, err := client.ListContacts()
	if err != nil {
		logger.Fatal("list contacts", zap.Error(err))
	}

	stale := alerts.StaleBuyers(buyers, contacts, time.Now())
	if len(stale) == 0 {
		logger.Info("no new leads require treatment")
		return
	}

	for _, lead := range stale {
		logger.Warn("untreated lead",
			zap.Int("buyer_id", lead.BuyerID),
			zap.String("contact", lead.ContactName),
			zap.String("created_date", lead.CreatedDate),
		)
	}

	logger.Warn("leads are waiting for treatment, update their status", zap.Int("count", len(stale)))
}
