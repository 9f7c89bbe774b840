package cmd

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nadlan-crm/brokerctl/internal/leadimport"
	"github.com/nadlan-crm/brokerctl/internal/logger"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import marketing leads from a csv export",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runImport(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().Bool("dry-run", false, "parse and validate only, do not create records")
	importCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before creating leads")
}

func runImport(cmd *cobra.Command, path string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	_, client := mustClient(ctx, logger)

	logger.Info("starting lead import", zap.String("version", version), zap.String("file", path))

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading csv file", zap.Error(err))
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if !dryRun {
		if err := confirm(cmd); err != nil {
			logger.Info("exiting", zap.Error(err))
			return
		}
	}

	importer := leadimport.New(client, logger)
	importer.DryRun = dryRun

	result, err := importer.Run(ctx, string(data))
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}

	for _, skipped := range result.SkippedExamples {
		logger.Warn("skipped row",
			zap.Int("line", skipped.Line),
			zap.String("reason", skipped.Reason),
			zap.Any("record", skipped.Record),
		)
	}

	if hidden := result.Skipped - len(result.SkippedExamples); hidden > 0 {
		logger.Warn("more rows were skipped", zap.Int("count", hidden))
	}

	for _, rowErr := range result.RowErrors {
		logger.Error("row failed", zap.Error(rowErr.Err), zap.Any("record", rowErr.Record))
	}

	logger.Info("import finished",
		zap.Int("total", result.Total),
		zap.Int("valid", result.Valid),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", result.Errors),
	)
}
