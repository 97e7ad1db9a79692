package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"appetizer/internal/config"
)

var cfg *config.Config

var (
	catalogFile  string
	catalogSheet string
)

var rootCmd = &cobra.Command{
	Use:   "appetizer",
	Short: "Weekly meal plan suggestions from a recipe spreadsheet",
	Long:  "Loads a recipe spreadsheet, scores recipes for dissimilarity against recent meal history, and suggests a weekly plan over a CLI or a local web API.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if catalogFile != "" {
			cfg.Catalog.Path = catalogFile
		}
		if catalogSheet != "" {
			cfg.Catalog.Sheet = catalogSheet
		}

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogFile, "file", "", "recipe spreadsheet path (default from config)")
	rootCmd.PersistentFlags().StringVar(&catalogSheet, "sheet", "", "sheet name (default from config)")
}
