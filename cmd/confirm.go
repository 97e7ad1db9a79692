package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"appetizer/internal/model"
)

var confirmWeek string

var confirmCmd = &cobra.Command{
	Use:   "confirm RECIPE...",
	Short: "Record served recipes for a week",
	Long:  "Folds an accepted plan into meal history. A week can only be recorded once; re-submission is rejected.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		week := currentWeek()
		if confirmWeek != "" {
			parsed, err := model.ParseWeekID(confirmWeek)
			if err != nil {
				return err
			}
			week = parsed
		}

		// Reject names not in the catalog before touching history.
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		for _, id := range args {
			if _, err := cat.Lookup(id); err != nil {
				return eris.Wrap(err, "confirm")
			}
		}

		hist, err := openHistory(ctx)
		if err != nil {
			return err
		}
		defer hist.Close() //nolint:errcheck

		if err := hist.Record(ctx, week, args); err != nil {
			return err
		}

		if cfg.History.RetentionWeeks > 0 {
			pruned, err := hist.Prune(ctx, cfg.History.RetentionWeeks)
			if err != nil {
				return err
			}
			if pruned > 0 {
				zap.L().Info("pruned old history", zap.Int("entries", pruned))
			}
		}

		zap.L().Info("week recorded",
			zap.String("week", string(week)),
			zap.Int("recipes", len(args)),
		)
		return nil
	},
}

func init() {
	confirmCmd.Flags().StringVar(&confirmWeek, "week", "", "ISO week to record, e.g. 2026-W34 (default: current week)")
	rootCmd.AddCommand(confirmCmd)
}
