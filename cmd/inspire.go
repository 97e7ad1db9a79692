package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"appetizer/internal/inspire"
)

var inspireWindow int

var inspireCmd = &cobra.Command{
	Use:   "inspire",
	Short: "Generate a random recipe idea from unused categories",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		hist, err := openHistory(ctx)
		if err != nil {
			return err
		}
		defer hist.Close() //nolint:errcheck

		recent, err := recentRecipes(ctx, cat, hist, resolveWindow(inspireWindow))
		if err != nil {
			return err
		}

		idea := inspire.New(time.Now().UnixNano()).Idea(cat, recent)
		if idea == "" {
			fmt.Println("no fresh categories left; time to try something completely new")
			return nil
		}
		fmt.Println(idea)
		return nil
	},
}

func init() {
	inspireCmd.Flags().IntVar(&inspireWindow, "window", 0, "history window in weeks (default from config)")
	rootCmd.AddCommand(inspireCmd)
}
