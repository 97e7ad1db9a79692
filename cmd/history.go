package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	historyWindow int
	historyRecipe string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently served recipes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		hist, err := openHistory(ctx)
		if err != nil {
			return err
		}
		defer hist.Close() //nolint:errcheck

		window := resolveWindow(historyWindow)

		if historyRecipe != "" {
			n, err := hist.Frequency(ctx, historyRecipe, window)
			if err != nil {
				return err
			}
			fmt.Printf("%s: served %d time(s) in the last %d week(s)\n", historyRecipe, n, window)
			return nil
		}

		entries, err := hist.Recent(ctx, window)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Printf("no meals recorded in the last %d week(s)\n", window)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WEEK\tRECIPE")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\n", e.WeekID, e.RecipeID)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyWindow, "window", 0, "window in weeks (default from config)")
	historyCmd.Flags().StringVar(&historyRecipe, "recipe", "", "show how often one recipe was served")
	rootCmd.AddCommand(historyCmd)
}
