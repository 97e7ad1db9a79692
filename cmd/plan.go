package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"appetizer/internal/model"
	"appetizer/internal/planner"
)

var (
	planBreakfasts int
	planBrunches   int
	planLunches    int
	planDinners    int
	planServings   int
	planWindow     int
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Suggest a weekly meal plan",
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

		req := planner.Request{
			Requirements: slotRequirements(),
			Servings:     planServings,
			WindowWeeks:  resolveWindow(planWindow),
		}

		plan, err := planner.Plan(ctx, cat, hist, req, cfg.Scorer)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SLOT\tRECIPE\tSERVINGS\tNOTES")
		for _, a := range plan.Assignments {
			notes := ""
			if r, err := cat.Lookup(a.RecipeID); err == nil {
				notes = r.Notes
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", a.Slot, a.RecipeID, a.Servings, notes)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\nTo accept: appetizer confirm --week %s %s\n",
			currentWeek(), strings.Join(quoteAll(plan.RecipeIDs()), " "))
		zap.L().Debug("plan printed", zap.String("plan_id", plan.ID))
		return nil
	},
}

func slotRequirements() []planner.SlotRequirement {
	var reqs []planner.SlotRequirement
	add := func(meal model.Meal, n int) {
		if n > 0 {
			reqs = append(reqs, planner.SlotRequirement{Meal: meal, Count: n})
		}
	}
	add(model.MealBreakfast, planBreakfasts)
	add(model.MealBrunch, planBrunches)
	add(model.MealLunch, planLunches)
	add(model.MealDinner, planDinners)
	return reqs
}

func quoteAll(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = fmt.Sprintf("%q", id)
	}
	return out
}

func init() {
	planCmd.Flags().IntVar(&planBreakfasts, "breakfasts", 0, "number of breakfast slots")
	planCmd.Flags().IntVar(&planBrunches, "brunches", 0, "number of brunch slots")
	planCmd.Flags().IntVar(&planLunches, "lunches", 0, "number of lunch slots")
	planCmd.Flags().IntVar(&planDinners, "dinners", 5, "number of dinner slots")
	planCmd.Flags().IntVar(&planServings, "servings", 0, "required servings per meal (0: use each recipe's minimum)")
	planCmd.Flags().IntVar(&planWindow, "window", 0, "history window in weeks (default from config)")
	rootCmd.AddCommand(planCmd)
}
