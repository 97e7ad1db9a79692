package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate and list the recipe spreadsheet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RECIPE\tMEALS\tSERVINGS\tPROTEIN\tCUISINE")
		for _, name := range cat.Names() {
			r, err := cat.Lookup(name)
			if err != nil {
				return err
			}
			meals := make([]string, len(r.Meals))
			for i, m := range r.Meals {
				meals[i] = string(m)
			}
			fmt.Fprintf(w, "%s\t%s\t%d-%d\t%s\t%s\n",
				r.Name,
				strings.Join(meals, ","),
				r.MinServings, r.MaxServings,
				strings.Join(r.Proteins, ","),
				r.Cuisine,
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		zap.L().Info("catalog ok",
			zap.String("path", cfg.Catalog.Path),
			zap.Int("recipes", cat.Len()),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
