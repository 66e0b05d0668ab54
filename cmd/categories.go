package cmd

import (
	"os"
	"strings"

	"dakar-auto-scraper/models"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Prints the known categories and their columns.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		registry := models.DefaultRegistry(cfg.BaseURL)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Category", "Columns", "Endpoint"})

		for _, name := range registry.Names() {
			schema, _ := registry.Lookup(name)
			columns := make([]string, len(schema.Columns))
			for i, c := range schema.Columns {
				columns[i] = string(c)
			}
			t.AppendRow(table.Row{name, strings.Join(columns, ", "), schema.Endpoint})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}
