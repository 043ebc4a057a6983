package commands

import (
	"kmconnect-backend/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <node> <criteria>",
	Short: "Searches a node's spaces by key or name.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		connector, _ := loadConnector()

		spaces, err := connector.Search(cmd.Context(), args[0], args[1])
		if err != nil {
			serviceutil.Fatal("search failed", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"key", "name"})
		for _, space := range spaces {
			t.AppendRow(table.Row{space.ID, space.Name})
		}
		t.Render()
	},
}
