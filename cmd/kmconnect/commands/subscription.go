package commands

import (
	"fmt"

	"kmconnect-backend/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(linkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <node>",
	Short: "Validates a node's subscribed space and shows its latest activity.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		connector, cfg := loadConnector()

		status, err := connector.CheckSubscription(cmd.Context(), nodeParameters(cfg, args[0]))
		if err != nil {
			serviceutil.Fatal("subscription check failed", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"space", "name"})
		t.AppendRow(table.Row{status.Space.ID, status.Space.Name})
		t.Render()

		activity := status.Space.Activity
		if activity == nil {
			fmt.Println("no recent activity")
			return
		}

		t = newTable()
		t.AppendHeader(table.Row{"moment", "author", "page"})
		author := activity.Author.FirstName
		if activity.Author.LastName != "" {
			author += " " + activity.Author.LastName
		}
		t.AppendRow(table.Row{activity.Moment, author, activity.Page})
		t.Render()
	},
}

var linkCmd = &cobra.Command{
	Use:   "link <node>",
	Short: "Validates that a node's subscribed space exists.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		connector, cfg := loadConnector()

		if err := connector.Link(cmd.Context(), nodeParameters(cfg, args[0])); err != nil {
			serviceutil.Fatal("link failed", err)
		}
		fmt.Println("ok")
	},
}
