package commands

import (
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status <node>",
	Short: "Checks a node's reachability, credentials and administration access.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		connector, cfg := loadConnector()
		parameters := nodeParameters(cfg, args[0])

		up, err := connector.CheckStatus(ctx, parameters)
		if err != nil {
			slog.Error("status check failed", "node", args[0], "err", err)
		}

		version, _ := connector.RemoteVersion(ctx, parameters)
		latest, lerr := connector.LastKnownRelease(ctx)
		if lerr != nil {
			slog.Warn("could not determine the latest release", "err", lerr)
		}

		t := newTable()
		t.AppendHeader(table.Row{"node", "up", "version", "latest release"})
		t.AppendRow(table.Row{args[0], up, version, latest})
		t.Render()
	},
}
