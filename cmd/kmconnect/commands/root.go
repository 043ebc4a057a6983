package commands

import (
	"context"
	"fmt"
	"os"

	"kmconnect-backend/lib/configutil"
	"kmconnect-backend/lib/directory"
	"kmconnect-backend/lib/directory/db"
	"kmconnect-backend/lib/releases"
	"kmconnect-backend/lib/scrapers/confluence"
	"kmconnect-backend/lib/sqliteutil"
	"kmconnect-backend/lib/telemetry"
	"kmconnect-backend/lib/util/serviceutil"
	"kmconnect-backend/services/km"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type NodeConfig struct {
	URL      string `json:"url"`
	Space    string `json:"space"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type Config struct {
	Nodes map[string]NodeConfig `json:"nodes"`
	// optional sqlite database resolving remote logins to known users
	DirectoryDB string `json:"directory_db"`
	// optional Atlassian tracker answering "what is the latest release"
	VersionServer string `json:"version_server"`
}

var configFile *string
var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "kmconnect",
	Short: "kmconnect is a CLI for operating and debugging the Confluence connector.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	configFile = rootCmd.PersistentFlags().String("config", "config.json5", "The connector config to read.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConnector() (*km.Connector, Config) {
	cfg, err := configutil.ReadConfig[Config](*configFile)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	params := km.StaticParams{}
	for node, nc := range cfg.Nodes {
		params[node] = paramsFor(nc)
	}

	var users confluence.UserResolver
	if cfg.DirectoryDB != "" {
		database, err := sqliteutil.OpenDB(db.Schema, cfg.DirectoryDB)
		if err != nil {
			serviceutil.Fatal("failed to open directory db", err)
		}
		users = km.DirectoryResolver{Directory: directory.NewService(database)}
	}

	var releaseSrc releases.Source
	if cfg.VersionServer != "" {
		releaseSrc = releases.NewAtlassianSource(cfg.VersionServer)
	}

	return km.New(params, users, releaseSrc), cfg
}

func paramsFor(nc NodeConfig) map[string]string {
	return map[string]string{
		confluence.ParameterURL:      nc.URL,
		confluence.ParameterSpace:    nc.Space,
		confluence.ParameterUser:     nc.Username,
		confluence.ParameterPassword: nc.Password,
	}
}

func nodeParameters(cfg Config, node string) map[string]string {
	nc, ok := cfg.Nodes[node]
	if !ok {
		serviceutil.Fatal("unknown node", fmt.Errorf("no node %q in config", node))
	}
	return paramsFor(nc)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
