package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"go.hackfix.me/curator/app/config"
	actx "go.hackfix.me/curator/app/context"
)

// CLI is the command line interface of Curator.
type CLI struct {
	Init    Init    `kong:"cmd,help='Create the database and the initial configuration.'"`
	Serve   Serve   `kong:"cmd,help='Start the web server.'"`
	Migrate Migrate `kong:"cmd,help='Manage database schema migrations.'"`
	Inspect Inspect `kong:"cmd,help='Show the structure and contents of database tables.'"`
	User    User    `kong:"cmd,help='Manage administrator accounts.'"`

	Log struct {
		Level slog.Level `enum:"DEBUG,INFO,WARN,ERROR" default:"INFO" help:"Set the app logging level."`
	} `embed:"" prefix:"log-"`
	// The configuration file is read by the app package, not by Kong.
	ConfigFile string           `kong:"default='${configFile}',help='Path to the Curator configuration file.'"`
	DataDir    string           `kong:"default='${dataDir}',help='Path to the directory where Curator data is stored.'"`
	Version    kong.VersionFlag `kong:"help='Output version and exit.'"`

	kong *kong.Kong
	kctx *kong.Context
}

var errNotParsed = errors.New("command line arguments weren't parsed")

// New creates the command line parser. configFilePath and dataDir are the
// default values of the corresponding flags. Every flag can also be set with
// a CURATOR_ prefixed environment variable.
func New(appCtx *actx.Context, configFilePath, dataDir, version string) (*CLI, error) {
	c := &CLI{}
	help := kong.HelpOptions{Compact: true, Summary: true, NoExpandSubcommands: true}
	vars := kong.Vars{"configFile": configFilePath, "dataDir": dataDir, "version": version}

	var err error
	c.kong, err = kong.New(c,
		kong.Name("curator"),
		kong.Description("A curated directory of links, with a self-migrating SQLite store."),
		kong.UsageOnError(),
		kong.DefaultEnvars("CURATOR"),
		kong.Writers(appCtx.Stdout, appCtx.Stderr),
		kong.ConfigureHelp(help),
		vars,
	)
	if err != nil {
		return nil, fmt.Errorf("failed creating the Kong parser: %w", err)
	}

	return c, nil
}

// Parse parses args and selects the command that Execute runs.
func (c *CLI) Parse(args []string) error {
	kctx, err := c.kong.Parse(args)
	if err != nil {
		return fmt.Errorf("failed parsing CLI arguments: %w", err)
	}
	c.kctx = kctx

	return nil
}

// Execute runs the command selected by the last Parse call.
func (c *CLI) Execute(appCtx *actx.Context) error {
	if c.kctx == nil {
		return errNotParsed
	}

	//nolint:wrapcheck // Commands return user facing errors.
	return c.kctx.Run(appCtx)
}

// Command returns the space separated path of the selected command, e.g.
// "migrate status". It's empty before Parse is called.
func (c *CLI) Command() string {
	if c.kctx == nil {
		return ""
	}

	return commandPath(c.kctx)
}

// ApplyConfig fills in values that weren't passed on the command line from
// the configuration file.
func (c *CLI) ApplyConfig(cfg *config.Config) {
	if c.Serve.Address == "" && cfg.Server.Address.Valid {
		c.Serve.Address = cfg.Server.Address.V
	}
}

func commandPath(kctx *kong.Context) string {
	cmdPath := []string{}
	for _, p := range kctx.Path {
		if p.Command != nil {
			cmdPath = append(cmdPath, p.Command.Name)
		}
	}

	return strings.Join(cmdPath, " ")
}
