package cli

import (
	"fmt"
	"time"

	"github.com/alecthomas/kong"

	actx "go.hackfix.me/curator/app/context"
	aerrors "go.hackfix.me/curator/app/errors"
	"go.hackfix.me/curator/db/migrator"
)

// The Migrate command applies pending schema migrations, or shows which ones
// were applied.
type Migrate struct {
	Apply  struct{} `kong:"cmd,name='run',default='1',help='Apply pending migrations. This is the default.'"`
	Status struct{} `kong:"cmd,help='Show applied and pending migrations.'"`
}

// Run the migrate command.
func (c *Migrate) Run(kctx *kong.Context, appCtx *actx.Context) error {
	switch commandPath(kctx) {
	case "migrate status":
		return c.status(appCtx)
	default:
		return c.apply(appCtx)
	}
}

func (c *Migrate) apply(appCtx *actx.Context) error {
	report, err := appCtx.DB.Migrate(appCtx.DB.NewContext(), appCtx.Logger)
	if err != nil {
		return aerrors.NewRuntimeError("failed migrating database", err, "")
	}

	data := make([][]string, len(report.Details))
	for i, res := range report.Details {
		errMsg := ""
		if res.Err != nil {
			errMsg = res.Err.Error()
		}
		data[i] = []string{res.Name, string(res.Status), res.Duration.Round(time.Millisecond).String(), errMsg}
	}
	if len(data) > 0 {
		header := []string{"Name", "Status", "Duration", "Error"}
		if err = renderTable(header, data, appCtx.Stdout, withMaxWidth(80)); err != nil {
			return fmt.Errorf("failed rendering migrations table: %w", err)
		}
	}

	if err = report.Err(); err != nil {
		return aerrors.NewRuntimeError(
			fmt.Sprintf("%d of %d migrations failed", report.Failed, report.Total), err,
			"fix the cause and run 'curator migrate' again")
	}

	return nil
}

func (c *Migrate) status(appCtx *actx.Context) error {
	dbCtx := appCtx.DB.NewContext()
	ledger := migrator.NewLedger(appCtx.DB)
	if err := ledger.EnsureTable(dbCtx); err != nil {
		return aerrors.NewRuntimeError("failed reading migration status", err, "")
	}
	entries, err := ledger.Entries(dbCtx)
	if err != nil {
		return aerrors.NewRuntimeError("failed reading migration status", err, "")
	}

	applied := make(map[string]migrator.Entry, len(entries))
	for _, e := range entries {
		applied[e.Name] = e
	}

	data := [][]string{}
	for _, u := range appCtx.DB.Registry().List() {
		row := []string{u.Name(), u.Description(), "pending", ""}
		if e, ok := applied[u.Name()]; ok {
			row[2] = "applied"
			row[3] = e.ExecutedAt.UTC().Format(time.DateTime)
			delete(applied, u.Name())
		}
		data = append(data, row)
	}

	// Units that were applied by another build, and are no longer registered.
	for _, e := range entries {
		if _, ok := applied[e.Name]; ok {
			data = append(data, []string{e.Name, "", "unknown", e.ExecutedAt.UTC().Format(time.DateTime)})
		}
	}

	header := []string{"Name", "Description", "Status", "Executed At"}
	if err = renderTable(header, data, appCtx.Stdout); err != nil {
		return fmt.Errorf("failed rendering migrations table: %w", err)
	}

	return nil
}
