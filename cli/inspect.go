package cli

import (
	"fmt"
	"strconv"

	actx "go.hackfix.me/curator/app/context"
	aerrors "go.hackfix.me/curator/app/errors"
	"go.hackfix.me/curator/db/queries"
)

// The Inspect command prints the columns and a sample of rows of database
// tables.
type Inspect struct {
	Tables []string `arg:"" optional:"" help:"Names of the tables to inspect. All tables are inspected if none are given."`
	Rows   int      `default:"5" help:"Maximum number of sample rows to show per table."`
}

// Run the inspect command.
func (c *Inspect) Run(appCtx *actx.Context) error {
	dbCtx := appCtx.DB.NewContext()

	tables := c.Tables
	if len(tables) == 0 {
		var err error
		if tables, err = queries.Tables(dbCtx, appCtx.DB); err != nil {
			return aerrors.NewRuntimeError("failed listing tables", err, "")
		}
	}

	for i, table := range tables {
		cols, err := queries.TableColumns(dbCtx, appCtx.DB, table)
		if err != nil {
			return aerrors.NewWithCause("failed reading table columns", err, "table", table)
		}

		if i > 0 {
			fmt.Fprintln(appCtx.Stdout)
		}
		fmt.Fprintf(appCtx.Stdout, "%s\n\n", table)

		colData := make([][]string, len(cols))
		for j, col := range cols {
			def := ""
			if col.Default.Valid {
				def = col.Default.V
			}
			colData[j] = []string{
				col.Name, col.Type, strconv.FormatBool(col.NotNull), def, strconv.FormatBool(col.PrimaryKey),
			}
		}
		header := []string{"Column", "Type", "Not Null", "Default", "Primary Key"}
		if err = renderTable(header, colData, appCtx.Stdout); err != nil {
			return fmt.Errorf("failed rendering columns table: %w", err)
		}

		if c.Rows <= 0 {
			continue
		}
		rows, err := queries.SampleRows(dbCtx, appCtx.DB, table, cols, c.Rows)
		if err != nil {
			return aerrors.NewWithCause("failed reading table rows", err, "table", table)
		}
		if len(rows) == 0 {
			fmt.Fprintln(appCtx.Stdout, "\n(no rows)")
			continue
		}

		header = make([]string, len(cols))
		for j, col := range cols {
			header[j] = col.Name
		}
		fmt.Fprintln(appCtx.Stdout)
		if err = renderTable(header, rows, appCtx.Stdout); err != nil {
			return fmt.Errorf("failed rendering rows table: %w", err)
		}
	}

	return nil
}
