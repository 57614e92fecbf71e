package cli

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

const defaultColumnWidth = 50

type tableOptions struct {
	maxWidth int
	wrap     int
}

type tableOption func(*tableOptions)

// withMaxWidth sets the maximum width of every column. Longer values are
// wrapped at word boundaries instead of truncated.
func withMaxWidth(width int) tableOption {
	return func(o *tableOptions) {
		o.maxWidth = width
		o.wrap = tw.WrapNormal
	}
}

// renderTable writes a borderless table with left-aligned cells to w.
func renderTable(header []string, data [][]string, w io.Writer, opts ...tableOption) error {
	o := &tableOptions{maxWidth: defaultColumnWidth, wrap: tw.WrapNone}
	for _, opt := range opts {
		opt(o)
	}

	off := tw.Off
	rendition := tw.Rendition{
		Borders: tw.BorderNone,
		Symbols: tw.NewSymbols(tw.StyleASCII),
		Settings: tw.Settings{
			Lines: tw.Lines{
				ShowHeaderLine: off, ShowFooterLine: off, ShowTop: off, ShowBottom: off,
			},
			Separators: tw.Separators{
				ShowHeader: off, ShowFooter: off, BetweenRows: off, BetweenColumns: off,
			},
		},
	}
	left := tw.CellAlignment{Global: tw.AlignLeft}

	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(rendition)),
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{Alignment: left},
			Row: tw.CellConfig{
				Formatting:   tw.CellFormatting{AutoWrap: o.wrap},
				Alignment:    left,
				ColMaxWidths: tw.CellWidth{Global: o.maxWidth},
			},
		}),
	)

	table.Header(header)
	if err := table.Bulk(data); err != nil {
		return err //nolint:wrapcheck // This is wrapped by the caller.
	}

	return table.Render() //nolint:wrapcheck // This is wrapped by the caller.
}
