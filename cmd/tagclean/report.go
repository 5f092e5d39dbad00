package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column is one column of a report table. Numeric columns are right-aligned.
type column struct {
	title   string
	numeric bool
}

// report is a rounded table of rule, fix or journal rows.
type report struct {
	tw table.Writer
}

func newReport(columns ...column) *report {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.title
		configs[i] = table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft}
		if col.numeric {
			configs[i].Align = text.AlignRight
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)
	return &report{tw: tw}
}

func (r *report) add(cells ...any) {
	r.tw.AppendRow(table.Row(cells))
}

func (r *report) String() string {
	return r.tw.Render()
}
