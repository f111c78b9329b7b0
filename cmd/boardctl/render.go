package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/vadim/neo-outreach/internal/domain/board/service"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderBoard prints one table per column of the active tab
func renderBoard(w io.Writer, view service.BoardView) {
	fmt.Fprintf(w, "Platform: %s\n", view.Platform)
	for _, c := range view.Columns {
		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		tw.SetTitle(columnTitle(c))
		tw.AppendHeader(table.Row{"", "ID", "Account", "Status", "Pending leads"})
		for _, a := range c.Accounts {
			mark := ""
			if a.Selected {
				mark = "*"
			}
			tw.AppendRow(table.Row{mark, a.ID, a.DisplayName, a.Status, a.PendingLeadsCount})
		}
		tw.AppendFooter(table.Row{"", "", c.SelectAllLabel, "", ""})
		tw.Render()
	}
}

func columnTitle(c service.ColumnView) string {
	if c.Unassigned {
		return fmt.Sprintf("%s [%s]", c.Name, c.ID)
	}
	return fmt.Sprintf("%s [%s] %s", c.Name, c.ID, c.Status)
}
