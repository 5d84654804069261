// Package outwriter renders pipeline results for the console.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"

	"github.com/sprintsync/sprintsync/internal/contract"
	"github.com/sprintsync/sprintsync/schema"
)

// colorsEnabled reports whether colored labels make sense for the writer.
// Colors are only emitted for a real terminal, never for piped output.
func colorsEnabled(w io.Writer, useColors bool) bool {
	if !useColors {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// WriteSprintSummary prints the per-sprint completion table for one query.
func WriteSprintSummary(w io.Writer, query string, rows []schema.SprintSummaryRow, useColors bool) error {
	if len(rows) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\nSprint summary for %s:\n", query)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Sprint", "Completed", "Total", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	colored := colorsEnabled(w, useColors)
	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		label := contract.GetPlainLabel(row.Completed, row.Total)
		if colored {
			label = contract.GetColorLabel(row.Completed, row.Total)
		}
		data = append(data, []string{
			row.Sprint,
			strconv.Itoa(row.Completed),
			strconv.Itoa(row.Total),
			label,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// WriteSinkStatus prints connectivity and row counts for the sink.
func WriteSinkStatus(w io.Writer, status schema.SinkStatus) error {
	fmt.Fprintf(w, "Backend: %s\n", status.Backend)
	fmt.Fprintf(w, "Connected: %t\n", status.Connected)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Table", "Rows"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	names := make([]string, 0, len(status.TableSizes))
	for name := range status.TableSizes {
		names = append(names, name)
	}
	sort.Strings(names)

	data := make([][]string, 0, len(names))
	for _, name := range names {
		data = append(data, []string{name, strconv.FormatInt(status.TableSizes[name], 10)})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
