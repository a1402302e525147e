// Package report renders the end-of-run summary: artifact counts and
// the registry's diagnostic buckets, as tables on a writer.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"wwtxtp/internal/registry"
	"wwtxtp/internal/txtp"
)

// Summary is everything the end-of-run report prints.
type Summary struct {
	Banks    int
	Stats    txtp.Stats
	Registry *registry.Registry
}

// Write prints the summary tables followed by any diagnostic notes.
func Write(w io.Writer, s Summary) error {
	if err := writeStats(w, s); err != nil {
		return err
	}
	if s.Registry != nil {
		if err := writeDiagnostics(w, s.Registry); err != nil {
			return err
		}
	}
	return nil
}

func writeStats(w io.Writer, s Summary) error {
	rows := [][]string{
		{"banks", strconv.Itoa(s.Banks)},
		{"generated", strconv.Itoa(s.Stats.Created)},
		{"duplicates", strconv.Itoa(s.Stats.Duplicates)},
	}
	if s.Stats.Unused > 0 {
		rows = append(rows, []string{"unused", strconv.Itoa(s.Stats.Unused)})
	}
	if s.Stats.Secondary > 0 {
		rows = append(rows, []string{"secondary", strconv.Itoa(s.Stats.Secondary)})
	}
	if s.Stats.Silent > 0 {
		rows = append(rows, []string{"silent", strconv.Itoa(s.Stats.Silent)})
	}
	_, err := fmt.Fprintln(w, renderTable([]string{"Result", "Count"}, rows,
		[]columnAlignment{alignLeft, alignRight}))
	return err
}

func writeDiagnostics(w io.Writer, reg *registry.Registry) error {
	var rows [][]string
	if n := reg.MissingLoadedCount(); n > 0 {
		rows = append(rows, []string{"missing in loaded banks", strconv.Itoa(n)})
	}
	if n := reg.MissingOthersCount(); n > 0 {
		rows = append(rows, []string{"missing in other banks", strconv.Itoa(n)})
	}
	if n := reg.MissingUnknownCount(); n > 0 {
		rows = append(rows, []string{"missing in unknown banks", strconv.Itoa(n)})
	}
	if n := len(reg.AmbiguousIDs()); n > 0 {
		rows = append(rows, []string{"ambiguous ids", strconv.Itoa(n)})
	}
	if n := reg.TransitionObjects(); n > 0 {
		rows = append(rows, []string{"transition objects", strconv.Itoa(n)})
	}
	if len(rows) > 0 {
		if _, err := fmt.Fprintln(w, renderTable([]string{"Diagnostic", "Count"}, rows,
			[]columnAlignment{alignLeft, alignRight})); err != nil {
			return err
		}
	}

	if banks := reg.MissingBankNames(); len(banks) > 0 {
		if _, err := fmt.Fprintf(w, "load these banks to complete the output: %s\n",
			strings.Join(banks, ", ")); err != nil {
			return err
		}
	}
	if props := reg.UnknownProps(); len(props) > 0 {
		if _, err := fmt.Fprintf(w, "unknown properties were ignored: %s\n",
			strings.Join(props, ", ")); err != nil {
			return err
		}
	}
	return nil
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}
