package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/glomdom/zyde/regvm"
	"github.com/glomdom/zyde/stackvm"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func newTable(w io.Writer, header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row(header))
	return t
}

func writeStackListing(w io.Writer, lines []stackvm.ListingLine) {
	t := newTable(w, "addr", "op", "operand")
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
	})
	for _, line := range lines {
		t.AppendRow(table.Row{line.Addr, line.Op, line.Operand})
	}
	t.Render()
}

func writeRegisterListing[T any](w io.Writer, prog []regvm.Inst[T]) {
	t := newTable(w, "addr", "instruction")
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
	})
	for i, inst := range prog {
		t.AppendRow(table.Row{i, inst.String()})
	}
	t.Render()
}

// writeState renders machine globals, skipping functions.
func writeState(w io.Writer, globals map[string]any) {
	t := newTable(w, "state", "value")
	for _, name := range slices.Sorted(maps.Keys(globals)) {
		var value string
		switch v := globals[name].(type) {
		case func() string:
			continue
		case []string:
			value = "[" + strings.Join(v, " ") + "]"
		case map[string]string:
			pairs := make([]string, 0, len(v))
			for _, k := range slices.Sorted(maps.Keys(v)) {
				pairs = append(pairs, k+"="+v[k])
			}
			value = strings.Join(pairs, " ")
		default:
			value = fmt.Sprint(v)
		}
		t.AppendRow(table.Row{name, value})
	}
	t.Render()
}
