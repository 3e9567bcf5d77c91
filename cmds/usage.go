package cmds

import (
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

func (p *Executor) PrintUsage() {
	p.WriteUsage(os.Stderr)
}

// WriteUsage renders one row per command, with sub commands indented
// below their parent. Aliases share the row of their command.
func (p *Executor) WriteUsage(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"command", "arguments", "description"})

	for _, name := range slices.Sorted(slices.Values(p.primary)) {
		appendRows(t, 0, name, p.commands[name])
	}

	t.Render()
}

func appendRows(t table.Writer, depth int, name string, command *Command) {
	if command == nil {
		return
	}
	label := strings.Repeat("  ", depth) + name
	if len(command.Aliases) > 0 {
		label += " (" + strings.Join(command.Aliases, ", ") + ")"
	}
	t.AppendRow(table.Row{
		label,
		strings.Join(command.ArgNames(), " "),
		command.Description,
	})
	for _, sub := range slices.Sorted(maps.Keys(command.Subs)) {
		appendRows(t, depth+1, sub, command.Subs[sub])
	}
}
