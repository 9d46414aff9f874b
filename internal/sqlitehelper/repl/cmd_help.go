package repl

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/sqlitehelper/internal/styled"
)

type dotCmd struct {
	name string
	help string
}

func cmdHelpCommands() []dotCmd {
	cmds := []dotCmd{
		{name: ".tables", help: "List all tables in the database"},
		{name: ".status", help: "Show the result code of the last statement"},
		{name: ".threadsafe", help: "Show the threading mode of the SQLite build"},
		{name: ".clear", help: "Clear the terminal screen"},
		{name: ".help", help: "Show the help message"},
		{name: ".quit", help: "Exit the shell"},
		{name: ".exit", help: "Exit the shell"},
	}

	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i].name < cmds[j].name
	})

	return cmds
}

func cmdHelp(out io.Writer) {
	fmt.Fprintln(out, "Available commands:")

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Command", "Description"})
	for _, cmd := range cmdHelpCommands() {
		tw.AppendRow(table.Row{cmd.name, cmd.help})
	}
	tw.AppendFooter(table.Row{"CTRL+C", "Exit the shell"})

	fmt.Fprintln(out, tw.Render())
}

func cmdHelpCompleter(line string) []string {
	suggestions := []string{
		"SELECT ",
		"SELECT * FROM ",
		"SELECT COUNT(*) FROM ",
		"INSERT INTO ",
		"UPDATE ",
		"DELETE FROM ",
		"CREATE TABLE ",
		"DROP TABLE ",
		"ALTER TABLE ",
		"BEGIN",
		"COMMIT",
		"ROLLBACK",
	}
	for _, cmd := range cmdHelpCommands() {
		suggestions = append(suggestions, cmd.name)
	}

	results := []string{}
	for _, suggestion := range suggestions {
		if strings.HasPrefix(strings.ToLower(suggestion), strings.ToLower(line)) {
			results = append(results, suggestion)
		}
	}

	return results
}
