package repl

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/sqlitehelper/internal/sqlitec"
	"github.com/nsqlite/sqlitehelper/internal/styled"
)

// cmdQuery runs the input through the handle and prints the rows, or the
// result code when the statement fails or returns nothing.
func cmdQuery(r *Repl, input string) {
	tw := styled.NewTableWriter()
	rowCount := 0

	code := r.conf.Handle.Exec(input, sqlitec.RowVisitorFunc(func(row sqlitec.Row) error {
		if rowCount == 0 {
			header := table.Row{}
			for _, name := range row.Names() {
				header = append(header, name)
			}
			tw.AppendHeader(header)
		}

		values := table.Row{}
		for _, cell := range row {
			if !cell.Valid {
				values = append(values, "NULL")
				continue
			}
			values = append(values, cell.Text)
		}
		tw.AppendRow(values)
		rowCount++
		return nil
	}))

	if code != sqlitec.CodeOK {
		tw = styled.NewTableWriter()
		tw.AppendHeader(table.Row{"Error", "Code", "Description"})
		detail := ""
		if err := r.conf.Handle.LastErr(); err != nil {
			detail = err.Error()
		}
		tw.AppendRow(table.Row{detail, fmt.Sprintf("%d (%s)", int(code), code), code.Message()})
		fmt.Fprintln(r.conf.Out, tw.Render())
		return
	}

	if rowCount == 0 {
		tw.AppendHeader(table.Row{"OK"})
		tw.AppendRow(table.Row{"OK"})
	} else {
		tw.AppendFooter(table.Row{fmt.Sprintf("%d rows", rowCount)})
	}

	fmt.Fprintln(r.conf.Out, tw.Render())
}
