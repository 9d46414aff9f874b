package repl

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/sqlitehelper/internal/sqlitec"
	"github.com/nsqlite/sqlitehelper/internal/styled"
)

func cmdStatus(r *Repl) {
	h := r.conf.Handle

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Open", "Last call", "Code", "Description"})
	tw.AppendRow(table.Row{
		h.IsOpen(),
		h.LastOpSucceeded(),
		fmt.Sprintf("%d (%s)", int(h.LastError()), h.LastError()),
		h.LastErrorMessage(),
	})

	fmt.Fprintln(r.conf.Out, tw.Render())
}

func cmdThreadsafe(r *Repl) {
	kind := r.conf.Handle.Kind()

	mode, err := sqlitec.EngineThreadingMode(kind)
	if err != nil {
		fmt.Fprintln(r.conf.Out, "Failed to read threading mode:", err)
		return
	}

	fmt.Fprintf(r.conf.Out, "%s engine threading mode: %s\n", kind.Value, mode.Value)
	styled.DimmedColor().Fprintln(r.conf.Out, "The handle itself is not synchronized, use it from one goroutine at a time")
}
