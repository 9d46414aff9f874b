package sqlitehelper

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/sqlitehelper/internal/filetable"
	"github.com/nsqlite/sqlitehelper/internal/log"
	"github.com/nsqlite/sqlitehelper/internal/sqlitec"
	"github.com/nsqlite/sqlitehelper/internal/sqlitehelper/config"
	"github.com/nsqlite/sqlitehelper/internal/sqlitehelper/demo"
	"github.com/nsqlite/sqlitehelper/internal/sqlitehelper/repl"
	"github.com/nsqlite/sqlitehelper/internal/styled"
	"github.com/nsqlite/sqlitehelper/internal/util/numutil"
	"github.com/nsqlite/sqlitehelper/internal/version"
)

// Run runs the sqlitehelper CLI.
func Run(ctx context.Context) error {
	conf := config.MustParse(os.Args)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.NewLoggerWithOptions(os.Stderr, conf.LoggerOption)
	logger.Debug("starting sqlitehelper", log.KV{
		"database": conf.Database,
		"engine":   conf.EngineKind.Value,
	})

	switch {
	case conf.Demo != nil:
		return runDemo(conf, logger, os.Stdout)
	case conf.Index != nil:
		return runIndex(ctx, conf, logger, os.Stdout)
	case conf.Report != nil:
		return runReport(conf, logger, os.Stdout)
	case conf.Shell != nil:
		return runShell(ctx, stop, conf, logger, os.Stdout)
	case conf.Info != nil:
		return runInfo(conf, logger, os.Stdout)
	}
	return nil
}

// openHandle opens the configured database and turns a failure into an error.
func openHandle(conf config.Config, logger log.Logger) (*sqlitec.Handle, error) {
	h := sqlitec.NewHandle(
		sqlitec.WithEngine(conf.EngineKind),
		sqlitec.WithLogger(logger),
	)
	if code := h.Open(conf.Database); code != sqlitec.CodeOK {
		return nil, fmt.Errorf(
			"can't open database %s: %s (%s): %w",
			conf.Database, code, h.LastErrorMessage(), h.LastErr(),
		)
	}
	return h, nil
}

func runDemo(conf config.Config, logger log.Logger, out io.Writer) error {
	fmt.Fprintln(out, version.CLIVersion())

	runner, err := demo.NewRunner(demo.Config{
		Logger:   logger,
		Out:      out,
		Database: conf.Database,
		Engine:   conf.EngineKind,
	})
	if err != nil {
		return err
	}
	defer runner.Close()

	return runner.Run(conf.Scenarios)
}

func runIndex(ctx context.Context, conf config.Config, logger log.Logger, out io.Writer) error {
	records, err := filetable.Scan(ctx, conf.Index.Root, conf.Index.Workers)
	if err != nil {
		return fmt.Errorf("failed to scan files: %w", err)
	}

	h, err := openHandle(conf, logger)
	if err != nil {
		return err
	}
	defer h.Release()

	var progressOut io.Writer = os.Stderr
	if conf.Index.NoProgress {
		progressOut = nil
	}
	if err := filetable.Store(h, records, progressOut); err != nil {
		return err
	}

	var totalBytes uint64
	for _, record := range records {
		totalBytes += uint64(record.Size)
	}

	logger.InfoNs(log.NsFiletable, "files indexed", log.KV{
		"files": len(records),
		"bytes": totalBytes,
	})
	fmt.Fprintf(out, "Indexed %s files (%s) into %s\n",
		numutil.IntWithCommas(len(records)), humanize.Bytes(totalBytes), conf.Database)
	return nil
}

func runReport(conf config.Config, logger log.Logger, out io.Writer) error {
	h, err := openHandle(conf, logger)
	if err != nil {
		return err
	}
	defer h.Release()

	files, err := filetable.Report(h)
	if err != nil {
		return err
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Filename", "Entropy"})
	for _, entry := range files.Table() {
		if entry.Parsed {
			tw.AppendRow(table.Row{entry.Key, fmt.Sprintf("%.4f", entry.Value)})
		} else {
			tw.AppendRow(table.Row{entry.Key, "n/a"})
		}
	}
	tw.AppendFooter(table.Row{"Files", numutil.IntWithCommas(files.Len())})

	fmt.Fprintln(out, tw.Render())
	return nil
}

func runShell(
	ctx context.Context, stop context.CancelFunc, conf config.Config, logger log.Logger, out io.Writer,
) error {
	fmt.Fprintln(out, version.ShellVersion())

	h, err := openHandle(conf, logger)
	if err != nil {
		return err
	}
	defer h.Release()

	rp, err := repl.NewRepl(ctx, stop, repl.Config{
		Logger:      logger,
		Handle:      h,
		Out:         out,
		HistoryPath: conf.Shell.HistoryFile,
	})
	if err != nil {
		return err
	}
	defer rp.Shutdown()

	done := make(chan error, 1)
	go func() {
		done <- rp.Start()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.ErrorNs(log.NsShell, "shell stopped with error", log.KV{"error": err})
			return err
		}
	case <-ctx.Done():
	}
	rp.Close()

	fmt.Fprintf(out, "\nGoodbye!\n\n")
	return nil
}

func runInfo(conf config.Config, logger log.Logger, out io.Writer) error {
	h, err := openHandle(conf, logger)
	if err != nil {
		return err
	}
	defer h.Release()

	sqliteVersion, err := h.Version()
	if err != nil {
		return fmt.Errorf("failed to read SQLite version: %w", err)
	}

	mode, err := sqlitec.EngineThreadingMode(conf.EngineKind)
	if err != nil {
		return err
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Engine", "SQLite", "Threading mode", "Threadsafe", "Database"})
	tw.AppendRow(table.Row{
		conf.EngineKind.Value,
		sqliteVersion,
		mode.Value,
		mode != sqlitec.ThreadingSingleThread,
		conf.Database,
	})

	fmt.Fprintln(out, tw.Render())
	return nil
}
