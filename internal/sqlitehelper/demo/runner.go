package demo

import (
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/sqlitehelper/internal/collector"
	"github.com/nsqlite/sqlitehelper/internal/log"
	"github.com/nsqlite/sqlitehelper/internal/sqlitec"
	"github.com/nsqlite/sqlitehelper/internal/styled"
)

// Config represents the configuration for a Runner.
type Config struct {
	// Logger is the shared sqlitehelper logger.
	Logger log.Logger
	// Out receives everything the scenarios print.
	Out io.Writer
	// Database is the path opened by the scenarios.
	Database string
	// Engine is the SQLite engine behind the handle.
	Engine sqlitec.EngineKind
}

// Runner runs scenarios one after the other against a single handle.
type Runner struct {
	Config
	handle *sqlitec.Handle
	files  *collector.Collector
}

// NewRunner creates a Runner. The database is opened lazily by the first
// scenario that needs it.
func NewRunner(config Config) (*Runner, error) {
	if !config.Logger.IsInitialized() {
		return nil, errors.New("logger is required")
	}
	if config.Out == nil {
		return nil, errors.New("output writer is required")
	}
	if config.Database == "" {
		return nil, errors.New("database path is required")
	}
	if config.Engine.Value == "" {
		config.Engine = sqlitec.EngineMattn
	}

	return &Runner{
		Config: config,
		handle: sqlitec.NewHandle(
			sqlitec.WithEngine(config.Engine),
			sqlitec.WithLogger(config.Logger),
		),
		files: collector.New("filename", "entropy"),
	}, nil
}

// Close releases the handle.
func (r *Runner) Close() {
	r.handle.Release()
}

// Files returns the collector filled by the select scenario.
func (r *Runner) Files() *collector.Collector {
	return r.files
}

// Run prints the threading mode of the engine and runs the scenarios in
// order.
func (r *Runner) Run(scenarios []Scenario) error {
	if sqlitec.IsEngineThreadsafe(r.Engine) {
		r.printf("SQLite build (%s) is threadsafe\n", r.Engine.Value)
	} else {
		r.printf("SQLite build (%s) is not threadsafe!\n", r.Engine.Value)
	}

	for _, scenario := range scenarios {
		r.printf("\n")
		styled.DimmedColor().Fprintf(r.Out, "--- %s ---\n", scenario.Value)
		r.Logger.DebugNs(log.NsDemo, "running scenario", log.KV{"scenario": scenario.Value})

		if err := r.run(scenario); err != nil {
			return fmt.Errorf("scenario %s: %w", scenario.Value, err)
		}
	}
	return nil
}

func (r *Runner) run(scenario Scenario) error {
	switch scenario {
	case ScenarioCreate:
		r.create()
	case ScenarioInsert:
		r.insert()
	case ScenarioSelect:
		r.selectFiles()
	case ScenarioUpdate:
		r.update()
	case ScenarioClosed:
		r.closed()
	case ScenarioUnicode:
		return r.unicodeRoundTrip()
	default:
		return fmt.Errorf("unknown scenario %q", scenario.Value)
	}
	return nil
}

func (r *Runner) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.Out, format, args...)
}

// report prints the outcome of the last handle call.
func (r *Runner) report(op string, code sqlitec.ResultCode) {
	if code == sqlitec.CodeOK {
		styled.OKColor().Fprintf(r.Out, "%s: ok\n", op)
		return
	}

	styled.ErrorColor().Fprintf(
		r.Out, "%s: code = %d (%s); description: %s\n",
		op, int(code), code, r.handle.LastErrorMessage(),
	)
	if err := r.handle.LastErr(); err != nil {
		styled.DimmedColor().Fprintf(r.Out, "  %s\n", err)
	}
}

// exec runs sql and reports its outcome.
func (r *Runner) exec(op string, sql string, visitor sqlitec.RowVisitor) sqlitec.ResultCode {
	code := r.handle.Exec(sql, visitor)
	r.report(op, code)
	return code
}

// ensureOpen opens the database unless the handle already holds it.
func (r *Runner) ensureOpen() {
	if r.handle.IsOpen() {
		return
	}
	r.report("open "+r.Database, r.handle.Open(r.Database))
}

func (r *Runner) create() {
	r.ensureOpen()
	r.exec("create table filetable",
		"create table filetable(hash varchar(16), filename varchar(512), entropy real)", nil)
}

func (r *Runner) insert() {
	r.ensureOpen()
	r.exec("insert usernames.txt",
		"insert into filetable(hash, filename, entropy) values ('aaaaaaaaaaaaaaaa', 'C:/Temp/usernames.txt', 1.35)", nil)
	r.exec("insert abc.dll",
		"insert into filetable(hash, filename, entropy) values ('BBBBBBBBBBBBBBBB', 'C:/Windows/system32/abc.dll', 6.05)", nil)
}

func (r *Runner) selectFiles() {
	r.ensureOpen()

	r.files.Reset()
	if r.exec("select filename, entropy", "select filename, entropy from filetable", r.files) != sqlitec.CodeOK {
		return
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Filename", "Entropy"})
	for _, entry := range r.files.Table() {
		value := any(entry.Value)
		if !entry.Parsed {
			value = "n/a"
		}
		tw.AppendRow(table.Row{entry.Key, value})
	}
	tw.AppendFooter(table.Row{"Files", r.files.Len()})
	r.printf("%s\n", tw.Render())
}

func (r *Runner) update() {
	r.ensureOpen()
	r.exec("update abc.dll",
		"update filetable set entropy = 7.2 where filename = 'C:/Windows/system32/abc.dll'", nil)
	r.selectFiles()
}

func (r *Runner) closed() {
	r.ensureOpen()
	r.report("close", r.handle.Close())

	code := r.handle.Exec(
		"insert into filetable(hash, filename, entropy) values ('aaaaaaaaaaaaaaaa', 'C:/Temp/usernames.txt', 1.35)", nil,
	)
	r.printf(
		"Error executing SQL on closed database, code = %d; description: %s\n",
		int(code), r.handle.LastErrorMessage(),
	)
}
