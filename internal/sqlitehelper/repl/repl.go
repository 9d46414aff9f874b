// Package repl implements the interactive SQL shell of sqlitehelper on top of
// a single sqlitec.Handle.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nsqlite/sqlitehelper/internal/log"
	"github.com/nsqlite/sqlitehelper/internal/sqlitec"
	"github.com/nsqlite/sqlitehelper/internal/util/sysutil"
	"github.com/peterh/liner"
)

// Config represents the configuration for a Repl.
type Config struct {
	// Logger is the shared sqlitehelper logger.
	Logger log.Logger
	// Handle is the open database handle the shell works on.
	Handle *sqlitec.Handle
	// Out receives the rendered results.
	Out io.Writer
	// HistoryPath is where the line history is kept. Empty means a file in
	// the temp directory.
	HistoryPath string
}

type Repl struct {
	conf Config
	ctx  context.Context
	stop context.CancelFunc

	// mu is held while a line runs against the handle.
	mu     sync.Mutex
	closed bool
}

func NewRepl(
	ctx context.Context,
	stop context.CancelFunc,
	conf Config,
) (*Repl, error) {
	if !conf.Logger.IsInitialized() {
		return nil, errors.New("logger is required")
	}
	if conf.Handle == nil {
		return nil, errors.New("database handle is required")
	}
	if conf.Out == nil {
		conf.Out = os.Stdout
	}
	if conf.HistoryPath == "" {
		conf.HistoryPath = filepath.Join(os.TempDir(), ".sqlitehelper_history")
	}

	return &Repl{
		conf: conf,
		ctx:  ctx,
		stop: stop,
	}, nil
}

// Start reads and runs lines until the user quits or the context ends.
func (r *Repl) Start() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(cmdHelpCompleter)

	if file, err := os.Open(r.conf.HistoryPath); err == nil {
		_, _ = line.ReadHistory(file)
		file.Close()
	}
	defer r.saveHistory(line)

	fmt.Fprintf(r.conf.Out, "Connected to %s (%s)\n", r.conf.Handle.Name(), r.conf.Handle.Kind().Value)
	fmt.Fprintln(r.conf.Out, `Enter ".help" for usage hints and ".quit" or "CTRL+C" to quit`)
	fmt.Fprintln(r.conf.Out)

	for {
		select {
		case <-r.ctx.Done():
			return nil
		default:
		}

		input, err := line.Prompt("sqlite> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Fprintln(r.conf.Out, "Exiting...")
			r.Shutdown()
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if quit := r.Exec(input); quit {
			r.Shutdown()
			return nil
		}
	}
}

// saveHistory writes the line history back to disk.
func (r *Repl) saveHistory(line *liner.State) {
	file, err := os.Create(r.conf.HistoryPath)
	if err != nil {
		r.conf.Logger.WarnNs(log.NsShell, "failed to save history", log.KV{"error": err})
		return
	}
	defer file.Close()
	_, _ = line.WriteHistory(file)
}

// Exec runs one line of input and reports whether the shell should quit.
func (r *Repl) Exec(input string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return true
	}

	switch input {
	case "exit", ".exit", "quit", ".quit":
		return true
	case "clear", ".clear":
		sysutil.ClearTerminal(r.conf.Out)
	case "help", ".help":
		cmdHelp(r.conf.Out)
	case ".tables":
		cmdQuery(r, "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	case ".status":
		cmdStatus(r)
	case ".threadsafe":
		cmdThreadsafe(r)
	default:
		if strings.HasPrefix(input, ".") {
			fmt.Fprintln(r.conf.Out, "Unknown command, type .help for usage hints")
			return false
		}
		cmdQuery(r, input)
	}
	return false
}

// Close detaches the shell from its handle. It waits for a running line to
// finish, and every later line quits the shell without touching the handle.
func (r *Repl) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

// Shutdown stops the REPL.
func (r *Repl) Shutdown() {
	r.stop()
}
