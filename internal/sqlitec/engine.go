package sqlitec

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/orsinium-labs/enum"
	"modernc.org/sqlite"
)

// EngineKind names one of the native SQLite engines a Handle can use.
type EngineKind enum.Member[string]

var (
	EngineMattn   = EngineKind{Value: "mattn"}
	EngineModernc = EngineKind{Value: "modernc"}

	EngineKinds = enum.New(EngineMattn, EngineModernc)
)

// ParseEngineKind returns the engine for the given name.
func ParseEngineKind(name string) (EngineKind, error) {
	kind := EngineKinds.Parse(strings.ToLower(strings.TrimSpace(name)))
	if kind == nil {
		return EngineKind{}, fmt.Errorf(
			"unknown engine %q, valid values are: %s",
			name, strings.Join(EngineKinds.Values(), ", "),
		)
	}
	return *kind, nil
}

// Engine opens raw connections and maps its own errors to result codes.
type Engine interface {
	Kind() EngineKind
	// Open opens or creates the database at name.
	Open(name string) (driver.Conn, error)
	// Code extracts the primary result code carried by err.
	Code(err error) ResultCode
}

// NewEngine returns the engine of the given kind.
func NewEngine(kind EngineKind) (Engine, error) {
	switch kind {
	case EngineMattn:
		return mattnEngine{}, nil
	case EngineModernc:
		return moderncEngine{}, nil
	}
	return nil, fmt.Errorf("unknown engine %q", kind.Value)
}

// registeredDriver returns the driver that database/sql has registered under
// the given name.
func registeredDriver(driverName string) (driver.Driver, error) {
	db, err := sql.Open(driverName, "")
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s driver: %w", driverName, err)
	}
	defer db.Close()
	return db.Driver(), nil
}

// mattnEngine uses the cgo build of SQLite from github.com/mattn/go-sqlite3.
type mattnEngine struct{}

func (mattnEngine) Kind() EngineKind { return EngineMattn }

func (mattnEngine) Open(name string) (driver.Conn, error) {
	drv, err := registeredDriver("sqlite3")
	if err != nil {
		return nil, err
	}
	return drv.Open(name)
}

func (mattnEngine) Code(err error) ResultCode {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return ResultCode(sqliteErr.Code).Primary()
	}
	var errNo sqlite3.ErrNo
	if errors.As(err, &errNo) {
		return ResultCode(errNo).Primary()
	}
	return CodeError
}

// moderncEngine uses the pure Go translation of SQLite from modernc.org/sqlite.
type moderncEngine struct{}

func (moderncEngine) Kind() EngineKind { return EngineModernc }

func (moderncEngine) Open(name string) (driver.Conn, error) {
	drv, err := registeredDriver("sqlite")
	if err != nil {
		return nil, err
	}
	return drv.Open(name)
}

func (moderncEngine) Code(err error) ResultCode {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return ResultCode(sqliteErr.Code()).Primary()
	}
	return CodeError
}

// ThreadingMode is the threading mode SQLite was compiled with.
//
// https://www.sqlite.org/threadsafe.html
type ThreadingMode enum.Member[string]

var (
	ThreadingSingleThread = ThreadingMode{Value: "single-thread"}
	ThreadingSerialized   = ThreadingMode{Value: "serialized"}
	ThreadingMultiThread  = ThreadingMode{Value: "multi-thread"}
)

// threadsafeOption maps the THREADSAFE compile option value to a mode.
func threadsafeOption(value string) (ThreadingMode, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return ThreadingMode{}, fmt.Errorf("invalid THREADSAFE value %q: %w", value, err)
	}
	switch n {
	case 0:
		return ThreadingSingleThread, nil
	case 1:
		return ThreadingSerialized, nil
	case 2:
		return ThreadingMultiThread, nil
	}
	return ThreadingMode{}, fmt.Errorf("unknown THREADSAFE value %d", n)
}

// EngineThreadingMode reports how the given engine was built. It opens a
// private in-memory database and reads PRAGMA compile_options, so it does not
// depend on any Handle.
//
// https://www.sqlite.org/pragma.html#pragma_compile_options
func EngineThreadingMode(kind EngineKind) (ThreadingMode, error) {
	h := NewHandle(WithEngine(kind))
	defer h.Release()

	if code := h.Open(":memory:"); code != CodeOK {
		return ThreadingMode{}, fmt.Errorf("failed to open in-memory database: %w", h.LastErr())
	}

	value := ""
	code := h.Exec("PRAGMA compile_options", RowVisitorFunc(func(row Row) error {
		cell := row[0]
		if after, ok := strings.CutPrefix(cell.Text, "THREADSAFE="); ok {
			value = after
		}
		return nil
	}))
	if code != CodeOK {
		return ThreadingMode{}, fmt.Errorf("failed to read compile options: %w", h.LastErr())
	}
	if value == "" {
		return ThreadingMode{}, errors.New("THREADSAFE compile option not reported")
	}

	return threadsafeOption(value)
}

// IsThreadsafe reports whether the default engine was compiled with mutexes.
func IsThreadsafe() bool {
	return IsEngineThreadsafe(EngineMattn)
}

// IsEngineThreadsafe reports whether the given engine was compiled with
// mutexes. Any failure to find out reports false.
func IsEngineThreadsafe(kind EngineKind) bool {
	mode, err := EngineThreadingMode(kind)
	if err != nil {
		return false
	}
	return mode != ThreadingSingleThread
}
