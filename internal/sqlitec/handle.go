package sqlitec

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"

	"github.com/nsqlite/sqlitehelper/internal/log"
)

var (
	errNilConnection = errors.New("database connection is closed")
	errEmptyName     = errors.New("database name is empty")
)

// abortError marks an iteration stopped by a RowVisitor.
type abortError struct {
	err error
}

func (e *abortError) Error() string {
	return fmt.Sprintf("row visitor aborted the query: %s", e.err)
}

func (e *abortError) Unwrap() error {
	return e.err
}

// noCopy lets go vet flag accidental copies of a Handle.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

type handleOption func(*Handle)

// WithEngine selects the engine used by Open. EngineMattn is the default.
func WithEngine(kind EngineKind) handleOption {
	return func(h *Handle) {
		h.kind = kind
	}
}

// WithLogger sets the logger used for debug traces and teardown failures.
func WithLogger(logger log.Logger) handleOption {
	return func(h *Handle) {
		h.logger = logger
	}
}

// Handle owns at most one SQLite connection and the result code of the last
// operation performed through it.
//
// A Handle must not be copied; use Move to transfer ownership. It carries no
// locks, so concurrent use needs external synchronization.
type Handle struct {
	noCopy noCopy

	kind    EngineKind
	engine  Engine
	logger  log.Logger
	conn    driver.Conn
	name    string
	status  ResultCode
	lastErr error
}

// NewHandle returns an empty handle with no connection and CodeOK status.
func NewHandle(options ...handleOption) *Handle {
	h := &Handle{kind: EngineMattn}
	for _, option := range options {
		option(h)
	}
	if !h.logger.IsInitialized() {
		h.logger = log.NewNopLogger()
	}
	return h
}

// OpenHandle returns a new handle and immediately opens name with it. The
// outcome is available through LastError and IsValid.
func OpenHandle(name string, options ...handleOption) *Handle {
	h := NewHandle(options...)
	h.Open(name)
	return h
}

// Kind returns the engine this handle opens connections with.
func (h *Handle) Kind() EngineKind {
	return h.kind
}

// Name returns the name given to the last Open call.
func (h *Handle) Name() string {
	return h.name
}

// setStatus stores the outcome of an operation and returns its code.
func (h *Handle) setStatus(op string, code ResultCode, err error) ResultCode {
	h.status = code
	h.lastErr = err

	if err != nil {
		h.logger.DebugNs(log.NsHandle, op+" failed", log.KV{
			"name":  h.name,
			"code":  code.String(),
			"error": err.Error(),
		})
	}
	return code
}

// fail stores err with the result code the engine attached to it.
func (h *Handle) fail(op string, err error) ResultCode {
	var abortErr *abortError
	if errors.As(err, &abortErr) {
		return h.setStatus(op, CodeAbort, err)
	}
	if h.engine == nil {
		return h.setStatus(op, CodeError, err)
	}
	return h.setStatus(op, h.engine.Code(err), err)
}

// Open opens or creates the database at name.
//
// If the handle already holds a connection it is not closed first; the old
// connection is dropped without being released. Call Close before reopening.
//
// https://www.sqlite.org/c3ref/open.html
func (h *Handle) Open(name string) ResultCode {
	if name == "" {
		return h.setStatus("open", CodeMisuse, errEmptyName)
	}

	if h.conn != nil {
		h.logger.WarnNs(log.NsHandle, "open called on a handle that is still open, leaking previous connection", log.KV{
			"previous": h.name,
			"name":     name,
		})
	}

	h.name = name
	h.conn = nil

	engine, err := NewEngine(h.kind)
	if err != nil {
		return h.setStatus("open", CodeMisuse, err)
	}
	h.engine = engine

	conn, err := engine.Open(name)
	if err != nil {
		return h.fail("open", fmt.Errorf("failed to open database: %w", err))
	}
	h.conn = conn

	h.logger.DebugNs(log.NsHandle, "database opened", log.KV{
		"name":   name,
		"engine": h.kind.Value,
	})
	return h.setStatus("open", CodeOK, nil)
}

// Close releases the connection. Closing an empty handle succeeds and does
// nothing. When SQLite refuses to close, the connection is kept so the
// caller may inspect LastError and retry.
//
// https://www.sqlite.org/c3ref/close.html
func (h *Handle) Close() ResultCode {
	if h.conn == nil {
		return h.setStatus("close", CodeOK, nil)
	}

	if err := h.conn.Close(); err != nil {
		return h.fail("close", fmt.Errorf("failed to close database: %w", err))
	}
	h.conn = nil

	h.logger.DebugNs(log.NsHandle, "database closed", log.KV{"name": h.name})
	return h.setStatus("close", CodeOK, nil)
}

// Release is the teardown counterpart of Close, meant to be deferred. A
// failure to close is logged and otherwise ignored.
func (h *Handle) Release() {
	if code := h.Close(); code != CodeOK {
		h.logger.ErrorNs(log.NsHandle, "failed to release database connection", log.KV{
			"name":  h.name,
			"code":  code.String(),
			"error": h.lastErr.Error(),
		})
	}
}

// Exec runs every statement in sql in order, calling visitor once per result
// row. visitor may be nil when the rows are not needed.
//
// Execution stops at the first failing statement and its code becomes the
// handle status; statements after it are not run.
//
// https://www.sqlite.org/c3ref/exec.html
func (h *Handle) Exec(sql string, visitor RowVisitor) ResultCode {
	if h.conn == nil {
		return h.setStatus("exec", CodeMisuse, errNilConnection)
	}

	for _, stmt := range SplitStatements(sql) {
		if err := h.execStatement(stmt, visitor); err != nil {
			return h.fail("exec", err)
		}
	}

	return h.setStatus("exec", CodeOK, nil)
}

// execStatement prepares and steps a single statement to completion.
func (h *Handle) execStatement(query string, visitor RowVisitor) error {
	stmt, err := h.conn.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	var rows driver.Rows
	if queryer, ok := stmt.(driver.StmtQueryContext); ok {
		rows, err = queryer.QueryContext(context.Background(), nil)
	} else {
		rows, err = stmt.Query(nil) //nolint:staticcheck
	}
	if err != nil {
		return fmt.Errorf("failed to execute statement: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	columns := rows.Columns()
	values := make([]driver.Value, len(columns))
	var row Row

	for {
		err := rows.Next(values)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to step statement: %w", err)
		}
		if visitor == nil {
			continue
		}

		row = newRow(row, columns, values)
		if err := visitor.Receive(row); err != nil {
			return &abortError{err: err}
		}
	}
}

// IsValid reports whether the handle holds a connection and the last
// operation succeeded. A failed query on a healthy connection makes it false;
// use IsOpen and LastOpSucceeded to tell the two apart.
func (h *Handle) IsValid() bool {
	return h.IsOpen() && h.LastOpSucceeded()
}

// IsOpen reports whether the handle holds a connection.
func (h *Handle) IsOpen() bool {
	return h.conn != nil
}

// LastOpSucceeded reports whether the last operation returned CodeOK.
func (h *Handle) LastOpSucceeded() bool {
	return h.status == CodeOK
}

// LastError returns the result code of the last operation.
func (h *Handle) LastError() ResultCode {
	return h.status
}

// LastErrorMessage returns the description of LastError.
func (h *Handle) LastErrorMessage() string {
	return h.status.Message()
}

// LastErr returns the full error of the last operation, including the
// engine's own message, or nil if it succeeded.
func (h *Handle) LastErr() error {
	return h.lastErr
}

// Move transfers the connection and status to a new Handle. h is left empty,
// as if freshly created with the same engine and logger.
func (h *Handle) Move() *Handle {
	dst := &Handle{
		kind:    h.kind,
		engine:  h.engine,
		logger:  h.logger,
		conn:    h.conn,
		name:    h.name,
		status:  h.status,
		lastErr: h.lastErr,
	}

	h.engine = nil
	h.conn = nil
	h.name = ""
	h.status = CodeOK
	h.lastErr = nil

	return dst
}

// Version returns the SQLite library version through this handle's
// connection. It overwrites the handle status like any Exec.
func (h *Handle) Version() (string, error) {
	version := ""
	code := h.Exec("SELECT sqlite_version()", RowVisitorFunc(func(row Row) error {
		version = row[0].Text
		return nil
	}))
	if code != CodeOK {
		return "", h.lastErr
	}
	return version, nil
}
