package filetable

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/nsqlite/sqlitehelper/internal/collector"
	"github.com/nsqlite/sqlitehelper/internal/progress"
	"github.com/nsqlite/sqlitehelper/internal/sqlitec"
)

const createTableSQL = "create table if not exists filetable(hash varchar(16), filename varchar(512), entropy real)"

// StatusError reports a handle operation that did not return CodeOK.
type StatusError struct {
	Op   string
	Code sqlitec.ResultCode
	Err  error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to %s: %s (%s): %v", e.Op, e.Code, e.Code.Message(), e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// exec runs sql and turns a non OK result into a *StatusError.
func exec(h *sqlitec.Handle, op string, sql string, visitor sqlitec.RowVisitor) error {
	if code := h.Exec(sql, visitor); code != sqlitec.CodeOK {
		return &StatusError{Op: op, Code: code, Err: h.LastErr()}
	}
	return nil
}

// CreateTable creates filetable if it does not exist yet.
func CreateTable(h *sqlitec.Handle) error {
	return exec(h, "create filetable", createTableSQL, nil)
}

// InsertSQL returns the INSERT statement for a record, with every value
// written as a literal.
func InsertSQL(record Record) string {
	return "insert into filetable(hash, filename, entropy) values (" +
		sqlitec.QuoteLiteral(record.Hash) + ", " +
		sqlitec.QuoteLiteral(record.Filename) + ", " +
		strconv.FormatFloat(record.Entropy, 'g', -1, 64) + ")"
}

// Store inserts the records into filetable inside a single transaction.
// Progress goes to progressOut when it is not nil. On failure the
// transaction is rolled back.
func Store(h *sqlitec.Handle, records []Record, progressOut io.Writer) error {
	if err := CreateTable(h); err != nil {
		return err
	}
	if err := exec(h, "begin transaction", "BEGIN", nil); err != nil {
		return err
	}

	bar := progress.NewBar(progressOut, "storing", len(records))
	defer bar.Finish()

	for _, record := range records {
		if err := exec(h, "insert "+record.Filename, InsertSQL(record), nil); err != nil {
			return rollback(h, err)
		}
		bar.Inc()
	}

	return exec(h, "commit transaction", "COMMIT", nil)
}

// rollback ends the open transaction after cause made it fail. A failed
// rollback is joined to cause, since the transaction is then still open.
func rollback(h *sqlitec.Handle, cause error) error {
	if err := exec(h, "rollback transaction", "ROLLBACK", nil); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// Report reads filename and entropy of every stored file.
func Report(h *sqlitec.Handle) (*collector.Collector, error) {
	c := collector.New("filename", "entropy")
	if err := exec(h, "read filetable", "select filename, entropy from filetable", c); err != nil {
		return nil, err
	}
	return c, nil
}
