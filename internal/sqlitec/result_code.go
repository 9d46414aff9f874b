package sqlitec

import (
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ResultCode is a primary SQLite result code.
//
// https://www.sqlite.org/rescode.html
type ResultCode int

const (
	CodeOK         ResultCode = 0
	CodeError      ResultCode = 1
	CodeInternal   ResultCode = 2
	CodePerm       ResultCode = 3
	CodeAbort      ResultCode = 4
	CodeBusy       ResultCode = 5
	CodeLocked     ResultCode = 6
	CodeNoMem      ResultCode = 7
	CodeReadOnly   ResultCode = 8
	CodeInterrupt  ResultCode = 9
	CodeIOErr      ResultCode = 10
	CodeCorrupt    ResultCode = 11
	CodeNotFound   ResultCode = 12
	CodeFull       ResultCode = 13
	CodeCantOpen   ResultCode = 14
	CodeProtocol   ResultCode = 15
	CodeEmpty      ResultCode = 16
	CodeSchema     ResultCode = 17
	CodeTooBig     ResultCode = 18
	CodeConstraint ResultCode = 19
	CodeMismatch   ResultCode = 20
	CodeMisuse     ResultCode = 21
	CodeNoLFS      ResultCode = 22
	CodeAuth       ResultCode = 23
	CodeFormat     ResultCode = 24
	CodeRange      ResultCode = 25
	CodeNotADB     ResultCode = 26
	CodeNotice     ResultCode = 27
	CodeWarning    ResultCode = 28
	CodeRow        ResultCode = 100
	CodeDone       ResultCode = 101
)

var resultCodeNames = map[ResultCode]string{
	CodeOK:         "SQLITE_OK",
	CodeError:      "SQLITE_ERROR",
	CodeInternal:   "SQLITE_INTERNAL",
	CodePerm:       "SQLITE_PERM",
	CodeAbort:      "SQLITE_ABORT",
	CodeBusy:       "SQLITE_BUSY",
	CodeLocked:     "SQLITE_LOCKED",
	CodeNoMem:      "SQLITE_NOMEM",
	CodeReadOnly:   "SQLITE_READONLY",
	CodeInterrupt:  "SQLITE_INTERRUPT",
	CodeIOErr:      "SQLITE_IOERR",
	CodeCorrupt:    "SQLITE_CORRUPT",
	CodeNotFound:   "SQLITE_NOTFOUND",
	CodeFull:       "SQLITE_FULL",
	CodeCantOpen:   "SQLITE_CANTOPEN",
	CodeProtocol:   "SQLITE_PROTOCOL",
	CodeEmpty:      "SQLITE_EMPTY",
	CodeSchema:     "SQLITE_SCHEMA",
	CodeTooBig:     "SQLITE_TOOBIG",
	CodeConstraint: "SQLITE_CONSTRAINT",
	CodeMismatch:   "SQLITE_MISMATCH",
	CodeMisuse:     "SQLITE_MISUSE",
	CodeNoLFS:      "SQLITE_NOLFS",
	CodeAuth:       "SQLITE_AUTH",
	CodeFormat:     "SQLITE_FORMAT",
	CodeRange:      "SQLITE_RANGE",
	CodeNotADB:     "SQLITE_NOTADB",
	CodeNotice:     "SQLITE_NOTICE",
	CodeWarning:    "SQLITE_WARNING",
	CodeRow:        "SQLITE_ROW",
	CodeDone:       "SQLITE_DONE",
}

// String returns the symbolic name of the code, e.g. SQLITE_MISUSE.
func (c ResultCode) String() string {
	if name, ok := resultCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("SQLITE_UNKNOWN(%d)", int(c))
}

// Message returns the English description SQLite gives for the code. It
// depends on the code only, never on a connection.
//
// https://www.sqlite.org/c3ref/errcode.html
func (c ResultCode) Message() string {
	return sqlite3.ErrNo(c).Error()
}

// Primary strips the extended bits of an extended result code.
func (c ResultCode) Primary() ResultCode {
	return c & 0xff
}
