package sqlitec

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Layouts of the text SQLite's own date functions produce.
const (
	timestampFormat = "2006-01-02 15:04:05"
	millisFormat    = ".000"
	nanosFormat     = ".999999999"
	offsetFormat    = "-07:00"
)

// Cell is one column of a result row, as text.
type Cell struct {
	// Name is the column name as reported by SQLite.
	Name string
	// Text is the column value rendered as text.
	Text string
	// Valid is false when the value is SQL NULL.
	Valid bool
}

// Row is one result row in column order. A Row and its cells are only valid
// for the duration of the RowVisitor call that receives them.
//
// Both engines hand values of columns declared DATE, DATETIME or TIMESTAMP
// over as times, which are written back in SQLite's "YYYY-MM-DD HH:MM:SS"
// form. Text in another time layout comes back in that form. On the mattn
// engine an integer in such a column becomes a UTC date, an integer in a
// BOOLEAN column becomes 1 or 0, and text that is not a time becomes
// "0001-01-01 00:00:00". modernc keeps integers as they are.
type Row []Cell

// Names returns the column names of the row.
func (r Row) Names() []string {
	names := make([]string, len(r))
	for i, cell := range r {
		names[i] = cell.Name
	}
	return names
}

// Lookup returns the first cell with the given column name.
func (r Row) Lookup(name string) (Cell, bool) {
	for _, cell := range r {
		if cell.Name == name {
			return cell, true
		}
	}
	return Cell{}, false
}

// RowVisitor receives the rows produced by Handle.Exec, one call per row.
//
// Returning an error stops the iteration and the statement finishes with
// CodeAbort.
type RowVisitor interface {
	Receive(row Row) error
}

// RowVisitorFunc adapts a plain function to RowVisitor.
type RowVisitorFunc func(row Row) error

// Receive calls f(row).
func (f RowVisitorFunc) Receive(row Row) error {
	return f(row)
}

// newRow builds a Row reusing buf when it is large enough.
func newRow(buf Row, columns []string, values []driver.Value) Row {
	if cap(buf) < len(columns) {
		buf = make(Row, len(columns))
	}
	buf = buf[:len(columns)]

	for i, name := range columns {
		text, valid := cellText(values[i])
		buf[i] = Cell{Name: name, Text: text, Valid: valid}
	}
	return buf
}

// cellText renders a driver value the way sqlite3_column_text would.
func cellText(value driver.Value) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		if math.IsNaN(v) {
			return "", false
		}
		return formatReal(v), true
	case bool:
		if v {
			return "1", true
		}
		return "0", true
	case []byte:
		return string(v), true
	case string:
		return v, true
	case time.Time:
		return formatTime(v), true
	default:
		return fmt.Sprint(v), true
	}
}

// formatReal renders a float like SQLite's "%!.15g", which always keeps a
// decimal point.
func formatReal(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}

	s := strconv.FormatFloat(v, 'g', 15, 64)
	if strings.ContainsRune(s, '.') {
		return s
	}
	if i := strings.IndexByte(s, 'e'); i >= 0 {
		return s[:i] + ".0" + s[i:]
	}
	return s + ".0"
}

// formatTime renders t like SQLite's datetime text. Fractional seconds are
// only written when present, with millisecond precision when that is exact,
// and the offset only when it is not UTC.
func formatTime(t time.Time) string {
	layout := timestampFormat
	switch ns := t.Nanosecond(); {
	case ns == 0:
	case ns%int(time.Millisecond) == 0:
		layout += millisFormat
	default:
		layout += nanosFormat
	}
	if _, offset := t.Zone(); offset != 0 {
		layout += offsetFormat
	}
	return t.Format(layout)
}
