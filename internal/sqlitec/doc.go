// Package sqlitec provides a minimal owning wrapper around a single SQLite
// connection.
//
// A Handle forwards every call to the underlying engine and remembers the
// result code of the most recent operation instead of returning errors:
//
//	h := sqlitec.NewHandle()
//	defer h.Release()
//
//	if h.Open("files.db") != sqlitec.CodeOK {
//		fmt.Println(h.LastError(), h.LastErrorMessage())
//	}
//
// Two engines can sit behind a handle: mattn/go-sqlite3 (cgo, the default)
// and modernc.org/sqlite (pure Go).
//
//   - https://www.sqlite.org/cintro.html
//   - https://www.sqlite.org/c3ref/exec.html
//   - https://www.sqlite.org/rescode.html
package sqlitec
