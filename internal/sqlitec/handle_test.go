package sqlitec

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectRows returns a visitor that copies every row it receives.
func collectRows(rows *[]Row) RowVisitor {
	return RowVisitorFunc(func(row Row) error {
		*rows = append(*rows, append(Row(nil), row...))
		return nil
	})
}

func forEachEngine(t *testing.T, fn func(t *testing.T, kind EngineKind)) {
	for _, kind := range EngineKinds.Members() {
		t.Run(kind.Value, func(t *testing.T) {
			fn(t, kind)
		})
	}
}

func TestHandle(t *testing.T) {
	forEachEngine(t, func(t *testing.T, kind EngineKind) {
		t.Run("OpenCreatesFile", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "files.db")

			h := NewHandle(WithEngine(kind))
			defer h.Release()

			assert.Equal(t, CodeOK, h.Open(path))
			assert.True(t, h.IsValid())
			assert.Equal(t, CodeOK, h.Exec("CREATE TABLE t (x)", nil))
			assert.FileExists(t, path)
		})

		t.Run("OpenMissingDirectory", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing", "dir", "files.db")

			h := NewHandle(WithEngine(kind))
			defer h.Release()

			code := h.Open(path)
			assert.NotEqual(t, CodeOK, code)
			assert.False(t, h.IsOpen())
			assert.False(t, h.IsValid())
			assert.Error(t, h.LastErr())
			assert.NoFileExists(t, path)
		})

		t.Run("OpenEmptyName", func(t *testing.T) {
			h := NewHandle(WithEngine(kind))
			assert.Equal(t, CodeMisuse, h.Open(""))
			assert.False(t, h.IsOpen())
		})

		t.Run("ExecAfterClose", func(t *testing.T) {
			h := OpenHandle(":memory:", WithEngine(kind))
			require.True(t, h.IsValid())

			assert.Equal(t, CodeOK, h.Close())
			assert.False(t, h.IsValid())
			assert.False(t, h.IsOpen())

			code := h.Exec("INSERT INTO filetable(hash) VALUES ('a')", nil)
			assert.Equal(t, CodeMisuse, code)
			assert.Equal(t, CodeMisuse, h.LastError())
			assert.Equal(t, "bad parameter or other API misuse", h.LastErrorMessage())
		})

		t.Run("CloseTwice", func(t *testing.T) {
			h := OpenHandle(":memory:", WithEngine(kind))
			assert.Equal(t, CodeOK, h.Close())
			assert.Equal(t, CodeOK, h.Close())
		})

		t.Run("ReopenAfterClose", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "reopen.db")

			h := OpenHandle(path, WithEngine(kind))
			require.Equal(t, CodeOK, h.Exec("CREATE TABLE t (x); INSERT INTO t VALUES (1)", nil))
			require.Equal(t, CodeOK, h.Close())

			require.Equal(t, CodeOK, h.Open(path))
			defer h.Release()

			var rows []Row
			assert.Equal(t, CodeOK, h.Exec("SELECT x FROM t", collectRows(&rows)))
			assert.Len(t, rows, 1)
		})

		t.Run("CreateInsertSelect", func(t *testing.T) {
			h := OpenHandle(":memory:", WithEngine(kind))
			defer h.Release()

			require.Equal(t, CodeOK, h.Exec(
				"create table filetable(hash varchar(16), filename varchar(512), entropy real)", nil,
			))
			require.Equal(t, CodeOK, h.Exec(
				"insert into filetable(hash, filename, entropy) values ('aaaaaaaaaaaaaaaa', 'C:/Temp/usernames.txt', 1.35)", nil,
			))
			require.Equal(t, CodeOK, h.Exec(
				"insert into filetable(hash, filename, entropy) values ('BBBBBBBBBBBBBBBB', 'C:/Windows/system32/abc.dll', 6.0)", nil,
			))

			var rows []Row
			code := h.Exec("select hash, filename, entropy from filetable order by hash", collectRows(&rows))
			require.Equal(t, CodeOK, code)
			require.Len(t, rows, 2)

			assert.Equal(t, []string{"hash", "filename", "entropy"}, rows[0].Names())
			assert.Equal(t, Cell{Name: "hash", Text: "BBBBBBBBBBBBBBBB", Valid: true}, rows[0][0])
			assert.Equal(t, "6.0", rows[0][2].Text)
			assert.Equal(t, "C:/Temp/usernames.txt", rows[1][1].Text)
			assert.Equal(t, "1.35", rows[1][2].Text)
		})

		t.Run("NullCell", func(t *testing.T) {
			h := OpenHandle(":memory:", WithEngine(kind))
			defer h.Release()

			var rows []Row
			require.Equal(t, CodeOK, h.Exec("SELECT NULL AS n, 42 AS i", collectRows(&rows)))
			require.Len(t, rows, 1)

			cell, ok := rows[0].Lookup("n")
			assert.True(t, ok)
			assert.False(t, cell.Valid)

			cell, ok = rows[0].Lookup("i")
			assert.True(t, ok)
			assert.Equal(t, "42", cell.Text)

			_, ok = rows[0].Lookup("missing")
			assert.False(t, ok)
		})

		t.Run("MultipleStatements", func(t *testing.T) {
			h := OpenHandle(":memory:", WithEngine(kind))
			defer h.Release()

			var rows []Row
			code := h.Exec(`
				CREATE TABLE multi (id INTEGER PRIMARY KEY, val TEXT);
				INSERT INTO multi (val) VALUES ('one; two');
				INSERT INTO multi (val) VALUES ('three');
				SELECT val FROM multi ORDER BY id;
			`, collectRows(&rows))
			require.Equal(t, CodeOK, code)
			require.Len(t, rows, 2)
			assert.Equal(t, "one; two", rows[0][0].Text)
			assert.Equal(t, "three", rows[1][0].Text)
		})

		t.Run("TriggerWithCaseExpression", func(t *testing.T) {
			h := OpenHandle(":memory:", WithEngine(kind))
			defer h.Release()

			code := h.Exec(`
				CREATE TABLE a (x INTEGER);
				CREATE TABLE b (x INTEGER, y TEXT);
				CREATE TRIGGER tr AFTER INSERT ON a BEGIN
					INSERT INTO b (x) VALUES (new.x);
					UPDATE b SET y = CASE WHEN new.x > 0 THEN 'pos' ELSE 'neg' END WHERE x = new.x;
				END;
				INSERT INTO a VALUES (3);
				INSERT INTO a VALUES (-1);
			`, nil)
			require.Equal(t, CodeOK, code, h.LastErr())

			var rows []Row
			require.Equal(t, CodeOK, h.Exec("SELECT x, y FROM b ORDER BY x", collectRows(&rows)))
			require.Len(t, rows, 2)
			assert.Equal(t, "-1", rows[0][0].Text)
			assert.Equal(t, "neg", rows[0][1].Text)
			assert.Equal(t, "3", rows[1][0].Text)
			assert.Equal(t, "pos", rows[1][1].Text)
		})

		t.Run("DateTimeRoundTrip", func(t *testing.T) {
			h := OpenHandle(":memory:", WithEngine(kind))
			defer h.Release()

			require.Equal(t, CodeOK, h.Exec(`
				CREATE TABLE events (at DATETIME, day DATE);
				INSERT INTO events VALUES ('2024-01-01 10:00:00', '2024-01-01 00:00:00');
				INSERT INTO events VALUES ('2024-05-01 10:30:00.250', '2024-05-01 00:00:00');
			`, nil))

			var rows []Row
			require.Equal(t, CodeOK, h.Exec("SELECT at, day FROM events ORDER BY at", collectRows(&rows)))
			require.Len(t, rows, 2)
			assert.Equal(t, "2024-01-01 10:00:00", rows[0][0].Text)
			assert.Equal(t, "2024-01-01 00:00:00", rows[0][1].Text)
			assert.Equal(t, "2024-05-01 10:30:00.250", rows[1][0].Text)
		})

		t.Run("StopsAtFirstFailure", func(t *testing.T) {
			h := OpenHandle(":memory:", WithEngine(kind))
			defer h.Release()

			code := h.Exec(`
				CREATE TABLE t (x UNIQUE);
				INSERT INTO t VALUES (1);
				INSERT INTO t VALUES (1);
				INSERT INTO t VALUES (2);
			`, nil)
			assert.Equal(t, CodeConstraint, code)

			var rows []Row
			require.Equal(t, CodeOK, h.Exec("SELECT x FROM t", collectRows(&rows)))
			assert.Len(t, rows, 1)
		})

		t.Run("SyntaxError", func(t *testing.T) {
			h := OpenHandle(":memory:", WithEngine(kind))
			defer h.Release()

			code := h.Exec("SELEC 1", nil)
			assert.Equal(t, CodeError, code)
			assert.Equal(t, "SQL logic error", h.LastErrorMessage())
			assert.Contains(t, h.LastErr().Error(), "syntax error")
		})

		t.Run("ValidConflatesOpenAndLastStatus", func(t *testing.T) {
			h := OpenHandle(":memory:", WithEngine(kind))
			defer h.Release()

			h.Exec("SELECT * FROM does_not_exist", nil)
			assert.False(t, h.IsValid())
			assert.True(t, h.IsOpen())
			assert.False(t, h.LastOpSucceeded())

			h.Exec("SELECT 1", nil)
			assert.True(t, h.IsValid())
		})

		t.Run("VisitorAborts", func(t *testing.T) {
			h := OpenHandle(":memory:", WithEngine(kind))
			defer h.Release()

			stop := errors.New("enough")
			calls := 0
			code := h.Exec(
				"WITH RECURSIVE c(x) AS (SELECT 1 UNION ALL SELECT x+1 FROM c LIMIT 10) SELECT x FROM c",
				RowVisitorFunc(func(row Row) error {
					calls++
					if calls == 3 {
						return stop
					}
					return nil
				}),
			)
			assert.Equal(t, CodeAbort, code)
			assert.Equal(t, 3, calls)
			assert.ErrorIs(t, h.LastErr(), stop)
		})

		t.Run("MoveTransfersOwnership", func(t *testing.T) {
			src := OpenHandle(":memory:", WithEngine(kind))
			require.Equal(t, CodeOK, src.Exec("CREATE TABLE t (x)", nil))

			dst := src.Move()
			defer dst.Release()

			assert.False(t, src.IsOpen())
			assert.Equal(t, CodeOK, src.LastError())
			assert.Equal(t, CodeOK, src.Close())

			assert.True(t, dst.IsValid())
			assert.Equal(t, CodeOK, dst.Exec("INSERT INTO t VALUES (1)", nil))
			assert.Equal(t, CodeMisuse, src.Exec("INSERT INTO t VALUES (1)", nil))
		})

		t.Run("UnicodeRoundTrip", func(t *testing.T) {
			h := OpenHandle(":memory:", WithEngine(kind))
			defer h.Release()

			value := "Zürich – 東京 – Ελλάδα – it's 🙂"
			require.Equal(t, CodeOK, h.Exec("CREATE TABLE u (v TEXT)", nil))
			require.Equal(t, CodeOK, h.Exec("INSERT INTO u VALUES ("+QuoteLiteral(value)+")", nil))

			var rows []Row
			require.Equal(t, CodeOK, h.Exec("SELECT v FROM u", collectRows(&rows)))
			require.Len(t, rows, 1)
			assert.Equal(t, []byte(value), []byte(rows[0][0].Text))
		})

		t.Run("UpdateAndRead", func(t *testing.T) {
			h := OpenHandle(":memory:", WithEngine(kind))
			defer h.Release()

			value := uuid.NewString()
			require.Equal(t, CodeOK, h.Exec("CREATE TABLE upd (id INTEGER PRIMARY KEY, val TEXT)", nil))
			require.Equal(t, CodeOK, h.Exec("INSERT INTO upd (val) VALUES ('original')", nil))
			require.Equal(t, CodeOK, h.Exec("UPDATE upd SET val="+QuoteLiteral(value)+" WHERE id=1", nil))

			var rows []Row
			require.Equal(t, CodeOK, h.Exec("SELECT val FROM upd", collectRows(&rows)))
			require.Len(t, rows, 1)
			assert.Equal(t, value, rows[0][0].Text)
		})

		t.Run("Version", func(t *testing.T) {
			h := OpenHandle(":memory:", WithEngine(kind))
			defer h.Release()

			version, err := h.Version()
			assert.NoError(t, err)
			assert.Regexp(t, `^3\.\d+\.\d+$`, version)
		})

		t.Run("ThreadingMode", func(t *testing.T) {
			mode, err := EngineThreadingMode(kind)
			assert.NoError(t, err)
			assert.NotEmpty(t, mode.Value)
		})
	})
}

func TestOpenMattnCantOpen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file"), nil, 0o644))

	h := NewHandle(WithEngine(EngineMattn))
	code := h.Open(filepath.Join(dir, "file", "child.db"))
	assert.Equal(t, CodeCantOpen, code)
	assert.Equal(t, "unable to open database file", h.LastErrorMessage())
}

func TestIsThreadsafe(t *testing.T) {
	assert.True(t, IsThreadsafe())

	mode, err := EngineThreadingMode(EngineMattn)
	require.NoError(t, err)
	assert.Equal(t, ThreadingSerialized, mode)
}

func TestParseEngineKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    EngineKind
		wantErr bool
	}{
		{name: "mattn", input: "mattn", want: EngineMattn},
		{name: "modernc mixed case", input: " Modernc ", want: EngineModernc},
		{name: "unknown", input: "duckdb", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEngineKind(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypedColumnsPerEngine(t *testing.T) {
	const setup = `
		CREATE TABLE t (d DATETIME, b BOOLEAN, ts TIMESTAMP);
		INSERT INTO t VALUES ('2024-01-01 10:00:00', 5, 1700000000);
	`

	tests := []struct {
		kind EngineKind
		want []string
	}{
		// mattn turns integers in BOOLEAN and TIMESTAMP columns into Go values.
		{kind: EngineMattn, want: []string{"2024-01-01 10:00:00", "1", "2023-11-14 22:13:20"}},
		{kind: EngineModernc, want: []string{"2024-01-01 10:00:00", "5", "1700000000"}},
	}

	for _, tt := range tests {
		t.Run(tt.kind.Value, func(t *testing.T) {
			h := OpenHandle(":memory:", WithEngine(tt.kind))
			defer h.Release()

			require.Equal(t, CodeOK, h.Exec(setup, nil))

			var rows []Row
			require.Equal(t, CodeOK, h.Exec("SELECT d, b, ts FROM t", collectRows(&rows)))
			require.Len(t, rows, 1)

			got := make([]string, len(rows[0]))
			for i, cell := range rows[0] {
				got[i] = cell.Text
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
