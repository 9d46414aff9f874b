package collector

import (
	"testing"

	"github.com/nsqlite/sqlitehelper/internal/sqlitec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFiletable(t *testing.T) *sqlitec.Handle {
	t.Helper()

	h := sqlitec.OpenHandle(":memory:")
	t.Cleanup(h.Release)

	require.Equal(t, sqlitec.CodeOK, h.Exec(
		"create table filetable(hash varchar(16), filename varchar(512), entropy real)", nil,
	))
	return h
}

func TestCollector(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		h := openFiletable(t)
		require.Equal(t, sqlitec.CodeOK, h.Exec(
			"insert into filetable(hash, filename, entropy) values ('aaaaaaaaaaaaaaaa', 'a.txt', 1.35)", nil,
		))

		c := New("filename", "entropy")
		require.Equal(t, sqlitec.CodeOK, h.Exec("select filename, entropy from filetable", c))

		entry, ok := c.Lookup("a.txt")
		assert.True(t, ok)
		assert.Equal(t, 1.35, entry.Value)
		assert.True(t, entry.Parsed)
	})

	t.Run("NonNumericUsesSentinel", func(t *testing.T) {
		h := openFiletable(t)
		require.Equal(t, sqlitec.CodeOK, h.Exec(`
			insert into filetable(filename, entropy) values ('empty.txt', '');
			insert into filetable(filename, entropy) values ('text.txt', 'high');
			insert into filetable(filename, entropy) values ('null.txt', NULL);
			insert into filetable(filename, entropy) values ('minus.txt', -1);
		`, nil))

		c := New("filename", "entropy")
		require.Equal(t, sqlitec.CodeOK, h.Exec("select filename, entropy from filetable", c))
		require.Equal(t, 4, c.Len())

		for _, key := range []string{"empty.txt", "text.txt", "null.txt"} {
			entry, ok := c.Lookup(key)
			assert.True(t, ok, key)
			assert.Equal(t, Sentinel, entry.Value, key)
			assert.False(t, entry.Parsed, key)
		}

		entry, _ := c.Lookup("minus.txt")
		assert.Equal(t, Sentinel, entry.Value)
		assert.True(t, entry.Parsed)
	})

	t.Run("OverwritesAndOrdersByKey", func(t *testing.T) {
		h := openFiletable(t)
		require.Equal(t, sqlitec.CodeOK, h.Exec(`
			insert into filetable(filename, entropy) values ('b', 2.5);
			insert into filetable(filename, entropy) values ('a', 1);
			insert into filetable(filename, entropy) values ('b', 7.25);
		`, nil))

		c := New("filename", "entropy")
		require.Equal(t, sqlitec.CodeOK, h.Exec("select filename, entropy from filetable order by rowid", c))

		assert.Equal(t, []Entry{
			{Key: "a", Value: 1, Parsed: true},
			{Key: "b", Value: 7.25, Parsed: true},
		}, c.Table())
	})

	t.Run("AccumulatesUntilReset", func(t *testing.T) {
		h := openFiletable(t)
		require.Equal(t, sqlitec.CodeOK, h.Exec(
			"insert into filetable(hash, filename, entropy) values ('h1', 'x', 3)", nil,
		))

		c := New("filename", "entropy")
		require.Equal(t, sqlitec.CodeOK, h.Exec("select filename, entropy from filetable", c))
		require.Equal(t, sqlitec.CodeOK, h.Exec("select 'y' as filename, 4 as entropy", c))
		assert.Equal(t, 2, c.Len())

		c.Reset()
		assert.Equal(t, 0, c.Len())
		assert.Empty(t, c.Table())
	})

	t.Run("ShapeMismatchPanics", func(t *testing.T) {
		h := openFiletable(t)
		require.Equal(t, sqlitec.CodeOK, h.Exec(
			"insert into filetable(hash, filename, entropy) values ('h1', 'x', 3)", nil,
		))

		c := New("filename", "entropy")
		require.Equal(t, sqlitec.CodeOK, h.Exec("select filename, entropy from filetable", c))

		assert.PanicsWithError(t,
			"unexpected result columns: want [filename, entropy], got [hash, filename, entropy]",
			func() {
				h.Exec("select hash, filename, entropy from filetable", c)
			},
		)
		assert.Panics(t, func() {
			h.Exec("select entropy, filename from filetable", c)
		})

		// The handle stays usable after the panic unwound through Exec.
		assert.Equal(t, sqlitec.CodeOK, h.Exec("select 1", nil))
	})
}
