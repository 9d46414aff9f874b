package sqlitehelper

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nsqlite/sqlitehelper/internal/filetable"
	"github.com/nsqlite/sqlitehelper/internal/log"
	"github.com/nsqlite/sqlitehelper/internal/sqlitec"
	"github.com/nsqlite/sqlitehelper/internal/sqlitehelper/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T, kind sqlitec.EngineKind) config.Config {
	t.Helper()
	return config.Config{
		Database:   filepath.Join(t.TempDir(), "files.db"),
		EngineKind: kind,
	}
}

func TestRunIndexAndReport(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "flat.txt"), []byte("aaaa"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "hello.txt"), []byte("hello world"), 0o644))

	conf := newTestConfig(t, sqlitec.EngineMattn)
	conf.Index = &config.IndexCmd{Root: root, Workers: 2, NoProgress: true}

	out := &bytes.Buffer{}
	require.NoError(t, runIndex(context.Background(), conf, log.NewNopLogger(), out))
	assert.Contains(t, out.String(), "Indexed 2 files (15 B) into "+conf.Database)

	out.Reset()
	require.NoError(t, runReport(conf, log.NewNopLogger(), out))
	text := out.String()
	assert.Contains(t, text, "Filename")
	assert.Contains(t, text, filepath.ToSlash(filepath.Join(root, "flat.txt")))
	assert.Contains(t, text, filepath.ToSlash(filepath.Join(root, "hello.txt")))
	assert.Contains(t, text, "0.0000")
	assert.Contains(t, text, "Files")
}

func TestRunReportWithoutTable(t *testing.T) {
	conf := newTestConfig(t, sqlitec.EngineMattn)

	err := runReport(conf, log.NewNopLogger(), &bytes.Buffer{})
	var statusErr *filetable.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, sqlitec.CodeError, statusErr.Code)
}

func TestRunReportCantOpen(t *testing.T) {
	conf := newTestConfig(t, sqlitec.EngineMattn)
	conf.Database = filepath.Join(t.TempDir(), "missing", "files.db")

	err := runReport(conf, log.NewNopLogger(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't open database")
}

func TestRunInfo(t *testing.T) {
	for _, kind := range sqlitec.EngineKinds.Members() {
		t.Run(kind.Value, func(t *testing.T) {
			conf := newTestConfig(t, kind)

			out := &bytes.Buffer{}
			require.NoError(t, runInfo(conf, log.NewNopLogger(), out))

			text := out.String()
			assert.Contains(t, text, "Threading mode")
			assert.Contains(t, text, kind.Value)
			assert.Contains(t, text, "3.")
			assert.Contains(t, text, conf.Database)
		})
	}

	t.Run("mattn is serialized", func(t *testing.T) {
		out := &bytes.Buffer{}
		require.NoError(t, runInfo(newTestConfig(t, sqlitec.EngineMattn), log.NewNopLogger(), out))
		assert.Contains(t, out.String(), "serialized")
		assert.Contains(t, out.String(), "true")
	})
}
