package main

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dbtypegen/compiler/load"
)

const treeYAML = `schemas:
  - name: public
    tables:
      - name: users
        selectable_columns:
          - name: id
            type: number
        insertable_columns:
          - name: id
            type: number
            optional: true
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	tree := filepath.Join(dir, "tree.yaml")
	require.NoError(t, os.WriteFile(tree, []byte(treeYAML), 0o644))
	config := filepath.Join(dir, "dbtypegen.yaml")
	require.NoError(t, os.WriteFile(config, []byte("output_dir: out\nschema_file: tree.yaml\ncustomizable_tables:\n  public: all\n"), 0o644))

	t.Run("dry run", func(t *testing.T) {
		out, err := execute(t, "generate", "--config", config, "--dry-run")
		require.NoError(t, err)
		assert.Contains(t, out, "would write generated/kysely.ts\n")
		assert.NoDirExists(t, filepath.Join(dir, "out"))
	})

	t.Run("writes", func(t *testing.T) {
		out, err := execute(t, "generate", "--config", config)
		require.NoError(t, err)
		assert.Contains(t, out, "wrote generated/public/Users.ts\n")
		assert.Contains(t, out, "wrote custom/public/UsersCustomTypes.ts\n")
		assert.FileExists(t, filepath.Join(dir, "out", "generated", "index.ts"))
	})

	t.Run("keeps customization files", func(t *testing.T) {
		out, err := execute(t, "generate", "--config", config, "--feature", "knex")
		require.NoError(t, err)
		assert.Contains(t, out, "kept custom/public/UsersCustomTypes.ts\n")
		assert.Contains(t, out, "wrote generated/knex.ts\n")
	})

	t.Run("flags override", func(t *testing.T) {
		other := filepath.Join(t.TempDir(), "other")
		_, err := execute(t, "generate", "--config", config, "--output-dir", other)
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(other, "generated", "kysely.ts"))
	})

	t.Run("without schema file", func(t *testing.T) {
		bare := filepath.Join(t.TempDir(), "bare.yaml")
		require.NoError(t, os.WriteFile(bare, []byte("output_dir: out\n"), 0o644))
		_, err := execute(t, "generate", "--config", bare)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema-file")
	})

	t.Run("unknown feature", func(t *testing.T) {
		_, err := execute(t, "generate", "--config", config, "--feature", "graphql")
		require.Error(t, err)
	})
}

func TestIntrospectCommand(t *testing.T) {
	dir := t.TempDir()
	dsn := "file:" + filepath.Join(dir, "app.db")
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE order_items (id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT, sku TEXT NOT NULL, note TEXT)")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	t.Run("stdout", func(t *testing.T) {
		out, err := execute(t, "introspect", "--driver", "sqlite", "--dsn", dsn)
		require.NoError(t, err)
		tree, err := load.Unmarshal([]byte(out), load.FormatYAML)
		require.NoError(t, err)
		s, ok := tree.Schema("main")
		require.True(t, ok)
		_, ok = s.Table("order_items")
		assert.True(t, ok)
	})

	t.Run("file then generate", func(t *testing.T) {
		treeFile := filepath.Join(dir, "tree.msgpack")
		_, err := execute(t, "introspect", "--driver", "sqlite", "--dsn", dsn, "--schemas", "main", "--out", treeFile)
		require.NoError(t, err)

		config := filepath.Join(dir, "dbtypegen.yaml")
		require.NoError(t, os.WriteFile(config, []byte("output_dir: out\nschema_file: tree.msgpack\nmain_schema: main\n"), 0o644))
		_, err = execute(t, "generate", "-c", config)
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, "out", "generated", "main", "OrderItemsQueryTypes.ts"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "  note: string | null\n")
		assert.Contains(t, string(data), "  id?: number\n")
	})

	t.Run("missing dsn", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		_, err := execute(t, "introspect", "--driver", "sqlite")
		require.Error(t, err)
	})

	t.Run("unsupported driver", func(t *testing.T) {
		_, err := execute(t, "introspect", "--driver", "oracle", "--dsn", "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported dialect")
	})
}

func TestWatchFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tree.yaml")
	require.NoError(t, os.WriteFile(file, []byte(treeYAML), 0o644))

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	go func() {
		done <- watchFiles(ctx, log, []string{file}, 50*time.Millisecond, func(context.Context) {
			calls.Add(1)
		})
	}()
	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)

	// Unrelated files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, calls.Load())

	// A burst of writes triggers a single run.
	for i := range 3 {
		require.NoError(t, os.WriteFile(file, []byte(treeYAML+strings.Repeat("\n", i)), 0o644))
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
