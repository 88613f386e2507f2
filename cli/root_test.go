package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"library-tracker/config"
	"library-tracker/library"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func testConfig(t *testing.T, backend, file string) config.Config {
	t.Helper()
	cfg := config.Config{LoanPeriodDays: 30}
	cfg.Storage.Backend = backend
	cfg.Storage.DataFile = filepath.Join(t.TempDir(), file)
	cfg.Log.Level = zapcore.ErrorLevel
	return cfg
}

func run(t *testing.T, cfg config.Config, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := Execute(cfg, args, strings.NewReader(stdin), &out)
	return out.String(), err
}

func TestCommands(t *testing.T) {
	for _, tc := range []struct{ backend, file string }{
		{library.BackendFile, "library_data.json"},
		{library.BackendFile, "library_data.yaml"},
		{library.BackendSQLite, "library.db"},
	} {
		t.Run(tc.backend+"/"+tc.file, func(t *testing.T) {
			cfg := testConfig(t, tc.backend, tc.file)

			out, err := run(t, cfg, "", "book", "add", "B1", "Dune", "Frank Herbert", "1")
			require.NoError(t, err)
			assert.Contains(t, out, "Book added successfully!")

			_, err = run(t, cfg, "", "user", "add", "U1", "Alice")
			require.NoError(t, err)

			out, err = run(t, cfg, "", "borrow", "U1", "B1")
			require.NoError(t, err)
			assert.Contains(t, out, "Book borrowed successfully!")

			_, err = run(t, cfg, "", "borrow", "U1", "B1")
			require.ErrorIs(t, err, library.ErrOutOfStock)

			out, err = run(t, cfg, "", "user", "books", "U1")
			require.NoError(t, err)
			assert.Contains(t, out, "ID: B1, Title: Dune")

			_, err = run(t, cfg, "", "user", "delete", "U1")
			require.ErrorIs(t, err, library.ErrHasBorrowedBooks)

			out, err = run(t, cfg, "", "return", "U1", "B1")
			require.NoError(t, err)
			assert.Contains(t, out, "Book returned successfully!")
			assert.NotContains(t, out, "late")

			out, err = run(t, cfg, "", "book", "list")
			require.NoError(t, err)
			assert.Equal(t, "ID: B1, Title: Dune, Author: Frank Herbert, Quantity: 1\n", out)

			_, err = run(t, cfg, "", "user", "delete", "U1")
			require.NoError(t, err)

			out, err = run(t, cfg, "", "user", "list")
			require.NoError(t, err)
			assert.Equal(t, library.NoUsersMessage+"\n", out)
		})
	}
}

func TestCommandErrors(t *testing.T) {
	cfg := testConfig(t, library.BackendFile, "library_data.json")

	_, err := run(t, cfg, "", "book", "add", "B1", "Dune", "Frank Herbert", "lots")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid quantity")

	_, err = run(t, cfg, "", "book", "add", "B1", "Dune")
	require.Error(t, err)

	_, err = run(t, cfg, "", "return", "U1", "B1")
	require.ErrorIs(t, err, library.ErrUserNotFound)

	_, err = run(t, cfg, "", "--backend", "tape", "book", "list")
	require.Error(t, err)

	_, err = run(t, cfg, "", "--log-level", "loud", "book", "list")
	require.Error(t, err)
}

func TestDataFlagOverridesConfig(t *testing.T) {
	cfg := testConfig(t, library.BackendFile, "library_data.json")
	other := filepath.Join(t.TempDir(), "other.json")

	_, err := run(t, cfg, "", "--data", other, "user", "add", "U1", "Alice")
	require.NoError(t, err)

	out, err := run(t, cfg, "", "user", "list")
	require.NoError(t, err)
	assert.Equal(t, library.NoUsersMessage+"\n", out)

	mgr, err := library.NewLibraryManager(library.NewFileStore(other), zap.NewNop())
	require.NoError(t, err)
	_, err = mgr.GetUser("U1")
	require.NoError(t, err)
}

func TestRootRunsShell(t *testing.T) {
	cfg := testConfig(t, library.BackendFile, "library_data.json")

	out, err := run(t, cfg, "3\nU1\nAlice\n5\n9\n")
	require.NoError(t, err)
	assert.Contains(t, out, "User added successfully!")
	assert.Contains(t, out, "ID: U1, Name: Alice, Borrowed: 0")
	assert.NotContains(t, out, "Welcome")
}
