package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"library-tracker/library"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T, opts ...library.Option) *library.LibraryManager {
	t.Helper()
	store := library.NewFileStore(filepath.Join(t.TempDir(), "library_data.json"))
	mgr, err := library.NewLibraryManager(store, zap.NewNop(), opts...)
	require.NoError(t, err)
	return mgr
}

func runShell(t *testing.T, mgr *library.LibraryManager, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	NewShell(in, &out, mgr, zap.NewNop()).Run()
	return out.String()
}

func TestShellBorrowScenario(t *testing.T) {
	mgr := newTestManager(t)
	out := runShell(t, mgr,
		"1", "B1", "Dune", "Frank Herbert", "2",
		"3", "U1", "Alice",
		"6", "U1", "B1",
		"6", "U1", "B1",
		"6", "U1", "B1",
		"2",
		"9",
	)

	assert.Contains(t, out, "Book added successfully!")
	assert.Contains(t, out, "User added successfully!")
	assert.Equal(t, 2, strings.Count(out, "Book borrowed successfully!"))
	assert.Contains(t, out, "out of stock")
	assert.Contains(t, out, "Books in the library:\nID: B1, Title: Dune, Author: Frank Herbert, Quantity: 0")
	assert.True(t, strings.HasSuffix(out, "Exiting the program...\n"))
}

func TestShellInvalidQuantityIsRetried(t *testing.T) {
	mgr := newTestManager(t)
	out := runShell(t, mgr,
		"1", "B1", "Dune", "Frank Herbert", "two", "-1", "3",
		"9",
	)

	assert.Equal(t, 2, strings.Count(out, "Invalid quantity"))
	b, err := mgr.GetBook("B1")
	require.NoError(t, err)
	assert.Equal(t, 3, b.Quantity)
}

func TestShellUnknownChoiceShowsMenuAgain(t *testing.T) {
	mgr := newTestManager(t)
	out := runShell(t, mgr, "42", "9")

	assert.Contains(t, out, "Invalid option, please try again.")
	assert.Equal(t, 2, strings.Count(out, "1. Add book"))
}

func TestShellEndOfInputStops(t *testing.T) {
	mgr := newTestManager(t)
	out := runShell(t, mgr, "1", "B1", "Dune")

	assert.NotContains(t, out, "Book added successfully!")
	_, err := mgr.GetBook("B1")
	require.ErrorIs(t, err, library.ErrBookNotFound)
}

func TestShellReturnAndDelete(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	clock := func() time.Time { return now }
	mgr := newTestManager(t, library.WithClock(clock))

	require.NoError(t, mgr.AddBook("B1", "Dune", "Frank Herbert", 1))
	require.NoError(t, mgr.AddBook("B2", "Emma", "Jane Austen", 1))
	require.NoError(t, mgr.AddUser("U1", "Alice"))
	_, err := mgr.BorrowBook("U1", "B1")
	require.NoError(t, err)

	out := runShell(t, mgr,
		"7", "U1", "B2",
		"4", "U1",
		"8", "U1",
		"9",
	)
	assert.Contains(t, out, "not borrowed")
	assert.Contains(t, out, "still has borrowed books")
	assert.Contains(t, out, "Books borrowed by Alice:")
	assert.Contains(t, out, "ID: B1, Title: Dune, Author: Frank Herbert, Borrowed: 2024-01-01")

	now = now.Add(31 * 24 * time.Hour)
	out = runShell(t, mgr,
		"7", "U1", "B1",
		"8", "U1",
		"4", "U1",
		"5",
		"9",
	)
	assert.Contains(t, out, "Warning: this book is being returned 31 days late!")
	assert.Contains(t, out, "Book returned successfully!")
	assert.Contains(t, out, library.NoBorrowedBooksMessage)
	assert.Contains(t, out, "User deleted successfully!")
	assert.Contains(t, out, library.NoUsersMessage)
	assert.NotContains(t, out, "Registered users:")

	b, err := mgr.GetBook("B1")
	require.NoError(t, err)
	assert.Equal(t, 1, b.Quantity)
}

func TestShellUnknownUser(t *testing.T) {
	mgr := newTestManager(t)
	out := runShell(t, mgr,
		"4", "U9",
		"8", "U9",
		"6", "U9", "B1",
		"9",
	)
	assert.Equal(t, 3, strings.Count(out, "user not found"))
}

func TestShellListHeadings(t *testing.T) {
	mgr := newTestManager(t)
	out := runShell(t, mgr, "2", "5", "9")
	assert.Contains(t, out, library.NoBooksMessage)
	assert.NotContains(t, out, "Books in the library:")

	require.NoError(t, mgr.AddUser("U1", "Alice"))
	out = runShell(t, mgr, "5", "9")
	assert.Contains(t, out, "Registered users:\nID: U1, Name: Alice, Borrowed: 0")
}
