package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Database is a Store backed by a SQLite file. Rows keep a position column
// so listings come back in insertion order.
type Database struct {
	db *sql.DB
}

// NewDatabase opens (or creates) the SQLite database at dbPath and applies
// schema migrations.
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create db dir")
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Database{db: db}, nil
}

// Close closes the DB.
func (d *Database) Close() error { return d.db.Close() }

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return errors.Wrap(err, "create meta table")
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin migration")
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
            book_id TEXT PRIMARY KEY,
            position INTEGER NOT NULL,
            name TEXT NOT NULL,
            author TEXT NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity >= 0)
        );`,
		`CREATE TABLE IF NOT EXISTS users (
            user_id TEXT PRIMARY KEY,
            position INTEGER NOT NULL,
            name TEXT NOT NULL
        );`,
		// Borrowed books carry their own copy of the book columns.
		`CREATE TABLE IF NOT EXISTS borrowed_books (
            user_id TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
            position INTEGER NOT NULL,
            book_id TEXT NOT NULL,
            name TEXT NOT NULL,
            author TEXT NOT NULL,
            quantity INTEGER NOT NULL,
            borrow_date TEXT NOT NULL,
            PRIMARY KEY (user_id, position)
        );`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return errors.Wrap(err, "apply migration")
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return errors.Wrap(err, "record schema version")
	}

	return errors.Wrap(tx.Commit(), "commit migration")
}

// Load reads every table back into a LibraryData snapshot.
func (d *Database) Load() (*LibraryData, error) {
	data := &LibraryData{}

	rows, err := d.db.Query(`SELECT book_id,name,author,quantity FROM books ORDER BY position`)
	if err != nil {
		return nil, errors.Wrap(err, "query books")
	}
	defer rows.Close()
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Quantity); err != nil {
			return nil, errors.Wrap(err, "scan book")
		}
		data.Books = append(data.Books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate books")
	}

	urows, err := d.db.Query(`SELECT user_id,name FROM users ORDER BY position`)
	if err != nil {
		return nil, errors.Wrap(err, "query users")
	}
	defer urows.Close()
	index := make(map[string]int)
	for urows.Next() {
		var u User
		if err := urows.Scan(&u.ID, &u.Name); err != nil {
			return nil, errors.Wrap(err, "scan user")
		}
		index[u.ID] = len(data.Users)
		data.Users = append(data.Users, u)
	}
	if err := urows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate users")
	}

	brows, err := d.db.Query(`SELECT user_id,book_id,name,author,quantity,borrow_date FROM borrowed_books ORDER BY user_id, position`)
	if err != nil {
		return nil, errors.Wrap(err, "query borrowed books")
	}
	defer brows.Close()
	for brows.Next() {
		var (
			userID, date string
			rec          BorrowRecord
		)
		if err := brows.Scan(&userID, &rec.Book.ID, &rec.Book.Title, &rec.Book.Author, &rec.Book.Quantity, &date); err != nil {
			return nil, errors.Wrap(err, "scan borrowed book")
		}
		if rec.BorrowedAt, err = ParseDate(date); err != nil {
			return nil, err
		}
		i, ok := index[userID]
		if !ok {
			return nil, errors.Errorf("borrowed book %s references unknown user %s", rec.Book.ID, userID)
		}
		data.Users[i].BorrowedBooks = append(data.Users[i].BorrowedBooks, rec)
	}
	if err := brows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate borrowed books")
	}
	return data, nil
}

// Save replaces the stored state with data in one transaction.
func (d *Database) Save(data *LibraryData) error {
	tx, err := d.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin save")
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM borrowed_books`, `DELETE FROM users`, `DELETE FROM books`} {
		if _, err := tx.Exec(stmt); err != nil {
			return errors.Wrap(err, "clear tables")
		}
	}

	for i, b := range data.Books {
		if _, err := tx.Exec(`INSERT INTO books(book_id,position,name,author,quantity) VALUES(?,?,?,?,?)`,
			b.ID, i, b.Title, b.Author, b.Quantity); err != nil {
			return errors.Wrapf(err, "insert book %s", b.ID)
		}
	}
	for i, u := range data.Users {
		if _, err := tx.Exec(`INSERT INTO users(user_id,position,name) VALUES(?,?,?)`, u.ID, i, u.Name); err != nil {
			return errors.Wrapf(err, "insert user %s", u.ID)
		}
		for j, rec := range u.BorrowedBooks {
			if _, err := tx.Exec(`INSERT INTO borrowed_books(user_id,position,book_id,name,author,quantity,borrow_date) VALUES(?,?,?,?,?,?,?)`,
				u.ID, j, rec.Book.ID, rec.Book.Title, rec.Book.Author, rec.Book.Quantity, rec.BorrowedAt.String()); err != nil {
				return errors.Wrapf(err, "insert borrowed book %s for %s", rec.Book.ID, u.ID)
			}
		}
	}
	return errors.Wrap(tx.Commit(), "commit save")
}
