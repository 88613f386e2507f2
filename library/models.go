package library

// Book is a catalog record. Quantity is the number of copies on the shelf.
// The title is persisted under "name" so existing state files keep loading.
type Book struct {
	ID       string `json:"book_id" yaml:"book_id" validate:"required"`
	Title    string `json:"name" yaml:"name"`
	Author   string `json:"author" yaml:"author"`
	Quantity int    `json:"quantity" yaml:"quantity" validate:"min=0"`
}

// User represents a registered patron and the books they currently hold.
type User struct {
	ID            string         `json:"user_id" yaml:"user_id" validate:"required"`
	Name          string         `json:"name" yaml:"name"`
	BorrowedBooks []BorrowRecord `json:"borrowed_books" yaml:"borrowed_books"`
}

// BorrowRecord links a snapshot of a book, taken when it was lent, to the
// borrow date. The snapshot is a copy and never follows later catalog edits.
type BorrowRecord struct {
	Book       Book `json:"book" yaml:"book"`
	BorrowedAt Date `json:"borrow_date" yaml:"borrow_date"`
}

// Return describes a completed return.
type Return struct {
	Record  BorrowRecord
	DaysOut int
	Late    bool
}

// LibraryData represents the complete library state for persistence
type LibraryData struct {
	Books []Book `json:"books" yaml:"books"`
	Users []User `json:"users" yaml:"users"`
}

func (u User) clone() User {
	c := u
	c.BorrowedBooks = make([]BorrowRecord, len(u.BorrowedBooks))
	copy(c.BorrowedBooks, u.BorrowedBooks)
	return c
}
