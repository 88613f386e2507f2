package library

import "errors"

// Domain errors. They are reported to the operator and never abort the
// program.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrBookNotFound     = errors.New("book not found")
	ErrOutOfStock       = errors.New("book is out of stock")
	ErrHasBorrowedBooks = errors.New("user still has borrowed books")
	ErrNotBorrowed      = errors.New("book was not borrowed by this user")
	ErrDuplicateBook    = errors.New("a book with this id already exists")
	ErrDuplicateUser    = errors.New("a user with this id already exists")
	ErrInvalidInput     = errors.New("invalid input")
)
