package library

import (
	"fmt"
	"iter"
)

// Messages yielded by the listings when there is nothing to show.
const (
	NoBooksMessage         = "There are no books in the library."
	NoUsersMessage         = "There are no registered users."
	NoBorrowedBooksMessage = "This user has no borrowed books."
)

// PrettyBook formats a book for lists.
func PrettyBook(b Book) string {
	return fmt.Sprintf("ID: %s, Title: %s, Author: %s, Quantity: %d", b.ID, b.Title, b.Author, b.Quantity)
}

// PrettyUser formats a user for lists.
func PrettyUser(u User) string {
	return fmt.Sprintf("ID: %s, Name: %s, Borrowed: %d", u.ID, u.Name, len(u.BorrowedBooks))
}

// PrettyBorrowRecord formats a borrowed book using its snapshot.
func PrettyBorrowRecord(r BorrowRecord) string {
	return fmt.Sprintf("ID: %s, Title: %s, Author: %s, Borrowed: %s", r.Book.ID, r.Book.Title, r.Book.Author, r.BorrowedAt)
}

// ListBooks yields one line per book, or NoBooksMessage when the catalog is
// empty. Every iteration reads the current state.
func (lm *LibraryManager) ListBooks() iter.Seq[string] {
	return func(yield func(string) bool) {
		if len(lm.bookOrder) == 0 {
			yield(NoBooksMessage)
			return
		}
		for b := range lm.Books() {
			if !yield(PrettyBook(b)) {
				return
			}
		}
	}
}

// ListUsers yields one line per user, or NoUsersMessage.
func (lm *LibraryManager) ListUsers() iter.Seq[string] {
	return func(yield func(string) bool) {
		if len(lm.userOrder) == 0 {
			yield(NoUsersMessage)
			return
		}
		for u := range lm.Users() {
			if !yield(PrettyUser(u)) {
				return
			}
		}
	}
}

// ListUserBooks yields the books held by a user, or NoBorrowedBooksMessage.
func (lm *LibraryManager) ListUserBooks(id string) (iter.Seq[string], error) {
	if _, err := lm.GetUser(id); err != nil {
		return nil, err
	}
	return func(yield func(string) bool) {
		u, ok := lm.users[id]
		if !ok || len(u.BorrowedBooks) == 0 {
			yield(NoBorrowedBooksMessage)
			return
		}
		for _, rec := range u.BorrowedBooks {
			if !yield(PrettyBorrowRecord(rec)) {
				return
			}
		}
	}, nil
}
