package cli

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"library-tracker/library"

	"go.uber.org/zap"
)

const menu = `
1. Add book
2. List books
3. Add user
4. Delete user
5. List users
6. Borrow book
7. Return book
8. List a user's borrowed books
9. Exit`

// Shell is the numbered-menu interface. It reads one line per prompt and
// runs until the exit choice or the end of input.
type Shell struct {
	sc     *bufio.Scanner
	out    io.Writer
	mgr    *library.LibraryManager
	log    *zap.Logger
	banner bool
}

// NewShell returns a shell reading from in and writing to out.
func NewShell(in io.Reader, out io.Writer, mgr *library.LibraryManager, log *zap.Logger) *Shell {
	return &Shell{
		sc:  bufio.NewScanner(in),
		out: out,
		mgr: mgr,
		log: log.Named("shell"),
	}
}

// WithBanner turns the welcome text on or off.
func (s *Shell) WithBanner(on bool) *Shell {
	s.banner = on
	return s
}

// Run shows the menu and dispatches choices until exit.
func (s *Shell) Run() {
	if s.banner {
		s.println("Welcome to the Library Management System!")
	}

	for {
		s.println(menu)
		choice, ok := s.prompt("Choose an option: ")
		if !ok {
			s.log.Debug("input closed")
			return
		}

		switch choice {
		case "1":
			s.handleAddBook()
		case "2":
			if nonEmpty(s.mgr.Books()) {
				s.println("Books in the library:")
			}
			s.printAll(s.mgr.ListBooks())
		case "3":
			s.handleAddUser()
		case "4":
			s.handleDeleteUser()
		case "5":
			if nonEmpty(s.mgr.Users()) {
				s.println("Registered users:")
			}
			s.printAll(s.mgr.ListUsers())
		case "6":
			s.handleBorrow()
		case "7":
			s.handleReturn()
		case "8":
			s.handleListUserBooks()
		case "9":
			s.println("Exiting the program...")
			return
		default:
			s.println("Invalid option, please try again.")
		}
	}
}

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Shell) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

func (s *Shell) printAll(lines iter.Seq[string]) {
	for line := range lines {
		s.println(line)
	}
}

func nonEmpty[T any](seq iter.Seq[T]) bool {
	for range seq {
		return true
	}
	return false
}

// prompt prints label and reads one trimmed line. ok is false at end of input.
func (s *Shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.sc.Text()), true
}

// promptQuantity asks until it gets a non-negative integer.
func (s *Shell) promptQuantity(label string) (int, bool) {
	for {
		raw, ok := s.prompt(label)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.printf("Invalid quantity %q: enter a whole number of 0 or more.\n", raw)
			continue
		}
		return n, true
	}
}

func (s *Shell) handleAddBook() {
	id, ok := s.prompt("Book ID: ")
	if !ok {
		return
	}
	title, ok := s.prompt("Title: ")
	if !ok {
		return
	}
	author, ok := s.prompt("Author: ")
	if !ok {
		return
	}
	qty, ok := s.promptQuantity("Quantity: ")
	if !ok {
		return
	}

	if err := s.mgr.AddBook(id, title, author, qty); err != nil {
		s.printf("Error adding book: %v\n", err)
		return
	}
	s.println("Book added successfully!")
}

func (s *Shell) handleAddUser() {
	id, ok := s.prompt("User ID: ")
	if !ok {
		return
	}
	name, ok := s.prompt("Name: ")
	if !ok {
		return
	}

	if err := s.mgr.AddUser(id, name); err != nil {
		s.printf("Error adding user: %v\n", err)
		return
	}
	s.println("User added successfully!")
}

func (s *Shell) handleDeleteUser() {
	id, ok := s.prompt("User ID: ")
	if !ok {
		return
	}

	if err := s.mgr.DeleteUser(id); err != nil {
		s.printf("Error deleting user: %v\n", err)
		return
	}
	s.println("User deleted successfully!")
}

func (s *Shell) readUserAndBook() (userID, bookID string, ok bool) {
	if userID, ok = s.prompt("User ID: "); !ok {
		return "", "", false
	}
	if bookID, ok = s.prompt("Book ID: "); !ok {
		return "", "", false
	}
	return userID, bookID, true
}

func (s *Shell) handleBorrow() {
	userID, bookID, ok := s.readUserAndBook()
	if !ok {
		return
	}

	if _, err := s.mgr.BorrowBook(userID, bookID); err != nil {
		s.printf("Error borrowing book: %v\n", err)
		return
	}
	s.println("Book borrowed successfully!")
}

func (s *Shell) handleReturn() {
	userID, bookID, ok := s.readUserAndBook()
	if !ok {
		return
	}

	ret, err := s.mgr.ReturnBook(userID, bookID)
	if ret.Late {
		s.printf("Warning: this book is being returned %d days late!\n", ret.DaysOut)
	}
	if err != nil {
		s.printf("Error returning book: %v\n", err)
		return
	}
	s.println("Book returned successfully!")
}

func (s *Shell) handleListUserBooks() {
	id, ok := s.prompt("User ID: ")
	if !ok {
		return
	}

	lines, err := s.mgr.ListUserBooks(id)
	if err != nil {
		s.printf("Error: %v\n", err)
		return
	}
	u, _ := s.mgr.GetUser(id)
	if len(u.BorrowedBooks) > 0 {
		s.printf("Books borrowed by %s:\n", u.Name)
	}
	s.printAll(lines)
}
