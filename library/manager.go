package library

import (
	"iter"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultLoanPeriod is how long a book may be kept before a return is late.
const DefaultLoanPeriod = 30 * 24 * time.Hour

// LibraryManager holds the catalog and the registered users in memory and
// writes the full state to its Store after every change. It is not safe for
// concurrent use.
type LibraryManager struct {
	store    Store
	log      *zap.Logger
	validate *validator.Validate

	now        func() time.Time
	loanPeriod time.Duration

	books     map[string]*Book
	bookOrder []string
	users     map[string]*User
	userOrder []string
}

// Option customises a LibraryManager.
type Option func(*LibraryManager)

// WithClock replaces time.Now as the source of borrow and return times.
func WithClock(now func() time.Time) Option {
	return func(lm *LibraryManager) { lm.now = now }
}

// WithLoanPeriod sets the period after which a return is reported as late.
func WithLoanPeriod(d time.Duration) Option {
	return func(lm *LibraryManager) {
		if d > 0 {
			lm.loanPeriod = d
		}
	}
}

// NewLibraryManager loads the state from store and returns a manager over it.
func NewLibraryManager(store Store, log *zap.Logger, opts ...Option) (*LibraryManager, error) {
	lm := &LibraryManager{
		store:      store,
		log:        log.Named("catalog"),
		validate:   validator.New(),
		now:        time.Now,
		loanPeriod: DefaultLoanPeriod,
		books:      make(map[string]*Book),
		users:      make(map[string]*User),
	}
	for _, opt := range opts {
		opt(lm)
	}

	data, err := store.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load library")
	}
	lm.restore(data)
	return lm, nil
}

// Close closes the underlying store.
func (lm *LibraryManager) Close() error { return lm.store.Close() }

func (lm *LibraryManager) restore(data *LibraryData) {
	for _, b := range data.Books {
		if err := lm.check(b); err != nil {
			lm.log.Warn("skipping invalid book in stored state", zap.String("book_id", b.ID), zap.Error(err))
			continue
		}
		if _, ok := lm.books[b.ID]; ok {
			lm.log.Warn("skipping duplicate book id in stored state", zap.String("book_id", b.ID))
			continue
		}
		lm.books[b.ID] = &b
		lm.bookOrder = append(lm.bookOrder, b.ID)
	}
	for _, u := range data.Users {
		if err := lm.check(u); err != nil {
			lm.log.Warn("skipping invalid user in stored state", zap.String("user_id", u.ID), zap.Error(err))
			continue
		}
		if _, ok := lm.users[u.ID]; ok {
			lm.log.Warn("skipping duplicate user id in stored state", zap.String("user_id", u.ID))
			continue
		}
		u := u.clone()
		lm.users[u.ID] = &u
		lm.userOrder = append(lm.userOrder, u.ID)
	}
	lm.log.Debug("library loaded", zap.Int("books", len(lm.bookOrder)), zap.Int("users", len(lm.userOrder)))
}

// Snapshot returns a deep copy of the current state in listing order.
func (lm *LibraryManager) Snapshot() *LibraryData {
	data := &LibraryData{
		Books: make([]Book, 0, len(lm.bookOrder)),
		Users: make([]User, 0, len(lm.userOrder)),
	}
	for _, id := range lm.bookOrder {
		data.Books = append(data.Books, *lm.books[id])
	}
	for _, id := range lm.userOrder {
		data.Users = append(data.Users, lm.users[id].clone())
	}
	return data
}

func (lm *LibraryManager) save() error {
	if err := lm.store.Save(lm.Snapshot()); err != nil {
		lm.log.Error("save library", zap.Error(err))
		return errors.Wrap(err, "save library")
	}
	return nil
}

func (lm *LibraryManager) check(v any) error {
	if err := lm.validate.Struct(v); err != nil {
		return errors.Wrap(ErrInvalidInput, err.Error())
	}
	return nil
}

// ------------------ Books ------------------

// AddBook adds a new title to the catalog.
func (lm *LibraryManager) AddBook(id, title, author string, quantity int) error {
	b := Book{ID: id, Title: title, Author: author, Quantity: quantity}
	if err := lm.check(b); err != nil {
		return err
	}
	if _, ok := lm.books[id]; ok {
		return errors.Wrapf(ErrDuplicateBook, "book %s", id)
	}

	lm.books[id] = &b
	lm.bookOrder = append(lm.bookOrder, id)
	lm.log.Debug("book added", zap.String("book_id", id), zap.Int("quantity", quantity))
	return lm.save()
}

func (lm *LibraryManager) GetBook(id string) (Book, error) {
	b, ok := lm.books[id]
	if !ok {
		return Book{}, errors.Wrapf(ErrBookNotFound, "book %s", id)
	}
	return *b, nil
}

// Books yields a copy of every book in the order they were added.
func (lm *LibraryManager) Books() iter.Seq[Book] {
	return func(yield func(Book) bool) {
		for _, id := range lm.bookOrder {
			if !yield(*lm.books[id]) {
				return
			}
		}
	}
}

// ------------------ Users ------------------

// AddUser registers a new user with nothing borrowed.
func (lm *LibraryManager) AddUser(id, name string) error {
	u := User{ID: id, Name: name}
	if err := lm.check(u); err != nil {
		return err
	}
	if _, ok := lm.users[id]; ok {
		return errors.Wrapf(ErrDuplicateUser, "user %s", id)
	}

	lm.users[id] = &u
	lm.userOrder = append(lm.userOrder, id)
	lm.log.Debug("user added", zap.String("user_id", id))
	return lm.save()
}

// DeleteUser removes a user. Users that still hold books are kept.
func (lm *LibraryManager) DeleteUser(id string) error {
	u, ok := lm.users[id]
	if !ok {
		return errors.Wrapf(ErrUserNotFound, "user %s", id)
	}
	if len(u.BorrowedBooks) > 0 {
		return errors.Wrapf(ErrHasBorrowedBooks, "user %s holds %d", id, len(u.BorrowedBooks))
	}

	delete(lm.users, id)
	for i, uid := range lm.userOrder {
		if uid == id {
			lm.userOrder = append(lm.userOrder[:i], lm.userOrder[i+1:]...)
			break
		}
	}
	lm.log.Debug("user deleted", zap.String("user_id", id))
	return lm.save()
}

func (lm *LibraryManager) GetUser(id string) (User, error) {
	u, ok := lm.users[id]
	if !ok {
		return User{}, errors.Wrapf(ErrUserNotFound, "user %s", id)
	}
	return u.clone(), nil
}

// Users yields a copy of every user in the order they were registered.
func (lm *LibraryManager) Users() iter.Seq[User] {
	return func(yield func(User) bool) {
		for _, id := range lm.userOrder {
			if !yield(lm.users[id].clone()) {
				return
			}
		}
	}
}

// ------------------ Circulation ------------------

// BorrowBook lends one copy of a book to a user and returns the new record.
func (lm *LibraryManager) BorrowBook(userID, bookID string) (BorrowRecord, error) {
	u, ok := lm.users[userID]
	if !ok {
		return BorrowRecord{}, errors.Wrapf(ErrUserNotFound, "user %s", userID)
	}
	b, ok := lm.books[bookID]
	if !ok {
		return BorrowRecord{}, errors.Wrapf(ErrBookNotFound, "book %s", bookID)
	}
	if b.Quantity <= 0 {
		return BorrowRecord{}, errors.Wrapf(ErrOutOfStock, "book %s", bookID)
	}

	b.Quantity--
	rec := BorrowRecord{Book: *b, BorrowedAt: Date{lm.now()}}
	u.BorrowedBooks = append(u.BorrowedBooks, rec)
	lm.log.Debug("book borrowed",
		zap.String("user_id", userID),
		zap.String("book_id", bookID),
		zap.Int("remaining", b.Quantity))
	return rec, lm.save()
}

// ReturnBook takes back the first copy of bookID held by userID. A return
// after the loan period is still accepted and reported as late.
func (lm *LibraryManager) ReturnBook(userID, bookID string) (Return, error) {
	u, ok := lm.users[userID]
	if !ok {
		return Return{}, errors.Wrapf(ErrUserNotFound, "user %s", userID)
	}
	b, ok := lm.books[bookID]
	if !ok {
		return Return{}, errors.Wrapf(ErrBookNotFound, "book %s", bookID)
	}

	idx := -1
	for i, rec := range u.BorrowedBooks {
		if rec.Book.ID == bookID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Return{}, errors.Wrapf(ErrNotBorrowed, "book %s, user %s", bookID, userID)
	}

	rec := u.BorrowedBooks[idx]
	elapsed := wallClock(lm.now()).Sub(wallClock(rec.BorrowedAt.Time))
	ret := Return{
		Record:  rec,
		DaysOut: int(elapsed / (24 * time.Hour)),
		Late:    elapsed > lm.loanPeriod,
	}

	u.BorrowedBooks = append(u.BorrowedBooks[:idx], u.BorrowedBooks[idx+1:]...)
	b.Quantity++
	if ret.Late {
		lm.log.Warn("late return",
			zap.String("user_id", userID),
			zap.String("book_id", bookID),
			zap.Int("days", ret.DaysOut))
	}
	lm.log.Debug("book returned", zap.String("user_id", userID), zap.String("book_id", bookID))
	return ret, lm.save()
}

// wallClock moves the local calendar reading of t onto UTC, so differences
// count calendar days even across daylight saving changes.
func wallClock(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
