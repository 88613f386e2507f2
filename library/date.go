package library

import (
	"bytes"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// DateLayout is the on-disk format of borrow dates.
const DateLayout = "2006-01-02"

// Date is a point in time that is persisted with day precision only. The
// time of day survives in memory and is dropped on every save/load.
type Date struct {
	time.Time
}

// DateOf truncates t to local midnight, which is what a saved Date loads as.
func DateOf(t time.Time) Date {
	t = t.In(time.Local)
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)}
}

// ParseDate parses a YYYY-MM-DD string as local midnight.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return Date{}, errors.Wrapf(err, "parse date %q", s)
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format(DateLayout) }

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return errors.New("borrow date is null")
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.Wrap(err, "borrow date must be a string")
	}
	return d.UnmarshalText([]byte(s))
}
