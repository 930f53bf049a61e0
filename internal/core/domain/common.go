package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Amounts travel as JSON numbers, both in backups and in the stored ledger.
// Quoted amounts are still accepted on input.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout is the wire layout of a calendar date.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day. The zero value means "unset".
type Date struct {
	time.Time
}

// NewDate returns the calendar date for year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date t falls on in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts YYYY-MM-DD and, for older documents, full RFC 3339 timestamps.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	if parsed, err := ParseDate(s); err == nil {
		*d = parsed
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q", s)
	}
	*d = DateOf(t)
	return nil
}

// Timestamp is an instant serialized as Unix milliseconds.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to millisecond precision so it survives a round trip.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{time.UnixMilli(t.UnixMilli()).UTC()}
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(ts.UnixMilli(), 10)), nil
}

// UnmarshalJSON accepts Unix milliseconds or an RFC 3339 string.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q", s)
		}
		*ts = NewTimestamp(t)
		return nil
	}
	ms, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %s", b)
	}
	*ts = Timestamp{time.UnixMilli(ms).UTC()}
	return nil
}
