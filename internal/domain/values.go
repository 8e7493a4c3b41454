package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingField  = errors.New("required field is missing")
	ErrInvalidName   = errors.New("name must not be blank")
	ErrInvalidAddr   = errors.New("address must not be blank")
	ErrInvalidPhone  = errors.New("phone numbers should only contain digits, and be at least 3 digits long")
	ErrInvalidEmail  = errors.New("email should be of the format local-part@domain")
	ErrInvalidTag    = errors.New("tag names should be alphanumeric")
	ErrInvalidGoods  = errors.New("goods must not be blank")
	ErrInvalidPrice  = errors.New("price must be a non-negative number")
	ErrInvalidQty    = errors.New("quantity must be a positive integer")
	ErrInvalidDate   = errors.New("date should be in the format " + DateInputLayout)
	ErrDuplicatePoc  = errors.New("poc already exists for this client")
	ErrUnknownTxKind = errors.New("unknown transaction kind")
)

const (
	// DateInputLayout is the layout accepted from user input and storage
	DateInputLayout = "2006-01-02"
	// DateDisplayLayout is the layout used when rendering a date
	DateDisplayLayout = "02 Jan 2006"
)

var (
	phonePattern = regexp.MustCompile(`^\d{3,}$`)
	emailPattern = regexp.MustCompile(`^[\w+.\-]+@[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?)*$`)
	tagPattern   = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// Name identifies a client or a poc
type Name string

// NewName validates and trims a name
func NewName(s string) (Name, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidName
	}
	return Name(s), nil
}

func (n Name) String() string { return string(n) }

type Address string

// NewAddress validates and trims an address
func NewAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidAddr
	}
	return Address(s), nil
}

func (a Address) String() string { return string(a) }

// Phone is optional; the empty value means no phone was given
type Phone string

// NewPhone validates a phone number. Blank input yields the empty Phone.
func NewPhone(s string) (Phone, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if !phonePattern.MatchString(s) {
		return "", ErrInvalidPhone
	}
	return Phone(s), nil
}

func (p Phone) String() string { return string(p) }

// Email is optional; the empty value means no email was given
type Email string

// NewEmail validates an email address. Blank input yields the empty Email.
func NewEmail(s string) (Email, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if !emailPattern.MatchString(s) {
		return "", ErrInvalidEmail
	}
	return Email(s), nil
}

func (e Email) String() string { return string(e) }

// Tag is a free-form label attached to clients and pocs
type Tag string

// NewTag validates a tag name
func NewTag(s string) (Tag, error) {
	s = strings.TrimSpace(s)
	if !tagPattern.MatchString(s) {
		return "", ErrInvalidTag
	}
	return Tag(s), nil
}

// String renders the tag the way it appears in client listings
func (t Tag) String() string { return "[" + string(t) + "]" }

// NewTags validates every tag, dropping duplicates
func NewTags(raw ...string) ([]Tag, error) {
	seen := make(map[Tag]struct{}, len(raw))
	tags := make([]Tag, 0, len(raw))
	for _, r := range raw {
		t, err := NewTag(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", err, r)
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags, nil
}

type Goods string

// NewGoods validates a goods description
func NewGoods(s string) (Goods, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidGoods
	}
	return Goods(s), nil
}

func (g Goods) String() string { return string(g) }

// Price is a non-negative amount per unit, kept to two decimal places
type Price struct {
	amount decimal.Decimal
}

// NewPrice parses a price, rounding half-up to cents
func NewPrice(s string) (Price, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Price{}, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	if d.IsNegative() {
		return Price{}, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	return Price{amount: d.Round(2)}, nil
}

// PriceOf builds a price from an existing decimal
func PriceOf(d decimal.Decimal) (Price, error) {
	if d.IsNegative() {
		return Price{}, ErrInvalidPrice
	}
	return Price{amount: d.Round(2)}, nil
}

func (p Price) Decimal() decimal.Decimal { return p.amount }
func (p Price) Equal(o Price) bool       { return p.amount.Equal(o.amount) }
func (p Price) String() string           { return p.amount.StringFixed(2) }

type Quantity int

// NewQuantity validates a positive quantity
func NewQuantity(n int) (Quantity, error) {
	if n <= 0 {
		return 0, ErrInvalidQty
	}
	return Quantity(n), nil
}

// Date is a calendar day without a time component
type Date struct {
	t time.Time
}

// NewDate truncates t to its calendar day in UTC
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date in DateInputLayout
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateInputLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return NewDate(t), nil
}

func (d Date) Time() time.Time   { return d.t }
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }
func (d Date) IsZero() bool      { return d.t.IsZero() }
func (d Date) Format() string    { return d.t.Format(DateInputLayout) }
func (d Date) String() string    { return d.t.Format(DateDisplayLayout) }
