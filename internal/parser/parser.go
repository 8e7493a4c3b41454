package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/andy/clientbook/internal/domain"
)

var (
	ErrInvalidCommandFormat = errors.New("invalid command format")
	ErrUnknownCommand       = errors.New("unknown command")
	ErrInvalidIndex         = errors.New("index is not a non-zero unsigned integer")
)

const (
	CommandAdd  = "add"
	CommandPoc  = "poc"
	CommandBuy  = "buy"
	CommandSell = "sell"
)

const (
	AddUsage  = "add n/NAME a/ADDRESS [p/PHONE] [e/EMAIL] [t/TAG]..."
	PocUsage  = "poc INDEX n/NAME [p/PHONE] [e/EMAIL] [t/TAG]..."
	BuyUsage  = "buy INDEX q/QUANTITY g/GOODS p/PRICE [d/" + domain.DateInputLayout + "]"
	SellUsage = "sell INDEX q/QUANTITY g/GOODS p/PRICE [d/" + domain.DateInputLayout + "]"
)

// Command is the result of parsing one line of user input
type Command interface {
	Word() string
}

// AddClientCommand adds a new client to the book
type AddClientCommand struct {
	Client *domain.Client
}

// AddPocCommand attaches a poc to the client at Index (1-based)
type AddPocCommand struct {
	Index int
	Poc   domain.Poc
}

// TransactionCommand records a buy or sell for the client at Index (1-based)
type TransactionCommand struct {
	Index       int
	Transaction domain.Transaction
}

func (AddClientCommand) Word() string { return CommandAdd }
func (AddPocCommand) Word() string    { return CommandPoc }

func (c TransactionCommand) Word() string {
	return string(c.Transaction.Kind)
}

// Parser turns typed text into commands
type Parser struct {
	now func() time.Time
}

// New creates a parser that uses the system clock for default dates
func New() *Parser {
	return &Parser{now: time.Now}
}

// NewWithClock creates a parser with a fixed clock (useful for testing)
func NewWithClock(now func() time.Time) *Parser {
	return &Parser{now: now}
}

// Parse dispatches on the first word of line
func (p *Parser) Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	word, args := line, ""
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		word, args = line[:i], line[i:]
	}

	switch strings.ToLower(word) {
	case CommandAdd:
		return p.ParseAddClient(args)
	case CommandPoc:
		return p.ParsePoc(args)
	case CommandBuy:
		return p.ParseBuy(args)
	case CommandSell:
		return p.ParseSell(args)
	case "":
		return nil, fmt.Errorf("%w: empty input", ErrUnknownCommand)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, word)
}

// ParseIndex parses a 1-based index
func ParseIndex(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIndex, s)
	}
	return n, nil
}

// ParseAddClient parses "n/NAME a/ADDRESS [p/PHONE] [e/EMAIL] [t/TAG]..."
func (p *Parser) ParseAddClient(args string) (AddClientCommand, error) {
	m := Tokenize(args, PrefixName, PrefixAddress, PrefixPhone, PrefixEmail, PrefixTag)

	rawName, okName := m.Value(PrefixName)
	rawAddr, okAddr := m.Value(PrefixAddress)
	if !okName || !okAddr || m.Preamble() != "" {
		return AddClientCommand{}, usageError(AddUsage)
	}

	rawPhone, _ := m.Value(PrefixPhone)
	rawEmail, _ := m.Value(PrefixEmail)
	client, err := ClientFromFields(rawName, rawAddr, rawPhone, rawEmail, m.AllValues(PrefixTag))
	if err != nil {
		return AddClientCommand{}, err
	}
	return AddClientCommand{Client: client}, nil
}

// ClientFromFields validates raw field values into a new client. Phone and
// email may be empty.
func ClientFromFields(name, address, phone, email string, tags []string) (*domain.Client, error) {
	n, err := domain.NewName(name)
	if err != nil {
		return nil, err
	}
	a, err := domain.NewAddress(address)
	if err != nil {
		return nil, err
	}
	p, err := domain.NewPhone(phone)
	if err != nil {
		return nil, err
	}
	e, err := domain.NewEmail(email)
	if err != nil {
		return nil, err
	}
	t, err := domain.NewTags(tags...)
	if err != nil {
		return nil, err
	}
	return domain.NewClient(n, a, p, e, t)
}

// ParsePoc parses "INDEX n/NAME [p/PHONE] [e/EMAIL] [t/TAG]..."
func (p *Parser) ParsePoc(args string) (AddPocCommand, error) {
	m := Tokenize(args, PrefixName, PrefixPhone, PrefixEmail, PrefixTag)

	index, err := ParseIndex(m.Preamble())
	if err != nil {
		return AddPocCommand{}, fmt.Errorf("%w: %w", usageError(PocUsage), err)
	}

	rawName, ok := m.Value(PrefixName)
	if !ok {
		return AddPocCommand{}, usageError(PocUsage)
	}
	name, err := domain.NewName(rawName)
	if err != nil {
		return AddPocCommand{}, err
	}
	phone, email, tags, err := parseContact(m)
	if err != nil {
		return AddPocCommand{}, err
	}

	poc, err := domain.NewPoc(name, phone, email, tags)
	if err != nil {
		return AddPocCommand{}, err
	}
	return AddPocCommand{Index: index, Poc: poc}, nil
}

// ParseBuy parses "INDEX q/QUANTITY g/GOODS p/PRICE [d/DATE]"
func (p *Parser) ParseBuy(args string) (TransactionCommand, error) {
	return p.parseTransaction(args, domain.TransactionBuy, BuyUsage)
}

// ParseSell parses "INDEX q/QUANTITY g/GOODS p/PRICE [d/DATE]"
func (p *Parser) ParseSell(args string) (TransactionCommand, error) {
	return p.parseTransaction(args, domain.TransactionSell, SellUsage)
}

func (p *Parser) parseTransaction(args string, kind domain.TransactionKind, usage string) (TransactionCommand, error) {
	m := Tokenize(args, PrefixQuantity, PrefixGoods, PrefixPrice, PrefixDate)

	index, err := ParseIndex(m.Preamble())
	if err != nil {
		return TransactionCommand{}, fmt.Errorf("%w: %w", usageError(usage), err)
	}

	rawGoods, okGoods := m.Value(PrefixGoods)
	rawPrice, okPrice := m.Value(PrefixPrice)
	rawQty, okQty := m.Value(PrefixQuantity)
	if !okGoods || !okPrice || !okQty {
		return TransactionCommand{}, usageError(usage)
	}

	goods, err := domain.NewGoods(rawGoods)
	if err != nil {
		return TransactionCommand{}, err
	}
	price, err := domain.NewPrice(rawPrice)
	if err != nil {
		return TransactionCommand{}, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(rawQty))
	if err != nil {
		return TransactionCommand{}, fmt.Errorf("%w: %q", domain.ErrInvalidQty, rawQty)
	}
	qty, err := domain.NewQuantity(n)
	if err != nil {
		return TransactionCommand{}, err
	}

	// An omitted date means the transaction happened today
	date := domain.NewDate(p.now())
	if rawDate, ok := m.Value(PrefixDate); ok {
		if date, err = domain.ParseDate(rawDate); err != nil {
			return TransactionCommand{}, err
		}
	}

	tx := domain.Transaction{Kind: kind, Goods: goods, Price: price, Quantity: qty, Date: date}
	return TransactionCommand{Index: index, Transaction: tx}, nil
}

func parseContact(m ArgumentMultimap) (domain.Phone, domain.Email, []domain.Tag, error) {
	rawPhone, _ := m.Value(PrefixPhone)
	phone, err := domain.NewPhone(rawPhone)
	if err != nil {
		return "", "", nil, err
	}
	rawEmail, _ := m.Value(PrefixEmail)
	email, err := domain.NewEmail(rawEmail)
	if err != nil {
		return "", "", nil, err
	}
	tags, err := domain.NewTags(m.AllValues(PrefixTag)...)
	if err != nil {
		return "", "", nil, err
	}
	return phone, email, tags, nil
}

func usageError(usage string) error {
	return fmt.Errorf("%w\nusage: %s", ErrInvalidCommandFormat, usage)
}
