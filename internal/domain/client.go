package domain

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Client is the aggregate root for one contact. Name and address are always
// set; the tag set is fixed at construction; pocs and transactions only grow.
type Client struct {
	// Storage metadata, populated by the repository. Not part of equality.
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time

	name         Name
	address      Address
	phone        Phone
	email        Email
	tags         map[Tag]struct{}
	pocs         *UniquePocList
	transactions *TransactionLog
}

// NewClient creates a client with no pocs and an empty transaction log.
// A nil tags slice means the client has no tags.
func NewClient(name Name, address Address, phone Phone, email Email, tags []Tag) (*Client, error) {
	return NewClientWithRelations(name, address, phone, email, tags, &UniquePocList{}, NewTransactionLog())
}

// NewClientWithRelations creates a client that owns the given poc list and
// transaction log. pocs is required; a nil transaction log is kept as-is and
// reads as empty. Nil tags mean no tags. Name and address must not be blank.
func NewClientWithRelations(
	name Name,
	address Address,
	phone Phone,
	email Email,
	tags []Tag,
	pocs *UniquePocList,
	transactions *TransactionLog,
) (*Client, error) {
	switch {
	case strings.TrimSpace(string(name)) == "":
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	case strings.TrimSpace(string(address)) == "":
		return nil, fmt.Errorf("%w: address", ErrMissingField)
	case pocs == nil:
		return nil, fmt.Errorf("%w: pocs", ErrMissingField)
	}

	tagSet := make(map[Tag]struct{}, len(tags))
	for _, t := range tags {
		tagSet[t] = struct{}{}
	}

	now := time.Now()
	return &Client{
		CreatedAt:    now,
		UpdatedAt:    now,
		name:         name,
		address:      address,
		phone:        phone,
		email:        email,
		tags:         tagSet,
		pocs:         pocs,
		transactions: transactions,
	}, nil
}

func (c *Client) Name() Name       { return c.name }
func (c *Client) Address() Address { return c.address }
func (c *Client) Phone() Phone     { return c.phone }
func (c *Client) Email() Email     { return c.email }

// Tags returns a sorted copy of the tag set. Changing the returned slice
// does not affect the client.
func (c *Client) Tags() []Tag {
	tags := make([]Tag, 0, len(c.tags))
	for t := range c.tags {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	return tags
}

// HasTag reports whether the client carries tag t
func (c *Client) HasTag(t Tag) bool {
	_, ok := c.tags[t]
	return ok
}

// PocList returns a live read-only view of the client's pocs
func (c *Client) PocList() PocView {
	return c.pocs.View()
}

// Transactions iterates over the transaction log in insertion order
func (c *Client) Transactions() iter.Seq[Transaction] {
	return c.transactions.All()
}

func (c *Client) TransactionCount() int {
	return c.transactions.Len()
}

// AddPoc appends a poc, failing with ErrDuplicatePoc if one with the same
// name is already present.
func (c *Client) AddPoc(p Poc) error {
	if err := c.pocs.Add(p); err != nil {
		return err
	}
	c.UpdatedAt = time.Now()
	return nil
}

func (c *Client) HasPoc(p Poc) bool {
	return c.pocs.Contains(p)
}

// AddTransaction appends t to the transaction log
func (c *Client) AddTransaction(t Transaction) {
	if c.transactions == nil {
		c.transactions = NewTransactionLog()
	}
	c.transactions.Add(t)
	c.UpdatedAt = time.Now()
}

// TotalTransacted returns the net value of all transactions
func (c *Client) TotalTransacted() decimal.Decimal {
	return c.transactions.NetTransacted()
}

// SameClient reports whether other has the same name (weak equality)
func (c *Client) SameClient(other *Client) bool {
	if other == c {
		return true
	}
	return other != nil && other.name == c.name
}

// Equal reports whether name, address, phone, email and tags all match.
// Pocs, transactions and storage metadata are not compared.
func (c *Client) Equal(other *Client) bool {
	if other == c {
		return true
	}
	if other == nil || c == nil {
		return false
	}
	if other.name != c.name ||
		other.address != c.address ||
		other.phone != c.phone ||
		other.email != c.email ||
		len(other.tags) != len(c.tags) {
		return false
	}
	for t := range c.tags {
		if _, ok := other.tags[t]; !ok {
			return false
		}
	}
	return true
}

func (c *Client) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s; Address: %s; Phone: %s; Email: %s", c.name, c.address, c.phone, c.email)

	if tags := c.Tags(); len(tags) > 0 {
		b.WriteString("; Tags: ")
		for _, t := range tags {
			b.WriteString(t.String())
		}
	}

	b.WriteString("; POCs: ")
	b.WriteString(strings.Join(c.PocList().Names(), ", "))

	b.WriteString("; Total transactions: $")
	if c.transactions.IsEmpty() {
		b.WriteString("0")
	} else {
		b.WriteString(c.TotalTransacted().StringFixed(2))
	}
	return b.String()
}
