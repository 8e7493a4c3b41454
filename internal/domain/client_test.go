package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTags(t *testing.T, raw ...string) []Tag {
	t.Helper()
	tags, err := NewTags(raw...)
	require.NoError(t, err)
	return tags
}

func newAlice(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient("Alice", "123 Street", "91234567", "a@x.com", mustTags(t, "friend"))
	require.NoError(t, err)
	return c
}

func sell(t *testing.T, price string, qty int) Transaction {
	t.Helper()
	p, err := NewPrice(price)
	require.NoError(t, err)
	return NewSellTransaction("apple", p, Quantity(qty), NewDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func buy(t *testing.T, price string, qty int) Transaction {
	t.Helper()
	p, err := NewPrice(price)
	require.NoError(t, err)
	return NewBuyTransaction("apple", p, Quantity(qty), NewDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestNewClient_Accessors(t *testing.T) {
	c, err := NewClient("Alice", "123 Street", "91234567", "a@x.com", mustTags(t, "vip", "friend"))
	require.NoError(t, err)

	assert.Equal(t, Name("Alice"), c.Name())
	assert.Equal(t, Address("123 Street"), c.Address())
	assert.Equal(t, Phone("91234567"), c.Phone())
	assert.Equal(t, Email("a@x.com"), c.Email())
	assert.ElementsMatch(t, []Tag{"friend", "vip"}, c.Tags())
	assert.Equal(t, 0, c.PocList().Len())
	assert.Equal(t, 0, c.TransactionCount())
}

func TestNewClient_MissingFields(t *testing.T) {
	_, err := NewClient("", "123 Street", "", "", nil)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = NewClient("Alice", "", "", "", nil)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = NewClientWithRelations("Alice", "123 Street", "", "", nil, nil, NewTransactionLog())
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestNewClient_BlankFields(t *testing.T) {
	_, err := NewClient(" \t", "123 Street", "", "", nil)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = NewClientWithRelations("Alice", "   ", "", "", nil, &UniquePocList{}, nil)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestNewClient_NilTagsMeansNoTags(t *testing.T) {
	c, err := NewClient("Alice", "123 Street", "", "", nil)
	require.NoError(t, err)
	assert.Empty(t, c.Tags())
	assert.False(t, c.HasTag("vip"))
}

func TestClient_TagsAreCopied(t *testing.T) {
	input := mustTags(t, "friend")
	c, err := NewClient("Alice", "123 Street", "", "", input)
	require.NoError(t, err)

	input[0] = "enemy"
	assert.True(t, c.HasTag("friend"))

	got := c.Tags()
	got[0] = "stranger"
	assert.Equal(t, []Tag{"friend"}, c.Tags())
	assert.False(t, c.HasTag("stranger"))
}

func TestClient_SameClientVersusEqual(t *testing.T) {
	a := newAlice(t)
	b, err := NewClient("Alice", "9 Other Road", "81111111", "alice@y.com", nil)
	require.NoError(t, err)

	assert.True(t, a.SameClient(b))
	assert.False(t, a.Equal(b))
	assert.True(t, a.SameClient(a))
	assert.False(t, a.SameClient(nil))
	assert.False(t, a.Equal(nil))
}

func TestClient_EqualIgnoresRelations(t *testing.T) {
	a := newAlice(t)
	b := newAlice(t)
	b.AddTransaction(sell(t, "50", 1))
	require.NoError(t, b.AddPoc(Poc{Name: "Bob"}))
	b.ID = 42

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
}

func TestClient_EqualComparesTagsAsSets(t *testing.T) {
	a, err := NewClient("Alice", "123 Street", "", "", mustTags(t, "b", "a"))
	require.NoError(t, err)
	b, err := NewClient("Alice", "123 Street", "", "", mustTags(t, "a", "b"))
	require.NoError(t, err)
	c, err := NewClient("Alice", "123 Street", "", "", mustTags(t, "a"))
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestClient_TotalTransacted(t *testing.T) {
	c := newAlice(t)
	assert.True(t, c.TotalTransacted().IsZero())

	c.AddTransaction(sell(t, "50", 1))
	c.AddTransaction(buy(t, "20", 1))

	assert.True(t, c.TotalTransacted().Equal(decimal.NewFromInt(30)), "got %s", c.TotalTransacted())
	// reading twice gives the same answer
	assert.True(t, c.TotalTransacted().Equal(decimal.NewFromInt(30)))
	assert.Equal(t, 2, c.TransactionCount())
}

func TestClient_AddTransactionAllowsDuplicates(t *testing.T) {
	c := newAlice(t)
	tx := sell(t, "1.25", 4)
	c.AddTransaction(tx)
	c.AddTransaction(tx)

	assert.Equal(t, 2, c.TransactionCount())
	assert.True(t, c.TotalTransacted().Equal(decimal.NewFromInt(10)))
}

func TestClient_AddPocRejectsDuplicate(t *testing.T) {
	c := newAlice(t)
	poc := Poc{Name: "Bob", Phone: "98765432"}

	require.NoError(t, c.AddPoc(poc))
	err := c.AddPoc(poc)
	assert.ErrorIs(t, err, ErrDuplicatePoc)
	assert.Equal(t, 1, c.PocList().Len())
	assert.True(t, c.HasPoc(Poc{Name: "Bob"}))
	assert.False(t, c.HasPoc(Poc{Name: "Carol"}))
}

func TestClient_PocListIsLive(t *testing.T) {
	c := newAlice(t)
	view := c.PocList()
	assert.Equal(t, 0, view.Len())

	require.NoError(t, c.AddPoc(Poc{Name: "Bob"}))
	assert.Equal(t, 1, view.Len())
	assert.Equal(t, Name("Bob"), view.At(0).Name)
}

func TestClient_String(t *testing.T) {
	c := newAlice(t)
	assert.Equal(t,
		"Alice; Address: 123 Street; Phone: 91234567; Email: a@x.com; Tags: [friend]; POCs: ; Total transactions: $0",
		c.String())

	require.NoError(t, c.AddPoc(Poc{Name: "Bob"}))
	require.NoError(t, c.AddPoc(Poc{Name: "Carol"}))
	c.AddTransaction(sell(t, "50", 1))
	c.AddTransaction(buy(t, "20", 1))
	assert.Equal(t,
		"Alice; Address: 123 Street; Phone: 91234567; Email: a@x.com; Tags: [friend]; POCs: Bob, Carol; Total transactions: $30.00",
		c.String())
}

func TestClient_NilTransactionLog(t *testing.T) {
	pocs, err := NewUniquePocList()
	require.NoError(t, err)
	c, err := NewClientWithRelations("Alice", "123 Street", "", "", nil, pocs, nil)
	require.NoError(t, err)

	assert.Contains(t, c.String(), "Total transactions: $0")
	assert.True(t, c.TotalTransacted().IsZero())
	assert.Equal(t, 0, c.TransactionCount())

	c.AddTransaction(sell(t, "3", 2))
	assert.True(t, c.TotalTransacted().Equal(decimal.NewFromInt(6)))
}
