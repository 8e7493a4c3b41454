package parser

import (
	"testing"
	"time"

	"github.com/andy/clientbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 17, 15, 4, 5, 0, time.UTC)

func newTestParser() *Parser {
	return NewWithClock(func() time.Time { return fixedNow })
}

func TestTokenize(t *testing.T) {
	m := Tokenize("1 q/10 g/green apple p/1.50 t/a t/b", PrefixQuantity, PrefixGoods, PrefixPrice, PrefixTag)

	assert.Equal(t, "1", m.Preamble())
	qty, ok := m.Value(PrefixQuantity)
	require.True(t, ok)
	assert.Equal(t, "10", qty)
	goods, _ := m.Value(PrefixGoods)
	assert.Equal(t, "green apple", goods)
	price, _ := m.Value(PrefixPrice)
	assert.Equal(t, "1.50", price)
	assert.Equal(t, []string{"a", "b"}, m.AllValues(PrefixTag))

	_, ok = m.Value(PrefixDate)
	assert.False(t, ok)
}

func TestTokenize_PrefixMustFollowWhitespace(t *testing.T) {
	m := Tokenize("1 g/cat/dog q/2", PrefixGoods, PrefixQuantity, PrefixDate)
	goods, _ := m.Value(PrefixGoods)
	assert.Equal(t, "cat/dog", goods)
}

func TestTokenize_LastValueWins(t *testing.T) {
	m := Tokenize("q/1 q/2", PrefixQuantity)
	qty, _ := m.Value(PrefixQuantity)
	assert.Equal(t, "2", qty)
	assert.Equal(t, "", m.Preamble())
}

func TestParseIndex(t *testing.T) {
	n, err := ParseIndex(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, bad := range []string{"", "0", "-1", "abc", "1 2"} {
		_, err := ParseIndex(bad)
		assert.ErrorIs(t, err, ErrInvalidIndex, "input %q", bad)
	}
}

func TestParseSell(t *testing.T) {
	p := newTestParser()
	cmd, err := p.ParseSell("2 q/10 g/apple p/1.5 d/2024-03-01")
	require.NoError(t, err)

	assert.Equal(t, 2, cmd.Index)
	assert.Equal(t, "sell", cmd.Word())
	tx := cmd.Transaction
	assert.Equal(t, domain.TransactionSell, tx.Kind)
	assert.Equal(t, domain.Goods("apple"), tx.Goods)
	assert.Equal(t, "1.50", tx.Price.String())
	assert.Equal(t, domain.Quantity(10), tx.Quantity)
	assert.Equal(t, "2024-03-01", tx.Date.Format())
	assert.Equal(t, "15.00", tx.NetValue().StringFixed(2))
}

func TestParseBuy_DefaultsDateToToday(t *testing.T) {
	p := newTestParser()
	cmd, err := p.ParseBuy("1 q/3 g/pear p/2")
	require.NoError(t, err)

	assert.Equal(t, domain.TransactionBuy, cmd.Transaction.Kind)
	assert.Equal(t, "2024-05-17", cmd.Transaction.Date.Format())
	assert.Equal(t, "-6.00", cmd.Transaction.NetValue().StringFixed(2))
}

func TestParseTransaction_Errors(t *testing.T) {
	p := newTestParser()
	tests := []struct {
		name    string
		args    string
		wantErr error
	}{
		{"missing index", "q/1 g/apple p/1", ErrInvalidCommandFormat},
		{"zero index", "0 q/1 g/apple p/1", ErrInvalidIndex},
		{"missing goods", "1 q/1 p/1", ErrInvalidCommandFormat},
		{"missing price", "1 q/1 g/apple", ErrInvalidCommandFormat},
		{"missing quantity", "1 g/apple p/1", ErrInvalidCommandFormat},
		{"bad quantity", "1 q/x g/apple p/1", domain.ErrInvalidQty},
		{"zero quantity", "1 q/0 g/apple p/1", domain.ErrInvalidQty},
		{"bad price", "1 q/1 g/apple p/abc", domain.ErrInvalidPrice},
		{"bad date", "1 q/1 g/apple p/1 d/yesterday", domain.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ParseSell(tt.args)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseAddClient(t *testing.T) {
	p := newTestParser()
	cmd, err := p.ParseAddClient("n/Alice a/123 Street p/91234567 e/a@x.com t/friend t/vip")
	require.NoError(t, err)

	c := cmd.Client
	assert.Equal(t, domain.Name("Alice"), c.Name())
	assert.Equal(t, domain.Address("123 Street"), c.Address())
	assert.Equal(t, domain.Phone("91234567"), c.Phone())
	assert.Equal(t, domain.Email("a@x.com"), c.Email())
	assert.Equal(t, []domain.Tag{"friend", "vip"}, c.Tags())

	_, err = p.ParseAddClient("n/Alice")
	assert.ErrorIs(t, err, ErrInvalidCommandFormat)

	_, err = p.ParseAddClient("n/Alice a/1 Road p/12x")
	assert.ErrorIs(t, err, domain.ErrInvalidPhone)
}

func TestParsePoc(t *testing.T) {
	p := newTestParser()
	cmd, err := p.ParsePoc("1 n/Bob p/98765432 t/supplier")
	require.NoError(t, err)

	assert.Equal(t, 1, cmd.Index)
	assert.Equal(t, domain.Name("Bob"), cmd.Poc.Name)
	assert.Equal(t, domain.Phone("98765432"), cmd.Poc.Phone)
	assert.Equal(t, []domain.Tag{"supplier"}, cmd.Poc.Tags)

	_, err = p.ParsePoc("1 p/98765432")
	assert.ErrorIs(t, err, ErrInvalidCommandFormat)
}

func TestParse_Dispatch(t *testing.T) {
	p := newTestParser()

	cmd, err := p.Parse("SELL 1 q/1 g/apple p/1")
	require.NoError(t, err)
	assert.IsType(t, TransactionCommand{}, cmd)

	cmd, err = p.Parse("poc 1 n/Bob")
	require.NoError(t, err)
	assert.IsType(t, AddPocCommand{}, cmd)

	cmd, err = p.Parse("add n/Alice a/1 Road")
	require.NoError(t, err)
	assert.Equal(t, CommandAdd, cmd.Word())

	_, err = p.Parse("delete 1")
	assert.ErrorIs(t, err, ErrUnknownCommand)

	_, err = p.Parse("   ")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestParse_CommandWordEndsAtAnyWhitespace(t *testing.T) {
	p := newTestParser()

	cmd, err := p.Parse("sell\t1 q/1 g/apple p/1")
	require.NoError(t, err)
	tx := cmd.(TransactionCommand)
	assert.Equal(t, 1, tx.Index)
	assert.Equal(t, domain.TransactionSell, tx.Transaction.Kind)

	cmd, err = p.Parse("poc\n2 n/Bob")
	require.NoError(t, err)
	assert.Equal(t, 2, cmd.(AddPocCommand).Index)

	_, err = p.Parse("sell")
	assert.ErrorIs(t, err, ErrInvalidCommandFormat)
}

func TestClientFromFields(t *testing.T) {
	c, err := ClientFromFields("Acme", "1 Main St", "", "", []string{"retail", "retail"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Tag{"retail"}, c.Tags())

	_, err = ClientFromFields("Acme", "", "", "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidAddr)

	_, err = ClientFromFields("Acme", "1 Main St", "", "not-an-email", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = ClientFromFields("Acme", "1 Main St", "", "", []string{"bad tag"})
	assert.ErrorIs(t, err, domain.ErrInvalidTag)
}
