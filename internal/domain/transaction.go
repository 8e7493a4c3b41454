package domain

import (
	"fmt"
	"iter"
	"slices"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionBuy  TransactionKind = "buy"
	TransactionSell TransactionKind = "sell"
)

// ParseTransactionKind converts a stored kind back into a TransactionKind
func ParseTransactionKind(s string) (TransactionKind, error) {
	switch k := TransactionKind(s); k {
	case TransactionBuy, TransactionSell:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTxKind, s)
}

// Transaction is a single buy or sell of some goods with a client
type Transaction struct {
	Kind     TransactionKind
	Goods    Goods
	Price    Price
	Quantity Quantity
	Date     Date
}

// NewBuyTransaction records goods bought from a client
func NewBuyTransaction(goods Goods, price Price, qty Quantity, date Date) Transaction {
	return Transaction{Kind: TransactionBuy, Goods: goods, Price: price, Quantity: qty, Date: date}
}

// NewSellTransaction records goods sold to a client
func NewSellTransaction(goods Goods, price Price, qty Quantity, date Date) Transaction {
	return Transaction{Kind: TransactionSell, Goods: goods, Price: price, Quantity: qty, Date: date}
}

// Value returns price * quantity, always non-negative
func (t Transaction) Value() decimal.Decimal {
	return t.Price.Decimal().Mul(decimal.NewFromInt(int64(t.Quantity)))
}

// NetValue returns the signed contribution of the transaction:
// sells are money in (positive), buys are money out (negative).
func (t Transaction) NetValue() decimal.Decimal {
	if t.Kind == TransactionBuy {
		return t.Value().Neg()
	}
	return t.Value()
}

// Validate returns an error if the transaction is invalid
func (t Transaction) Validate() error {
	if _, err := ParseTransactionKind(string(t.Kind)); err != nil {
		return err
	}
	if t.Goods == "" {
		return ErrInvalidGoods
	}
	if t.Quantity <= 0 {
		return ErrInvalidQty
	}
	if t.Price.Decimal().IsNegative() {
		return ErrInvalidPrice
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s %d x %s @ %s on %s", t.Kind, t.Quantity, t.Goods, t.Price, t.Date)
}

// TransactionLog is an append-only, insertion-ordered list of transactions.
// A nil *TransactionLog reads as an empty log.
type TransactionLog struct {
	entries []Transaction
}

// NewTransactionLog creates a log holding the given transactions in order
func NewTransactionLog(txns ...Transaction) *TransactionLog {
	return &TransactionLog{entries: slices.Clone(txns)}
}

// Add appends a transaction. There is no uniqueness constraint.
func (l *TransactionLog) Add(t Transaction) {
	l.entries = append(l.entries, t)
}

func (l *TransactionLog) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

func (l *TransactionLog) IsEmpty() bool {
	return l.Len() == 0
}

// All iterates over the transactions in insertion order
func (l *TransactionLog) All() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		if l == nil {
			return
		}
		for _, t := range l.entries {
			if !yield(t) {
				return
			}
		}
	}
}

// NetTransacted sums the signed value of every transaction.
// Decimal addition is exact, so the result does not depend on order.
func (l *TransactionLog) NetTransacted() decimal.Decimal {
	total := decimal.Zero
	for t := range l.All() {
		total = total.Add(t.NetValue())
	}
	return total
}
