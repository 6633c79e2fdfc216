package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an exact, non-negative decimal amount. The zero value is a valid
// additive identity; strictly-positive checks (product prices, item prices)
// live with the types that require them.
type Money struct {
	amount decimal.Decimal
}

func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("%w: money amount cannot be negative, got %s", ErrInvalidArgument, amount)
	}
	return Money{amount: amount}, nil
}

func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: malformed money amount %q", ErrInvalidArgument, s)
	}
	return NewMoney(d)
}

func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// MultiplyQty scales the amount by an integer quantity.
func (m Money) MultiplyQty(qty int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(qty)))}
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) String() string {
	return m.amount.String()
}
