package kernel

import (
	"fmt"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrMoneyIsNotConstructed is returned when validating a zero-value Money.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError("money must be created via NewMoney or MoneyFromString")

// Money is a non-negative monetary amount in the order's currency.
// Arithmetic is exact; amounts are never represented as floats.
//
// Example:
//
//	price, _ := kernel.NewMoney(decimal.NewFromInt(65000))
//	paid, _ := kernel.NewMoney(decimal.NewFromInt(30000))
//	price.GreaterThan(paid) // true
type Money struct { //nolint:recvcheck //using for validation
	amount decimal.Decimal
	guard  guard.ConstructorGuard
}

// NewMoney returns Money for a non-negative amount.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"money is invalid",
			fmt.Errorf("%s is negative", amount.String()),
		)
	}
	return Money{amount: amount, guard: guard.NewConstructorGuard()}, nil
}

// MoneyFromString parses a decimal string such as "65000" or "12.50".
func MoneyFromString(s string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money is invalid", err)
	}
	return NewMoney(amount)
}

// ZeroMoney returns a constructed zero amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero, guard: guard.NewConstructorGuard()}
}

func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) String() string {
	return m.amount.String()
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Add returns the sum. Adding two valid amounts never fails.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount), guard: guard.NewConstructorGuard()}
}

func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.amount.GreaterThanOrEqual(other.amount)
}

func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// IsEqual compares amounts numerically, so 10 and 10.00 are equal.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}
