package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"

	"github.com/nexoerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	MXN Currency = "MXN" // Mexican Peso (default)
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = MXN

// Scale is the fixed number of decimal places every Money carries.
// All arithmetic rounds half-up to this scale exactly once per operation.
const Scale int32 = 2

// Money is a value object representing monetary amounts.
// It is immutable - all operations return new Money instances.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency.
// The amount must not carry precision beyond the fixed scale.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, shared.NewDomainError("INVALID_AMOUNT", "Currency cannot be empty")
	}
	if !amount.Equal(amount.Truncate(Scale)) {
		return Money{}, shared.NewDomainError("INVALID_AMOUNT",
			fmt.Sprintf("Amount %s carries more than %d decimal places", amount.String(), Scale))
	}
	return Money{
		amount:   amount,
		currency: currency,
	}, nil
}

// NewMoneyFromFloat creates Money from a float64 value.
// NaN, infinities and values with sub-cent precision are rejected.
func NewMoneyFromFloat(amount float64, currency Currency) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, shared.NewDomainError("INVALID_AMOUNT", "Amount must be a finite number")
	}
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, shared.NewDomainError("INVALID_AMOUNT", fmt.Sprintf("Invalid amount string: %v", err))
	}
	return NewMoney(d, currency)
}

// NewMoneyMXN creates Money in MXN from an already scale-safe decimal.
// It is intended for rehydrating persisted values; new external input goes
// through NewMoney and its precision check.
func NewMoneyMXN(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: MXN}
}

// NewMoneyMXNFromFloat creates Money in MXN from float64
func NewMoneyMXNFromFloat(amount float64) (Money, error) {
	return NewMoneyFromFloat(amount, MXN)
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// ZeroMXN returns a zero-value Money in MXN
func ZeroMXN() Money {
	return Zero(MXN)
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns a new Money with the sum of both amounts.
// Returns error if currencies don't match.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, shared.NewDomainError("CURRENCY_MISMATCH",
			fmt.Sprintf("Cannot add money with different currencies: %s and %s", m.currency, other.currency))
	}
	return Money{
		amount:   m.amount.Add(other.amount),
		currency: m.currency,
	}, nil
}

// Subtract returns a new Money with the difference. It is meant for
// balance-style fields: a result below zero fails with NEGATIVE_RESULT
// instead of going negative.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, shared.NewDomainError("CURRENCY_MISMATCH",
			fmt.Sprintf("Cannot subtract money with different currencies: %s and %s", m.currency, other.currency))
	}
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, shared.NewDomainError("NEGATIVE_RESULT",
			fmt.Sprintf("Subtracting %s from %s would produce a negative amount", other.amount.String(), m.amount.String()))
	}
	return Money{
		amount:   result,
		currency: m.currency,
	}, nil
}

// MultiplyByQuantity returns the Money multiplied by an integer quantity,
// rounded half-up to the fixed scale.
func (m Money) MultiplyByQuantity(quantity int64) Money {
	return Money{
		amount:   m.amount.Mul(decimal.NewFromInt(quantity)).Round(Scale),
		currency: m.currency,
	}
}

// PercentOf returns the given percentage of this Money,
// rounded half-up to the fixed scale.
func (m Money) PercentOf(percent decimal.Decimal) Money {
	return Money{
		amount:   m.amount.Mul(percent).Div(decimal.NewFromInt(100)).Round(Scale),
		currency: m.currency,
	}
}

// Compare returns -1, 0 or 1 when m is less than, equal to, or greater
// than other. Returns error if currencies don't match.
func (m Money) Compare(other Money) (int, error) {
	if m.currency != other.currency {
		return 0, shared.NewDomainError("CURRENCY_MISMATCH",
			fmt.Sprintf("Cannot compare money with different currencies: %s and %s", m.currency, other.currency))
	}
	return m.amount.Cmp(other.amount), nil
}

// Equals returns true if both Money values are equal (same amount and currency)
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// LessThan returns true if this Money is less than the other
func (m Money) LessThan(other Money) (bool, error) {
	c, err := m.Compare(other)
	if err != nil {
		return false, err
	}
	return c < 0, nil
}

// GreaterThan returns true if this Money is greater than the other
func (m Money) GreaterThan(other Money) (bool, error) {
	c, err := m.Compare(other)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// String returns a string representation of the Money
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(Scale), m.currency)
}

// StringFixed returns the amount as a string with fixed decimal places
func (m Money) StringFixed() string {
	return m.amount.StringFixed(Scale)
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}{
		Amount:   m.amount.StringFixed(Scale),
		Currency: m.currency,
	})
}

// UnmarshalJSON implements json.Unmarshaler for request binding.
// It goes through NewMoney so the scale check applies to external input.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(v.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	parsed, err := NewMoney(amount, v.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer for database storage.
// Stores as a numeric value (amount only).
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan implements sql.Scanner for database retrieval. Only the amount is
// stored; currency defaults to DefaultCurrency when not already set.
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = decimal.Zero
		m.currency = DefaultCurrency
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}

	amount, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	m.amount = amount
	if m.currency == "" {
		m.currency = DefaultCurrency
	}
	return nil
}
