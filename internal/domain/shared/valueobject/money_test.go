package valueobject

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/nexoerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	return derr.Code
}

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), MXN)
		require.NoError(t, err)
		assert.Equal(t, MXN, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		require.Error(t, err)
		assert.Equal(t, "INVALID_AMOUNT", domainCode(t, err))
	})

	t.Run("rejects sub-cent precision", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(10.005), MXN)
		require.Error(t, err)
		assert.Equal(t, "INVALID_AMOUNT", domainCode(t, err))
	})
}

func TestNewMoneyFromFloat(t *testing.T) {
	t.Run("valid float", func(t *testing.T) {
		m, err := NewMoneyFromFloat(99.99, USD)
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(99.99)))
	})

	t.Run("rejects NaN", func(t *testing.T) {
		_, err := NewMoneyFromFloat(math.NaN(), MXN)
		require.Error(t, err)
		assert.Equal(t, "INVALID_AMOUNT", domainCode(t, err))
	})

	t.Run("rejects infinity", func(t *testing.T) {
		_, err := NewMoneyFromFloat(math.Inf(1), MXN)
		require.Error(t, err)
		assert.Equal(t, "INVALID_AMOUNT", domainCode(t, err))
	})

	t.Run("rejects excess precision", func(t *testing.T) {
		_, err := NewMoneyFromFloat(1.234, MXN)
		require.Error(t, err)
		assert.Equal(t, "INVALID_AMOUNT", domainCode(t, err))
	})
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", MXN)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", MXN)
		assert.Error(t, err)
	})
}

func TestMoney_Add(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		a, _ := NewMoneyMXNFromFloat(100.25)
		b, _ := NewMoneyMXNFromFloat(50.75)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromInt(151)))
	})

	t.Run("rejects different currencies", func(t *testing.T) {
		a, _ := NewMoneyFromFloat(100, MXN)
		b, _ := NewMoneyFromFloat(100, USD)
		_, err := a.Add(b)
		require.Error(t, err)
		assert.Equal(t, "CURRENCY_MISMATCH", domainCode(t, err))
	})
}

func TestMoney_Subtract(t *testing.T) {
	t.Run("subtracts same currency", func(t *testing.T) {
		a, _ := NewMoneyMXNFromFloat(100.00)
		b, _ := NewMoneyMXNFromFloat(40.50)
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.True(t, diff.Amount().Equal(decimal.NewFromFloat(59.50)))
	})

	t.Run("fails when result would be negative", func(t *testing.T) {
		a, _ := NewMoneyMXNFromFloat(10.00)
		b, _ := NewMoneyMXNFromFloat(10.01)
		_, err := a.Subtract(b)
		require.Error(t, err)
		assert.Equal(t, "NEGATIVE_RESULT", domainCode(t, err))
	})

	t.Run("exact zero is allowed", func(t *testing.T) {
		a, _ := NewMoneyMXNFromFloat(10.00)
		diff, err := a.Subtract(a)
		require.NoError(t, err)
		assert.True(t, diff.IsZero())
	})
}

func TestMoney_MultiplyByQuantity(t *testing.T) {
	m, _ := NewMoneyMXNFromFloat(50.00)
	result := m.MultiplyByQuantity(2)
	assert.True(t, result.Amount().Equal(decimal.NewFromInt(100)))

	// Scale is preserved through multiplication
	m2, _ := NewMoneyMXNFromFloat(33.33)
	result2 := m2.MultiplyByQuantity(3)
	assert.True(t, result2.Amount().Equal(decimal.NewFromFloat(99.99)))
}

func TestMoney_PercentOf(t *testing.T) {
	t.Run("whole percentage", func(t *testing.T) {
		m, _ := NewMoneyMXNFromFloat(200.00)
		result := m.PercentOf(decimal.NewFromInt(16))
		assert.True(t, result.Amount().Equal(decimal.NewFromInt(32)))
	})

	t.Run("rounds half-up once", func(t *testing.T) {
		// 10.01 * 5% = 0.5005 -> 0.50 is wrong for half-up? 0.5005 rounds to 0.50
		m, _ := NewMoneyMXNFromFloat(10.01)
		result := m.PercentOf(decimal.NewFromInt(5))
		assert.True(t, result.Amount().Equal(decimal.NewFromFloat(0.50)))

		// 12.35 * 10% = 1.235 -> half-up to 1.24
		m2, _ := NewMoneyMXNFromFloat(12.35)
		result2 := m2.PercentOf(decimal.NewFromInt(10))
		assert.True(t, result2.Amount().Equal(decimal.NewFromFloat(1.24)))
	})
}

func TestMoney_Compare(t *testing.T) {
	a, _ := NewMoneyMXNFromFloat(10.00)
	b, _ := NewMoneyMXNFromFloat(20.00)

	c, err := a.Compare(b)
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = b.Compare(a)
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = a.Compare(a)
	require.NoError(t, err)
	assert.Equal(t, 0, c)

	usd, _ := NewMoneyFromFloat(10, USD)
	_, err = a.Compare(usd)
	assert.Error(t, err)
}

func TestMoney_Predicates(t *testing.T) {
	zero := ZeroMXN()
	assert.True(t, zero.IsZero())
	assert.False(t, zero.IsPositive())
	assert.False(t, zero.IsNegative())

	m, _ := NewMoneyMXNFromFloat(0.01)
	assert.False(t, m.IsZero())
	assert.True(t, m.IsPositive())

	less, err := zero.LessThan(m)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := m.GreaterThan(zero)
	require.NoError(t, err)
	assert.True(t, greater)
}

func TestMoney_String(t *testing.T) {
	m, _ := NewMoneyMXNFromFloat(1234.5)
	assert.Equal(t, "1234.50 MXN", m.String())
	assert.Equal(t, "1234.50", m.StringFixed())
}

func TestMoney_JSON(t *testing.T) {
	t.Run("marshal", func(t *testing.T) {
		m, _ := NewMoneyMXNFromFloat(99.90)
		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"99.90","currency":"MXN"}`, string(data))
	})

	t.Run("unmarshal valid", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"45.10","currency":"MXN"}`), &m)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(45.10)))
		assert.Equal(t, MXN, m.Currency())
	})

	t.Run("unmarshal rejects excess precision", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"45.101","currency":"MXN"}`), &m)
		assert.Error(t, err)
	})
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("77.25"))
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(77.25)))
	assert.Equal(t, DefaultCurrency, m.Currency())

	var nilMoney Money
	require.NoError(t, nilMoney.Scan(nil))
	assert.True(t, nilMoney.IsZero())
}
