package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid currency", func(t *testing.T) {
		m, err := NewMoney(d("100.50"), EUR)
		require.NoError(t, err)
		assert.True(t, d("100.50").Equal(m.Amount()))
		assert.Equal(t, EUR, m.Currency())
	})

	t.Run("fails with empty currency", func(t *testing.T) {
		_, err := NewMoney(d("100"), "")
		require.Error(t, err)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyEUR(d("100.50"))
	b := NewMoneyEUR(d("49.50"))

	t.Run("add", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, d("150").Equal(sum.Amount()))
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.True(t, d("51").Equal(diff.Amount()))
	})

	t.Run("multiply", func(t *testing.T) {
		product := a.Multiply(decimal.NewFromInt(2))
		assert.True(t, d("201").Equal(product.Amount()))
	})

	t.Run("rejects mixed currencies", func(t *testing.T) {
		chf, err := NewMoney(d("10"), CHF)
		require.NoError(t, err)
		_, err = a.Add(chf)
		assert.Error(t, err)
		_, err = a.Subtract(chf)
		assert.Error(t, err)
	})
}

func TestMoney_RoundStatutory(t *testing.T) {
	m := NewMoneyEUR(d("10.005"))
	assert.True(t, d("10.01").Equal(m.RoundStatutory().Amount()))
}

func TestMoney_Comparisons(t *testing.T) {
	small := NewMoneyEUR(d("10"))
	big := NewMoneyEUR(d("20"))

	less, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, less)

	gte, err := big.GreaterThanOrEqual(small)
	require.NoError(t, err)
	assert.True(t, gte)

	assert.True(t, small.Equals(NewMoneyEUR(d("10.00"))))
	assert.False(t, small.Equals(big))
}

func TestMoney_JSON(t *testing.T) {
	m := NewMoneyEUR(d("1234.56"))

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"1234.56","currency":"EUR"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("99.95"))
	assert.True(t, d("99.95").Equal(m.Amount()))
	assert.Equal(t, DefaultCurrency, m.Currency())

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())
}
