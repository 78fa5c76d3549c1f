package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no rounding needed", "10.00", "10"},
		{"rounds down below half", "10.004", "10"},
		{"rounds half up", "10.005", "10.01"},
		{"rounds up above half", "10.006", "10.01"},
		{"negative half away from zero", "-10.005", "-10.01"},
		{"many decimals", "33.333333", "33.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, d(tt.expected).Equal(RoundMoney(d(tt.input))),
				"RoundMoney(%s) = %s, want %s", tt.input, RoundMoney(d(tt.input)), tt.expected)
		})
	}
}

func TestRoundMoney_IsNotBankersRounding(t *testing.T) {
	// Banker's rounding would give 10.00 and 10.02; statutory rounding gives
	// 10.01 for both half-way values.
	assert.True(t, d("10.01").Equal(RoundMoney(d("10.005"))))
	assert.True(t, d("10.02").Equal(RoundMoney(d("10.015"))))
}

func TestVAT(t *testing.T) {
	tests := []struct {
		name     string
		ht       string
		rate     string
		expected string
	}{
		{"standard rate", "100", "20", "20"},
		{"reduced rate", "100", "5.5", "5.5"},
		{"rounds the vat itself", "10.01", "5.5", "0.55"},
		{"half-up on vat", "9.17", "5.5", "0.5"},
		{"zero rate", "1000", "0", "0"},
		{"zero base", "0", "20", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, d(tt.expected).Equal(VAT(d(tt.ht), d(tt.rate))),
				"VAT(%s, %s) = %s, want %s", tt.ht, tt.rate, VAT(d(tt.ht), d(tt.rate)), tt.expected)
		})
	}
}

func TestTTC_VATRoundedBeforeAddition(t *testing.T) {
	// 10.01 at 5.5%: raw VAT is 0.55055. Rounding the sum as a whole would
	// give 10.56 from 10.56055; rounding the VAT first gives 10.01 + 0.55.
	ht := d("10.01")
	rate := d("5.5")

	ttc := TTC(ht, rate)

	assert.True(t, ht.Add(VAT(ht, rate)).Equal(ttc))
	assert.True(t, d("10.56").Equal(ttc))
}

func TestTTC(t *testing.T) {
	tests := []struct {
		ht       string
		rate     string
		expected string
	}{
		{"100", "20", "120"},
		{"10000", "20", "12000"},
		{"100", "5.5", "105.5"},
		{"0", "20", "0"},
	}

	for _, tt := range tests {
		ttc := TTC(d(tt.ht), d(tt.rate))
		assert.True(t, d(tt.expected).Equal(ttc),
			"TTC(%s, %s) = %s, want %s", tt.ht, tt.rate, ttc, tt.expected)
	}
}

func TestSiteMargin(t *testing.T) {
	t.Run("computes rounded margin", func(t *testing.T) {
		margin, ok := SiteMargin(d("10000"), d("7500"))
		require.True(t, ok)
		assert.True(t, d("25").Equal(margin))
	})

	t.Run("rounds half up", func(t *testing.T) {
		// (10000 - 6666) / 10000 * 100 = 33.34
		margin, ok := SiteMargin(d("10000"), d("6666"))
		require.True(t, ok)
		assert.True(t, d("33.34").Equal(margin))
	})

	t.Run("undefined when revenue is zero", func(t *testing.T) {
		_, ok := SiteMargin(decimal.Zero, d("500"))
		assert.False(t, ok)
	})

	t.Run("undefined when revenue is negative", func(t *testing.T) {
		_, ok := SiteMargin(d("-100"), d("500"))
		assert.False(t, ok)
	})

	t.Run("negative margin when cost exceeds revenue", func(t *testing.T) {
		margin, ok := SiteMargin(d("1000"), d("1500"))
		require.True(t, ok)
		assert.True(t, d("-50").Equal(margin))
	})
}

func TestSiteCosts_Total(t *testing.T) {
	costs := SiteCosts{
		Labor:              d("5000"),
		Materials:          d("3000"),
		Subcontract:        d("1500"),
		EquipmentPurchases: d("800"),
		FleetUsage:         d("200"),
		Travel:             d("120"),
	}

	assert.True(t, d("10620").Equal(costs.Total()))
}

func TestSiteCosts_SegregatedEquipmentAccumulators(t *testing.T) {
	// External purchases and fleet usage contribute independently; moving an
	// amount between them never changes the total, and each stays readable.
	external := SiteCosts{EquipmentPurchases: d("1000")}
	fleet := SiteCosts{FleetUsage: d("1000")}

	assert.True(t, external.Total().Equal(fleet.Total()))
	assert.True(t, external.FleetUsage.IsZero())
	assert.True(t, fleet.EquipmentPurchases.IsZero())
}

func TestSiteCosts_Margin(t *testing.T) {
	costs := SiteCosts{Labor: d("4000"), Materials: d("3500")}

	margin, ok := costs.Margin(d("10000"))
	require.True(t, ok)
	assert.True(t, d("25").Equal(margin))

	_, ok = costs.Margin(decimal.Zero)
	assert.False(t, ok)
}
