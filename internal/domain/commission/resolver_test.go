package commission

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func enabledConfig(cfgType ConfigType, value string) CommissionConfig {
	return CommissionConfig{
		Enabled: true,
		Type:    cfgType,
		Value:   dec(value),
	}
}

func TestResolve_DisabledConfigSkips(t *testing.T) {
	cfg := CommissionConfig{
		Enabled: false,
		Type:    ConfigTypePercentage,
		Value:   dec("10"),
	}
	line := SaleLineInput{UnitPrice: dec("100"), Quantity: 2, NetTotal: dec("200")}

	res := Resolve(cfg, line)

	assert.Equal(t, OutcomeSkipped, res.Outcome)
	assert.True(t, res.Amount.IsZero())
}

func TestResolve_PercentageAppliesToNetTotal(t *testing.T) {
	cfg := enabledConfig(ConfigTypePercentage, "10")
	line := SaleLineInput{
		UnitPrice:    dec("150"),
		Quantity:     2,
		DiscountType: DiscountTypeAbsolute,
		NetTotal:     dec("200"), // post-discount, not gross
	}

	res := Resolve(cfg, line)

	assert.Equal(t, OutcomeEligible, res.Outcome)
	assert.Equal(t, "20.00", res.Amount.StringFixed(2))
	assert.Equal(t, "10", res.Rate.String())
	assert.Equal(t, ConfigTypePercentage, res.Type)
}

func TestResolve_FixedMultipliesByQuantity(t *testing.T) {
	cfg := enabledConfig(ConfigTypeFixed, "15")
	line := SaleLineInput{
		UnitPrice:    dec("999"),
		Quantity:     3,
		DiscountType: DiscountTypeAbsolute,
		NetTotal:     dec("1"), // irrelevant for fixed commissions
	}

	res := Resolve(cfg, line)

	assert.Equal(t, OutcomeEligible, res.Outcome)
	assert.Equal(t, "45.00", res.Amount.StringFixed(2))
}

func TestResolve_DiscountOverPercentLimitDisqualifies(t *testing.T) {
	cfg := enabledConfig(ConfigTypePercentage, "10")
	cfg.DiscountLimitType = ConfigTypePercentage
	cfg.DiscountLimitValue = dec("10")

	line := SaleLineInput{
		UnitPrice:     dec("100"),
		Quantity:      1,
		DiscountType:  DiscountTypePercent,
		DiscountValue: dec("15"),
		NetTotal:      dec("85"),
	}

	res := Resolve(cfg, line)

	assert.Equal(t, OutcomeDisqualified, res.Outcome)
	assert.True(t, res.Amount.IsZero())
	// Disqualification still reports the configured rate and type.
	assert.Equal(t, "10", res.Rate.String())
	assert.Equal(t, ConfigTypePercentage, res.Type)
}

func TestResolve_AbsoluteDiscountNormalizedAgainstPercentLimit(t *testing.T) {
	cfg := enabledConfig(ConfigTypePercentage, "5")
	cfg.DiscountLimitType = ConfigTypePercentage
	cfg.DiscountLimitValue = dec("10")

	// 30 absolute on a 200 gross is 15%, over the 10% limit.
	line := SaleLineInput{
		UnitPrice:     dec("100"),
		Quantity:      2,
		DiscountType:  DiscountTypeAbsolute,
		DiscountValue: dec("30"),
		NetTotal:      dec("170"),
	}

	res := Resolve(cfg, line)

	assert.Equal(t, OutcomeDisqualified, res.Outcome)
}

func TestResolve_PercentDiscountNormalizedAgainstFixedLimit(t *testing.T) {
	cfg := enabledConfig(ConfigTypeFixed, "10")
	cfg.DiscountLimitType = ConfigTypeFixed
	cfg.DiscountLimitValue = dec("20")

	// 15% of a 200 gross is 30 absolute, over the 20 limit.
	line := SaleLineInput{
		UnitPrice:     dec("100"),
		Quantity:      2,
		DiscountType:  DiscountTypePercent,
		DiscountValue: dec("15"),
		NetTotal:      dec("170"),
	}

	res := Resolve(cfg, line)

	assert.Equal(t, OutcomeDisqualified, res.Outcome)
}

func TestResolve_DiscountAtLimitStillEligible(t *testing.T) {
	cfg := enabledConfig(ConfigTypePercentage, "10")
	cfg.DiscountLimitType = ConfigTypePercentage
	cfg.DiscountLimitValue = dec("10")

	line := SaleLineInput{
		UnitPrice:     dec("100"),
		Quantity:      1,
		DiscountType:  DiscountTypePercent,
		DiscountValue: dec("10"),
		NetTotal:      dec("90"),
	}

	res := Resolve(cfg, line)

	assert.Equal(t, OutcomeEligible, res.Outcome)
	assert.Equal(t, "9.00", res.Amount.StringFixed(2))
}

func TestResolve_ZeroLimitMeansNoLimit(t *testing.T) {
	cfg := enabledConfig(ConfigTypePercentage, "10")
	cfg.DiscountLimitType = ConfigTypePercentage
	cfg.DiscountLimitValue = decimal.Zero

	line := SaleLineInput{
		UnitPrice:     dec("100"),
		Quantity:      1,
		DiscountType:  DiscountTypePercent,
		DiscountValue: dec("99"),
		NetTotal:      dec("1"),
	}

	res := Resolve(cfg, line)

	assert.Equal(t, OutcomeEligible, res.Outcome)
}

func TestResolve_ZeroGrossGuardsDivision(t *testing.T) {
	cfg := enabledConfig(ConfigTypePercentage, "10")
	cfg.DiscountLimitType = ConfigTypePercentage
	cfg.DiscountLimitValue = dec("5")

	// Free item with an absolute discount: percentage normalization of the
	// discount must not divide by a zero gross.
	line := SaleLineInput{
		UnitPrice:     decimal.Zero,
		Quantity:      1,
		DiscountType:  DiscountTypeAbsolute,
		DiscountValue: dec("10"),
		NetTotal:      decimal.Zero,
	}

	res := Resolve(cfg, line)

	assert.Equal(t, OutcomeEligible, res.Outcome)
	assert.True(t, res.Amount.IsZero())
}

func TestResolve_NegativeNetTotalFlowsThrough(t *testing.T) {
	cfg := enabledConfig(ConfigTypePercentage, "10")
	line := SaleLineInput{
		UnitPrice:    dec("100"),
		Quantity:     1,
		DiscountType: DiscountTypeAbsolute,
		NetTotal:     dec("-50"),
	}

	res := Resolve(cfg, line)

	// Erroneous sales surface as negative commissions, never silently zeroed.
	assert.Equal(t, OutcomeEligible, res.Outcome)
	assert.Equal(t, "-5.00", res.Amount.StringFixed(2))
}

func TestResolve_RoundsHalfUpToTwoPlaces(t *testing.T) {
	cfg := enabledConfig(ConfigTypePercentage, "10")
	line := SaleLineInput{
		UnitPrice:    dec("123.45"),
		Quantity:     1,
		DiscountType: DiscountTypeAbsolute,
		NetTotal:     dec("123.45"), // 10% = 12.345
	}

	res := Resolve(cfg, line)

	assert.Equal(t, "12.35", res.Amount.StringFixed(2))
}
