package commission

import "github.com/shopspring/decimal"

// Outcome enum - the three distinct results of resolving a sale line against
// a product's commission configuration. Skipped and Disqualified are not the
// same thing: a skipped line produces no record at all, a disqualified line
// produces a zero-amount record that still reports the configured rate.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeDisqualified
	OutcomeEligible
)

// Resolution is the result of Resolve. Rate and Type echo the configuration
// for every outcome except Skipped.
type Resolution struct {
	Outcome Outcome
	Amount  decimal.Decimal
	Rate    decimal.Decimal
	Type    ConfigType
}

var oneHundred = decimal.NewFromInt(100)

// Resolve decides eligibility and computes the commission amount for one sold
// line. Pure function, no I/O.
//
// A fixed commission is value * quantity. A percentage commission applies to
// the caller-supplied post-discount net total, so the commission follows what
// the seller actually charged. A negative net total is not clamped: erroneous
// sales surface as negative commissions instead of silently disappearing.
func Resolve(cfg CommissionConfig, line SaleLineInput) Resolution {
	if !cfg.Enabled {
		return Resolution{Outcome: OutcomeSkipped}
	}

	gross := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))

	// Normalize the applied discount to both units so it can be compared
	// against a limit expressed in either one.
	var discountPct, discountAbs decimal.Decimal
	switch line.DiscountType {
	case DiscountTypePercent:
		discountPct = line.DiscountValue
		discountAbs = line.DiscountValue.Mul(gross).Div(oneHundred)
	default:
		discountAbs = line.DiscountValue
		if gross.IsZero() {
			discountPct = decimal.Zero
		} else {
			discountPct = line.DiscountValue.Mul(oneHundred).Div(gross)
		}
	}

	// A limit of zero means no limit.
	if cfg.DiscountLimitValue.IsPositive() {
		applied := discountAbs
		if cfg.DiscountLimitType == ConfigTypePercentage {
			applied = discountPct
		}
		if applied.GreaterThan(cfg.DiscountLimitValue) {
			return Resolution{
				Outcome: OutcomeDisqualified,
				Amount:  decimal.Zero,
				Rate:    cfg.Value,
				Type:    cfg.Type,
			}
		}
	}

	var amount decimal.Decimal
	if cfg.Type == ConfigTypeFixed {
		amount = cfg.Value.Mul(decimal.NewFromInt(int64(line.Quantity)))
	} else {
		amount = cfg.Value.Mul(line.NetTotal).Div(oneHundred)
	}

	return Resolution{
		Outcome: OutcomeEligible,
		Amount:  amount.Round(2),
		Rate:    cfg.Value,
		Type:    cfg.Type,
	}
}
