/**
 * @description
 * Period-boundary detection and compound-interest math for fixed-deposit
 * accounts. Boundaries follow fixed calendar anchors (the 1st of the month,
 * quarter or year), not anniversaries of the account's start date; the only
 * effective-date rule is that no boundary fires on or before the date the
 * account started.
 *
 * All money math uses shopspring/decimal with half-up rounding: 4 fractional
 * digits for the intermediate rate component, 2 for posted amounts.
 */

package engine

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SOOD-11/FD-Module-sub000/internal/domain"
)

var one = decimal.NewFromInt(1)

// Engine evaluates compounding/payout boundaries and computes interest deltas.
type Engine struct {
	logger *slog.Logger
}

// New creates an Engine.
func New(logger *slog.Logger) *Engine {
	return &Engine{logger: logger}
}

// PeriodDivisor returns how many compounding periods the frequency has per
// year. The second return is false for FrequencyNone and unrecognized values.
func PeriodDivisor(freq domain.Frequency) (int64, bool) {
	switch freq {
	case domain.FrequencyMonthly:
		return 12, true
	case domain.FrequencyQuarterly:
		return 4, true
	case domain.FrequencyYearly:
		return 1, true
	default:
		return 0, false
	}
}

// IsBoundary reports whether today is a compounding/payout boundary for the
// given frequency. The effective date itself (and any date before it) is never
// a boundary: an account opened on a quarter start does not compound on its
// opening day.
func (e *Engine) IsBoundary(freq domain.Frequency, effectiveDate, today time.Time) bool {
	if !today.After(truncate(effectiveDate)) {
		return false
	}

	switch freq {
	case domain.FrequencyMonthly:
		return today.Day() == 1
	case domain.FrequencyQuarterly:
		if today.Day() != 1 {
			return false
		}
		switch today.Month() {
		case time.January, time.April, time.July, time.October:
			return true
		}
		return false
	case domain.FrequencyYearly:
		return today.Day() == 1 && today.Month() == time.January
	case domain.FrequencyNone:
		return false
	default:
		e.logger.Warn("unrecognized frequency, treating as no boundary", "frequency", string(freq))
		return false
	}
}

// Compound applies one period of compound interest on top of the current
// balance. The formula compounds on principal plus already-accrued interest:
//
//	rateComponent = effectiveRate / (periodDivisor * 100)   (rounded to 4)
//	delta         = rateComponent * (currentInterest + principal)  (rounded to 2)
//
// It returns the new accrued-interest balance and the delta to post. Unknown
// frequencies yield a ConfigurationError; callers skip the account and keep
// the batch running.
func (e *Engine) Compound(currentInterest, principal, effectiveRate decimal.Decimal, freq domain.Frequency) (decimal.Decimal, decimal.Decimal, error) {
	divisor, ok := PeriodDivisor(freq)
	if !ok {
		return currentInterest, decimal.Zero, domain.NewConfigurationError("cannot compound with frequency %q", string(freq))
	}

	rateComponent := effectiveRate.Div(decimal.NewFromInt(divisor * 100)).Round(4)
	factor := one.Add(rateComponent)
	base := currentInterest.Add(principal)
	newTotal := factor.Mul(base)
	delta := newTotal.Sub(base).Round(2)

	return currentInterest.Add(delta), delta, nil
}

// PayoutAmount returns the amount to pay out at a payout boundary and whether
// a payout transaction should be emitted at all. Zero or negative accrued
// balances emit nothing.
func (e *Engine) PayoutAmount(accruedInterest decimal.Decimal) (decimal.Decimal, bool) {
	if accruedInterest.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, false
	}
	return accruedInterest.Round(2), true
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
