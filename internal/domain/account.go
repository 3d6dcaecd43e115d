/**
 * @description
 * This file defines the core domain models for the fixed-deposit service.
 * These structs represent the main entities and data transfer objects (DTOs)
 * used throughout the service's business logic, database interactions, and API layers.
 *
 * @notes
 * - Monetary values use shopspring/decimal rather than floats so that interest
 *   math is exact. Posted amounts are rounded to 2 decimal places, intermediate
 *   rate math to 4.
 */

package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Frequency controls how often interest is compounded into, or paid out of,
// a deposit account. Compounding and payout frequencies are independent.
type Frequency string

const (
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyYearly    Frequency = "YEARLY"
	FrequencyNone      Frequency = ""
)

// ParseFrequency normalizes a raw frequency string. Unknown values are returned
// as-is so callers can decide whether to reject or skip them.
func ParseFrequency(raw string) Frequency {
	return Frequency(strings.ToUpper(strings.TrimSpace(raw)))
}

// Known reports whether the frequency is one the interest engine understands.
// FrequencyNone is "known" in the sense that it deliberately never compounds.
func (f Frequency) Known() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyYearly, FrequencyNone:
		return true
	default:
		return false
	}
}

// AccountStatus is the lifecycle state of a deposit account.
type AccountStatus string

const (
	AccountStatusActive  AccountStatus = "ACTIVE"
	AccountStatusMatured AccountStatus = "MATURED"
	AccountStatusClosed  AccountStatus = "CLOSED"
)

// DepositAccount represents one fixed-deposit holding. This struct maps directly
// to the `deposit_accounts` table.
type DepositAccount struct {
	ID                   uuid.UUID       `json:"id"`
	CustomerID           string          `json:"customer_id"`
	ProductCode          string          `json:"product_code"`
	Status               AccountStatus   `json:"status"`
	Principal            decimal.Decimal `json:"principal"`
	EffectiveRate        decimal.Decimal `json:"effective_rate"` // annualized, percent
	AccruedInterest      decimal.Decimal `json:"accrued_interest"`
	CompoundingFrequency Frequency       `json:"compounding_frequency"`
	PayoutFrequency      Frequency       `json:"payout_frequency"`
	EffectiveDate        time.Time       `json:"effective_date"` // civil date the deposit started
	MaturityDate         *time.Time      `json:"maturity_date,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// TotalBalance returns principal plus accrued interest.
func (a *DepositAccount) TotalBalance() decimal.Decimal {
	return a.Principal.Add(a.AccruedInterest)
}

// OpenAccountRequest is the DTO for incoming account creation API requests.
type OpenAccountRequest struct {
	ProductCode          string `json:"product_code"`
	Principal            string `json:"principal"` // decimal string, e.g. "100000.00"
	TermMonths           int    `json:"term_months"`
	CompoundingFrequency string `json:"compounding_frequency"`
	PayoutFrequency      string `json:"payout_frequency,omitempty"`
}

// CloseAccountRequest is the DTO for closing an account before or after maturity.
type CloseAccountRequest struct {
	Reason string `json:"reason,omitempty"`
}

// Statement is one generated monthly statement row for an account.
type Statement struct {
	ID              uuid.UUID       `json:"id"`
	AccountID       uuid.UUID       `json:"account_id"`
	StatementDate   time.Time       `json:"statement_date"`
	Principal       decimal.Decimal `json:"principal"`
	AccruedInterest decimal.Decimal `json:"accrued_interest"`
	ClosingBalance  decimal.Decimal `json:"closing_balance"`
	CreatedAt       time.Time       `json:"created_at"`
}
