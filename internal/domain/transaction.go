/**
 * @description
 * Ledger transaction model for the fixed-deposit service. Every interest
 * accrual, interest payout, and maturity settlement produces one of these rows.
 *
 * @notes
 * - Boundary postings carry (account, boundary date, kind, frequency) which
 *   together form the idempotency key checked before compounding, so a manual
 *   job trigger cannot double-post a boundary the scheduler already served.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind classifies a ledger posting.
type TransactionKind string

const (
	TransactionInterestAccrual TransactionKind = "INTEREST_ACCRUAL"
	TransactionInterestPayout  TransactionKind = "INTEREST_PAYOUT"
	TransactionMaturityPayout  TransactionKind = "MATURITY_PAYOUT"
	TransactionPrincipalIn     TransactionKind = "PRINCIPAL_DEPOSIT"
)

// LedgerTransaction is the central ledger record for any money movement on a
// deposit account. Maps directly to the `ledger_transactions` table.
type LedgerTransaction struct {
	ID           uuid.UUID       `json:"id"`
	AccountID    uuid.UUID       `json:"account_id"`
	Kind         TransactionKind `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	BoundaryDate *time.Time      `json:"boundary_date,omitempty"`
	Frequency    Frequency       `json:"frequency,omitempty"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
}
