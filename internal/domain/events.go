/**
 * @description
 * Event payloads published to the message broker for asynchronous processing
 * by the notification service. Publishing is fire-and-forget: a failed publish
 * is logged and swallowed, it never blocks or fails the operation that raised it.
 */

package domain

import "time"

// Routing keys for the topic exchange.
const (
	EventAccountOpened      = "deposit.account.opened"
	EventAccountMatured     = "deposit.account.matured"
	EventAccountClosed      = "deposit.account.closed"
	EventInterestPosted     = "deposit.interest.posted"
	EventInterestPaidOut    = "deposit.interest.paid_out"
	EventStatementGenerated = "deposit.statement.generated"
)

// AccountEvent is the payload for account lifecycle events.
type AccountEvent struct {
	AccountID  string    `json:"account_id"`
	CustomerID string    `json:"customer_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// InterestEvent is the payload for interest accrual and payout events.
type InterestEvent struct {
	AccountID    string    `json:"account_id"`
	Amount       string    `json:"amount"` // decimal string
	Frequency    string    `json:"frequency"`
	BoundaryDate string    `json:"boundary_date"` // YYYY-MM-DD
	OccurredAt   time.Time `json:"occurred_at"`
}

// StatementEvent is the payload for generated statements.
type StatementEvent struct {
	AccountID      string    `json:"account_id"`
	StatementDate  string    `json:"statement_date"` // YYYY-MM-DD
	ClosingBalance string    `json:"closing_balance"`
	OccurredAt     time.Time `json:"occurred_at"`
}
