/**
 * @description
 * This file defines the `Repository` interface, which specifies the contract for
 * all data access operations required by the fixed-deposit service. The batch
 * jobs and the application service depend on this interface rather than on the
 * PostgreSQL implementation, keeping business logic testable with stubs.
 *
 * @dependencies
 * - context, time: Standard Go libraries.
 * - github.com/google/uuid, github.com/shopspring/decimal
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SOOD-11/FD-Module-sub000/internal/domain"
)

// ErrAccountNotFound is returned when an account lookup matches no row.
var ErrAccountNotFound = errors.New("deposit account not found")

// Repository defines the set of methods for interacting with the database.
type Repository interface {
	// Account lifecycle
	CreateAccount(ctx context.Context, account *domain.DepositAccount) error
	FindAccountByID(ctx context.Context, accountID uuid.UUID) (*domain.DepositAccount, error)
	ListAccountsByCustomer(ctx context.Context, customerID string) ([]domain.DepositAccount, error)
	UpdateAccountStatus(ctx context.Context, accountID uuid.UUID, status domain.AccountStatus) error

	// Batch processing reads. ListActiveAccounts pages so a large book does not
	// get loaded in one slice.
	ListActiveAccounts(ctx context.Context, limit, offset int) ([]domain.DepositAccount, error)
	ListMaturityCandidates(ctx context.Context, asOf time.Time, limit, offset int) ([]domain.DepositAccount, error)

	// Ledger writes
	UpdateAccruedInterest(ctx context.Context, accountID uuid.UUID, balance decimal.Decimal) error
	AppendTransaction(ctx context.Context, tx *domain.LedgerTransaction) error

	// HasBoundaryPosting reports whether a posting already exists for the
	// idempotency key (account, kind, boundary date, frequency). Checked before
	// compounding so a manual trigger cannot double-post a boundary the
	// scheduler already served.
	HasBoundaryPosting(ctx context.Context, accountID uuid.UUID, kind domain.TransactionKind, boundaryDate time.Time, freq domain.Frequency) (bool, error)

	// Statements
	InsertStatement(ctx context.Context, st *domain.Statement) error
}
