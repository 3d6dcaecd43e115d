/**
 * @description
 * PostgreSQL implementation of the Repository interface using pgx. Contains all
 * SQL for the deposit_accounts, ledger_transactions and statements tables.
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SOOD-11/FD-Module-sub000/internal/domain"
)

// PostgresRepository handles database operations for the fixed-deposit service.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new repository backed by the given pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `
	id, customer_id, product_code, status, principal, effective_rate,
	accrued_interest, compounding_frequency, payout_frequency,
	effective_date, maturity_date, created_at, updated_at
`

func scanAccount(row pgx.Row) (*domain.DepositAccount, error) {
	var a domain.DepositAccount
	var compounding, payout string
	err := row.Scan(
		&a.ID, &a.CustomerID, &a.ProductCode, &a.Status, &a.Principal, &a.EffectiveRate,
		&a.AccruedInterest, &compounding, &payout,
		&a.EffectiveDate, &a.MaturityDate, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.CompoundingFrequency = domain.Frequency(compounding)
	a.PayoutFrequency = domain.Frequency(payout)
	return &a, nil
}

// CreateAccount inserts a new deposit account.
func (r *PostgresRepository) CreateAccount(ctx context.Context, account *domain.DepositAccount) error {
	query := `
        INSERT INTO deposit_accounts (
            id, customer_id, product_code, status, principal, effective_rate,
            accrued_interest, compounding_frequency, payout_frequency,
            effective_date, maturity_date, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
    `
	_, err := r.db.Exec(ctx, query,
		account.ID, account.CustomerID, account.ProductCode, account.Status,
		account.Principal, account.EffectiveRate, account.AccruedInterest,
		string(account.CompoundingFrequency), string(account.PayoutFrequency),
		account.EffectiveDate, account.MaturityDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert deposit account: %w", err)
	}
	return nil
}

// FindAccountByID fetches a single account by its id.
func (r *PostgresRepository) FindAccountByID(ctx context.Context, accountID uuid.UUID) (*domain.DepositAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM deposit_accounts WHERE id = $1`
	account, err := scanAccount(r.db.QueryRow(ctx, query, accountID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

// ListAccountsByCustomer returns every account belonging to a customer.
func (r *PostgresRepository) ListAccountsByCustomer(ctx context.Context, customerID string) ([]domain.DepositAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM deposit_accounts WHERE customer_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// UpdateAccountStatus transitions an account's lifecycle state.
func (r *PostgresRepository) UpdateAccountStatus(ctx context.Context, accountID uuid.UUID, status domain.AccountStatus) error {
	query := `UPDATE deposit_accounts SET status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, string(status), accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// ListActiveAccounts returns one page of ACTIVE accounts, ordered by id so
// paging is stable across a batch run.
func (r *PostgresRepository) ListActiveAccounts(ctx context.Context, limit, offset int) ([]domain.DepositAccount, error) {
	query := `
        SELECT ` + accountColumns + `
        FROM deposit_accounts
        WHERE status = 'ACTIVE'
        ORDER BY id
        LIMIT $1 OFFSET $2
    `
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// ListMaturityCandidates returns ACTIVE accounts whose maturity date is on or
// before the given logical date.
func (r *PostgresRepository) ListMaturityCandidates(ctx context.Context, asOf time.Time, limit, offset int) ([]domain.DepositAccount, error) {
	query := `
        SELECT ` + accountColumns + `
        FROM deposit_accounts
        WHERE status = 'ACTIVE'
          AND maturity_date IS NOT NULL
          AND maturity_date <= $1
        ORDER BY id
        LIMIT $2 OFFSET $3
    `
	rows, err := r.db.Query(ctx, query, asOf, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// UpdateAccruedInterest sets the running interest balance for an account.
func (r *PostgresRepository) UpdateAccruedInterest(ctx context.Context, accountID uuid.UUID, balance decimal.Decimal) error {
	query := `UPDATE deposit_accounts SET accrued_interest = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, balance, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// AppendTransaction inserts a ledger transaction record.
func (r *PostgresRepository) AppendTransaction(ctx context.Context, tx *domain.LedgerTransaction) error {
	query := `
        INSERT INTO ledger_transactions (
            id, account_id, kind, amount, boundary_date, frequency, description, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
    `
	_, err := r.db.Exec(ctx, query,
		tx.ID, tx.AccountID, string(tx.Kind), tx.Amount,
		tx.BoundaryDate, string(tx.Frequency), tx.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to append ledger transaction: %w", err)
	}
	return nil
}

// HasBoundaryPosting checks the idempotency key against the ledger.
func (r *PostgresRepository) HasBoundaryPosting(ctx context.Context, accountID uuid.UUID, kind domain.TransactionKind, boundaryDate time.Time, freq domain.Frequency) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM ledger_transactions
            WHERE account_id = $1
              AND kind = $2
              AND boundary_date = $3
              AND frequency = $4
        )
    `
	var exists bool
	err := r.db.QueryRow(ctx, query, accountID, string(kind), boundaryDate, string(freq)).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// InsertStatement stores one generated statement row.
func (r *PostgresRepository) InsertStatement(ctx context.Context, st *domain.Statement) error {
	query := `
        INSERT INTO statements (
            id, account_id, statement_date, principal, accrued_interest, closing_balance, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, NOW())
        ON CONFLICT (account_id, statement_date) DO NOTHING
    `
	_, err := r.db.Exec(ctx, query,
		st.ID, st.AccountID, st.StatementDate, st.Principal, st.AccruedInterest, st.ClosingBalance,
	)
	return err
}

func collectAccounts(rows pgx.Rows) ([]domain.DepositAccount, error) {
	var accounts []domain.DepositAccount
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}
