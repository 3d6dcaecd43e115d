/**
 * @description
 * Scheduled job bodies for the fixed-deposit service: interest accrual,
 * interest payout, maturity processing and statement generation. Each job
 * reads the logical date from the virtual clock, pages through accounts, and
 * isolates failures per account so one bad row never aborts the batch.
 *
 * Double-posting protection lives here, not only in the dispatcher: before a
 * boundary is posted the ledger is checked for an existing posting with the
 * same (account, kind, boundary date, frequency) key. The dispatcher's daily
 * gate covers the scheduled path; the ledger check also covers manual triggers.
 */

package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SOOD-11/FD-Module-sub000/internal/clock"
	"github.com/SOOD-11/FD-Module-sub000/internal/config"
	"github.com/SOOD-11/FD-Module-sub000/internal/domain"
	"github.com/SOOD-11/FD-Module-sub000/internal/engine"
	"github.com/SOOD-11/FD-Module-sub000/internal/store"
)

// Publisher is the broker surface the service needs. Satisfied by
// rabbitmq.EventProducer; nil-able in tests and degraded deployments.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body interface{}) error
}

// Jobs contains the logic for all scheduled tasks.
type Jobs struct {
	repo      store.Repository
	engine    *engine.Engine
	publisher Publisher
	clk       clock.Clock
	logger    *slog.Logger
	config    config.Config
}

// NewJobs creates a new Jobs runner.
func NewJobs(repo store.Repository, eng *engine.Engine, publisher Publisher, clk clock.Clock, logger *slog.Logger, cfg config.Config) *Jobs {
	if cfg.BatchPageSize <= 0 {
		cfg.BatchPageSize = 200
	}
	return &Jobs{
		repo:      repo,
		engine:    eng,
		publisher: publisher,
		clk:       clk,
		logger:    logger,
		config:    cfg,
	}
}

// RunInterestAccrual walks all ACTIVE accounts and posts one period of
// compound interest for every account whose compounding frequency has a
// boundary on the current logical date.
func (j *Jobs) RunInterestAccrual() {
	ctx := context.Background()
	today := j.clk.Today()
	j.logger.Info("starting interest accrual job", "logical_date", today.Format(time.DateOnly))

	var posted, failed int
	j.forEachActiveAccount(ctx, func(account domain.DepositAccount) {
		ok, err := j.accrueAccount(ctx, &account, today)
		if err != nil {
			failed++
			j.logger.Error("failed to accrue interest for account", "account_id", account.ID, "error", err)
			return
		}
		if ok {
			posted++
		}
	})

	j.logger.Info("interest accrual job finished", "posted", posted, "failed", failed)
}

func (j *Jobs) accrueAccount(ctx context.Context, account *domain.DepositAccount, today time.Time) (bool, error) {
	freq := account.CompoundingFrequency
	if freq == domain.FrequencyNone {
		return false, nil
	}
	if !freq.Known() {
		// Misconfigured account: skip it, keep the batch running.
		j.logger.Warn("skipping account with unrecognized compounding frequency",
			"account_id", account.ID, "frequency", string(freq))
		return false, nil
	}
	if !j.engine.IsBoundary(freq, account.EffectiveDate, today) {
		return false, nil
	}

	exists, err := j.repo.HasBoundaryPosting(ctx, account.ID, domain.TransactionInterestAccrual, today, freq)
	if err != nil {
		return false, err
	}
	if exists {
		j.logger.Info("boundary already posted, skipping",
			"account_id", account.ID, "boundary_date", today.Format(time.DateOnly), "frequency", string(freq))
		return false, nil
	}

	newBalance, delta, err := j.engine.Compound(account.AccruedInterest, account.Principal, account.EffectiveRate, freq)
	if err != nil {
		return false, err
	}
	if !delta.GreaterThan(decimal.Zero) {
		return false, nil
	}

	boundaryDate := today
	tx := &domain.LedgerTransaction{
		ID:           uuid.New(),
		AccountID:    account.ID,
		Kind:         domain.TransactionInterestAccrual,
		Amount:       delta,
		BoundaryDate: &boundaryDate,
		Frequency:    freq,
		Description:  "compound interest accrual",
	}
	if err := j.repo.AppendTransaction(ctx, tx); err != nil {
		return false, err
	}
	if err := j.repo.UpdateAccruedInterest(ctx, account.ID, newBalance); err != nil {
		return false, err
	}

	j.publishEvent(ctx, domain.EventInterestPosted, domain.InterestEvent{
		AccountID:    account.ID.String(),
		Amount:       delta.StringFixed(2),
		Frequency:    string(freq),
		BoundaryDate: today.Format(time.DateOnly),
		OccurredAt:   j.clk.Now(),
	})
	return true, nil
}

// RunInterestPayout pays out the full accrued balance for every account whose
// independent payout frequency has a boundary today, then zeroes the balance.
func (j *Jobs) RunInterestPayout() {
	ctx := context.Background()
	today := j.clk.Today()
	j.logger.Info("starting interest payout job", "logical_date", today.Format(time.DateOnly))

	var paid, failed int
	j.forEachActiveAccount(ctx, func(account domain.DepositAccount) {
		ok, err := j.payoutAccount(ctx, &account, today)
		if err != nil {
			failed++
			j.logger.Error("failed to pay out interest for account", "account_id", account.ID, "error", err)
			return
		}
		if ok {
			paid++
		}
	})

	j.logger.Info("interest payout job finished", "paid", paid, "failed", failed)
}

func (j *Jobs) payoutAccount(ctx context.Context, account *domain.DepositAccount, today time.Time) (bool, error) {
	freq := account.PayoutFrequency
	if freq == domain.FrequencyNone {
		return false, nil
	}
	if !freq.Known() {
		j.logger.Warn("skipping account with unrecognized payout frequency",
			"account_id", account.ID, "frequency", string(freq))
		return false, nil
	}
	if !j.engine.IsBoundary(freq, account.EffectiveDate, today) {
		return false, nil
	}

	exists, err := j.repo.HasBoundaryPosting(ctx, account.ID, domain.TransactionInterestPayout, today, freq)
	if err != nil {
		return false, err
	}
	if exists {
		j.logger.Info("payout boundary already posted, skipping",
			"account_id", account.ID, "boundary_date", today.Format(time.DateOnly), "frequency", string(freq))
		return false, nil
	}

	amount, ok := j.engine.PayoutAmount(account.AccruedInterest)
	if !ok {
		return false, nil
	}

	boundaryDate := today
	tx := &domain.LedgerTransaction{
		ID:           uuid.New(),
		AccountID:    account.ID,
		Kind:         domain.TransactionInterestPayout,
		Amount:       amount,
		BoundaryDate: &boundaryDate,
		Frequency:    freq,
		Description:  "interest payout",
	}
	if err := j.repo.AppendTransaction(ctx, tx); err != nil {
		return false, err
	}
	if err := j.repo.UpdateAccruedInterest(ctx, account.ID, decimal.Zero); err != nil {
		return false, err
	}

	j.publishEvent(ctx, domain.EventInterestPaidOut, domain.InterestEvent{
		AccountID:    account.ID.String(),
		Amount:       amount.StringFixed(2),
		Frequency:    string(freq),
		BoundaryDate: today.Format(time.DateOnly),
		OccurredAt:   j.clk.Now(),
	})
	return true, nil
}

// RunMaturityProcessing marks every account whose maturity date has been
// reached as MATURED and posts the settlement transaction.
func (j *Jobs) RunMaturityProcessing() {
	ctx := context.Background()
	today := j.clk.Today()
	j.logger.Info("starting maturity processing job", "logical_date", today.Format(time.DateOnly))

	// Maturing an account removes it from the ACTIVE candidate set, so the
	// result shrinks as we work. Re-query from the front each time; the offset
	// only moves past rows that failed and therefore stayed in the set.
	var matured, failed int
	offset := 0
	for {
		accounts, err := j.repo.ListMaturityCandidates(ctx, today, j.config.BatchPageSize, offset)
		if err != nil {
			j.logger.Error("failed to list maturity candidates", "error", err)
			return
		}
		if len(accounts) == 0 {
			break
		}
		for i := range accounts {
			if err := j.matureAccount(ctx, &accounts[i]); err != nil {
				failed++
				offset++
				j.logger.Error("failed to mature account", "account_id", accounts[i].ID, "error", err)
				continue
			}
			matured++
		}
	}

	j.logger.Info("maturity processing job finished", "matured", matured, "failed", failed)
}

func (j *Jobs) matureAccount(ctx context.Context, account *domain.DepositAccount) error {
	if err := j.repo.UpdateAccountStatus(ctx, account.ID, domain.AccountStatusMatured); err != nil {
		return err
	}

	tx := &domain.LedgerTransaction{
		ID:          uuid.New(),
		AccountID:   account.ID,
		Kind:        domain.TransactionMaturityPayout,
		Amount:      account.TotalBalance().Round(2),
		Description: "maturity settlement",
	}
	if err := j.repo.AppendTransaction(ctx, tx); err != nil {
		return err
	}

	j.publishEvent(ctx, domain.EventAccountMatured, domain.AccountEvent{
		AccountID:  account.ID.String(),
		CustomerID: account.CustomerID,
		Status:     string(domain.AccountStatusMatured),
		OccurredAt: j.clk.Now(),
	})
	return nil
}

// RunStatementGeneration writes one statement row per ACTIVE account for the
// current logical date. The statements table has a unique (account,
// statement_date) constraint, so a re-run inside the same day inserts nothing.
func (j *Jobs) RunStatementGeneration() {
	ctx := context.Background()
	today := j.clk.Today()
	j.logger.Info("starting statement generation job", "logical_date", today.Format(time.DateOnly))

	var generated, failed int
	j.forEachActiveAccount(ctx, func(account domain.DepositAccount) {
		st := &domain.Statement{
			ID:              uuid.New(),
			AccountID:       account.ID,
			StatementDate:   today,
			Principal:       account.Principal,
			AccruedInterest: account.AccruedInterest,
			ClosingBalance:  account.TotalBalance().Round(2),
		}
		if err := j.repo.InsertStatement(ctx, st); err != nil {
			failed++
			j.logger.Error("failed to insert statement", "account_id", account.ID, "error", err)
			return
		}
		generated++

		j.publishEvent(ctx, domain.EventStatementGenerated, domain.StatementEvent{
			AccountID:      account.ID.String(),
			StatementDate:  today.Format(time.DateOnly),
			ClosingBalance: st.ClosingBalance.StringFixed(2),
			OccurredAt:     j.clk.Now(),
		})
	})

	j.logger.Info("statement generation job finished", "generated", generated, "failed", failed)
}

// forEachActiveAccount pages through ACTIVE accounts and applies fn to each.
// Listing failures abort the walk (the whole book is unreachable); fn is
// responsible for its own per-account error handling.
func (j *Jobs) forEachActiveAccount(ctx context.Context, fn func(account domain.DepositAccount)) {
	for offset := 0; ; offset += j.config.BatchPageSize {
		accounts, err := j.repo.ListActiveAccounts(ctx, j.config.BatchPageSize, offset)
		if err != nil {
			j.logger.Error("failed to list active accounts", "offset", offset, "error", err)
			return
		}
		if len(accounts) == 0 {
			return
		}
		for i := range accounts {
			fn(accounts[i])
		}
		if len(accounts) < j.config.BatchPageSize {
			return
		}
	}
}

// publishEvent is fire-and-forget: failures are logged and swallowed so the
// broker being down never blocks a posting.
func (j *Jobs) publishEvent(ctx context.Context, routingKey string, body interface{}) {
	if j.publisher == nil {
		return
	}
	if err := j.publisher.Publish(ctx, j.config.EventExchange, routingKey, body); err != nil {
		j.logger.Warn("failed to publish event", "routing_key", routingKey, "error", err)
	}
}
