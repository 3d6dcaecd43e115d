/**
 * @description
 * This file contains the core business logic for the fixed-deposit service's
 * account lifecycle: opening, reading, listing and closing deposit accounts.
 * The `Service` struct coordinates the database repository, the sibling
 * service clients (product catalog, customer profile, calculation) and the
 * message broker.
 *
 * @dependencies
 * - internal/domain, internal/store, internal/clock: models, data access, time.
 * - pkg/calculationclient, pkg/productclient, pkg/customerclient: sibling services.
 */

package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SOOD-11/FD-Module-sub000/internal/clock"
	"github.com/SOOD-11/FD-Module-sub000/internal/config"
	"github.com/SOOD-11/FD-Module-sub000/internal/domain"
	"github.com/SOOD-11/FD-Module-sub000/internal/store"
	"github.com/SOOD-11/FD-Module-sub000/pkg/calculationclient"
	"github.com/SOOD-11/FD-Module-sub000/pkg/customerclient"
	"github.com/SOOD-11/FD-Module-sub000/pkg/productclient"
)

// ProductCatalog is the product service surface the lifecycle logic needs.
type ProductCatalog interface {
	GetProduct(ctx context.Context, code string) (*productclient.Product, error)
}

// CustomerDirectory is the customer profile service surface.
type CustomerDirectory interface {
	GetCustomer(ctx context.Context, customerID string) (*customerclient.Customer, error)
}

// MaturityCalculator is the calculation service surface.
type MaturityCalculator interface {
	ProjectMaturity(ctx context.Context, req calculationclient.ProjectionRequest) (*calculationclient.Projection, error)
}

// Service provides the account lifecycle business logic.
type Service struct {
	repo       store.Repository
	products   ProductCatalog
	customers  CustomerDirectory
	calculator MaturityCalculator
	publisher  Publisher
	clk        clock.Clock
	logger     *slog.Logger
	config     config.Config
}

// NewService creates a new account lifecycle service.
func NewService(
	repo store.Repository,
	products ProductCatalog,
	customers CustomerDirectory,
	calculator MaturityCalculator,
	publisher Publisher,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.Config,
) *Service {
	return &Service{
		repo:       repo,
		products:   products,
		customers:  customers,
		calculator: calculator,
		publisher:  publisher,
		clk:        clk,
		logger:     logger,
		config:     cfg,
	}
}

// OpenAccount validates and creates a new fixed-deposit account for the
// authenticated customer. The maturity projection from the calculation service
// is advisory: if that call fails the account is still created and a nil
// projection returned.
func (s *Service) OpenAccount(ctx context.Context, customerID string, req domain.OpenAccountRequest) (*domain.DepositAccount, *calculationclient.Projection, error) {
	principal, err := decimal.NewFromString(strings.TrimSpace(req.Principal))
	if err != nil {
		return nil, nil, domain.NewValidationError("principal %q is not a valid decimal amount", req.Principal)
	}
	if !principal.GreaterThan(decimal.Zero) {
		return nil, nil, domain.NewValidationError("principal must be positive")
	}
	if req.TermMonths <= 0 {
		return nil, nil, domain.NewValidationError("term_months must be positive")
	}

	compounding := domain.ParseFrequency(req.CompoundingFrequency)
	if !compounding.Known() || compounding == domain.FrequencyNone {
		return nil, nil, domain.NewValidationError("unrecognized compounding frequency %q", req.CompoundingFrequency)
	}
	payout := domain.ParseFrequency(req.PayoutFrequency)
	if !payout.Known() {
		return nil, nil, domain.NewValidationError("unrecognized payout frequency %q", req.PayoutFrequency)
	}

	customer, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}
	if customer.Status != "active" {
		return nil, nil, domain.NewValidationError("customer %s is not active", customerID)
	}

	product, err := s.products.GetProduct(ctx, req.ProductCode)
	if err != nil {
		return nil, nil, err
	}
	if req.TermMonths < product.MinTermMonths || (product.MaxTermMonths > 0 && req.TermMonths > product.MaxTermMonths) {
		return nil, nil, domain.NewValidationError("term of %d months is outside product %s's range", req.TermMonths, product.Code)
	}
	if len(product.Frequencies) > 0 && !slices.Contains(product.Frequencies, string(compounding)) {
		return nil, nil, domain.NewValidationError("product %s does not support %s compounding", product.Code, compounding)
	}
	rate, err := decimal.NewFromString(product.AnnualRatePercent)
	if err != nil {
		return nil, nil, fmt.Errorf("product %s carries unparsable rate %q: %w", product.Code, product.AnnualRatePercent, err)
	}

	effectiveDate := s.clk.Today()
	maturityDate := effectiveDate.AddDate(0, req.TermMonths, 0)
	account := &domain.DepositAccount{
		ID:                   uuid.New(),
		CustomerID:           customerID,
		ProductCode:          product.Code,
		Status:               domain.AccountStatusActive,
		Principal:            principal.Round(2),
		EffectiveRate:        rate,
		AccruedInterest:      decimal.Zero,
		CompoundingFrequency: compounding,
		PayoutFrequency:      payout,
		EffectiveDate:        effectiveDate,
		MaturityDate:         &maturityDate,
	}

	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return nil, nil, err
	}
	depositTx := &domain.LedgerTransaction{
		ID:          uuid.New(),
		AccountID:   account.ID,
		Kind:        domain.TransactionPrincipalIn,
		Amount:      account.Principal,
		Description: "principal deposit",
	}
	if err := s.repo.AppendTransaction(ctx, depositTx); err != nil {
		s.logger.Error("failed to record principal deposit", "account_id", account.ID, "error", err)
	}

	projection, err := s.calculator.ProjectMaturity(ctx, calculationclient.ProjectionRequest{
		Principal:         account.Principal.StringFixed(2),
		AnnualRatePercent: rate.String(),
		TermMonths:        req.TermMonths,
		Frequency:         string(compounding),
	})
	if err != nil {
		s.logger.Warn("maturity projection unavailable", "account_id", account.ID, "error", err)
		projection = nil
	}

	s.publishAccountEvent(ctx, domain.EventAccountOpened, account)
	return account, projection, nil
}

// GetAccount fetches a single account, enforcing ownership.
func (s *Service) GetAccount(ctx context.Context, customerID string, accountID uuid.UUID) (*domain.DepositAccount, error) {
	account, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.CustomerID != customerID {
		// Ownership mismatch looks identical to a missing account.
		return nil, store.ErrAccountNotFound
	}
	return account, nil
}

// ListAccounts returns every account belonging to the customer.
func (s *Service) ListAccounts(ctx context.Context, customerID string) ([]domain.DepositAccount, error) {
	return s.repo.ListAccountsByCustomer(ctx, customerID)
}

// CloseAccount transitions an ACTIVE or MATURED account to CLOSED.
func (s *Service) CloseAccount(ctx context.Context, customerID string, accountID uuid.UUID) (*domain.DepositAccount, error) {
	account, err := s.GetAccount(ctx, customerID, accountID)
	if err != nil {
		return nil, err
	}
	if account.Status != domain.AccountStatusActive && account.Status != domain.AccountStatusMatured {
		return nil, domain.NewValidationError("cannot close account in status %s", account.Status)
	}

	if err := s.repo.UpdateAccountStatus(ctx, accountID, domain.AccountStatusClosed); err != nil {
		return nil, err
	}
	account.Status = domain.AccountStatusClosed

	s.publishAccountEvent(ctx, domain.EventAccountClosed, account)
	return account, nil
}

func (s *Service) publishAccountEvent(ctx context.Context, routingKey string, account *domain.DepositAccount) {
	if s.publisher == nil {
		return
	}
	event := domain.AccountEvent{
		AccountID:  account.ID.String(),
		CustomerID: account.CustomerID,
		Status:     string(account.Status),
		OccurredAt: s.clk.Now(),
	}
	if err := s.publisher.Publish(ctx, s.config.EventExchange, routingKey, event); err != nil {
		s.logger.Warn("failed to publish account event", "routing_key", routingKey, "account_id", account.ID, "error", err)
	}
}
