package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/SOOD-11/FD-Module-sub000/internal/clock"
	"github.com/SOOD-11/FD-Module-sub000/internal/config"
	"github.com/SOOD-11/FD-Module-sub000/internal/domain"
	"github.com/SOOD-11/FD-Module-sub000/internal/store"
	"github.com/SOOD-11/FD-Module-sub000/pkg/calculationclient"
	"github.com/SOOD-11/FD-Module-sub000/pkg/customerclient"
	"github.com/SOOD-11/FD-Module-sub000/pkg/productclient"
)

type svcRepoStub struct {
	*jobsRepoStub
	account *domain.DepositAccount
	created *domain.DepositAccount
}

func (s *svcRepoStub) CreateAccount(ctx context.Context, account *domain.DepositAccount) error {
	s.created = account
	return nil
}

func (s *svcRepoStub) FindAccountByID(ctx context.Context, accountID uuid.UUID) (*domain.DepositAccount, error) {
	if s.account == nil || s.account.ID != accountID {
		return nil, store.ErrAccountNotFound
	}
	copied := *s.account
	return &copied, nil
}

type productStub struct {
	product *productclient.Product
	err     error
}

func (s *productStub) GetProduct(ctx context.Context, code string) (*productclient.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

type customerStub struct {
	customer *customerclient.Customer
	err      error
}

func (s *customerStub) GetCustomer(ctx context.Context, customerID string) (*customerclient.Customer, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.customer, nil
}

type calculatorStub struct {
	projection *calculationclient.Projection
	err        error
}

func (s *calculatorStub) ProjectMaturity(ctx context.Context, req calculationclient.ProjectionRequest) (*calculationclient.Projection, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.projection, nil
}

func defaultProduct() *productclient.Product {
	return &productclient.Product{
		Code:              "FD-STD",
		Name:              "Standard Fixed Deposit",
		AnnualRatePercent: "12",
		MinTermMonths:     3,
		MaxTermMonths:     60,
		Frequencies:       []string{"MONTHLY", "QUARTERLY", "YEARLY"},
	}
}

func newTestService(repo store.Repository, products ProductCatalog, customers CustomerDirectory, calculator MaturityCalculator, clk clock.Clock) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, products, customers, calculator, &publisherStub{}, clk, logger, config.Config{EventExchange: "fd_service.events"})
}

func openRequest() domain.OpenAccountRequest {
	return domain.OpenAccountRequest{
		ProductCode:          "FD-STD",
		Principal:            "100000.00",
		TermMonths:           12,
		CompoundingFrequency: "QUARTERLY",
	}
}

func TestOpenAccount_CreatesActiveAccount(t *testing.T) {
	repo := &svcRepoStub{jobsRepoStub: newJobsRepoStub()}
	clk := clock.NewAdjustableClock(time.UTC)
	clk.SetDate(time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC))

	svc := newTestService(repo,
		&productStub{product: defaultProduct()},
		&customerStub{customer: &customerclient.Customer{ID: "cust_1", Status: "active"}},
		&calculatorStub{projection: &calculationclient.Projection{MaturityAmount: "112550.88"}},
		clk,
	)

	account, projection, err := svc.OpenAccount(context.Background(), "cust_1", openRequest())
	if err != nil {
		t.Fatalf("OpenAccount returned error: %v", err)
	}
	if account.Status != domain.AccountStatusActive {
		t.Fatalf("expected ACTIVE status, got %s", account.Status)
	}
	if account.EffectiveDate.Format(time.DateOnly) != "2025-02-20" {
		t.Fatalf("expected effective date from logical clock, got %s", account.EffectiveDate)
	}
	if account.MaturityDate == nil || account.MaturityDate.Format(time.DateOnly) != "2026-02-20" {
		t.Fatalf("expected maturity 12 months out, got %v", account.MaturityDate)
	}
	if account.EffectiveRate.String() != "12" {
		t.Fatalf("expected rate from product catalog, got %s", account.EffectiveRate)
	}
	if projection == nil || projection.MaturityAmount != "112550.88" {
		t.Fatalf("expected projection passed through, got %v", projection)
	}
	if repo.created == nil {
		t.Fatal("expected account persisted")
	}
	if len(repo.transactions) != 1 || repo.transactions[0].Kind != domain.TransactionPrincipalIn {
		t.Fatalf("expected a principal deposit transaction, got %v", repo.transactions)
	}
}

func TestOpenAccount_RejectsBadPrincipal(t *testing.T) {
	repo := &svcRepoStub{jobsRepoStub: newJobsRepoStub()}
	svc := newTestService(repo,
		&productStub{product: defaultProduct()},
		&customerStub{customer: &customerclient.Customer{ID: "cust_1", Status: "active"}},
		&calculatorStub{},
		clock.NewSystemClock(time.UTC),
	)

	req := openRequest()
	req.Principal = "lots"
	_, _, err := svc.OpenAccount(context.Background(), "cust_1", req)

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if repo.created != nil {
		t.Fatal("expected no account persisted on validation failure")
	}
}

func TestOpenAccount_RejectsUnknownFrequency(t *testing.T) {
	repo := &svcRepoStub{jobsRepoStub: newJobsRepoStub()}
	svc := newTestService(repo,
		&productStub{product: defaultProduct()},
		&customerStub{customer: &customerclient.Customer{ID: "cust_1", Status: "active"}},
		&calculatorStub{},
		clock.NewSystemClock(time.UTC),
	)

	req := openRequest()
	req.CompoundingFrequency = "FORTNIGHTLY"
	_, _, err := svc.OpenAccount(context.Background(), "cust_1", req)

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestOpenAccount_RejectsTermOutsideProductRange(t *testing.T) {
	repo := &svcRepoStub{jobsRepoStub: newJobsRepoStub()}
	svc := newTestService(repo,
		&productStub{product: defaultProduct()},
		&customerStub{customer: &customerclient.Customer{ID: "cust_1", Status: "active"}},
		&calculatorStub{},
		clock.NewSystemClock(time.UTC),
	)

	req := openRequest()
	req.TermMonths = 120
	_, _, err := svc.OpenAccount(context.Background(), "cust_1", req)

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestOpenAccount_ToleratesProjectionOutage(t *testing.T) {
	repo := &svcRepoStub{jobsRepoStub: newJobsRepoStub()}
	svc := newTestService(repo,
		&productStub{product: defaultProduct()},
		&customerStub{customer: &customerclient.Customer{ID: "cust_1", Status: "active"}},
		&calculatorStub{err: &domain.UpstreamError{Service: "calculation", Err: errors.New("timeout")}},
		clock.NewSystemClock(time.UTC),
	)

	account, projection, err := svc.OpenAccount(context.Background(), "cust_1", openRequest())
	if err != nil {
		t.Fatalf("expected account creation to survive projection outage, got %v", err)
	}
	if account == nil {
		t.Fatal("expected account created")
	}
	if projection != nil {
		t.Fatal("expected nil projection when calculation service is down")
	}
}

func TestGetAccount_HidesOtherCustomersAccounts(t *testing.T) {
	account := quarterlyAccount(100000)
	repo := &svcRepoStub{jobsRepoStub: newJobsRepoStub(), account: &account}
	svc := newTestService(repo,
		&productStub{product: defaultProduct()},
		&customerStub{customer: &customerclient.Customer{ID: "cust_2", Status: "active"}},
		&calculatorStub{},
		clock.NewSystemClock(time.UTC),
	)

	_, err := svc.GetAccount(context.Background(), "cust_2", account.ID)
	if !errors.Is(err, store.ErrAccountNotFound) {
		t.Fatalf("expected not-found for foreign account, got %v", err)
	}
}

func TestCloseAccount_RejectsAlreadyClosed(t *testing.T) {
	account := quarterlyAccount(100000)
	account.Status = domain.AccountStatusClosed
	repo := &svcRepoStub{jobsRepoStub: newJobsRepoStub(), account: &account}
	svc := newTestService(repo,
		&productStub{product: defaultProduct()},
		&customerStub{customer: &customerclient.Customer{ID: "cust_1", Status: "active"}},
		&calculatorStub{},
		clock.NewSystemClock(time.UTC),
	)

	_, err := svc.CloseAccount(context.Background(), "cust_1", account.ID)

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
