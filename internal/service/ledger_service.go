package service

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/creditaid/loan-ledger/internal/config"
	"github.com/creditaid/loan-ledger/internal/domain"
	"github.com/creditaid/loan-ledger/internal/ledger"
	"github.com/creditaid/loan-ledger/internal/repository"
	"github.com/creditaid/loan-ledger/pkg/amortize"
	customError "github.com/creditaid/loan-ledger/pkg/errors"
)

// Demo customers seeded when SEED_DEMO_CUSTOMERS is set and the ledger is empty.
var demoCustomers = []string{"John Doe", "Jane Smith", "Robert Johnson"}

// LedgerService fronts the in-memory ledger with optional durability: every
// committed mutation is written through to the Postgres journal and the
// derived balance is mirrored into redis. The in-memory ledger stays the
// source of truth; journal and cache failures are logged, never rolled back
// into the caller's result.
type LedgerService struct {
	ledger       *ledger.Ledger
	customerRepo repository.CustomerRepository
	loanRepo     repository.LoanRepository
	paymentRepo  repository.PaymentRepository
	redis        *redis.Client
	config       *config.Config
}

func NewLedgerService(
	l *ledger.Ledger,
	customerRepo repository.CustomerRepository,
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	redisClient *redis.Client,
	cfg *config.Config,
) *LedgerService {
	return &LedgerService{
		ledger:       l,
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		paymentRepo:  paymentRepo,
		redis:        redisClient,
		config:       cfg,
	}
}

// Restore replays the journal into the in-memory ledger. Called once at
// startup before the server accepts requests.
func (s *LedgerService) Restore(ctx context.Context) error {
	if s.customerRepo == nil {
		return nil
	}

	customers, err := s.customerRepo.GetAll(ctx)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	loans, err := s.loanRepo.GetAll(ctx)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	payments, err := s.paymentRepo.GetAll(ctx)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.ledger.Restore(customers, loans, payments)
	log.Printf("Restored ledger: %d customers, %d loans, %d payments", len(customers), len(loans), len(payments))
	return nil
}

// SeedDemoCustomers registers the demo customers when enabled and the ledger
// holds none yet.
func (s *LedgerService) SeedDemoCustomers(ctx context.Context) {
	if s.config == nil || !s.config.Demo.SeedCustomers {
		return
	}
	if len(s.ledger.Customers()) > 0 {
		return
	}

	for _, name := range demoCustomers {
		if _, err := s.AddCustomer(ctx, name); err != nil {
			log.Printf("Failed to seed demo customer %q: %v", name, err)
		}
	}
}

// AddCustomer registers a customer and journals the record.
func (s *LedgerService) AddCustomer(ctx context.Context, name string) (domain.Customer, error) {
	customer, err := s.ledger.AddCustomer(name)
	if err != nil {
		return domain.Customer{}, err
	}

	if s.customerRepo != nil {
		if err := s.customerRepo.Create(ctx, &customer); err != nil {
			log.Printf("Failed to journal customer %s: %v", customer.CustomerID, err)
		}
	}

	return customer, nil
}

func (s *LedgerService) GetCustomer(ctx context.Context, customerID string) (domain.Customer, error) {
	return s.ledger.GetCustomer(customerID)
}

func (s *LedgerService) ListCustomers(ctx context.Context) []domain.Customer {
	return s.ledger.Customers()
}

// CreateLoan originates a loan, journals it, and primes the balance cache
// with the full total amount.
func (s *LedgerService) CreateLoan(ctx context.Context, req *domain.CreateLoanRequest) (domain.Loan, error) {
	loan, err := s.ledger.CreateLoan(req.CustomerID, req.PrincipalAmount, req.LoanPeriodYears, req.InterestRate)
	if err != nil {
		return domain.Loan{}, err
	}

	if s.loanRepo != nil {
		if err := s.loanRepo.Create(ctx, &loan); err != nil {
			log.Printf("Failed to journal loan %s: %v", loan.LoanID, err)
		}
	}

	s.cacheBalance(ctx, loan.LoanID, loan.TotalAmount)

	return loan, nil
}

func (s *LedgerService) GetLoan(ctx context.Context, loanID string) (domain.Loan, error) {
	return s.ledger.GetLoan(loanID)
}

func (s *LedgerService) ListLoans(ctx context.Context) []domain.Loan {
	return s.ledger.Loans()
}

func (s *LedgerService) CustomerLoans(ctx context.Context, customerID string) ([]domain.Loan, error) {
	return s.ledger.CustomerLoans(customerID)
}

// RecordPayment applies a payment, journals it, mirrors the new balance into
// the cache, and journals the status transition when the payment settles the
// loan.
func (s *LedgerService) RecordPayment(ctx context.Context, loanID string, req *domain.RecordPaymentRequest) (domain.Payment, error) {
	payment, err := s.ledger.RecordPayment(loanID, req.Amount, req.PaymentType)
	if err != nil {
		return domain.Payment{}, err
	}

	if s.paymentRepo != nil {
		if err := s.paymentRepo.Create(ctx, &payment); err != nil {
			log.Printf("Failed to journal payment %s: %v", payment.PaymentID, err)
		}
	}

	loan, err := s.ledger.GetLoan(loanID)
	if err != nil {
		return payment, nil
	}

	if loan.Status == domain.LoanStatusPaidOff && s.loanRepo != nil {
		if err := s.loanRepo.UpdateStatus(ctx, loanID, domain.LoanStatusPaidOff); err != nil {
			log.Printf("Failed to journal status transition for loan %s: %v", loanID, err)
		}
	}

	if balance, err := s.ledger.RemainingBalance(loanID); err == nil {
		s.cacheBalance(ctx, loanID, balance)
	}

	return payment, nil
}

func (s *LedgerService) LoanPayments(ctx context.Context, loanID string) ([]domain.Payment, error) {
	return s.ledger.LoanPayments(loanID)
}

func (s *LedgerService) ListPayments(ctx context.Context) []domain.Payment {
	return s.ledger.Payments()
}

// RemainingBalance derives the balance and installments left from the
// payment log and refreshes the cache mirror.
func (s *LedgerService) RemainingBalance(ctx context.Context, loanID string) (*domain.BalanceResponse, error) {
	loan, err := s.ledger.GetLoan(loanID)
	if err != nil {
		return nil, err
	}

	balance, err := s.ledger.RemainingBalance(loanID)
	if err != nil {
		return nil, err
	}
	s.cacheBalance(ctx, loanID, balance)

	return &domain.BalanceResponse{
		LoanID:           loanID,
		RemainingBalance: balance,
		EMIsLeft:         amortize.InstallmentsLeft(balance, loan.MonthlyEMI),
		Status:           loan.Status,
	}, nil
}

// cacheBalance mirrors the derived balance into redis for external readers.
// The payment log remains authoritative; a cache failure only logs.
func (s *LedgerService) cacheBalance(ctx context.Context, loanID string, balance decimal.Decimal) {
	if s.redis == nil {
		return
	}

	key := fmt.Sprintf("loan:balance:%s", loanID)
	ttl := s.config.GetCacheTTL()
	if err := s.redis.Set(ctx, key, balance.String(), ttl).Err(); err != nil {
		log.Printf("%v", customError.WrapCacheError(err))
	}
}
