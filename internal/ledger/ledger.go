// Package ledger implements the in-memory loan accounting core: loan
// origination, payment application, and balance derivation.
package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/creditaid/loan-ledger/internal/domain"
	"github.com/creditaid/loan-ledger/pkg/amortize"
	customError "github.com/creditaid/loan-ledger/pkg/errors"
)

// Ledger owns the customer, loan, and payment collections. All mutations are
// serialized behind a single mutex; the balance-check-then-append sequence in
// RecordPayment must be one critical section. Remaining balance is always
// re-derived from the payment log, never kept as a running total.
type Ledger struct {
	mu sync.RWMutex

	customers   map[string]*domain.Customer
	customerIDs []string
	customerSeq int

	loans   map[string]*domain.Loan
	loanIDs []string

	payments []domain.Payment

	now func() time.Time
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{
		customers: make(map[string]*domain.Customer),
		loans:     make(map[string]*domain.Loan),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// AddCustomer registers a customer and returns its record. Identifiers are
// sequential (CUST001, CUST002, ...) from a monotonic counter, so an id is
// never reissued even if registrations race.
func (l *Ledger) AddCustomer(name string) (domain.Customer, error) {
	if name == "" {
		return domain.Customer{}, customError.NewBusinessError(
			customError.ErrCodeInvalidCustomerName, "customer name must not be empty", nil)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.customerSeq++
	customer := &domain.Customer{
		CustomerID: fmt.Sprintf("CUST%03d", l.customerSeq),
		Name:       name,
		CreatedAt:  l.now(),
	}

	l.customers[customer.CustomerID] = customer
	l.customerIDs = append(l.customerIDs, customer.CustomerID)

	return *customer, nil
}

// GetCustomer looks up a customer by id.
func (l *Ledger) GetCustomer(customerID string) (domain.Customer, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	customer, ok := l.customers[customerID]
	if !ok {
		return domain.Customer{}, customError.WrapCustomerNotFound(customerID)
	}
	return *customer, nil
}

// Customers returns all customers in registration order.
func (l *Ledger) Customers() []domain.Customer {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Customer, 0, len(l.customerIDs))
	for _, id := range l.customerIDs {
		out = append(out, *l.customers[id])
	}
	return out
}

// CreateLoan originates a loan for an existing customer. Terms are computed
// once with simple interest and never change afterwards, even when the
// balance is paid down early.
func (l *Ledger) CreateLoan(customerID string, principal, periodYears, annualRatePercent decimal.Decimal) (domain.Loan, error) {
	terms, err := amortize.Compute(principal, periodYears, annualRatePercent)
	if err != nil {
		return domain.Loan{}, customError.WrapInvalidLoanTerms(
			fmt.Sprintf("principal=%s period=%s rate=%s", principal, periodYears, annualRatePercent))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.customers[customerID]; !ok {
		return domain.Loan{}, customError.WrapCustomerNotFound(customerID)
	}

	loan := &domain.Loan{
		LoanID:          uuid.NewString(),
		CustomerID:      customerID,
		PrincipalAmount: principal,
		InterestRate:    annualRatePercent,
		LoanPeriodYears: periodYears,
		MonthlyEMI:      terms.MonthlyEMI,
		TotalAmount:     terms.TotalAmount,
		Status:          domain.LoanStatusActive,
		CreatedAt:       l.now(),
	}

	l.loans[loan.LoanID] = loan
	l.loanIDs = append(l.loanIDs, loan.LoanID)

	return *loan, nil
}

// GetLoan looks up a loan by id.
func (l *Ledger) GetLoan(loanID string) (domain.Loan, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	loan, ok := l.loans[loanID]
	if !ok {
		return domain.Loan{}, customError.WrapLoanNotFound(loanID)
	}
	return *loan, nil
}

// Loans returns all loans in creation order.
func (l *Ledger) Loans() []domain.Loan {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Loan, 0, len(l.loanIDs))
	for _, id := range l.loanIDs {
		out = append(out, *l.loans[id])
	}
	return out
}

// CustomerLoans returns the customer's loans in creation order.
func (l *Ledger) CustomerLoans(customerID string) ([]domain.Loan, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, ok := l.customers[customerID]; !ok {
		return nil, customError.WrapCustomerNotFound(customerID)
	}

	var out []domain.Loan
	for _, id := range l.loanIDs {
		if l.loans[id].CustomerID == customerID {
			out = append(out, *l.loans[id])
		}
	}
	return out, nil
}

// RecordPayment applies a payment to a loan. Validation order: the loan must
// exist, the amount must be positive, the loan must still be active, and the
// amount must not exceed the remaining balance. On failure nothing is
// mutated. When the payment brings the balance to zero the status flips to
// PAID_OFF in the same critical section, so no reader can observe the
// payment without the status change.
func (l *Ledger) RecordPayment(loanID string, amount decimal.Decimal, paymentType string) (domain.Payment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	loan, ok := l.loans[loanID]
	if !ok {
		return domain.Payment{}, customError.WrapLoanNotFound(loanID)
	}
	if !amount.IsPositive() {
		return domain.Payment{}, customError.WrapInvalidPaymentAmount(amount.String())
	}
	if paymentType != domain.PaymentTypeEMI && paymentType != domain.PaymentTypeLumpSum {
		return domain.Payment{}, customError.WrapInvalidPaymentAmount(
			fmt.Sprintf("unknown payment type %q", paymentType))
	}
	if loan.Status == domain.LoanStatusPaidOff {
		return domain.Payment{}, customError.WrapLoanPaidOff(loanID)
	}

	balance := l.remainingBalanceLocked(loan)
	if amount.GreaterThan(balance) {
		return domain.Payment{}, customError.WrapPaymentExceedsBalance(amount.String(), balance.String())
	}

	payment := domain.Payment{
		PaymentID:   uuid.NewString(),
		LoanID:      loanID,
		Amount:      amount,
		PaymentType: paymentType,
		PaymentDate: l.now(),
	}
	l.payments = append(l.payments, payment)

	// ACTIVE -> PAID_OFF is one-way and happens exactly once.
	if l.remainingBalanceLocked(loan).LessThanOrEqual(decimal.Zero) {
		loan.Status = domain.LoanStatusPaidOff
	}

	return payment, nil
}

// LoanPayments returns the loan's payments in recording order.
func (l *Ledger) LoanPayments(loanID string) ([]domain.Payment, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, ok := l.loans[loanID]; !ok {
		return nil, customError.WrapLoanNotFound(loanID)
	}

	var out []domain.Payment
	for _, p := range l.payments {
		if p.LoanID == loanID {
			out = append(out, p)
		}
	}
	return out, nil
}

// Payments returns every recorded payment in recording order.
func (l *Ledger) Payments() []domain.Payment {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Payment, len(l.payments))
	copy(out, l.payments)
	return out
}

// RemainingBalance derives the loan's balance by folding over its payment
// log. Absent loans are a distinct error, not a zero balance.
func (l *Ledger) RemainingBalance(loanID string) (decimal.Decimal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	loan, ok := l.loans[loanID]
	if !ok {
		return decimal.Zero, customError.WrapLoanNotFound(loanID)
	}
	return l.remainingBalanceLocked(loan), nil
}

// EMIsLeft returns how many monthly installments remain against the balance.
func (l *Ledger) EMIsLeft(loanID string) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	loan, ok := l.loans[loanID]
	if !ok {
		return 0, customError.WrapLoanNotFound(loanID)
	}
	return amortize.InstallmentsLeft(l.remainingBalanceLocked(loan), loan.MonthlyEMI), nil
}

func (l *Ledger) remainingBalanceLocked(loan *domain.Loan) decimal.Decimal {
	totalPaid := decimal.Zero
	for _, p := range l.payments {
		if p.LoanID == loan.LoanID {
			totalPaid = totalPaid.Add(p.Amount)
		}
	}
	return loan.TotalAmount.Sub(totalPaid)
}

// Restore rebuilds the ledger from a persisted journal. It replaces any
// existing state; records must be supplied in their original creation order.
func (l *Ledger) Restore(customers []domain.Customer, loans []domain.Loan, payments []domain.Payment) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.customers = make(map[string]*domain.Customer, len(customers))
	l.customerIDs = l.customerIDs[:0]
	l.customerSeq = 0
	for i := range customers {
		c := customers[i]
		l.customers[c.CustomerID] = &c
		l.customerIDs = append(l.customerIDs, c.CustomerID)

		var seq int
		if _, err := fmt.Sscanf(c.CustomerID, "CUST%d", &seq); err == nil && seq > l.customerSeq {
			l.customerSeq = seq
		}
	}

	l.loans = make(map[string]*domain.Loan, len(loans))
	l.loanIDs = l.loanIDs[:0]
	for i := range loans {
		loan := loans[i]
		l.loans[loan.LoanID] = &loan
		l.loanIDs = append(l.loanIDs, loan.LoanID)
	}

	l.payments = append([]domain.Payment(nil), payments...)
}
