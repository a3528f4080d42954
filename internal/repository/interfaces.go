package repository

import (
	"context"

	"github.com/creditaid/loan-ledger/internal/domain"
)

// CustomerRepository defines the interface for customer journal operations
type CustomerRepository interface {
	// Create journals a registered customer
	Create(ctx context.Context, customer *domain.Customer) error

	// GetAll retrieves all customers in registration order
	GetAll(ctx context.Context) ([]domain.Customer, error)
}

// LoanRepository defines the interface for loan journal operations
type LoanRepository interface {
	// Create journals a newly originated loan
	Create(ctx context.Context, loan *domain.Loan) error

	// UpdateStatus records a loan status transition
	UpdateStatus(ctx context.Context, loanID string, status string) error

	// GetAll retrieves all loans in creation order
	GetAll(ctx context.Context) ([]domain.Loan, error)
}

// PaymentRepository defines the interface for payment journal operations
type PaymentRepository interface {
	// Create journals a recorded payment
	Create(ctx context.Context, payment *domain.Payment) error

	// GetAll retrieves all payments in recording order
	GetAll(ctx context.Context) ([]domain.Payment, error)
}
