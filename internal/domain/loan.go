package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	LoanStatusActive  = "ACTIVE"
	LoanStatusPaidOff = "PAID_OFF"
)

// Loan represents a repayment agreement. TotalAmount and MonthlyEMI are fixed
// at creation; Status is the only field mutated afterwards.
type Loan struct {
	LoanID          string          `json:"loan_id" db:"loan_id"`
	CustomerID      string          `json:"customer_id" db:"customer_id"`
	PrincipalAmount decimal.Decimal `json:"principal_amount" db:"principal_amount"`
	InterestRate    decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	LoanPeriodYears decimal.Decimal `json:"loan_period_years" db:"loan_period_years"`
	MonthlyEMI      decimal.Decimal `json:"monthly_emi" db:"monthly_emi"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status          string          `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	CustomerID      string          `json:"customer_id" validate:"required"`
	PrincipalAmount decimal.Decimal `json:"principal_amount" validate:"required,dgt=0"`
	LoanPeriodYears decimal.Decimal `json:"loan_period_years" validate:"required,dgt=0"`
	InterestRate    decimal.Decimal `json:"interest_rate" validate:"required,dgt=0"`
}

type BalanceResponse struct {
	LoanID           string          `json:"loan_id"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	EMIsLeft         int64           `json:"emis_left"`
	Status           string          `json:"status"`
}
