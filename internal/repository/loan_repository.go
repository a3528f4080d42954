package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/creditaid/loan-ledger/internal/domain"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (loan_id, customer_id, principal_amount, interest_rate, loan_period_years, monthly_emi, total_amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.LoanID,
		loan.CustomerID,
		loan.PrincipalAmount,
		loan.InterestRate,
		loan.LoanPeriodYears,
		loan.MonthlyEMI,
		loan.TotalAmount,
		loan.Status,
		loan.CreatedAt,
	)

	return err
}

func (r *loanRepository) UpdateStatus(ctx context.Context, loanID string, status string) error {
	query := `
		UPDATE loans
		SET status = $2
		WHERE loan_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, loanID, status)
	return err
}

func (r *loanRepository) GetAll(ctx context.Context) ([]domain.Loan, error) {
	query := `
		SELECT loan_id, customer_id, principal_amount, interest_rate, loan_period_years, monthly_emi, total_amount, status, created_at
		FROM loans
		ORDER BY created_at, loan_id
	`

	var loans []domain.Loan
	if err := r.db.SelectContext(ctx, &loans, query); err != nil {
		return nil, err
	}

	return loans, nil
}
