package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/creditaid/loan-ledger/internal/domain"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (payment_id, loan_id, amount, payment_type, payment_date)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.PaymentID,
		payment.LoanID,
		payment.Amount,
		payment.PaymentType,
		payment.PaymentDate,
	)

	return err
}

func (r *paymentRepository) GetAll(ctx context.Context) ([]domain.Payment, error) {
	query := `
		SELECT payment_id, loan_id, amount, payment_type, payment_date
		FROM payments
		ORDER BY payment_date, payment_id
	`

	var payments []domain.Payment
	if err := r.db.SelectContext(ctx, &payments, query); err != nil {
		return nil, err
	}

	return payments, nil
}
