package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/creditaid/loan-ledger/internal/domain"
)

type customerRepository struct {
	db *sqlx.DB
}

func NewCustomerRepository(db *sqlx.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (customer_id, name, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query,
		customer.CustomerID,
		customer.Name,
		customer.CreatedAt,
	)

	return err
}

func (r *customerRepository) GetAll(ctx context.Context) ([]domain.Customer, error) {
	query := `
		SELECT customer_id, name, created_at
		FROM customers
		ORDER BY customer_id
	`

	var customers []domain.Customer
	if err := r.db.SelectContext(ctx, &customers, query); err != nil {
		return nil, err
	}

	return customers, nil
}
