package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS loans (
		loan_id           TEXT PRIMARY KEY,
		customer_id       TEXT NOT NULL REFERENCES customers (customer_id),
		principal_amount  NUMERIC NOT NULL,
		interest_rate     NUMERIC NOT NULL,
		loan_period_years NUMERIC NOT NULL,
		monthly_emi       NUMERIC NOT NULL,
		total_amount      NUMERIC NOT NULL,
		status            TEXT NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		payment_id   TEXT PRIMARY KEY,
		loan_id      TEXT NOT NULL REFERENCES loans (loan_id),
		amount       NUMERIC NOT NULL,
		payment_type TEXT NOT NULL,
		payment_date TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_loan_id ON payments (loan_id)`,
	`CREATE INDEX IF NOT EXISTS idx_loans_customer_id ON loans (customer_id)`,
}

// EnsureSchema creates the journal tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
