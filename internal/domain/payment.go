package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentTypeEMI     = "EMI"
	PaymentTypeLumpSum = "LUMP_SUM"
)

// Payment is an append-only transaction record. The payment type is an
// informational tag: EMI and LUMP_SUM reduce the balance identically.
type Payment struct {
	PaymentID   string          `json:"payment_id" db:"payment_id"`
	LoanID      string          `json:"loan_id" db:"loan_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	PaymentType string          `json:"payment_type" db:"payment_type"`
	PaymentDate time.Time       `json:"payment_date" db:"payment_date"`
}

type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required,dgt=0"`
	PaymentType string          `json:"payment_type" validate:"required,oneof=EMI LUMP_SUM"`
}
