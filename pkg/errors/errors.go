package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrLoanNotFound          = errors.New("loan not found")
	ErrInvalidLoanTerms      = errors.New("loan terms must be positive")
	ErrInvalidPaymentAmount  = errors.New("invalid payment amount")
	ErrPaymentExceedsBalance = errors.New("payment exceeds remaining balance")
	ErrLoanPaidOff           = errors.New("loan is already paid off")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeCustomerNotFound      = "CUSTOMER_NOT_FOUND"
	ErrCodeLoanNotFound          = "LOAN_NOT_FOUND"
	ErrCodeInvalidLoanTerms      = "INVALID_LOAN_TERMS"
	ErrCodeInvalidCustomerName   = "INVALID_CUSTOMER_NAME"
	ErrCodeInvalidPaymentAmount  = "INVALID_PAYMENT_AMOUNT"
	ErrCodePaymentExceedsBalance = "PAYMENT_EXCEEDS_BALANCE"
	ErrCodeLoanPaidOff           = "LOAN_PAID_OFF"
	ErrCodeDatabaseError         = "DATABASE_ERROR"
	ErrCodeCacheError            = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapCustomerNotFound(customerID string) *BusinessError {
	return NewBusinessError(
		ErrCodeCustomerNotFound,
		fmt.Sprintf("Customer with ID %s not found", customerID),
		ErrCustomerNotFound,
	)
}

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapInvalidLoanTerms(detail string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidLoanTerms,
		fmt.Sprintf("Invalid loan terms: %s", detail),
		ErrInvalidLoanTerms,
	)
}

func WrapInvalidPaymentAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPaymentAmount,
		fmt.Sprintf("Invalid payment amount: %s", amount),
		ErrInvalidPaymentAmount,
	)
}

func WrapPaymentExceedsBalance(amount, balance string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentExceedsBalance,
		fmt.Sprintf("Payment amount %s exceeds remaining balance %s", amount, balance),
		ErrPaymentExceedsBalance,
	)
}

func WrapLoanPaidOff(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanPaidOff,
		fmt.Sprintf("Loan with ID %s is already paid off", loanID),
		ErrLoanPaidOff,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
