package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusinessError(t *testing.T) {
	err := WrapLoanNotFound("loan-1")

	assert.Equal(t, ErrCodeLoanNotFound, err.Code)
	assert.Contains(t, err.Error(), "loan-1")
	assert.ErrorIs(t, err, ErrLoanNotFound)
}

func TestBusinessError_WithoutCause(t *testing.T) {
	err := NewBusinessError(ErrCodeInvalidCustomerName, "customer name must not be empty", nil)

	assert.Equal(t, "INVALID_CUSTOMER_NAME: customer name must not be empty", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestWrapPaymentExceedsBalance(t *testing.T) {
	err := WrapPaymentExceedsBalance("999", "100")

	assert.ErrorIs(t, err, ErrPaymentExceedsBalance)
	assert.Contains(t, err.Message, "999")
	assert.Contains(t, err.Message, "100")
}
