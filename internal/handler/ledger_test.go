package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditaid/loan-ledger/internal/config"
	"github.com/creditaid/loan-ledger/internal/domain"
	"github.com/creditaid/loan-ledger/internal/ledger"
	"github.com/creditaid/loan-ledger/internal/service"
	customError "github.com/creditaid/loan-ledger/pkg/errors"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

func newTestRouter() *mux.Router {
	svc := service.NewLedgerService(ledger.New(), nil, nil, nil, nil, &config.Config{})
	h := NewLedgerHandler(svc)

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/customers", h.AddCustomer).Methods("POST")
	api.HandleFunc("/customers", h.ListCustomers).Methods("GET")
	api.HandleFunc("/customers/{customerId}", h.GetCustomer).Methods("GET")
	api.HandleFunc("/customers/{customerId}/loans", h.CustomerLoans).Methods("GET")
	api.HandleFunc("/loans", h.CreateLoan).Methods("POST")
	api.HandleFunc("/loans", h.ListLoans).Methods("GET")
	api.HandleFunc("/loans/{loanId}", h.GetLoan).Methods("GET")
	api.HandleFunc("/loans/{loanId}/payments", h.RecordPayment).Methods("POST")
	api.HandleFunc("/loans/{loanId}/payments", h.LoanPayments).Methods("GET")
	api.HandleFunc("/loans/{loanId}/balance", h.Balance).Methods("GET")
	api.HandleFunc("/payments", h.ListPayments).Methods("GET")

	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func addCustomer(t *testing.T, router *mux.Router, name string) domain.Customer {
	t.Helper()

	rec, env := doJSON(t, router, "POST", "/api/v1/customers", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code)

	var customer domain.Customer
	require.NoError(t, json.Unmarshal(env.Data, &customer))
	return customer
}

func createLoan(t *testing.T, router *mux.Router, customerID string) domain.Loan {
	t.Helper()

	rec, env := doJSON(t, router, "POST", "/api/v1/loans", map[string]interface{}{
		"customer_id":       customerID,
		"principal_amount":  100000,
		"loan_period_years": 5,
		"interest_rate":     10,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var loan domain.Loan
	require.NoError(t, json.Unmarshal(env.Data, &loan))
	return loan
}

func TestCreateLoanEndpoint(t *testing.T) {
	router := newTestRouter()
	customer := addCustomer(t, router, "John Doe")

	loan := createLoan(t, router, customer.CustomerID)

	assert.NotEmpty(t, loan.LoanID)
	assert.Equal(t, domain.LoanStatusActive, loan.Status)
	assert.True(t, loan.TotalAmount.Equal(decimal.NewFromInt(150000)))
	assert.True(t, loan.MonthlyEMI.Equal(decimal.NewFromInt(2500)))
}

func TestCreateLoanEndpoint_Validation(t *testing.T) {
	router := newTestRouter()
	customer := addCustomer(t, router, "John Doe")

	tests := []struct {
		name         string
		body         map[string]interface{}
		expectedCode int
	}{
		{
			name: "zero principal",
			body: map[string]interface{}{
				"customer_id":       customer.CustomerID,
				"principal_amount":  0,
				"loan_period_years": 5,
				"interest_rate":     10,
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "negative rate",
			body: map[string]interface{}{
				"customer_id":       customer.CustomerID,
				"principal_amount":  100000,
				"loan_period_years": 5,
				"interest_rate":     -1,
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "missing customer id",
			body: map[string]interface{}{
				"principal_amount":  100000,
				"loan_period_years": 5,
				"interest_rate":     10,
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "unknown customer",
			body: map[string]interface{}{
				"customer_id":       "CUST999",
				"principal_amount":  100000,
				"loan_period_years": 5,
				"interest_rate":     10,
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doJSON(t, router, "POST", "/api/v1/loans", tt.body)
			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestRecordPaymentEndpoint(t *testing.T) {
	router := newTestRouter()
	customer := addCustomer(t, router, "John Doe")
	loan := createLoan(t, router, customer.CustomerID)

	paymentsPath := fmt.Sprintf("/api/v1/loans/%s/payments", loan.LoanID)
	balancePath := fmt.Sprintf("/api/v1/loans/%s/balance", loan.LoanID)

	rec, env := doJSON(t, router, "POST", paymentsPath, map[string]interface{}{
		"amount":       2500,
		"payment_type": "EMI",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var payment domain.Payment
	require.NoError(t, json.Unmarshal(env.Data, &payment))
	assert.Equal(t, domain.PaymentTypeEMI, payment.PaymentType)

	rec, env = doJSON(t, router, "GET", balancePath, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var balance domain.BalanceResponse
	require.NoError(t, json.Unmarshal(env.Data, &balance))
	assert.True(t, balance.RemainingBalance.Equal(decimal.NewFromInt(147500)))
	assert.Equal(t, int64(59), balance.EMIsLeft)
	assert.Equal(t, domain.LoanStatusActive, balance.Status)

	// Settle the loan, then verify further payments are rejected
	rec, _ = doJSON(t, router, "POST", paymentsPath, map[string]interface{}{
		"amount":       147500,
		"payment_type": "LUMP_SUM",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env = doJSON(t, router, "POST", paymentsPath, map[string]interface{}{
		"amount":       1,
		"payment_type": "EMI",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, customError.ErrCodeLoanPaidOff, env.Code)

	rec, env = doJSON(t, router, "GET", balancePath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &balance))
	assert.True(t, balance.RemainingBalance.IsZero())
	assert.Equal(t, int64(0), balance.EMIsLeft)
	assert.Equal(t, domain.LoanStatusPaidOff, balance.Status)
}

func TestRecordPaymentEndpoint_ExceedsBalance(t *testing.T) {
	router := newTestRouter()
	customer := addCustomer(t, router, "John Doe")
	loan := createLoan(t, router, customer.CustomerID)

	rec, env := doJSON(t, router, "POST", fmt.Sprintf("/api/v1/loans/%s/payments", loan.LoanID), map[string]interface{}{
		"amount":       999999999,
		"payment_type": "EMI",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, customError.ErrCodePaymentExceedsBalance, env.Code)

	// Rejection left the balance untouched
	rec, env = doJSON(t, router, "GET", fmt.Sprintf("/api/v1/loans/%s/balance", loan.LoanID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var balance domain.BalanceResponse
	require.NoError(t, json.Unmarshal(env.Data, &balance))
	assert.True(t, balance.RemainingBalance.Equal(decimal.NewFromInt(150000)))
}

func TestRecordPaymentEndpoint_BadType(t *testing.T) {
	router := newTestRouter()
	customer := addCustomer(t, router, "John Doe")
	loan := createLoan(t, router, customer.CustomerID)

	rec, env := doJSON(t, router, "POST", fmt.Sprintf("/api/v1/loans/%s/payments", loan.LoanID), map[string]interface{}{
		"amount":       2500,
		"payment_type": "REFUND",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}

func TestNotFoundResponses(t *testing.T) {
	router := newTestRouter()

	rec, env := doJSON(t, router, "GET", "/api/v1/loans/no-such-loan", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, customError.ErrCodeLoanNotFound, env.Code)

	rec, env = doJSON(t, router, "GET", "/api/v1/loans/no-such-loan/balance", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, customError.ErrCodeLoanNotFound, env.Code)

	rec, env = doJSON(t, router, "GET", "/api/v1/customers/CUST999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, customError.ErrCodeCustomerNotFound, env.Code)
}

func TestListEndpoints(t *testing.T) {
	router := newTestRouter()
	customer := addCustomer(t, router, "John Doe")
	other := addCustomer(t, router, "Jane Smith")

	first := createLoan(t, router, customer.CustomerID)
	createLoan(t, router, other.CustomerID)

	rec, env := doJSON(t, router, "GET", "/api/v1/customers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var customers []domain.Customer
	require.NoError(t, json.Unmarshal(env.Data, &customers))
	assert.Len(t, customers, 2)

	rec, env = doJSON(t, router, "GET", "/api/v1/loans", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var loans []domain.Loan
	require.NoError(t, json.Unmarshal(env.Data, &loans))
	assert.Len(t, loans, 2)

	rec, env = doJSON(t, router, "GET", fmt.Sprintf("/api/v1/customers/%s/loans", customer.CustomerID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &loans))
	require.Len(t, loans, 1)
	assert.Equal(t, first.LoanID, loans[0].LoanID)

	doJSON(t, router, "POST", fmt.Sprintf("/api/v1/loans/%s/payments", first.LoanID), map[string]interface{}{
		"amount":       2500,
		"payment_type": "EMI",
	})

	rec, env = doJSON(t, router, "GET", "/api/v1/payments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var payments []domain.Payment
	require.NoError(t, json.Unmarshal(env.Data, &payments))
	assert.Len(t, payments, 1)
}
