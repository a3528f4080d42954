package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/creditaid/loan-ledger/internal/domain"
	"github.com/creditaid/loan-ledger/internal/service"
	customError "github.com/creditaid/loan-ledger/pkg/errors"
	"github.com/creditaid/loan-ledger/pkg/response"
)

type LedgerHandler struct {
	service   *service.LedgerService
	validator *validator.Validate
}

func NewLedgerHandler(svc *service.LedgerService) *LedgerHandler {
	v := validator.New()

	// dgt: decimal strictly greater than the tag parameter, e.g. dgt=0
	_ = v.RegisterValidation("dgt", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(decimal.Decimal)
		if !ok {
			return false
		}
		min, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		return value.GreaterThan(min)
	})

	return &LedgerHandler{
		service:   svc,
		validator: v,
	}
}

// AddCustomer handles POST /api/v1/customers
func (h *LedgerHandler) AddCustomer(w http.ResponseWriter, r *http.Request) {
	var req domain.AddCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	customer, err := h.service.AddCustomer(r.Context(), req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, customer)
}

// ListCustomers handles GET /api/v1/customers
func (h *LedgerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.ListCustomers(r.Context()))
}

// GetCustomer handles GET /api/v1/customers/{customerId}
func (h *LedgerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["customerId"]

	customer, err := h.service.GetCustomer(r.Context(), customerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, customer)
}

// CustomerLoans handles GET /api/v1/customers/{customerId}/loans
func (h *LedgerHandler) CustomerLoans(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["customerId"]

	loans, err := h.service.CustomerLoans(r.Context(), customerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, loans)
}

// CreateLoan handles POST /api/v1/loans
func (h *LedgerHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	loan, err := h.service.CreateLoan(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, loan)
}

// ListLoans handles GET /api/v1/loans
func (h *LedgerHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.ListLoans(r.Context()))
}

// GetLoan handles GET /api/v1/loans/{loanId}
func (h *LedgerHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	loan, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, loan)
}

// RecordPayment handles POST /api/v1/loans/{loanId}/payments
func (h *LedgerHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	var req domain.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	payment, err := h.service.RecordPayment(r.Context(), loanID, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, payment)
}

// LoanPayments handles GET /api/v1/loans/{loanId}/payments
func (h *LedgerHandler) LoanPayments(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	payments, err := h.service.LoanPayments(r.Context(), loanID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, payments)
}

// ListPayments handles GET /api/v1/payments
func (h *LedgerHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.ListPayments(r.Context()))
}

// Balance handles GET /api/v1/loans/{loanId}/balance
func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	balance, err := h.service.RemainingBalance(r.Context(), loanID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, balance)
}

// writeError maps business error codes onto HTTP statuses.
func (h *LedgerHandler) writeError(w http.ResponseWriter, err error) {
	var bizErr *customError.BusinessError
	if !errors.As(err, &bizErr) {
		response.InternalServerError(w, "Internal server error", err)
		return
	}

	switch bizErr.Code {
	case customError.ErrCodeCustomerNotFound, customError.ErrCodeLoanNotFound:
		response.NotFound(w, bizErr.Code, bizErr.Message)
	case customError.ErrCodeInvalidLoanTerms, customError.ErrCodeInvalidCustomerName, customError.ErrCodeInvalidPaymentAmount:
		response.Error(w, http.StatusBadRequest, bizErr.Code, bizErr.Message, nil)
	case customError.ErrCodePaymentExceedsBalance, customError.ErrCodeLoanPaidOff:
		response.UnprocessableEntity(w, bizErr.Code, bizErr.Message)
	default:
		response.InternalServerError(w, bizErr.Message, bizErr.Err)
	}
}
