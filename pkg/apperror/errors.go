package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Currency (CUR) ----

// ErrUnknownCurrency signals a bet or win referencing a currency absent from
// the conversion table. This is the only hard failure of the ledger fold.
func ErrUnknownCurrency(code string) *AppError {
	return New("CUR_001", fmt.Sprintf("unknown currency %q", code), http.StatusUnprocessableEntity)
}

func ErrInvalidRate(code, rate string) *AppError {
	return New("CUR_002", fmt.Sprintf("non-positive rate %s for currency %q", rate, code), http.StatusUnprocessableEntity)
}

// ---- Ledger & Aggregation (LED) ----

func ErrUnknownCustomer(customerID string) *AppError {
	return New("LED_001", fmt.Sprintf("ledger result for customer %q has no reference record", customerID), http.StatusUnprocessableEntity)
}

// ---- Ingestion (ING) ----

func ErrIngestOpen(path string, err error) *AppError {
	return Wrap("ING_001", fmt.Sprintf("cannot open input %q", path), http.StatusUnprocessableEntity, err)
}

func ErrIngestRow(path string, row int, err error) *AppError {
	return Wrap("ING_002", fmt.Sprintf("malformed record in %q at row %d", path, row), http.StatusUnprocessableEntity, err)
}

// ---- Reporting (RPT) ----

func ErrNoCompletedRun() *AppError {
	return New("RPT_001", "no completed run available", http.StatusNotFound)
}

func ErrRunNotFound(runID string) *AppError {
	return New("RPT_002", fmt.Sprintf("run %q not found", runID), http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrInvalidAdminKey() *AppError {
	return New("AUTH_001", "Invalid admin key", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_002", "Internal database error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("REQ_001", message, http.StatusBadRequest)
}
