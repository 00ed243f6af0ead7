// Package errors provides custom error types for the Gescom API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid username or password", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Commessa errors.
var (
	ErrCommessaNotFound  = &AppError{Code: "COMMESSA_NOT_FOUND", Message: "Commessa not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCommessa = &AppError{Code: "DUPLICATE_COMMESSA", Message: "A commessa with this name already exists", StatusCode: http.StatusConflict}
)

// Budget errors.
var (
	ErrBudgetNotFound       = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrBudgetDetailNotFound = &AppError{Code: "BUDGET_DETAIL_NOT_FOUND", Message: "Budget detail not found", StatusCode: http.StatusNotFound}
	ErrDuplicateBudgetMonth = &AppError{Code: "DUPLICATE_BUDGET_MONTH", Message: "A budget for this competency month already exists", StatusCode: http.StatusConflict}
	ErrLumpSumBudgetDetail  = &AppError{Code: "LUMP_SUM_BUDGET_DETAIL", Message: "A lump-sum budget cannot carry detail lines", StatusCode: http.StatusBadRequest}
)

// Ordine errors.
var (
	ErrOrdineNotFound = &AppError{Code: "ORDINE_NOT_FOUND", Message: "Ordine not found", StatusCode: http.StatusNotFound}
)

// Fattura errors.
var (
	ErrFatturaNotFound       = &AppError{Code: "FATTURA_NOT_FOUND", Message: "Fattura not found", StatusCode: http.StatusNotFound}
	ErrDuplicateFatturaMonth = &AppError{Code: "DUPLICATE_FATTURA_MONTH", Message: "An invoice for this competency month already exists", StatusCode: http.StatusConflict}
)

// Margine errors.
var (
	ErrMargineNotFound       = &AppError{Code: "MARGINE_NOT_FOUND", Message: "Forecast record not found", StatusCode: http.StatusNotFound}
	ErrDuplicateMargineMonth = &AppError{Code: "DUPLICATE_MARGINE_MONTH", Message: "A forecast record for this month already exists", StatusCode: http.StatusConflict}
	ErrCostRateUnavailable   = &AppError{Code: "COST_RATE_UNAVAILABLE", Message: "Hourly cost rate unavailable: set costo medio HH or add budget detail lines", StatusCode: http.StatusUnprocessableEntity}
)
