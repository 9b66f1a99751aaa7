package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"TickerLens/internal/analysis"
	"TickerLens/internal/portfolio"
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// AppError represents application-level error with HTTP status.
type AppError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
	Status  int            `json:"-"`
	Err     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewAppError(code, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, Status: status}
}

// WithParam sets a single error param.
func (e *AppError) WithParam(key string, value any) *AppError {
	if e.Params == nil {
		e.Params = make(map[string]any)
	}
	e.Params[key] = value
	return e
}

func dataResponse(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, APIResponse{
		Status:  statusCode,
		Message: http.StatusText(statusCode),
		Data:    data,
	})
}

// SuccessResponse writes a 200 response.
func SuccessResponse(c echo.Context, data any) error {
	return dataResponse(c, http.StatusOK, data)
}

// CreatedResponse writes a 201 response.
func CreatedResponse(c echo.Context, data any) error {
	return dataResponse(c, http.StatusCreated, data)
}

// BadRequestResponse writes a 400 response.
func BadRequestResponse(c echo.Context, data any) error {
	return dataResponse(c, http.StatusBadRequest, data)
}

// NoContentResponse writes a 204 response.
func NoContentResponse(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// AppErrorResponse maps err to a status code. Unknown errors become a 500 without details.
func AppErrorResponse(c echo.Context, err error) error {
	if appErr := toAppError(err); appErr != nil {
		return dataResponse(c, appErr.Status, []*AppError{appErr})
	}
	return dataResponse(c, http.StatusInternalServerError, "Something went wrong")
}

func toAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var noData *analysis.NoDataError
	if errors.As(err, &noData) {
		return NewAppError("ERR_NO_DATA", err.Error(), http.StatusNotFound).WithParam("symbol", noData.Symbol)
	}
	var provider *analysis.ProviderError
	if errors.As(err, &provider) {
		switch {
		case errors.Is(provider, analysis.ErrEmptySymbol):
			return NewAppError("ERR_REQUIRED", "symbol is required", http.StatusBadRequest)
		case provider.Timeout():
			return NewAppError("ERR_PROVIDER_TIMEOUT", err.Error(), http.StatusGatewayTimeout).
				WithParam("symbol", provider.Symbol).
				WithParam("retryable", true)
		default:
			return NewAppError("ERR_PROVIDER", err.Error(), http.StatusBadGateway).
				WithParam("symbol", provider.Symbol).
				WithParam("retryable", provider.Retryable())
		}
	}

	switch {
	case errors.Is(err, analysis.ErrUnknownProfile), errors.Is(err, analysis.ErrInvalidPeriod):
		return NewAppError("ERR_BAD_REQUEST", err.Error(), http.StatusBadRequest)
	case errors.Is(err, portfolio.ErrInvalidShares):
		return NewAppError("ERR_BAD_REQUEST", err.Error(), http.StatusBadRequest)
	case errors.Is(err, portfolio.ErrNotFound):
		return NewAppError("ERR_NOT_FOUND", err.Error(), http.StatusNotFound)
	}
	return nil
}
