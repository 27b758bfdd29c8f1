package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Kind classifies an application error independently of its message.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindNotFound       Kind = "not_found"
	KindOutOfStock     Kind = "out_of_stock"
	KindConflict       Kind = "conflict"
	KindCheckoutFailed Kind = "checkout_failed"
	KindUnauthorized   Kind = "unauthorized"
	KindForbidden      Kind = "forbidden"
	KindInternal       Kind = "internal"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// holds for every not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(code int, kind Kind, message string, err error) *Error {
	return &Error{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Sentinels for errors.Is. Never mutate these; use the constructors below.
var (
	ErrValidation     = New(http.StatusBadRequest, KindValidation, "Validation error", nil)
	ErrNotFound       = New(http.StatusNotFound, KindNotFound, "Not found", nil)
	ErrOutOfStock     = New(http.StatusConflict, KindOutOfStock, "Not enough stock", nil)
	ErrConflict       = New(http.StatusConflict, KindConflict, "Already exists", nil)
	ErrCheckoutFailed = New(http.StatusInternalServerError, KindCheckoutFailed, "Checkout failed", nil)
	ErrUnauthorized   = New(http.StatusUnauthorized, KindUnauthorized, "Unauthorized", nil)
	ErrForbidden      = New(http.StatusForbidden, KindForbidden, "Forbidden", nil)
	ErrInternalServer = New(http.StatusInternalServerError, KindInternal, "Internal server error", nil)
)

// Validation reports bad input. No mutation has been attempted.
func Validation(message string) *Error {
	return New(http.StatusBadRequest, KindValidation, message, nil)
}

// NotFound reports a missing entity.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, KindNotFound, message, nil)
}

// Conflict reports a unique field that is already taken.
func Conflict(message string) *Error {
	return New(http.StatusConflict, KindConflict, message, nil)
}

// CheckoutFailed wraps an unexpected error raised inside the checkout unit of work.
func CheckoutFailed(err error) *Error {
	return New(http.StatusInternalServerError, KindCheckoutFailed, "An unexpected error occurred. Please try again.", err)
}

// Internal wraps any other unexpected error.
func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, KindInternal, message, err)
}

// StockError reports that a product cannot cover the requested quantity.
type StockError struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Available   int       `json:"available"`
	Requested   int       `json:"requested"`
}

func (e *StockError) Error() string {
	return fmt.Sprintf("Not enough stock for %s. Only %d available.", e.ProductName, e.Available)
}

// Unwrap makes errors.Is(err, ErrOutOfStock) hold.
func (e *StockError) Unwrap() error {
	return ErrOutOfStock
}

// OutOfStock builds a StockError.
func OutOfStock(productID uuid.UUID, productName string, available, requested int) *StockError {
	return &StockError{
		ProductID:   productID,
		ProductName: productName,
		Available:   available,
		Requested:   requested,
	}
}

// HTTPStatus maps err to the status code it should be reported with.
func HTTPStatus(err error) int {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// Message returns the caller-facing message for err. Causes wrapped in
// internal errors are never exposed.
func Message(err error) string {
	var stockErr *StockError
	if stderrors.As(err, &stockErr) {
		return stockErr.Error()
	}
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return ErrInternalServer.Message
}

// Respond writes err as a status=error JSON body and aborts the chain.
func Respond(c *gin.Context, err error) {
	c.AbortWithStatusJSON(HTTPStatus(err), gin.H{
		"status":  "error",
		"message": Message(err),
	})
}

// ErrorMiddleware renders the last error attached with c.Error when the
// handler did not write a response itself.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			Respond(c, c.Errors.Last().Err)
		}
	}
}
