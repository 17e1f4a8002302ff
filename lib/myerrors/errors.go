package myerrors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInvalidRequest        = "invalid_request"
	CodeResourceNotFound      = "resource_not_found"
	CodeCheckoutNotModifiable = "checkout_not_modifiable"
	CodeIdempotencyConflict   = "idempotency_conflict"
	CodePaymentFailed         = "payment_failed"
	CodeForbidden             = "forbidden"
	CodeUnsupportedMediaType  = "unsupported_media_type"
	CodeInternalError         = "internal_error"
	CodeNotImplemented        = "not_implemented"
	CodeUnavailable           = "unavailable"
)

type httpError struct {
	httpCode  int
	errorCode string
	err       error
}

func (e httpError) Error() string {
	return fmt.Sprintf("status: %d, err: %s", e.httpCode, e.err.Error())
}

func (e httpError) Unwrap() error {
	return e.err
}

func (e httpError) GetHTTPErrorCode() int {
	return e.httpCode
}

func newError(httpCode int, errorCode string, err error) *httpError {
	return &httpError{
		httpCode:  httpCode,
		errorCode: errorCode,
		err:       err,
	}
}

func NewInvalidInputError(err error) *httpError {
	return newError(http.StatusBadRequest, CodeInvalidRequest, err)
}

func NewInvalidInputErrorf(format string, args ...any) *httpError {
	return NewInvalidInputError(fmt.Errorf(format, args...))
}

func NewUnsupportedMediaTypeError(err error) *httpError {
	return newError(http.StatusUnsupportedMediaType, CodeUnsupportedMediaType, err)
}

func NewNotFoundError(err error) *httpError {
	return newError(http.StatusNotFound, CodeResourceNotFound, err)
}

func NewCheckoutNotModifiableError(err error) *httpError {
	return newError(http.StatusConflict, CodeCheckoutNotModifiable, err)
}

func NewIdempotencyConflictError(err error) *httpError {
	return newError(http.StatusConflict, CodeIdempotencyConflict, err)
}

func NewPaymentFailedError(err error) *httpError {
	return newError(http.StatusPaymentRequired, CodePaymentFailed, err)
}

func NewAuthenticationError(err error) *httpError {
	return newError(http.StatusForbidden, CodeForbidden, err)
}

func NewInternalError(err error) *httpError {
	return newError(http.StatusInternalServerError, CodeInternalError, err)
}

func NewNotImplementedError(err error) *httpError {
	return newError(http.StatusNotImplemented, CodeNotImplemented, err)
}

func NewUnavailableError(err error) *httpError {
	return newError(http.StatusServiceUnavailable, CodeUnavailable, err)
}

func GetHTTPStatus(err error) int {
	var myError *httpError
	if errors.As(err, &myError) {
		return myError.httpCode
	}
	return http.StatusInternalServerError
}

// GetErrorCode returns the machine readable code of the outermost classified error.
func GetErrorCode(err error) string {
	var myError *httpError
	if errors.As(err, &myError) {
		return myError.errorCode
	}
	return CodeInternalError
}

// GetMessage returns the message without the status prefix, suitable for clients.
func GetMessage(err error) string {
	var myError *httpError
	if errors.As(err, &myError) {
		return myError.err.Error()
	}
	return err.Error()
}
