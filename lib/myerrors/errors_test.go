package myerrors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	myErr := fmt.Errorf("my error")

	testCases := []struct {
		name       string
		in         error
		httpStatus int
		errorCode  string
		errorText  string
	}{
		{
			name:       "No http error",
			in:         myErr,
			httpStatus: 500,
			errorCode:  "internal_error",
			errorText:  "my error",
		},
		{
			name:       "Invalid input error",
			in:         NewInvalidInputError(myErr),
			httpStatus: 400,
			errorCode:  "invalid_request",
			errorText:  "status: 400, err: my error",
		},
		{
			name:       "Invalid input errorf",
			in:         NewInvalidInputErrorf("%s: %d", myErr.Error(), 123),
			httpStatus: 400,
			errorCode:  "invalid_request",
			errorText:  "status: 400, err: my error: 123",
		},
		{
			name:       "Payment failed error",
			in:         NewPaymentFailedError(myErr),
			httpStatus: 402,
			errorCode:  "payment_failed",
			errorText:  "status: 402, err: my error",
		},
		{
			name:       "Authentication error",
			in:         NewAuthenticationError(myErr),
			httpStatus: 403,
			errorCode:  "forbidden",
			errorText:  "status: 403, err: my error",
		},
		{
			name:       "Not found error",
			in:         NewNotFoundError(myErr),
			httpStatus: 404,
			errorCode:  "resource_not_found",
			errorText:  "status: 404, err: my error",
		},
		{
			name:       "Checkout not modifiable error",
			in:         NewCheckoutNotModifiableError(myErr),
			httpStatus: 409,
			errorCode:  "checkout_not_modifiable",
			errorText:  "status: 409, err: my error",
		},
		{
			name:       "Idempotency conflict error",
			in:         NewIdempotencyConflictError(myErr),
			httpStatus: 409,
			errorCode:  "idempotency_conflict",
			errorText:  "status: 409, err: my error",
		},
		{
			name:       "UnsupportedMedia error",
			in:         NewUnsupportedMediaTypeError(myErr),
			httpStatus: 415,
			errorCode:  "unsupported_media_type",
			errorText:  "status: 415, err: my error",
		},
		{
			name:       "Internal error",
			in:         NewInternalError(myErr),
			httpStatus: 500,
			errorCode:  "internal_error",
			errorText:  "status: 500, err: my error",
		},
		{
			name:       "Not implemented error",
			in:         NewNotImplementedError(myErr),
			httpStatus: 501,
			errorCode:  "not_implemented",
			errorText:  "status: 501, err: my error",
		},
		{
			name:       "Not available error",
			in:         NewUnavailableError(myErr),
			httpStatus: 503,
			errorCode:  "unavailable",
			errorText:  "status: 503, err: my error",
		},
		{
			name:       "Wrapped error keeps classification",
			in:         fmt.Errorf("error loading: %w", NewNotFoundError(myErr)),
			httpStatus: 404,
			errorCode:  "resource_not_found",
			errorText:  "error loading: status: 404, err: my error",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.httpStatus, GetHTTPStatus(tc.in))
			assert.Equal(t, tc.errorCode, GetErrorCode(tc.in))
			assert.Equal(t, tc.errorText, tc.in.Error())
		})
	}

	t.Run("Message strips status prefix", func(t *testing.T) {
		assert.Equal(t, "my error", GetMessage(NewPaymentFailedError(myErr)))
		assert.Equal(t, "my error", GetMessage(myErr))
	})
}
