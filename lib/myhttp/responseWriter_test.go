package myhttp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MarcGrol/ucpcheckout/lib/myerrors"
	"github.com/MarcGrol/ucpcheckout/lib/mylog"
)

func TestWriteError(t *testing.T) {
	c := context.TODO()
	writer := NewWriter(mylog.New("test"))

	t.Run("Client error is surfaced", func(t *testing.T) {
		response := httptest.NewRecorder()

		writer.WriteError(c, response, myerrors.NewCheckoutNotModifiableError(fmt.Errorf("Cannot modify checkout in state 'completed'")))

		assert.Equal(t, http.StatusConflict, response.Code)
		assert.Equal(t, "application/json", response.Header().Get("Content-Type"))
		assert.JSONEq(t, `{
			"status":"requires_escalation",
			"messages":[{
				"type":"error",
				"code":"checkout_not_modifiable",
				"content":"Cannot modify checkout in state 'completed'",
				"severity":"requires_buyer_input"
			}]
		}`, response.Body.String())
	})

	t.Run("Internal error detail is hidden", func(t *testing.T) {
		response := httptest.NewRecorder()

		writer.WriteError(c, response, fmt.Errorf("connection refused to 10.0.0.3:5432"))

		assert.Equal(t, http.StatusInternalServerError, response.Code)
		assert.NotContains(t, response.Body.String(), "10.0.0.3")
		assert.Contains(t, response.Body.String(), `"code": "internal_error"`)
		assert.Contains(t, response.Body.String(), "An unexpected error occurred.")
	})
}

func TestHostnameWithScheme(t *testing.T) {
	r, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.Host = "localhost:8080"
	assert.Equal(t, "http://localhost:8080", HostnameWithScheme(r))

	r.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://localhost:8080", HostnameWithScheme(r))
}
