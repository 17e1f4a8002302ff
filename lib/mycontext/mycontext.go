package mycontext

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// CtxTraceContext is a context key for the trace context this (used by mylog)
type CtxTraceContext struct{}

// ContextFromHTTPRequest derives the context of an inbound request, carrying its trace-id.
// The request-context is used as parent so that a client hanging up cancels pending store calls.
func ContextFromHTTPRequest(r *http.Request) context.Context {
	return context.WithValue(r.Context(), CtxTraceContext{}, traceFromRequest(r))
}

// TraceFromContext returns the trace that was attached by ContextFromHTTPRequest or "".
func TraceFromContext(c context.Context) string {
	trace, ok := c.Value(CtxTraceContext{}).(string)
	if !ok {
		return ""
	}
	return trace
}

func traceFromRequest(r *http.Request) string {
	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")

	traceContext := r.Header.Get("X-Cloud-Trace-Context")
	traceParts := strings.Split(traceContext, "/")
	if len(traceParts) > 0 && len(traceParts[0]) > 0 {
		return fmt.Sprintf("projects/%s/traces/%s", projectID, traceParts[0])
	}

	// W3C: version-traceid-parentid-flags
	traceParent := r.Header.Get("traceparent")
	parentParts := strings.Split(traceParent, "-")
	if len(parentParts) == 4 && len(parentParts[1]) == 32 {
		return fmt.Sprintf("projects/%s/traces/%s", projectID, parentParts[1])
	}

	return ""
}
