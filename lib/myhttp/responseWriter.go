package myhttp

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/MarcGrol/ucpcheckout/lib/myerrors"
	"github.com/MarcGrol/ucpcheckout/lib/mylog"
)

const genericErrorMessage = "An unexpected error occurred."

type ResponseWriter interface {
	WriteError(c context.Context, w http.ResponseWriter, err error)
	Write(c context.Context, w http.ResponseWriter, httpStatus int, resp any)
}

// ErrorResponse is the envelope returned for every failed request.
// The status is always requires_escalation: the caller must intervene.
type ErrorResponse struct {
	Status   string         `json:"status"`
	Messages []ErrorMessage `json:"messages"`
}

type ErrorMessage struct {
	Type     string `json:"type"`
	Code     string `json:"code"`
	Content  string `json:"content"`
	Severity string `json:"severity"`
}

type SuccessResponse struct {
	Message string
}

func NewWriter(logger mylog.Logger) ResponseWriter {
	return &responseWriter{
		logger: logger,
	}
}

type responseWriter struct {
	logger mylog.Logger
}

func (rw responseWriter) WriteError(c context.Context, w http.ResponseWriter, err error) {
	httpStatus := myerrors.GetHTTPStatus(err)
	errorCode := myerrors.GetErrorCode(err)
	content := myerrors.GetMessage(err)

	if httpStatus >= http.StatusInternalServerError {
		rw.logger.Log(c, "", mylog.SeverityError, "Error response: http-status:%d, error-code:%s, error-msg:%s", httpStatus, errorCode, err)
		errorCode = myerrors.CodeInternalError
		content = genericErrorMessage
	} else {
		rw.logger.Log(c, "", mylog.SeverityWarn, "Error response: http-status:%d, error-code:%s, error-msg:%s", httpStatus, errorCode, err)
	}

	rw.write(w, httpStatus, ErrorResponse{
		Status: "requires_escalation",
		Messages: []ErrorMessage{
			{
				Type:     "error",
				Code:     errorCode,
				Content:  content,
				Severity: "requires_buyer_input",
			},
		},
	})
}

func (rw responseWriter) Write(c context.Context, w http.ResponseWriter, httpStatus int, resp any) {
	rw.logger.Log(c, "", mylog.SeverityInfo, "Success response: http-status:%d", httpStatus)
	rw.write(w, httpStatus, resp)
}

func (rw responseWriter) write(w http.ResponseWriter, httpStatus int, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "\t")
	err := encoder.Encode(resp)
	if err != nil {
		log.Printf("Error writing response: %s", err)
		return
	}
}
