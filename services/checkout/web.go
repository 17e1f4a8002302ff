package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"

	formcodec "github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/MarcGrol/ucpcheckout/lib/mycontext"
	"github.com/MarcGrol/ucpcheckout/lib/myerrors"
	"github.com/MarcGrol/ucpcheckout/lib/myhttp"
	"github.com/MarcGrol/ucpcheckout/lib/mylog"
	"github.com/MarcGrol/ucpcheckout/services/checkout/checkoutmodel"
	"github.com/MarcGrol/ucpcheckout/services/checkout/extensions"
)

const idempotencyKeyHeader = "Idempotency-Key"

type ListResponse struct {
	CheckoutSessions []checkoutmodel.Session `json:"checkout_sessions"`
}

// The bodies below decode the extensions raw, shadowing the typed fields of
// the embedded request, so that a malformed extension never fails decoding.

type createPayload struct {
	checkoutmodel.CreateRequest
	Fulfillment json.RawMessage `json:"fulfillment,omitempty"`
	Discounts   json.RawMessage `json:"discounts,omitempty"`
}

type updatePayload struct {
	checkoutmodel.UpdateRequest
	Fulfillment json.RawMessage `json:"fulfillment,omitempty"`
	Discounts   json.RawMessage `json:"discounts,omitempty"`
}

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(cfg Config, deps Collaborators) (*webService, error) {
	validator, err := extensions.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("error loading extension schemas: %s", err)
	}

	logger := mylog.New("checkout")
	return &webService{
		logger:  logger,
		service: newService(cfg, deps, validator, logger),
	}, nil
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/.well-known/ucp", s.discoveryPage()).Methods("GET")

	router.HandleFunc("/checkout-sessions", s.createPage()).Methods("POST")
	router.HandleFunc("/checkout-sessions", s.listPage()).Methods("GET")
	router.HandleFunc("/checkout-sessions/{id}", s.getPage()).Methods("GET")
	router.HandleFunc("/checkout-sessions/{id}", s.updatePage()).Methods("PUT")
	router.HandleFunc("/checkout-sessions/{id}/cancel", s.cancelPage()).Methods("POST")
	router.HandleFunc("/checkout-sessions/{id}/complete", s.completePage()).Methods("POST")

	return nil
}

func (s *webService) discoveryPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		profile := s.service.profile
		if s.service.cfg.BaseURL == "" {
			profile = newDiscoveryProfile(s.service.cfg.UCPVersion, myhttp.HostnameWithScheme(r))
		}

		responseWriter.Write(c, w, http.StatusOK, profile)
	}
}

func (s *webService) createPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		_, err := s.service.validateAgent(c, r.Header.Get(ucpAgentHeader))
		if err != nil {
			responseWriter.WriteError(c, w, err)
			return
		}

		body := createPayload{}
		err = decodeBody(r, &body)
		if err != nil {
			responseWriter.WriteError(c, w, err)
			return
		}

		session, err := s.service.createCheckout(c, r.Header.Get(idempotencyKeyHeader), createCommand{
			Request:    body.CreateRequest,
			Extensions: requestedExtensions{Fulfillment: body.Fulfillment, Discounts: body.Discounts},
		})
		if err != nil {
			responseWriter.WriteError(c, w, err)
			return
		}

		responseWriter.Write(c, w, http.StatusCreated, session)
	}
}

func (s *webService) listPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		_, err := s.service.validateAgent(c, r.Header.Get(ucpAgentHeader))
		if err != nil {
			responseWriter.WriteError(c, w, err)
			return
		}

		filter := ListFilter{}
		err = formcodec.NewDecoder().Decode(&filter, r.URL.Query())
		if err != nil {
			responseWriter.WriteError(c, w, myerrors.NewInvalidInputError(fmt.Errorf("error parsing query: %s", err)))
			return
		}

		sessions, err := s.service.listCheckouts(c, filter)
		if err != nil {
			responseWriter.WriteError(c, w, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, ListResponse{CheckoutSessions: sessions})
	}
}

func (s *webService) getPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		_, err := s.service.validateAgent(c, r.Header.Get(ucpAgentHeader))
		if err != nil {
			responseWriter.WriteError(c, w, err)
			return
		}

		session, err := s.service.getCheckout(c, mux.Vars(r)["id"])
		if err != nil {
			responseWriter.WriteError(c, w, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, session)
	}
}

func (s *webService) updatePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		_, err := s.service.validateAgent(c, r.Header.Get(ucpAgentHeader))
		if err != nil {
			responseWriter.WriteError(c, w, err)
			return
		}

		body := updatePayload{}
		err = decodeBody(r, &body)
		if err != nil {
			responseWriter.WriteError(c, w, err)
			return
		}

		session, err := s.service.updateCheckout(c, r.Header.Get(idempotencyKeyHeader), updateCommand{
			ID:         mux.Vars(r)["id"],
			Request:    body.UpdateRequest,
			Extensions: requestedExtensions{Fulfillment: body.Fulfillment, Discounts: body.Discounts},
		})
		if err != nil {
			responseWriter.WriteError(c, w, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, session)
	}
}

func (s *webService) cancelPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		_, err := s.service.validateAgent(c, r.Header.Get(ucpAgentHeader))
		if err != nil {
			responseWriter.WriteError(c, w, err)
			return
		}

		session, err := s.service.cancelCheckout(c, r.Header.Get(idempotencyKeyHeader), mux.Vars(r)["id"])
		if err != nil {
			responseWriter.WriteError(c, w, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, session)
	}
}

func (s *webService) completePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		agent, err := s.service.validateAgent(c, r.Header.Get(ucpAgentHeader))
		if err != nil {
			responseWriter.WriteError(c, w, err)
			return
		}

		req := checkoutmodel.CompleteRequest{}
		err = decodeBody(r, &req)
		if err != nil {
			responseWriter.WriteError(c, w, err)
			return
		}

		session, err := s.service.completeCheckout(c, r.Header.Get(idempotencyKeyHeader), mux.Vars(r)["id"], agent, req)
		if err != nil {
			responseWriter.WriteError(c, w, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, session)
	}
}

func decodeBody(r *http.Request, target any) error {
	contentType := r.Header.Get("Content-Type")
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil || mediaType != "application/json" {
			return myerrors.NewUnsupportedMediaTypeError(fmt.Errorf("Unsupported content type '%s'", contentType))
		}
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return myerrors.NewInvalidInputError(fmt.Errorf("error reading request body: %s", err))
	}

	err = json.Unmarshal(body, target)
	if err != nil {
		return myerrors.NewInvalidInputError(fmt.Errorf("error parsing request body: %s", err))
	}
	return nil
}
