package warmup

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/ucpcheckout/lib/mypublisher"
	"github.com/MarcGrol/ucpcheckout/lib/myuuid"
	"github.com/MarcGrol/ucpcheckout/services/checkout/lineitems"
)

func TestWarmup(t *testing.T) {
	t.Run("Catalog reachable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		router, products, publisher := setup(t, ctrl)

		// given
		products.EXPECT().FindProduct(gomock.Any(), WarmupProductID).Return(lineitems.Product{ID: WarmupProductID}, true, nil)
		publisher.EXPECT().Publish(gomock.Any(), TopicName, WarmupKicked{UID: "warm-1", ProductID: WarmupProductID}).Return(nil)

		// when
		request, _ := http.NewRequest(http.MethodGet, "/_ah/warmup", nil)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		assert.Contains(t, response.Body.String(), "Successfully processed warmup request")
	})

	t.Run("Catalog down", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		router, products, _ := setup(t, ctrl)

		// given
		products.EXPECT().FindProduct(gomock.Any(), WarmupProductID).Return(lineitems.Product{}, false, fmt.Errorf("connection refused"))

		// when
		request, _ := http.NewRequest(http.MethodGet, "/_ah/warmup", nil)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, http.StatusServiceUnavailable, response.Code)
	})

	t.Run("Outbox down", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		router, products, publisher := setup(t, ctrl)

		// given
		products.EXPECT().FindProduct(gomock.Any(), WarmupProductID).Return(lineitems.Product{}, false, nil)
		publisher.EXPECT().Publish(gomock.Any(), TopicName, gomock.Any()).Return(fmt.Errorf("outbox unavailable"))

		// when
		request, _ := http.NewRequest(http.MethodGet, "/_ah/warmup", nil)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, http.StatusInternalServerError, response.Code)
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (*mux.Router, *MockProductFinder, *mypublisher.MockPublisher) {
	products := NewMockProductFinder(ctrl)
	publisher := mypublisher.NewMockPublisher(ctrl)

	sut := NewService(products, publisher, &myuuid.SequenceUUIDer{Prefix: "warm-"})
	router := mux.NewRouter()
	sut.RegisterEndpoints(t.Context(), router)

	return router, products, publisher
}
