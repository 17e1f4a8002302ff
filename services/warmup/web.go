package warmup

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/ucpcheckout/lib/mycontext"
	"github.com/MarcGrol/ucpcheckout/lib/myerrors"
	"github.com/MarcGrol/ucpcheckout/lib/myhttp"
	"github.com/MarcGrol/ucpcheckout/lib/mylog"
	"github.com/MarcGrol/ucpcheckout/lib/mypublisher"
	"github.com/MarcGrol/ucpcheckout/lib/myuuid"
	"github.com/MarcGrol/ucpcheckout/services/checkout/lineitems"
)

const WarmupProductID = "bouquet_roses"

//go:generate mockgen -source=web.go -package warmup -destination finder_mock.go ProductFinder
type ProductFinder interface {
	FindProduct(c context.Context, productID string) (lineitems.Product, bool, error)
}

type webService struct {
	logger    mylog.Logger
	products  ProductFinder
	publisher mypublisher.Publisher
	uuider    myuuid.UUIDer
}

func NewService(products ProductFinder, publisher mypublisher.Publisher, uuider myuuid.UUIDer) *webService {
	return &webService{
		logger:    mylog.New("warmup"),
		products:  products,
		publisher: publisher,
		uuider:    uuider,
	}
}

func (s webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/_ah/warmup", s.warmupPage()).Methods("GET")
}

// warmupPage touches the catalog and the outbox so the first checkout does not
// pay for opening connections.
func (s *webService) warmupPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		_, found, err := s.products.FindProduct(c, WarmupProductID)
		if err != nil {
			responseWriter.WriteError(c, w, myerrors.NewUnavailableError(fmt.Errorf("catalog not reachable: %s", err)))
			return
		}
		if !found {
			s.logger.Log(c, "", mylog.SeverityWarn, "Warmup product %s not in catalog", WarmupProductID)
		}

		err = s.publisher.Publish(c, TopicName, WarmupKicked{
			UID:       s.uuider.Create(),
			ProductID: WarmupProductID,
		})
		if err != nil {
			responseWriter.WriteError(c, w, myerrors.NewInternalError(err))
			return
		}

		responseWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed warmup request",
		})
	}
}
