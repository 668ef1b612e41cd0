package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vphone/simshop/internal/shop/service"
	"github.com/vphone/simshop/internal/shop/store"
	"github.com/vphone/simshop/pkg/httpx"
	"github.com/vphone/simshop/pkg/slogx"

	_ "github.com/vphone/simshop/api/shop" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	CatalogService *service.CatalogService
	WizardService  *service.WizardService
	OrderService   *service.OrderService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerPlans()
	r.registerWizard()
	r.registerOrders()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			SIM Shop API
//	@version		0.1.0
//	@description	Backend for the SIM purchase flow: plan catalog, a stepped purchase
//	@description	wizard, and digital-identity verification through a wallet provider.
//	@description
//	@description	Checkout creates a presentation session with the identity provider; the
//	@description	shopper scans the QR code with their wallet and the wizard advances as
//	@description	the verification progresses. Clients poll GET /v1/wizard/{id} for state.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerPlans() {
	h := &PlansHandler{CatalogService: r.CatalogService}

	// Public catalog - high limit, it's the landing call
	r.Mux.Handle("GET /v1/plans",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerWizard() {
	h := &WizardHandler{WizardService: r.WizardService}

	// POST /wizard - session creation, moderate abuse surface
	r.Mux.Handle("POST /v1/wizard",
		httpx.Chain(http.HandlerFunc(h.HandleStart),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /wizard/{id} - clients poll this during verification, keep lenient
	r.Mux.Handle("GET /v1/wizard/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("POST /v1/wizard/{id}/plan",
		httpx.Chain(http.HandlerFunc(h.HandleSelectPlan),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// POST /checkout - every call costs a provider round trip, strict
	r.Mux.Handle("POST /v1/wizard/{id}/checkout",
		httpx.Chain(http.HandlerFunc(h.HandleCheckout),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /details - carries bank credentials, strict
	r.Mux.Handle("POST /v1/wizard/{id}/details",
		httpx.Chain(http.HandlerFunc(h.HandleSubmitDetails),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/wizard/{id}/back",
		httpx.Chain(http.HandlerFunc(h.HandleBack),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("POST /v1/wizard/{id}/reset",
		httpx.Chain(http.HandlerFunc(h.HandleReset),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerOrders() {
	h := &OrdersHandler{OrderService: r.OrderService}

	r.Mux.Handle("GET /v1/orders/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.WizardService),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
