package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CoderRahul01/OrmeeHairs/api/controllers"
	cartcontrollers "github.com/CoderRahul01/OrmeeHairs/api/controllers/cart"
	checkoutcontrollers "github.com/CoderRahul01/OrmeeHairs/api/controllers/checkout"
	"github.com/CoderRahul01/OrmeeHairs/api/middleware"
	"github.com/CoderRahul01/OrmeeHairs/pkg/config"
	"github.com/CoderRahul01/OrmeeHairs/pkg/logger"
	"github.com/CoderRahul01/OrmeeHairs/pkg/pricing"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Sessions controllers.SessionProvider
	Rules    pricing.Rules
	// Checks are pinged by /health/ready, keyed by dependency name.
	Checks   map[string]controllers.Pinger
	Gatherer prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Checks))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Device(logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(deps.Sessions, deps.Rules, logg))
			r.Delete("/", cartcontrollers.CartClear(deps.Sessions, deps.Rules, logg))
			r.Post("/drawer", cartcontrollers.CartToggleDrawer(deps.Sessions, deps.Rules, logg))
			r.Post("/items", cartcontrollers.CartAddItem(deps.Sessions, deps.Rules, logg))
			r.Patch("/items/{itemId}", cartcontrollers.CartUpdateItem(deps.Sessions, deps.Rules, logg))
			r.Delete("/items/{itemId}", cartcontrollers.CartRemoveItem(deps.Sessions, deps.Rules, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkoutcontrollers.CheckoutBegin(deps.Sessions, logg))
			r.Get("/", checkoutcontrollers.CheckoutFetch(deps.Sessions, logg))
			r.Delete("/", checkoutcontrollers.CheckoutDiscard(deps.Sessions, logg))
			r.Put("/shipping", checkoutcontrollers.CheckoutShipping(deps.Sessions, logg))
			r.Put("/payment", checkoutcontrollers.CheckoutPayment(deps.Sessions, logg))
			r.Post("/back", checkoutcontrollers.CheckoutBack(deps.Sessions, logg))
			r.Post("/submit", checkoutcontrollers.CheckoutSubmit(deps.Sessions, logg))
		})
	})

	return r
}
