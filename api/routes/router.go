package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nyxoasis/oasis-backend/api/controllers"
	"github.com/nyxoasis/oasis-backend/api/middleware"
	cartsvc "github.com/nyxoasis/oasis-backend/internal/cart"
	checkoutsvc "github.com/nyxoasis/oasis-backend/internal/checkout"
	itemsvc "github.com/nyxoasis/oasis-backend/internal/items"
	nyxciphersvc "github.com/nyxoasis/oasis-backend/internal/nyxciphers"
	paymentsvc "github.com/nyxoasis/oasis-backend/internal/payments"
	ticketsvc "github.com/nyxoasis/oasis-backend/internal/tickets"
	"github.com/nyxoasis/oasis-backend/pkg/config"
	"github.com/nyxoasis/oasis-backend/pkg/db"
	"github.com/nyxoasis/oasis-backend/pkg/enums"
	"github.com/nyxoasis/oasis-backend/pkg/logger"
	"github.com/nyxoasis/oasis-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	itemService itemsvc.Service,
	nyxcipherService nyxciphersvc.Service,
	ticketService ticketsvc.Service,
	cartService cartsvc.Service,
	paymentService paymentsvc.Service,
	checkoutService checkoutsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/nyxcipher", func(r chi.Router) {
		r.Get("/active", controllers.NyxcipherActive(nyxcipherService, logg))
		r.Get("/winners", controllers.NyxcipherWinners(nyxcipherService, logg))
		r.Get("/{nyxcipherId}", controllers.NyxcipherFetch(nyxcipherService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			sponsorOrAdmin := middleware.RequireAnyRole(logg, string(enums.RoleSponsor), string(enums.RoleAdmin))
			r.With(sponsorOrAdmin).Get("/", controllers.NyxcipherList(nyxcipherService, logg))
			r.With(sponsorOrAdmin).Get("/sponsor", controllers.NyxcipherSponsorList(nyxcipherService, logg))
			r.With(sponsorOrAdmin).Get("/sponsor/{nyxcipherId}", controllers.NyxcipherSponsorFetch(nyxcipherService, logg))
			r.With(sponsorOrAdmin).Post("/", controllers.NyxcipherCreate(nyxcipherService, logg))
			r.With(sponsorOrAdmin).Put("/{nyxcipherId}", controllers.NyxcipherUpdate(nyxcipherService, logg))
			r.With(middleware.RequireRole(string(enums.RoleAdmin), logg)).Delete("/{nyxcipherId}", controllers.NyxcipherDelete(nyxcipherService, logg))
		})
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/", controllers.CartList(cartService, logg))
		r.Post("/", controllers.CartAdd(cartService, logg))
		r.Delete("/{entryId}", controllers.CartRemove(cartService, logg))
	})

	r.Route("/api/v1/payment", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Post("/", controllers.Checkout(checkoutService, logg))
		r.Get("/history", controllers.PaymentHistory(paymentService, logg))
		r.Get("/{paymentId}", controllers.PaymentFetch(paymentService, logg))

		admin := middleware.RequireRole(string(enums.RoleAdmin), logg)
		r.With(admin).Put("/{paymentId}", controllers.PaymentUpdate(paymentService, logg))
		r.With(admin).Delete("/{paymentId}", controllers.PaymentDelete(paymentService, logg))
	})

	r.Route("/api/v1/ticket", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/", controllers.TicketList(ticketService, logg))
		r.Get("/nyxcipher/{nyxcipherId}", controllers.TicketListForNyxcipher(ticketService, logg))
		r.Get("/{ticketId}", controllers.TicketFetch(ticketService, logg))
		r.Post("/", controllers.TicketCreate(ticketService, logg))

		admin := middleware.RequireRole(string(enums.RoleAdmin), logg)
		r.With(admin).Put("/{ticketId}", controllers.TicketUpdate(ticketService, logg))
		r.With(admin).Delete("/{ticketId}", controllers.TicketDelete(ticketService, logg))
	})

	r.Route("/api/v1/item", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/", controllers.ItemList(itemService, logg))
		r.Get("/{itemId}", controllers.ItemFetch(itemService, logg))

		sponsorOrAdmin := middleware.RequireAnyRole(logg, string(enums.RoleSponsor), string(enums.RoleAdmin))
		r.With(sponsorOrAdmin).Post("/", controllers.ItemCreate(itemService, logg))
		r.With(sponsorOrAdmin).Put("/{itemId}", controllers.ItemUpdate(itemService, logg))
		r.With(sponsorOrAdmin).Delete("/{itemId}", controllers.ItemDelete(itemService, logg))
	})

	return r
}
