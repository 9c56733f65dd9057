package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-orders-api/internal/application/auth"
	"github.com/go-orders-api/internal/application/order"
	"github.com/go-orders-api/internal/application/otp"
	"github.com/go-orders-api/internal/application/payment"
	"github.com/go-orders-api/internal/config"
	"github.com/go-orders-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-orders-api/internal/infrastructure/jwt"
	redisinfra "github.com/go-orders-api/internal/infrastructure/redis"
	s3infra "github.com/go-orders-api/internal/infrastructure/s3"
	"github.com/go-orders-api/internal/infrastructure/smtp"
	"github.com/go-orders-api/internal/infrastructure/sns"
	"github.com/go-orders-api/internal/transport/http/handler"
	appmiddleware "github.com/go-orders-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	OrderRepo   *dynamo.OrderRepo
	Ephemeral   *redisinfra.Store
	Mailer      smtp.Mailer
	SMSSender   sns.SMSSender
	Receipts    *s3infra.ReceiptArchive
	JWTProvider *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to credential and OTP endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(deps.UserRepo, deps.JWTProvider)
	otpSvc := otp.NewService(deps.Ephemeral, deps.Mailer, deps.SMSSender, cfg.OTPTTL, cfg.OTPDigits)
	orderSvc := order.NewService(deps.OrderRepo, deps.Ephemeral, cfg.OrderCacheTTL)
	var receipts payment.ReceiptArchiver
	if deps.Receipts != nil {
		receipts = deps.Receipts
	}
	paymentSvc := payment.NewService(deps.UserRepo, deps.OrderRepo, otpSvc, orderSvc, receipts, cfg.PaymentApprovalLimit)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc, cfg.JWTExpiry)
	orderH := handler.NewOrderHandler(orderSvc)
	paymentH := handler.NewPaymentHandler(paymentSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/auth/register", authH.Register)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/orders", orderH.Create)
			r.Get("/orders/my", orderH.ListMine)

			r.With(sensitiveRL.Limit).Post("/payments/otp", paymentH.RequestOTP)
			r.Post("/payments/confirm", paymentH.Confirm)
		})
	})

	return r
}
