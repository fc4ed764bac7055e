package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/account"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/autocharge"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/billing"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/booking"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/config"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/court"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/ledger"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/notify"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/payment"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/token"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, notifier *notify.Service, provider payment.Provider) (*Server, error) {
	codec, err := token.NewCodec(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	accountRepo := account.NewRepository(db)
	courtRepo := court.NewRepository(db)
	ledgerRepo := ledger.NewRepository(db)
	bookingRepo := booking.NewRepository(db)

	bookingService := booking.NewService(bookingRepo, courtRepo, accountRepo, ledgerRepo, codec, notifier, booking.Options{
		OperatorEmail: cfg.OperatorEmail,
		ActionBaseURL: cfg.ActionBaseURL,
		ChargeGrace:   cfg.ChargeGrace,
		Alternatives:  cfg.DeclineAlternatives,
	})

	scheduler := autocharge.NewScheduler(
		autocharge.NewRepository(db),
		accountRepo,
		provider,
		notifier,
		cfg.OperatorEmail,
		cfg.ChargeTimeout,
	)

	aggregator := billing.NewAggregator(accountRepo, billing.NewRepository(db))

	courtHandler := court.NewHandler(courtRepo)
	bookingHandler := booking.NewHandler(bookingService)
	jobsHandler := NewJobsHandler(scheduler, aggregator)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())

	router.GET("/courts", courtHandler.ListCourts)
	router.GET("/courts/:courtID/slots", courtHandler.ListTimeSlots)
	router.GET("/courts/:courtID/availability", courtHandler.Availability)

	router.POST("/bookings", bookingHandler.Create)
	// One-click email actions: the signed token is the whole credential.
	router.GET("/bookings/confirm", bookingHandler.Confirm)
	router.GET("/bookings/decline", bookingHandler.Decline)
	router.POST("/bookings/:bookingID/cancel", bookingHandler.Cancel)
	router.GET("/accounts/:accountID/bookings", bookingHandler.ListByAccount)

	admin := router.Group("/admin")
	admin.Use(AdminGuard(cfg.AdminToken))
	{
		admin.POST("/courts", courtHandler.CreateCourt)
		admin.POST("/courts/:courtID/slots", courtHandler.CreateTimeSlot)
		admin.POST("/jobs/auto-charge", jobsHandler.RunAutoCharge)
		admin.POST("/jobs/billing", jobsHandler.RunBilling)
		admin.POST("/bookings/:bookingID/cancel-auto-charge", jobsHandler.CancelAutoCharge)
	}

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}, nil
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the engine for handler tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
