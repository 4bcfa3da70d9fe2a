// Package http exposes the public API: landing-page data, the next-session
// countdown, the member dashboard endpoints and the admin console, plus the
// payment gateway's return endpoint.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jmrivas/tradeacademy/internal/domain/enrollments"
	"github.com/jmrivas/tradeacademy/internal/domain/products"
	"github.com/jmrivas/tradeacademy/internal/domain/sessions"
	"github.com/jmrivas/tradeacademy/internal/domain/subscriptions"
	"github.com/jmrivas/tradeacademy/internal/domain/users"
)

type SessionStore interface {
	ListActive(ctx context.Context, service string) ([]sessions.Session, error)
	ListAll(ctx context.Context) ([]sessions.Session, error)
	Create(ctx context.Context, service string, date time.Time, startTime, title string) (sessions.Session, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type SubscriptionStore interface {
	ListByUser(ctx context.Context, userID int64) ([]subscriptions.Record, error)
	Create(ctx context.Context, userID int64, service string, start time.Time, end *time.Time) (subscriptions.Record, error)
	Deactivate(ctx context.Context, id int64) error
	ListAllWithUser(ctx context.Context) ([]subscriptions.ReportRow, error)
}

type ProductStore interface {
	ListActive(ctx context.Context) ([]products.Product, error)
	GetByService(ctx context.Context, service string) (products.Product, error)
}

type UserStore interface {
	EnsureFromToken(ctx context.Context, subject, email, name string) (users.User, error)
	GetByEmail(ctx context.Context, email string) (users.User, error)
}

type EnrollmentStore interface {
	Create(ctx context.Context, reference string, userID int64, service string, amountUSD float64) (enrollments.Enrollment, error)
}

type Checkout interface {
	CreateCheckout(ctx context.Context, reference string, amountUSD float64, description string) (string, error)
}

// NextSnapshot is the countdown tracker's read side.
type NextSnapshot interface {
	Snapshot() (sessions.Session, sessions.Countdown, bool)
}

type Options struct {
	Addr           string
	JWTSecret      string
	Location       *time.Location
	Log            *slog.Logger
	Metrics        bool
	Sessions       SessionStore
	Subscriptions  SubscriptionStore
	Products       ProductStore
	Users          UserStore
	Enrollments    EnrollmentStore
	Checkout       Checkout
	Tracker        NextSnapshot
	PaymentsReturn http.Handler
	Now            func() time.Time
}

type Server struct {
	opts Options
	app  *echo.Echo
}

func New(opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	s := &Server{opts: opts, app: echo.New()}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Validator = newValidator()

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.Recover())

	s.app.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	if s.opts.Metrics {
		s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}
	if s.opts.PaymentsReturn != nil {
		s.app.GET("/payments/pay", echo.WrapHandler(s.opts.PaymentsReturn))
	}

	v1 := s.app.Group("/v1")
	v1.GET("/products", s.listProducts)
	v1.GET("/products/:service", s.getProduct)
	v1.GET("/sessions/next", s.nextSession)

	me := v1.Group("/me", s.authRequired)
	me.GET("/subscriptions", s.mySubscriptions)
	me.GET("/access/:service", s.myAccess)

	v1.POST("/enroll", s.enroll, s.authRequired)

	admin := v1.Group("/admin", s.authRequired, s.adminRequired)
	admin.GET("/sessions", s.adminListSessions)
	admin.POST("/sessions", s.adminCreateSession)
	admin.PATCH("/sessions/:id/active", s.adminSetSessionActive)
	admin.POST("/subscriptions", s.adminGrantSubscription)
	admin.POST("/subscriptions/:id/deactivate", s.adminDeactivateSubscription)
	admin.GET("/reports/subscriptions.xlsx", s.adminSubscriptionsReport)
}

func (s *Server) Start() error {
	return s.app.Start(s.opts.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

// ServeHTTP lets tests drive the router with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

type structValidator struct{ v *validator.Validate }

func newValidator() *structValidator {
	return &structValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (sv *structValidator) Validate(i interface{}) error {
	if err := sv.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
