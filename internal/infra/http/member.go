package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/jmrivas/tradeacademy/internal/domain/products"
	"github.com/jmrivas/tradeacademy/internal/domain/subscriptions"
)

type subscriptionDTO struct {
	ID        int64      `json:"id"`
	Service   string     `json:"service"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Active    bool       `json:"active"`
}

func (s *Server) mySubscriptions(c echo.Context) error {
	usr := currentUser(c)
	records, err := s.opts.Subscriptions.ListByUser(c.Request().Context(), usr.ID)
	if err != nil {
		return err
	}
	out := make([]subscriptionDTO, 0, len(records))
	for _, r := range records {
		out = append(out, subscriptionDTO{
			ID:        r.ID,
			Service:   r.Service,
			StartDate: r.StartDate,
			EndDate:   r.EndDate,
			Active:    r.Active,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// myAccess is the gate behind every members-only view: one canonical check,
// not per-page variants of it.
func (s *Server) myAccess(c echo.Context) error {
	usr := currentUser(c)
	service := c.Param("service")

	records, err := s.opts.Subscriptions.ListByUser(c.Request().Context(), usr.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"service":    service,
		"subscribed": subscriptions.IsSubscribed(records, service, s.opts.Now()),
	})
}

type enrollRequest struct {
	Service string `json:"service" validate:"required"`
}

type enrollResponse struct {
	Reference   string `json:"reference"`
	CheckoutURL string `json:"checkout_url"`
}

func (s *Server) enroll(c echo.Context) error {
	var req enrollRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	prod, err := s.opts.Products.GetByService(ctx, req.Service)
	if errors.Is(err, products.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown service")
	}
	if err != nil {
		return err
	}
	if !prod.Active {
		return echo.NewHTTPError(http.StatusConflict, "service is not open for enrollment")
	}

	usr := currentUser(c)
	ref := uuid.NewString()
	enr, err := s.opts.Enrollments.Create(ctx, ref, usr.ID, prod.Service, prod.PriceUSD)
	if err != nil {
		return err
	}
	checkoutURL, err := s.opts.Checkout.CreateCheckout(ctx, enr.Reference, enr.AmountUSD, prod.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, enrollResponse{
		Reference:   enr.Reference,
		CheckoutURL: checkoutURL,
	})
}
