package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jmrivas/tradeacademy/internal/domain/products"
	"github.com/jmrivas/tradeacademy/internal/domain/sessions"
	"github.com/jmrivas/tradeacademy/internal/domain/subscriptions"
	"github.com/jmrivas/tradeacademy/internal/domain/users"
	"github.com/jmrivas/tradeacademy/internal/reports"
)

type adminSessionDTO struct {
	sessionDTO
	IsActive bool `json:"is_active"`
}

func (s *Server) adminListSessions(c echo.Context) error {
	list, err := s.opts.Sessions.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]adminSessionDTO, 0, len(list))
	for _, x := range list {
		out = append(out, adminSessionDTO{sessionDTO: toSessionDTO(x), IsActive: x.IsActive})
	}
	return c.JSON(http.StatusOK, out)
}

type createSessionRequest struct {
	Service string `json:"service" validate:"required"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Time    string `json:"time" validate:"required,datetime=15:04"`
	Title   string `json:"title" validate:"required"`
}

func (s *Server) adminCreateSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := s.opts.Products.GetByService(ctx, req.Service); err != nil {
		if errors.Is(err, products.ErrNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown service")
		}
		return err
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, s.opts.Location)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
	}

	created, err := s.opts.Sessions.Create(ctx, req.Service, date, req.Time, req.Title)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, adminSessionDTO{sessionDTO: toSessionDTO(created), IsActive: created.IsActive})
}

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

func (s *Server) adminSetSessionActive(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}
	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := s.opts.Sessions.SetActive(c.Request().Context(), id, *req.Active); err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type grantSubscriptionRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Service      string `json:"service" validate:"required"`
	DurationDays *int   `json:"duration_days" validate:"omitempty,gt=0"`
}

// adminGrantSubscription creates a record by hand, outside the payment flow
// (comped access, support cases, legacy imports).
func (s *Server) adminGrantSubscription(c echo.Context) error {
	var req grantSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	usr, err := s.opts.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, users.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return err
	}

	start := s.opts.Now().UTC()
	var end *time.Time
	if req.DurationDays != nil {
		e := start.AddDate(0, 0, *req.DurationDays)
		end = &e
	}
	rec, err := s.opts.Subscriptions.Create(ctx, usr.ID, req.Service, start, end)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, subscriptionDTO{
		ID:        rec.ID,
		Service:   rec.Service,
		StartDate: rec.StartDate,
		EndDate:   rec.EndDate,
		Active:    rec.Active,
	})
}

func (s *Server) adminDeactivateSubscription(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid subscription id")
	}
	if err := s.opts.Subscriptions.Deactivate(c.Request().Context(), id); err != nil {
		if errors.Is(err, subscriptions.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "subscription not found")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) adminSubscriptionsReport(c echo.Context) error {
	rows, err := s.opts.Subscriptions.ListAllWithUser(c.Request().Context())
	if err != nil {
		return err
	}
	data, err := reports.SubscriptionsXLSX(rows, s.opts.Location)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("subscriptions_%s.xlsx", s.opts.Now().Format("20060102_150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
