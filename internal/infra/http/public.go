package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jmrivas/tradeacademy/internal/domain/products"
	"github.com/jmrivas/tradeacademy/internal/domain/sessions"
)

type productDTO struct {
	Service      string  `json:"service"`
	Kind         string  `json:"kind"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	PriceUSD     float64 `json:"price_usd"`
	DurationDays *int    `json:"duration_days,omitempty"`
}

func toProductDTO(p products.Product) productDTO {
	return productDTO{
		Service:      p.Service,
		Kind:         string(p.Kind),
		Name:         p.Name,
		Description:  p.Description,
		PriceUSD:     p.PriceUSD,
		DurationDays: p.DurationDays,
	}
}

func (s *Server) listProducts(c echo.Context) error {
	list, err := s.opts.Products.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]productDTO, 0, len(list))
	for _, p := range list {
		out = append(out, toProductDTO(p))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getProduct(c echo.Context) error {
	p, err := s.opts.Products.GetByService(c.Request().Context(), c.Param("service"))
	if errors.Is(err, products.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown service")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductDTO(p))
}

type sessionDTO struct {
	ID      int64  `json:"id"`
	Service string `json:"service"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Title   string `json:"title"`
}

func toSessionDTO(x sessions.Session) sessionDTO {
	return sessionDTO{
		ID:      x.ID,
		Service: x.Service,
		Date:    x.Date.Format("2006-01-02"),
		Time:    x.StartTime,
		Title:   x.Title,
	}
}

type nextSessionResponse struct {
	Status    string              `json:"status"` // "scheduled" | "tba"
	Message   string              `json:"message,omitempty"`
	Session   *sessionDTO         `json:"session,omitempty"`
	Countdown *sessions.Countdown `json:"countdown,omitempty"`
}

// nextSession powers the landing-page countdown. Without a service filter it
// serves the tracker's cached pick; with one it derives a fresh answer for
// that product. No upcoming session is a normal product state, not an error.
func (s *Server) nextSession(c echo.Context) error {
	service := c.QueryParam("service")

	var (
		next *sessions.Session
		cd   sessions.Countdown
	)
	if service == "" && s.opts.Tracker != nil {
		if x, got, ok := s.opts.Tracker.Snapshot(); ok {
			next, cd = &x, got
		}
	} else {
		records, err := s.opts.Sessions.ListActive(c.Request().Context(), service)
		if err != nil {
			return err
		}
		now := s.opts.Now()
		next = sessions.SelectNext(records, now, s.opts.Location)
		if next != nil {
			at, _ := next.Instant(s.opts.Location)
			cd = sessions.ComputeCountdown(at, now)
		}
	}

	if next == nil {
		return c.JSON(http.StatusOK, nextSessionResponse{
			Status:  "tba",
			Message: "Fechas por anunciar",
		})
	}
	dto := toSessionDTO(*next)
	return c.JSON(http.StatusOK, nextSessionResponse{
		Status:    "scheduled",
		Session:   &dto,
		Countdown: &cd,
	})
}
