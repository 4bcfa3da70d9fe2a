package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/jmrivas/tradeacademy/internal/domain/users"
)

const ctxUserKey = "auth.user"

// Claims is the shape of the session tokens minted by the external identity
// provider. Only the signature and the identity fields matter here; the
// admin role comes from our own users table, not from the token.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

func (s *Server) authRequired(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := bearerToken(c.Request())
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		claims := &Claims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return []byte(s.opts.JWTSecret), nil
		})
		if err != nil || !tok.Valid || claims.Subject == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		usr, err := s.opts.Users.EnsureFromToken(c.Request().Context(), claims.Subject, claims.Email, claims.Name)
		if err != nil {
			s.opts.Log.Error("auth: user upsert failed", "subject", claims.Subject, "err", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "authentication failed")
		}

		c.Set(ctxUserKey, usr)
		return next(c)
	}
}

func (s *Server) adminRequired(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if currentUser(c).Role != users.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin only")
		}
		return next(c)
	}
}

func currentUser(c echo.Context) users.User {
	u, _ := c.Get(ctxUserKey).(users.User)
	return u
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	tok, found := strings.CutPrefix(h, "Bearer ")
	if !found || tok == "" {
		return "", false
	}
	return tok, true
}
