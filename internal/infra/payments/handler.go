package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmrivas/tradeacademy/internal/domain/enrollments"
	"github.com/jmrivas/tradeacademy/internal/domain/products"
	"github.com/jmrivas/tradeacademy/internal/domain/subscriptions"
	"github.com/jmrivas/tradeacademy/internal/domain/users"
)

type EnrollmentStore interface {
	MarkPaid(ctx context.Context, reference string) (enrollments.Enrollment, error)
}

type ProductStore interface {
	GetByService(ctx context.Context, service string) (products.Product, error)
}

type SubscriptionStore interface {
	Create(ctx context.Context, userID int64, service string, start time.Time, end *time.Time) (subscriptions.Record, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (users.User, error)
}

type AdminNotifier interface {
	EnrollmentPaid(ctx context.Context, email, service string, amountUSD float64) error
}

// Handler is the gateway's return endpoint: it settles the enrollment and
// activates the purchased access. Settlement is idempotent; replays render
// the same confirmation page without creating a second grant.
type Handler struct {
	log      *slog.Logger
	enrolls  EnrollmentStore
	products ProductStore
	subs     SubscriptionStore
	users    UserStore
	notify   AdminNotifier // optional
	now      func() time.Time
}

func NewHandler(
	log *slog.Logger,
	enrolls EnrollmentStore,
	productRepo ProductStore,
	subs SubscriptionStore,
	userRepo UserStore,
	notify AdminNotifier,
) *Handler {
	return &Handler{
		log:      log,
		enrolls:  enrolls,
		products: productRepo,
		subs:     subs,
		users:    userRepo,
		notify:   notify,
		now:      time.Now,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ref := r.URL.Query().Get("ref")
	if ref == "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("missing ref parameter"))
		return
	}

	enr, err := h.enrolls.MarkPaid(ctx, ref)
	switch {
	case errors.Is(err, enrollments.ErrAlreadyPaid):
		h.confirmPage(w, ref)
		return
	case errors.Is(err, enrollments.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("unknown enrollment reference"))
		return
	case err != nil:
		h.log.Error("payments: settle failed", "ref", ref, "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("failed to settle enrollment"))
		return
	}

	if err := h.grantAccess(ctx, enr); err != nil {
		h.log.Error("payments: access grant failed", "ref", ref, "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("payment recorded but access grant failed"))
		return
	}

	if h.notify != nil {
		usr, err := h.users.GetByID(ctx, enr.UserID)
		if err == nil {
			if err := h.notify.EnrollmentPaid(ctx, usr.Email, enr.Service, enr.AmountUSD); err != nil {
				h.log.Error("payments: admin notice failed", "ref", ref, "err", err)
			}
		}
	}

	h.confirmPage(w, ref)
}

func (h *Handler) grantAccess(ctx context.Context, enr enrollments.Enrollment) error {
	prod, err := h.products.GetByService(ctx, enr.Service)
	if err != nil {
		return err
	}
	start := h.now().UTC()
	var end *time.Time
	if prod.DurationDays != nil {
		e := start.AddDate(0, 0, *prod.DurationDays)
		end = &e
	}
	_, err = h.subs.Create(ctx, enr.UserID, enr.Service, start, end)
	return err
}

func (h *Handler) confirmPage(w http.ResponseWriter, ref string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprintf(w,
		"<html><body><h1>Pago recibido</h1><p>Inscripción %s confirmada. Ya puedes acceder a tu panel.</p></body></html>",
		ref,
	)
}
