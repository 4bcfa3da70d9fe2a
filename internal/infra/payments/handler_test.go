package payments

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmrivas/tradeacademy/internal/domain/enrollments"
	"github.com/jmrivas/tradeacademy/internal/domain/products"
	"github.com/jmrivas/tradeacademy/internal/domain/subscriptions"
	"github.com/jmrivas/tradeacademy/internal/domain/users"
)

type stubEnrollments struct {
	enr enrollments.Enrollment
	err error
}

func (s *stubEnrollments) MarkPaid(context.Context, string) (enrollments.Enrollment, error) {
	return s.enr, s.err
}

type stubProducts struct{ p products.Product }

func (s *stubProducts) GetByService(context.Context, string) (products.Product, error) {
	return s.p, nil
}

type stubSubs struct {
	created []subscriptions.Record
}

func (s *stubSubs) Create(_ context.Context, userID int64, service string, start time.Time, end *time.Time) (subscriptions.Record, error) {
	rec := subscriptions.Record{ID: int64(len(s.created) + 1), UserID: userID, Service: service, StartDate: start, EndDate: end, Active: true}
	s.created = append(s.created, rec)
	return rec, nil
}

type stubUsers struct{}

func (stubUsers) GetByID(context.Context, int64) (users.User, error) {
	return users.User{ID: 7, Email: "ana@example.com"}, nil
}

func newTestHandler(enr *stubEnrollments, prod *stubProducts, subs *stubSubs) *Handler {
	h := NewHandler(slog.Default(), enr, prod, subs, stubUsers{}, nil)
	h.now = func() time.Time { return time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC) }
	return h
}

func TestHandlerSettlesAndGrantsAccess(t *testing.T) {
	days := 30
	enr := &stubEnrollments{enr: enrollments.Enrollment{ID: 1, Reference: "ref-1", UserID: 7, Service: "SmartMoney", AmountUSD: 149}}
	prod := &stubProducts{p: products.Product{Service: "SmartMoney", DurationDays: &days, Active: true}}
	subs := &stubSubs{}
	h := newTestHandler(enr, prod, subs)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/payments/pay?ref=ref-1", nil))

	assert.Equal(t, 200, rec.Code)
	require.Len(t, subs.created, 1)
	got := subs.created[0]
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, "SmartMoney", got.Service)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, got.StartDate.AddDate(0, 0, 30), *got.EndDate)
}

func TestHandlerCourseGrantNeverExpires(t *testing.T) {
	enr := &stubEnrollments{enr: enrollments.Enrollment{Reference: "ref-2", UserID: 7, Service: "SwingTrading", AmountUSD: 499}}
	prod := &stubProducts{p: products.Product{Service: "SwingTrading", Active: true}}
	subs := &stubSubs{}
	h := newTestHandler(enr, prod, subs)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/payments/pay?ref=ref-2", nil))

	assert.Equal(t, 200, rec.Code)
	require.Len(t, subs.created, 1)
	assert.Nil(t, subs.created[0].EndDate)
}

func TestHandlerReplayDoesNotGrantTwice(t *testing.T) {
	enr := &stubEnrollments{err: enrollments.ErrAlreadyPaid}
	subs := &stubSubs{}
	h := newTestHandler(enr, &stubProducts{}, subs)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/payments/pay?ref=ref-1", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Empty(t, subs.created)
}

func TestHandlerRejectsBadRequests(t *testing.T) {
	t.Run("missing ref", func(t *testing.T) {
		h := newTestHandler(&stubEnrollments{}, &stubProducts{}, &stubSubs{})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/payments/pay", nil))
		assert.Equal(t, 400, rec.Code)
	})

	t.Run("unknown ref", func(t *testing.T) {
		h := newTestHandler(&stubEnrollments{err: enrollments.ErrNotFound}, &stubProducts{}, &stubSubs{})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/payments/pay?ref=nope", nil))
		assert.Equal(t, 404, rec.Code)
	})
}

func TestServiceCheckoutURL(t *testing.T) {
	svc := NewService("https://pay.example.com/")
	u := svc.CheckoutURL("ref-9", 99, "Trader Call")
	assert.Contains(t, u, "https://pay.example.com/checkout?")
	assert.Contains(t, u, "ref=ref-9")
	assert.Contains(t, u, "amount=99.00")
}
