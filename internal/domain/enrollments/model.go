package enrollments

import "time"

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// Enrollment is one purchase attempt. Reference is the opaque id handed to
// the payment collaborator and echoed back on its return call.
type Enrollment struct {
	ID        int64
	Reference string
	UserID    int64
	Service   string
	AmountUSD float64
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
