package products

import "time"

// Known service identifiers. Alert feeds renew monthly; training courses are
// one-time purchases granting non-expiring access.
const (
	ServiceTraderCall   = "TraderCall"
	ServiceSmartMoney   = "SmartMoney"
	ServiceCashFlow     = "CashFlow"
	ServiceSwingTrading = "SwingTrading"
)

type Kind string

const (
	KindAlerts Kind = "alerts"
	KindCourse Kind = "course"
)

// Product is the sellable unit behind a landing page.
type Product struct {
	ID          int64
	Service     string
	Kind        Kind
	Name        string
	Description string
	PriceUSD    float64
	// DurationDays is how long one purchase grants access; nil means the
	// grant never expires (courses).
	DurationDays *int
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
