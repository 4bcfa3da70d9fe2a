package users

import "time"

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// User mirrors an identity issued by the external auth provider; Subject is
// the provider's stable id. Rows are created lazily on first authenticated
// request.
type User struct {
	ID        int64
	Subject   string
	Email     string
	Name      string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
