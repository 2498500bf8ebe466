// Package session carries the per-request shopping context: the opaque
// session id that keys the cart and checkout state, and the caller identity.
package session

import (
	"fmt"

	"storefront/internal/models"
)

// Identity is a caller authenticated by a bearer token.
type Identity struct {
	UserID int64
	Role   string
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == models.RoleAdmin
}

// Context is handed explicitly to the cart, checkout and order layers.
// Identity is nil for guests.
type Context struct {
	ID       string
	Identity *Identity
}

func (c Context) Guest() bool {
	return c.Identity == nil
}

// UserID returns nil for guest sessions.
func (c Context) UserID() *int64 {
	if c.Identity == nil {
		return nil
	}
	id := c.Identity.UserID
	return &id
}

// Key namespaces per-session storage, e.g. Key(id, "cart").
func Key(sessionID, part string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, part)
}
