package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/session"
)

type Capability int

const (
	CapShop Capability = iota
	CapViewOrder
	CapOwnAccount
	CapManageOrders
)

func (c Capability) String() string {
	switch c {
	case CapShop:
		return "shop"
	case CapViewOrder:
		return "view_order"
	case CapOwnAccount:
		return "own_account"
	case CapManageOrders:
		return "manage_orders"
	default:
		return "unknown"
	}
}

// Allowed is the single authorization decision for every route group.
func Allowed(identity *session.Identity, capability Capability) bool {
	switch capability {
	case CapShop, CapViewOrder:
		return true
	case CapOwnAccount:
		return identity != nil
	case CapManageOrders:
		return identity.IsAdmin()
	default:
		return false
	}
}

// Require aborts with 401 for guests and 403 for authenticated callers
// lacking the capability.
func Require(capability Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentSession(c).Identity
		if Allowed(identity, capability) {
			c.Next()
			return
		}

		if identity == nil {
			log.Println("[AUTH] [ERROR] authentication required for", capability)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		log.Printf("[AUTH] [ERROR] user %d lacks %s", identity.UserID, capability)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}
