package middleware

import (
	"github.com/gin-gonic/gin"

	"bizdesk/internal/core/apperror"
	appctx "bizdesk/internal/core/context"
	"bizdesk/internal/core/id"
)

const (
	// HeaderOwnerID names the company whose collections a request touches.
	HeaderOwnerID = "X-Owner-ID"
	// HeaderUserID names the acting user, recorded on ledger rows.
	HeaderUserID = "X-User-ID"

	ctxOwnerID = "owner_id"
)

// Owner requires X-Owner-ID and puts owner and user into the request
// context. Both headers are set by the upstream gateway and trusted as given.
func Owner() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderOwnerID)
		if raw == "" {
			_ = c.Error(apperror.NewUnauthorized("owner is required").WithDetail("header", HeaderOwnerID))
			c.Abort()
			return
		}
		ownerID, err := id.Parse(raw)
		if err != nil {
			_ = c.Error(apperror.NewValidation("invalid owner id").
				WithDetail("header", HeaderOwnerID).
				WithDetail("value", raw))
			c.Abort()
			return
		}

		user := &appctx.UserContext{
			UserID:  c.GetHeader(HeaderUserID),
			OwnerID: ownerID.String(),
		}
		c.Request = c.Request.WithContext(appctx.WithUser(c.Request.Context(), user))
		c.Set(ctxOwnerID, ownerID)

		c.Next()
	}
}

// OwnerID returns the owner resolved by Owner.
func OwnerID(c *gin.Context) (id.ID, bool) {
	v, ok := c.Get(ctxOwnerID)
	if !ok {
		return id.Nil(), false
	}
	ownerID, ok := v.(id.ID)
	return ownerID, ok
}
