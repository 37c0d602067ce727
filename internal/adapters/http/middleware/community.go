package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotebook/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotebook/internal/platform/logging"
	"github.com/jsamuelsen/quotebook/internal/ports"
)

// communityParam matches handlers.CommunityParam.
const communityParam = "community"

// Community validates the :community path parameter and scopes the request
// logger and feature flags to it.
func Community() gin.HandlerFunc {
	return func(c *gin.Context) {
		community := c.Param(communityParam)

		if err := dto.ValidateCommunity(community); err != nil {
			dto.HandleError(c, err)
			c.Abort()

			return
		}

		ctx := logging.WithCommunity(c.Request.Context(), community)
		ctx = ports.WithFlagCommunity(ctx, community)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
