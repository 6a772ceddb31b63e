package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/tabletab/tabletab/internal/restaurantctx"
)

const HeaderRestaurant = "X-Restaurant-Id"

// RestaurantContext resolves the tenant for the request: the
// X-Restaurant-Id header when present, otherwise the configured default
// restaurant. Requests without either are rejected.
func (s *Server) RestaurantContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderRestaurant))

		var restaurantID snowflake.ID
		if raw != "" {
			parsed, err := snowflake.ParseString(raw)
			if err != nil || parsed == 0 {
				AbortWithError(c, newValidationError("restaurant_id", "invalid_restaurant", "invalid restaurant id"))
				return
			}
			restaurantID = parsed
		} else if s.cfg.DefaultRestaurantID != 0 {
			restaurantID = snowflake.ID(s.cfg.DefaultRestaurantID)
		} else {
			AbortWithError(c, newValidationError("restaurant_id", "invalid_restaurant", "missing restaurant id"))
			return
		}

		ctx := restaurantctx.WithRestaurantID(c.Request.Context(), restaurantID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
