package restaurantctx

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// RestaurantContextKey is the request context key for the active restaurant id.
type RestaurantContextKey struct{}

// WithRestaurantID stores the restaurant id in the context.
func WithRestaurantID(ctx context.Context, restaurantID snowflake.ID) context.Context {
	return context.WithValue(ctx, RestaurantContextKey{}, restaurantID)
}

// RestaurantIDFromContext returns the restaurant id from context, if set.
func RestaurantIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}

	switch typed := ctx.Value(RestaurantContextKey{}).(type) {
	case snowflake.ID:
		return typed, true
	case int64:
		return snowflake.ID(typed), true
	case string:
		parsed, err := snowflake.ParseString(strings.TrimSpace(typed))
		if err == nil {
			return parsed, true
		}
	}
	return 0, false
}
