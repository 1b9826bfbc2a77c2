// Package requestid carries the request correlation id through a context.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP header holding the correlation id.
const Header = "X-Request-ID"

type key struct{}

// NewContext returns a copy of ctx carrying id.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, key{}, id)
}

// FromContext returns the correlation id stored in ctx, or "-" when there is none.
func FromContext(ctx context.Context) string {
	id, ok := ctx.Value(key{}).(string)
	if !ok || id == "" {
		return "-"
	}

	return id
}

// UUID returns the correlation id as a UUID when it is one, and a fresh UUID otherwise.
func UUID(ctx context.Context) uuid.UUID {
	if id, err := uuid.Parse(FromContext(ctx)); err == nil {
		return id
	}

	return uuid.New()
}
