// Package requestid carries a per-request correlation id through contexts and HTTP headers.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP header used to propagate the id
const Header = "X-Request-ID"

type ctxKey struct{}

// New returns a fresh random id
func New() string {
	return uuid.NewString()
}

// NewContext returns a copy of ctx carrying id
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the id stored in ctx, or ""
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
