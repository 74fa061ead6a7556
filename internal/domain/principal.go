package domain

import (
	"context"
	"slices"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// RoleRequirement is the set of roles permitted to invoke an operation.
// An empty requirement admits any authenticated principal.
type RoleRequirement []Role

// Allows reports whether role satisfies the requirement.
func (r RoleRequirement) Allows(role Role) bool {
	if len(r) == 0 {
		return true
	}
	return slices.Contains(r, role)
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
