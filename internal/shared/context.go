package shared

import (
	"context"

	"github.com/eventosys/eventosys/internal/policy"
)

type principalContextKey struct{}

// ContextWithPrincipal stores the resolved principal snapshot in context.
func ContextWithPrincipal(ctx context.Context, p policy.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal snapshot, or the anonymous
// principal when none was resolved.
func PrincipalFromContext(ctx context.Context) policy.Principal {
	p, ok := ctx.Value(principalContextKey{}).(policy.Principal)
	if !ok {
		return policy.Anonymous()
	}
	return p
}
