package usecase

import (
	"fmt"
	"strings"

	"github.com/FilipeAphrody/sentinel-access/internal/domain"
	"github.com/FilipeAphrody/sentinel-access/pkg/security"
)

// TokenVerifier decodes a bearer token into its claims.
type TokenVerifier interface {
	Verify(token string) (*security.Claims, error)
}

// Guard runs the two request admission stages: Authenticate turns a bearer
// credential into a Principal, Authorize checks that principal against a
// RoleRequirement.
type Guard struct {
	tokens TokenVerifier
}

func NewGuard(tokens TokenVerifier) *Guard {
	return &Guard{tokens: tokens}
}

// Authenticate validates the value of an Authorization header.
//
// Every failure is domain.ErrUnauthenticated; the codec error stays wrapped
// so callers can log expired and invalid tokens apart. An absent or
// non-Bearer header never reaches the codec.
func (g *Guard) Authenticate(authorization string) (domain.Principal, error) {
	token, ok := bearerToken(authorization)
	if !ok {
		return domain.Principal{}, domain.ErrUnauthenticated
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}

	role := domain.Role(claims.Role)
	if !role.Valid() {
		return domain.Principal{}, fmt.Errorf("%w: unknown role %q", domain.ErrUnauthenticated, claims.Role)
	}

	return domain.Principal{
		ID:    claims.Subject,
		Email: claims.Email,
		Role:  role,
	}, nil
}

// Authorize allows p iff its role is in required. An empty requirement
// allows any authenticated principal.
//
// A nil principal means Authorize was wired ahead of Authenticate; it panics
// rather than let the request through.
func (g *Guard) Authorize(p *domain.Principal, required domain.RoleRequirement) error {
	if p == nil {
		panic("usecase: Authorize called without an authenticated principal")
	}
	if !required.Allows(p.Role) {
		return domain.ErrForbidden
	}
	return nil
}

// Expected format: "Bearer <token>". The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
