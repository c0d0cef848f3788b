package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/dineware-service/internal/auth"
	apperrors "github.com/spec-kit/dineware-service/pkg/util"
)

// AuthService issues and ends cookie sessions.
type AuthService struct {
	tokens      *auth.TokenManager
	revocations auth.RevocationStore
}

// NewAuthService builds the service. A nil store keeps logout stateless.
func NewAuthService(tokens *auth.TokenManager, revocations auth.RevocationStore) *AuthService {
	if revocations == nil {
		revocations = auth.NoopRevocationStore{}
	}
	return &AuthService{tokens: tokens, revocations: revocations}
}

// IssueSession signs a session token for the supplied identity.
func (s *AuthService) IssueSession(_ context.Context, email string) (string, time.Time, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", time.Time{}, apperrors.NewValidationError("email required", nil)
	}
	token, exp, err := s.tokens.GenerateToken(email)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, exp, nil
}

// EndSession revokes the presented token when a revocation store is configured.
// Tokens that are missing, malformed or expired need no revocation.
func (s *AuthService) EndSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil
	}
	identity := claims.Identity()
	if err := s.revocations.Revoke(ctx, identity.TokenID, identity.ExpiresAt); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Revocations exposes the revocation store for middleware usage.
func (s *AuthService) Revocations() auth.RevocationStore {
	return s.revocations
}
