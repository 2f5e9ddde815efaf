package ports

import (
	"context"

	"expiry-scanner-api/internal/application/session"
	"expiry-scanner-api/internal/domain/user"
	"expiry-scanner-api/internal/infrastructure/jwt"
)

type Auth interface {
	SignUp(ctx context.Context, email, password string, phoneNumber *string) (*user.User, error)
	SignIn(ctx context.Context, email, password string) (string, *user.User, error)
	SignOut(claims *jwt.Claims)
	ValidateToken(tokenStr string) (*jwt.Claims, error)
	Identity(userID string) (<-chan session.IdentityEvent, func())
}
