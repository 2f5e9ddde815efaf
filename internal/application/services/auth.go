package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"expiry-scanner-api/internal/application/ports"
	"expiry-scanner-api/internal/application/session"
	"expiry-scanner-api/internal/domain/user"
	"expiry-scanner-api/internal/infrastructure/jwt"
	"expiry-scanner-api/internal/infrastructure/metrics"
	"expiry-scanner-api/internal/infrastructure/mq"
)

const tokenTTL = time.Hour

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrFailedToGenerateToken = errors.New("failed to generate token")
	ErrUserNotFound          = errors.New("user not found")
	ErrTokenRevoked          = errors.New("token revoked")
)

type AuthService struct {
	logger         *zap.Logger
	jwtService     *jwt.Service
	userRepository user.Repository
	hub            *session.Hub
	events         ports.EventPublisher
	mCounter       *prometheus.CounterVec
	now            func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time // jti -> token expiry
}

func NewAuthService(
	logger *zap.Logger,
	jwtService *jwt.Service,
	userRepository user.Repository,
	hub *session.Hub,
	events ports.EventPublisher,
	mCounter *prometheus.CounterVec,
) *AuthService {
	return &AuthService{
		logger:         logger,
		jwtService:     jwtService,
		userRepository: userRepository,
		hub:            hub,
		events:         events,
		mCounter:       mCounter,
		now:            time.Now,
		revoked:        make(map[string]time.Time),
	}
}

func (as *AuthService) SignUp(ctx context.Context, email, password string, phoneNumber *string) (*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	u, err := as.userRepository.CreateUser(ctx, user.User{
		Email:        email,
		PasswordHash: &hashStr,
		PhoneNumber:  phoneNumber,
	})
	if err != nil {
		return nil, err
	}

	as.events.Publish(mq.NewEvent(mq.ActionUserRegistered, u.UUID.String(), mq.UserPayload{
		UUID:      u.UUID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}))
	as.mCounter.WithLabelValues(metrics.UsersRegistered).Inc()

	return u, nil
}

func (as *AuthService) SignIn(ctx context.Context, email, password string) (string, *user.User, error) {
	users, err := as.userRepository.FetchUsersByEmail(ctx, email, 1)
	if err != nil {
		return "", nil, err
	}
	if len(users) == 0 {
		return "", nil, ErrUserNotFound
	}
	u := users[0]

	if u.PasswordHash == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err = bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := as.jwtService.GenerateJWT(u.UUID.String(), u.Email, tokenTTL)
	if err != nil {
		return "", nil, ErrFailedToGenerateToken
	}

	if err = as.userRepository.TouchLastLogin(ctx, u.UUID); err != nil {
		as.logger.Warn("failed to update last login", zap.Error(err), zap.String("user_uuid", u.UUID.String()))
	}

	as.hub.Publish(session.IdentityEvent{
		UserID: u.UUID.String(),
		Email:  u.Email,
		State:  session.SignedIn,
		At:     as.now().UTC(),
	})

	return token, u, nil
}

// SignOut revokes the token identified by claims until it would have
// expired anyway.
func (as *AuthService) SignOut(claims *jwt.Claims) {
	exp := as.now().Add(tokenTTL)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	as.mu.Lock()
	as.revoked[claims.ID] = exp
	as.pruneLocked()
	as.mu.Unlock()

	as.hub.Publish(session.IdentityEvent{
		UserID: claims.UserID,
		Email:  claims.Email,
		State:  session.SignedOut,
		At:     as.now().UTC(),
	})
}

func (as *AuthService) ValidateToken(tokenStr string) (*jwt.Claims, error) {
	claims, err := as.jwtService.ValidateToken(tokenStr)
	if err != nil {
		return nil, err
	}

	as.mu.Lock()
	_, revoked := as.revoked[claims.ID]
	as.mu.Unlock()
	if revoked {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

func (as *AuthService) Identity(userID string) (<-chan session.IdentityEvent, func()) {
	return as.hub.Subscribe(userID)
}

func (as *AuthService) pruneLocked() {
	now := as.now()
	for id, exp := range as.revoked {
		if !now.Before(exp) {
			delete(as.revoked, id)
		}
	}
}
