package rest

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"expiry-scanner-api/internal/application/ports"
	"expiry-scanner-api/internal/application/services"
	"expiry-scanner-api/internal/application/session"
	userDB "expiry-scanner-api/internal/infrastructure/db/postgres/user"
	"expiry-scanner-api/internal/infrastructure/jwt"
	"expiry-scanner-api/internal/interface/api/rest/dto/auth"
	"expiry-scanner-api/internal/interface/api/rest/dto/user"
	"expiry-scanner-api/internal/interface/api/rest/middleware"
	"expiry-scanner-api/internal/interface/api/rest/validator"
)

const identityKeepAlive = 25 * time.Second

type AuthController struct {
	logger      *zap.Logger
	authService ports.Auth
}

func NewAuthController(
	r *gin.Engine,
	logger *zap.Logger,
	authService ports.Auth,
) *AuthController {
	ac := &AuthController{
		logger:      logger,
		authService: authService,
	}

	r.POST(RouteSignUp, ac.SignUpHandler)
	r.POST(RouteLogin, ac.LoginHandler)
	r.POST(RouteLogout, middleware.AuthMiddleware(authService), ac.LogoutHandler)
	r.GET(RouteIdentity, middleware.AuthMiddleware(authService), ac.IdentityHandler)

	return ac
}

func (ac *AuthController) SignUpHandler(c *gin.Context) {
	var req auth.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validator.ValidateSignUp(req); errs != nil {
		respondInvalid(c, "invalid request body", errs)
		return
	}

	u, err := ac.authService.SignUp(c.Request.Context(), req.Email, req.Password, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, userDB.ErrEmailAlreadyExists) {
			respondError(c, http.StatusConflict, err.Error())
			return
		}
		ac.logger.Error("SignUp() error", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to create a user")
		return
	}

	c.JSON(http.StatusCreated, user.ToResponseUser(*u))
}

func (ac *AuthController) LoginHandler(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validator.ValidateLogin(req); errs != nil {
		respondInvalid(c, "invalid request body", errs)
		return
	}

	token, _, err := ac.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "user not found")
		case errors.Is(err, services.ErrInvalidCredentials):
			respondError(c, http.StatusUnauthorized, err.Error())
		default:
			ac.logger.Error("SignIn() error", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "failed to sign in")
		}
		return
	}

	c.JSON(http.StatusOK, auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(time.Hour.Seconds()),
	})
}

func (ac *AuthController) LogoutHandler(c *gin.Context) {
	claims, ok := c.MustGet(middleware.CtxClaims).(*jwt.Claims)
	if !ok {
		respondError(c, http.StatusUnauthorized, "invalid token")
		return
	}

	ac.authService.SignOut(claims)

	c.Status(http.StatusNoContent)
}

// IdentityHandler streams the caller's identity transitions as server-sent
// events until sign-out or disconnect.
func (ac *AuthController) IdentityHandler(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)

	events, cancel := ac.authService.Identity(userID)
	defer cancel()

	keepAlive := time.NewTicker(identityKeepAlive)
	defer keepAlive.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"user_id": userID})

	c.Stream(func(_ io.Writer) bool {
		select {
		case e, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("identity", e)
			return e.State != session.SignedOut
		case <-keepAlive.C:
			c.SSEvent("ping", time.Now().UTC())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
