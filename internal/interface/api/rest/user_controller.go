package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"expiry-scanner-api/internal/application/ports"
	"expiry-scanner-api/internal/interface/api/rest/dto/user"
	"expiry-scanner-api/internal/interface/api/rest/validator"
)

type UserController struct {
	userService ports.UserService
	logger      *zap.Logger
}

func NewUserController(
	r *gin.Engine,
	userService ports.UserService,
	logger *zap.Logger,
) *UserController {
	uc := &UserController{
		userService: userService,
		logger:      logger,
	}

	r.GET(RouteUserLookup, uc.LookupHandler)
	r.GET(RouteUser, uc.GetUserHandler)
	r.GET(RouteUserAnalyses, uc.GetAnalysesHandler)

	return uc
}

func (uc *UserController) LookupHandler(c *gin.Context) {
	email := c.Query("email")
	if err := validator.ValidateEmail(email); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	u, err := uc.userService.FindByEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get a user")
		uc.logger.Error("FindByEmail() error", zap.Error(err))
		return
	}
	if u == nil {
		respondError(c, http.StatusNotFound, "user not found")
		return
	}

	c.JSON(http.StatusOK, user.ToResponseUser(*u))
}

func (uc *UserController) GetUserHandler(c *gin.Context) {
	ok, uuid := validator.IsUUID(c.Param("user_id"))
	if !ok {
		respondError(c, http.StatusBadRequest, "user_id must be a valid UUID")
		return
	}

	u, err := uc.userService.FindUserByID(c.Request.Context(), uuid)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get a user")
		uc.logger.Error("FindUserByID() error", zap.Error(err))
		return
	}
	if u == nil {
		respondError(c, http.StatusNotFound, "user not found")
		return
	}

	c.JSON(http.StatusOK, user.ToResponseUser(*u))
}

func (uc *UserController) GetAnalysesHandler(c *gin.Context) {
	ok, uuid := validator.IsUUID(c.Param("user_id"))
	if !ok {
		respondError(c, http.StatusBadRequest, "user_id must be a valid UUID")
		return
	}
	page, err := validator.ValidatePage(c.Query("page"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	records, err := uc.userService.FindAnalyses(c.Request.Context(), uuid, page)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get analyses")
		uc.logger.Error("FindAnalyses() error", zap.Error(err))
		return
	}
	if records == nil {
		respondError(c, http.StatusNotFound, "user not found")
		return
	}

	c.JSON(http.StatusOK, user.ResponseData{
		Data: user.ToResponseAnalyses(records),
	})
}
