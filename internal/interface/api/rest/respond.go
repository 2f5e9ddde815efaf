package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorBody{Message: msg})
}

func respondInvalid(c *gin.Context, msg string, details map[string]string) {
	c.JSON(http.StatusBadRequest, errorBody{Message: msg, Details: details})
}

// MethodNotAllowed keeps 405 bodies in the same shape as every other error.
func MethodNotAllowed(c *gin.Context) {
	respondError(c, http.StatusMethodNotAllowed, "method not allowed")
}

func NotFound(c *gin.Context) {
	respondError(c, http.StatusNotFound, "route not found")
}
