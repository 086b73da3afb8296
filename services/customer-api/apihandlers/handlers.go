package apihandlers

import (
	"net/http"

	usermanagement "github.com/zacki-div/resto-backend/pkg/user-management"
	"github.com/gin-gonic/gin"
)

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type HttpEndpoints struct {
	userService  *usermanagement.UserManagementService
	tokenSignKey string
}

func NewHTTPHandler(
	tokenSignKey string,
	userService *usermanagement.UserManagementService,
) *HttpEndpoints {
	return &HttpEndpoints{
		userService:  userService,
		tokenSignKey: tokenSignKey,
	}
}
