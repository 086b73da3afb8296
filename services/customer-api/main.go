package main

import (
	"log/slog"
	"time"

	usermanagement "github.com/zacki-div/resto-backend/pkg/user-management"
	"github.com/zacki-div/resto-backend/services/customer-api/apihandlers"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	userService := usermanagement.NewUserManagementService(
		userStore,
		conf.UserManagementConfig.CustomerUserJWTConfig.SignKey,
		tokenExpiresIn,
	)

	// Start webserver
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     conf.GinConfig.AllowOrigins,
		AllowMethods:     []string{"POST", "GET", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Content-Length"},
		ExposeHeaders:    []string{"Authorization", "Content-Type", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add handlers
	router.GET("/", apihandlers.HealthCheckHandle)
	apiRoot := router.Group("/api")

	apiHandlers := apihandlers.NewHTTPHandler(
		conf.UserManagementConfig.CustomerUserJWTConfig.SignKey,
		userService,
	)
	apiHandlers.AddCustomerAuthAPI(apiRoot)
	apiHandlers.AddUserManagementAPI(apiRoot)

	// Start the server
	slog.Info("Starting Customer API on port " + conf.GinConfig.Port)
	if err := router.Run(":" + conf.GinConfig.Port); err != nil {
		slog.Error("Exited Customer API", slog.String("error", err.Error()))
		return
	}
}
