package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/zacki-div/resto-backend/pkg/apihelpers"
	mw "github.com/zacki-div/resto-backend/pkg/apihelpers/middlewares"
	usermanagement "github.com/zacki-div/resto-backend/pkg/user-management"
	umUtils "github.com/zacki-div/resto-backend/pkg/user-management/utils"
	"github.com/gin-gonic/gin"

	userTypes "github.com/zacki-div/resto-backend/pkg/user-management/types"
)

func (h *HttpEndpoints) AddUserManagementAPI(rg *gin.RouterGroup) {
	usersGroup := rg.Group("/users")
	usersGroup.Use(mw.GetAndValidateCustomerUserJWT(h.tokenSignKey, h.userService.Store()))
	{
		usersGroup.GET("", mw.RequireRoles(userTypes.ROLE_ADMIN, userTypes.ROLE_MANAGER), h.getUsers)
		usersGroup.GET("/stats", mw.RequireRoles(userTypes.ROLE_ADMIN), h.getUserStats)
		usersGroup.GET("/:userID", mw.RequireRoles(userTypes.ROLE_ADMIN, userTypes.ROLE_MANAGER), h.getUserByID)
		usersGroup.PUT("/:userID", mw.RequireRoles(userTypes.ROLE_ADMIN), mw.RequirePayload(), h.updateUser)
		usersGroup.DELETE("/:userID", mw.RequireRoles(userTypes.ROLE_ADMIN), h.deleteUser)
	}
}

func (h *HttpEndpoints) getUsers(c *gin.Context) {
	filter, err := apihelpers.ParseUserListQueryFromCtx(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	page, err := h.userService.ListUsers(*filter)
	if err != nil {
		slog.Error("failed to list users", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to list users"})
		return
	}

	profiles := make([]userTypes.PublicProfile, len(page.Users))
	for i, user := range page.Users {
		profiles[i] = user.ToPublicProfile()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(profiles),
		"total":   page.Total,
		"pagination": gin.H{
			"page":  page.Page,
			"pages": page.Pages,
			"limit": page.Limit,
		},
		"users": profiles,
	})
}

func (h *HttpEndpoints) getUserStats(c *gin.Context) {
	stats, err := h.userService.GetUserStats()
	if err != nil {
		slog.Error("failed to compute user stats", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to compute user stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

func (h *HttpEndpoints) getUserByID(c *gin.Context) {
	userID := c.Param("userID")

	user, err := h.userService.GetUser(userID)
	if err != nil {
		if errors.Is(err, usermanagement.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "user not found"})
			return
		}
		slog.Error("failed to fetch user", slog.String("userID", userID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user.ToPublicProfile()})
}

func (h *HttpEndpoints) updateUser(c *gin.Context) {
	userID := c.Param("userID")

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	validationErrs := validateProfileFields(fields)
	if raw, ok := fields["role"]; ok {
		value, isStr := raw.(string)
		if !isStr || !userTypes.Role(value).IsValid() {
			validationErrs = append(validationErrs, "role must be one of: user, manager, admin")
		}
	}
	if raw, ok := fields["email"]; ok {
		value, isStr := raw.(string)
		if !isStr || !umUtils.CheckEmailFormat(value) {
			validationErrs = append(validationErrs, "email address is not valid")
		}
	}
	if len(validationErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "validation failed", "errors": validationErrs})
		return
	}

	updated, err := h.userService.AdminUpdateUser(userID, fields)
	if err != nil {
		if errors.Is(err, usermanagement.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "user not found"})
			return
		}
		if errors.Is(err, usermanagement.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "an account with this email already exists"})
			return
		}
		slog.Error("failed to update user", slog.String("userID", userID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update user"})
		return
	}

	slog.Info("user updated by admin", slog.String("userID", userID))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "user updated", "user": updated.ToPublicProfile()})
}

func (h *HttpEndpoints) deleteUser(c *gin.Context) {
	userID := c.Param("userID")
	caller := c.MustGet("currentUser").(userTypes.User)

	if caller.ID.Hex() == userID {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "you cannot delete your own account through this endpoint"})
		return
	}

	if err := h.userService.AdminDeleteUser(userID); err != nil {
		if errors.Is(err, usermanagement.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "user not found"})
			return
		}
		slog.Error("failed to delete user", slog.String("userID", userID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete user"})
		return
	}

	slog.Info("user deleted by admin", slog.String("userID", userID))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "user deleted"})
}
