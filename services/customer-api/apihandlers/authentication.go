package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"

	mw "github.com/zacki-div/resto-backend/pkg/apihelpers/middlewares"
	usermanagement "github.com/zacki-div/resto-backend/pkg/user-management"
	umUtils "github.com/zacki-div/resto-backend/pkg/user-management/utils"
	"github.com/gin-gonic/gin"

	userTypes "github.com/zacki-div/resto-backend/pkg/user-management/types"
)

func (h *HttpEndpoints) AddCustomerAuthAPI(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", mw.RequirePayload(), h.register)
		authGroup.POST("/login", mw.RequirePayload(), h.login)
	}

	authedGroup := rg.Group("/auth")
	authedGroup.Use(mw.GetAndValidateCustomerUserJWT(h.tokenSignKey, h.userService.Store()))
	{
		authedGroup.POST("/logout", h.logout)
		authedGroup.GET("/me", h.getCurrentUser)
		authedGroup.GET("/verify-token", h.verifyToken)
		authedGroup.PUT("/profile", mw.RequirePayload(), h.updateProfile)
		authedGroup.PUT("/change-password", mw.RequirePayload(), h.changePassword)
		authedGroup.DELETE("/delete-account", mw.RequirePayload(), h.deleteAccount)
	}
}

type userRegistrationQuery struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
}

func (h *HttpEndpoints) register(c *gin.Context) {
	var req userRegistrationQuery
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	if validationErrs := validateRegistrationQuery(req); len(validationErrs) > 0 {
		slog.Warn("registration attempt with invalid fields", slog.String("email", umUtils.BlurEmailAddress(req.Email)))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "validation failed", "errors": validationErrs})
		return
	}

	user, token, err := h.userService.Register(
		req.FirstName,
		req.LastName,
		req.Email,
		req.Password,
		umUtils.SanitizePhoneNumber(req.Phone),
	)
	if err != nil {
		if errors.Is(err, usermanagement.ErrEmailTaken) {
			slog.Warn("registration attempt with existing email", slog.String("email", umUtils.BlurEmailAddress(req.Email)))
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "an account with this email already exists"})
			return
		}
		slog.Error("failed to register user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to register user"})
		return
	}

	slog.Info("new user registered", slog.String("userID", user.ID.Hex()))
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "registration successful",
		"token":   token,
		"user":    user.ToPublicProfile(),
	})
}

type loginQuery struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *HttpEndpoints) login(c *gin.Context) {
	var req loginQuery
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	if req.Email == "" || req.Password == "" {
		slog.Error("missing required fields")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email and password are required"})
		return
	}

	user, token, err := h.userService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usermanagement.ErrAccountLocked) {
			slog.Warn("login attempt on locked account", slog.String("email", umUtils.BlurEmailAddress(req.Email)))
			randomWait(1, 3)
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "account temporarily locked due to too many failed login attempts, try again later"})
			return
		}
		if errors.Is(err, usermanagement.ErrInvalidCredentials) {
			slog.Warn("login attempt with invalid credentials", slog.String("email", umUtils.BlurEmailAddress(req.Email)))
			randomWait(1, 3)
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid email or password"})
			return
		}
		slog.Error("unexpected error during login", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to login"})
		return
	}

	slog.Info("user logged in", slog.String("userID", user.ID.Hex()))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "login successful",
		"token":   token,
		"user":    user.ToPublicProfile(),
	})
}

// logout is stateless, tokens stay valid until they expire. The endpoint exists
// so clients have a uniform place to hook local session cleanup.
func (h *HttpEndpoints) logout(c *gin.Context) {
	user := c.MustGet("currentUser").(userTypes.User)
	slog.Info("user logged out", slog.String("userID", user.ID.Hex()))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "logout successful"})
}

func (h *HttpEndpoints) getCurrentUser(c *gin.Context) {
	user := c.MustGet("currentUser").(userTypes.User)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user.ToPublicProfile()})
}

func (h *HttpEndpoints) verifyToken(c *gin.Context) {
	user := c.MustGet("currentUser").(userTypes.User)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "token is valid", "user": user.ToPublicProfile()})
}

func (h *HttpEndpoints) updateProfile(c *gin.Context) {
	user := c.MustGet("currentUser").(userTypes.User)

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	if validationErrs := validateProfileFields(fields); len(validationErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "validation failed", "errors": validationErrs})
		return
	}

	updated, err := h.userService.UpdateProfile(user.ID.Hex(), fields)
	if err != nil {
		if errors.Is(err, usermanagement.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "user not found"})
			return
		}
		slog.Error("failed to update profile", slog.String("userID", user.ID.Hex()), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update profile"})
		return
	}

	slog.Info("profile updated", slog.String("userID", user.ID.Hex()))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "profile updated", "user": updated.ToPublicProfile()})
}

type changePasswordQuery struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *HttpEndpoints) changePassword(c *gin.Context) {
	user := c.MustGet("currentUser").(userTypes.User)

	var req changePasswordQuery
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	if validationErrs := checkPasswordRules(req.NewPassword); len(validationErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "validation failed", "errors": validationErrs})
		return
	}

	_, token, err := h.userService.ChangePassword(user.ID.Hex(), req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, usermanagement.ErrInvalidCredentials) {
			slog.Warn("password change attempt with wrong current password", slog.String("userID", user.ID.Hex()))
			randomWait(1, 3)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "current password is incorrect"})
			return
		}
		slog.Error("failed to change password", slog.String("userID", user.ID.Hex()), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to change password"})
		return
	}

	slog.Info("password changed", slog.String("userID", user.ID.Hex()))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "password changed", "token": token})
}

type deleteAccountQuery struct {
	Password string `json:"password"`
}

func (h *HttpEndpoints) deleteAccount(c *gin.Context) {
	user := c.MustGet("currentUser").(userTypes.User)

	var req deleteAccountQuery
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	if err := h.userService.DeleteOwnAccount(user.ID.Hex(), req.Password); err != nil {
		if errors.Is(err, usermanagement.ErrInvalidCredentials) {
			slog.Warn("account deletion attempt with wrong password", slog.String("userID", user.ID.Hex()))
			randomWait(1, 3)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "password is incorrect"})
			return
		}
		slog.Error("failed to delete account", slog.String("userID", user.ID.Hex()), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete account"})
		return
	}

	slog.Info("account deleted", slog.String("userID", user.ID.Hex()))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "account deleted"})
}
