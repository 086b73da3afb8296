package apihelpers

import (
	"errors"
	"math"
	"strconv"

	usermanagement "github.com/zacki-div/resto-backend/pkg/user-management"
	userTypes "github.com/zacki-div/resto-backend/pkg/user-management/types"
	"github.com/gin-gonic/gin"
)

// ParseUserListQueryFromCtx reads the pagination and filter query parameters
// of the admin user list endpoint.
func ParseUserListQueryFromCtx(c *gin.Context) (*usermanagement.UserListFilter, error) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		return nil, errors.New("invalid page parameter")
	}

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if err != nil || limit < 1 || limit > 100 {
		return nil, errors.New("invalid limit parameter")
	}

	// (page-1)*limit must stay representable, otherwise the skip offset
	// wraps around to a negative value in the stores
	if page > math.MaxInt64/limit {
		return nil, errors.New("invalid page parameter")
	}

	filter := usermanagement.UserListFilter{
		Page:   page,
		Limit:  limit,
		Search: c.DefaultQuery("search", ""),
	}

	if roleStr := c.DefaultQuery("role", ""); roleStr != "" {
		role := userTypes.Role(roleStr)
		if !role.IsValid() {
			return nil, errors.New("invalid role parameter")
		}
		filter.Role = role
	}

	if isActiveStr := c.DefaultQuery("isActive", ""); isActiveStr != "" {
		isActive, err := strconv.ParseBool(isActiveStr)
		if err != nil {
			return nil, errors.New("invalid isActive parameter")
		}
		filter.IsActive = &isActive
	}

	return &filter, nil
}
