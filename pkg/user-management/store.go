package usermanagement

import (
	"errors"

	userTypes "github.com/zacki-div/resto-backend/pkg/user-management/types"
)

var (
	// ErrInvalidCredentials covers unknown email and wrong password alike, so
	// responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account temporarily locked")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

type UserListFilter struct {
	Page     int64
	Limit    int64
	Search   string
	Role     userTypes.Role
	IsActive *bool
}

type UserListPage struct {
	Users []userTypes.User
	Total int64
	Page  int64
	Pages int64
	Limit int64
}

type UserStatsSummary struct {
	TotalUsers        int64            `json:"totalUsers"`
	ActiveUsers       int64            `json:"activeUsers"`
	InactiveUsers     int64            `json:"inactiveUsers"`
	VerifiedUsers     int64            `json:"verifiedUsers"`
	NewUsersThisMonth int64            `json:"newUsersThisMonth"`
	RoleCounts        map[string]int64 `json:"roleCounts"`
}

// UserStore is the narrow persistence interface the user management core
// consumes. The MongoDB implementation lives in pkg/db/customer-user, the
// in-memory implementation in this package backs tests and the embedded
// server variant.
//
// CreateUser must guarantee email uniqueness (case-insensitive) atomically
// and report a violation as ErrEmailTaken. A missing record is always
// reported as ErrUserNotFound.
type UserStore interface {
	CreateUser(user userTypes.User) (string, error)
	GetUserByEmail(email string) (userTypes.User, error)
	GetUserByID(id string) (userTypes.User, error)
	UpdateUserFields(id string, fields map[string]interface{}) (userTypes.User, error)
	DeleteUser(id string) error

	ListUsers(filter UserListFilter) (UserListPage, error)
	GetUserStats() (UserStatsSummary, error)
}
