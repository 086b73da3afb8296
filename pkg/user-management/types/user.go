package types

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role of a customer account. Roles are a closed set, every
// authorization gate compares against these constants only.
type Role string

const (
	ROLE_USER    Role = "user"
	ROLE_ADMIN   Role = "admin"
	ROLE_MANAGER Role = "manager"
)

func (r Role) IsValid() bool {
	switch r {
	case ROLE_USER, ROLE_ADMIN, ROLE_MANAGER:
		return true
	}
	return false
}

// UserStats carries the denormalized activity counters shown on the profile page.
type UserStats struct {
	OrdersCount    int64 `bson:"ordersCount" json:"ordersCount"`
	FavoritesCount int64 `bson:"favoritesCount" json:"favoritesCount"`
	ReviewsCount   int64 `bson:"reviewsCount" json:"reviewsCount"`
}

type User struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
	Email     string `bson:"email" json:"email"`
	Password  string `bson:"password" json:"-"`

	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address   string `bson:"address,omitempty" json:"address,omitempty"`
	BirthDate string `bson:"birthDate,omitempty" json:"birthDate,omitempty"`
	Bio       string `bson:"bio,omitempty" json:"bio,omitempty"`
	Avatar    string `bson:"avatar,omitempty" json:"avatar,omitempty"`

	Role          Role `bson:"role" json:"role"`
	IsActive      bool `bson:"isActive" json:"isActive"`
	EmailVerified bool `bson:"emailVerified" json:"emailVerified"`

	// Login rate limiting, only touched by the login flow
	FailedLoginAttempts int64 `bson:"failedLoginAttempts" json:"-"`
	LockedUntil         int64 `bson:"lockedUntil,omitempty" json:"-"`

	LastLoginAt int64     `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
	Stats       UserStats `bson:"stats" json:"stats"`

	CreatedAt int64 `bson:"createdAt" json:"createdAt"`
	UpdatedAt int64 `bson:"updatedAt" json:"updatedAt"`
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// PublicProfile is the subset of a User that is safe to return to clients.
type PublicProfile struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	BirthDate     string    `json:"birthDate,omitempty"`
	Bio           string    `json:"bio,omitempty"`
	Avatar        string    `json:"avatar,omitempty"`
	Role          Role      `json:"role"`
	IsActive      bool      `json:"isActive"`
	EmailVerified bool      `json:"emailVerified"`
	LastLoginAt   int64     `json:"lastLoginAt,omitempty"`
	Stats         UserStats `json:"stats"`
	CreatedAt     int64     `json:"createdAt"`
	UpdatedAt     int64     `json:"updatedAt"`
}

// ToPublicProfile strips the password hash and the login rate limiting
// bookkeeping from the account record.
func (u User) ToPublicProfile() PublicProfile {
	return PublicProfile{
		ID:            u.ID.Hex(),
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		FullName:      u.FullName(),
		Email:         u.Email,
		Phone:         u.Phone,
		Address:       u.Address,
		BirthDate:     u.BirthDate,
		Bio:           u.Bio,
		Avatar:        u.Avatar,
		Role:          u.Role,
		IsActive:      u.IsActive,
		EmailVerified: u.EmailVerified,
		LastLoginAt:   u.LastLoginAt,
		Stats:         u.Stats,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
