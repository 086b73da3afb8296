package usermanagement

import (
	"errors"
	"log/slog"
	"time"

	jwthandling "github.com/zacki-div/resto-backend/pkg/jwt-handling"
	"github.com/zacki-div/resto-backend/pkg/user-management/pwhash"
	userTypes "github.com/zacki-div/resto-backend/pkg/user-management/types"
	umUtils "github.com/zacki-div/resto-backend/pkg/user-management/utils"
	"github.com/zacki-div/resto-backend/pkg/utils"
)

// Profile fields a user may change about themselves. Everything else,
// password hash and role included, is never touched by a profile update.
var profileUpdateWhitelist = []string{
	"firstName", "lastName", "phone", "address", "birthDate", "bio", "avatar",
}

// Fields an admin may change on any account.
var adminUpdateWhitelist = []string{
	"firstName", "lastName", "email", "phone", "address", "role", "isActive", "emailVerified",
}

// UserManagementService orchestrates registration, login, credential changes
// and account deletion on top of the credential hasher, the token issuer and
// the account store.
type UserManagementService struct {
	store          UserStore
	tokenSignKey   string
	tokenExpiresIn time.Duration
}

func NewUserManagementService(store UserStore, tokenSignKey string, tokenExpiresIn time.Duration) *UserManagementService {
	return &UserManagementService{
		store:          store,
		tokenSignKey:   tokenSignKey,
		tokenExpiresIn: tokenExpiresIn,
	}
}

func (s *UserManagementService) Store() UserStore {
	return s.store
}

func (s *UserManagementService) issueToken(user userTypes.User) (string, error) {
	return jwthandling.GenerateNewCustomerUserToken(
		s.tokenExpiresIn,
		user.ID.Hex(),
		user.Email,
		user.Role,
		s.tokenSignKey,
	)
}

// Register creates a new account with role "user" and returns it together
// with a fresh session token. The store's unique index on email is the
// authoritative guard against concurrent registrations, the lookup here only
// gives a friendlier error for the common case.
func (s *UserManagementService) Register(firstName string, lastName string, email string, password string, phone string) (userTypes.User, string, error) {
	email = umUtils.SanitizeEmail(email)

	if _, err := s.store.GetUserByEmail(email); err == nil {
		return userTypes.User{}, "", ErrEmailTaken
	}

	hashedPassword, err := pwhash.HashPassword(password)
	if err != nil {
		return userTypes.User{}, "", err
	}

	now := time.Now().Unix()
	newUser := userTypes.User{
		FirstName:     firstName,
		LastName:      lastName,
		Email:         email,
		Password:      hashedPassword,
		Phone:         umUtils.SanitizePhoneNumber(phone),
		Role:          userTypes.ROLE_USER,
		IsActive:      true,
		EmailVerified: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	id, err := s.store.CreateUser(newUser)
	if err != nil {
		return userTypes.User{}, "", err
	}

	createdUser, err := s.store.GetUserByID(id)
	if err != nil {
		return userTypes.User{}, "", err
	}

	token, err := s.issueToken(createdUser)
	if err != nil {
		return userTypes.User{}, "", err
	}

	slog.Info("new user registered", slog.String("userID", id))
	return createdUser, token, nil
}

// Login runs the credential check state machine: lookup, lock check, password
// verification, lockout bookkeeping, token issuance. Unknown email and wrong
// password are indistinguishable in the returned error.
func (s *UserManagementService) Login(email string, password string) (userTypes.User, string, error) {
	email = umUtils.SanitizeEmail(email)

	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		slog.Warn("login attempt with unknown email", slog.String("email", umUtils.BlurEmailAddress(email)))
		return userTypes.User{}, "", ErrInvalidCredentials
	}

	if IsLocked(user) {
		s.registerFailedLoginAttempt(user)
		return userTypes.User{}, "", ErrAccountLocked
	}

	match, err := pwhash.ComparePasswordWithHash(user.Password, password)
	if err != nil || !match {
		if err != nil {
			slog.Error("could not compare password with stored hash", slog.String("userID", user.ID.Hex()), slog.String("error", err.Error()))
		}
		s.registerFailedLoginAttempt(user)
		return userTypes.User{}, "", ErrInvalidCredentials
	}

	fields := map[string]interface{}{
		"lastLoginAt": time.Now().Unix(),
	}
	if user.FailedLoginAttempts > 0 || user.LockedUntil > 0 {
		fields["failedLoginAttempts"] = int64(0)
		fields["lockedUntil"] = int64(0)
	}

	user, err = s.store.UpdateUserFields(user.ID.Hex(), fields)
	if err != nil {
		return userTypes.User{}, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return userTypes.User{}, "", err
	}

	slog.Info("login successful", slog.String("userID", user.ID.Hex()))
	return user, token, nil
}

// ChangePassword verifies the current password, stores a new hash and issues
// a fresh token. Previously issued tokens stay valid until they expire, there
// is no revocation list.
func (s *UserManagementService) ChangePassword(userID string, currentPassword string, newPassword string) (userTypes.User, string, error) {
	user, err := s.store.GetUserByID(userID)
	if err != nil {
		return userTypes.User{}, "", err
	}

	match, err := pwhash.ComparePasswordWithHash(user.Password, currentPassword)
	if err != nil || !match {
		return userTypes.User{}, "", ErrInvalidCredentials
	}

	hashedPassword, err := pwhash.HashPassword(newPassword)
	if err != nil {
		return userTypes.User{}, "", err
	}

	user, err = s.store.UpdateUserFields(userID, map[string]interface{}{
		"password":  hashedPassword,
		"updatedAt": time.Now().Unix(),
	})
	if err != nil {
		return userTypes.User{}, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return userTypes.User{}, "", err
	}

	slog.Info("password changed", slog.String("userID", userID))
	return user, token, nil
}

// DeleteOwnAccount removes the account after verifying the password.
func (s *UserManagementService) DeleteOwnAccount(userID string, password string) error {
	user, err := s.store.GetUserByID(userID)
	if err != nil {
		return err
	}

	match, err := pwhash.ComparePasswordWithHash(user.Password, password)
	if err != nil || !match {
		return ErrInvalidCredentials
	}

	if err := s.store.DeleteUser(userID); err != nil {
		return err
	}
	slog.Info("account deleted", slog.String("userID", userID))
	return nil
}

// UpdateProfile applies a whitelist-only mutation of the non security
// relevant profile fields. An empty field set leaves the account unchanged.
func (s *UserManagementService) UpdateProfile(userID string, fields map[string]interface{}) (userTypes.User, error) {
	return s.updateWhitelisted(userID, fields, profileUpdateWhitelist)
}

// AdminUpdateUser is the admin variant of the profile update, additionally
// allowing email, role and account state flags.
func (s *UserManagementService) AdminUpdateUser(userID string, fields map[string]interface{}) (userTypes.User, error) {
	if email, ok := fields["email"].(string); ok {
		fields["email"] = umUtils.SanitizeEmail(email)
	}
	return s.updateWhitelisted(userID, fields, adminUpdateWhitelist)
}

func (s *UserManagementService) updateWhitelisted(userID string, fields map[string]interface{}, whitelist []string) (userTypes.User, error) {
	update := map[string]interface{}{}
	for key, value := range fields {
		if utils.ContainsString(whitelist, key) {
			update[key] = value
		}
	}

	if len(update) == 0 {
		return s.store.GetUserByID(userID)
	}

	update["updatedAt"] = time.Now().Unix()
	return s.store.UpdateUserFields(userID, update)
}

// GetUser loads a single account.
func (s *UserManagementService) GetUser(userID string) (userTypes.User, error) {
	return s.store.GetUserByID(userID)
}

// AdminDeleteUser removes another user's account.
func (s *UserManagementService) AdminDeleteUser(userID string) error {
	if _, err := s.store.GetUserByID(userID); err != nil {
		return err
	}
	return s.store.DeleteUser(userID)
}

// ListUsers returns a paginated, filtered user list for the admin API.
func (s *UserManagementService) ListUsers(filter UserListFilter) (UserListPage, error) {
	return s.store.ListUsers(filter)
}

// GetUserStats aggregates account counts for the admin dashboard.
func (s *UserManagementService) GetUserStats() (UserStatsSummary, error) {
	return s.store.GetUserStats()
}

// IsExpectedError reports whether the error belongs to the failure taxonomy
// handlers translate into 4xx responses.
func IsExpectedError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrAccountLocked) ||
		errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrUserNotFound)
}
