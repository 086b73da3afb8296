package usermanagement

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/zacki-div/resto-backend/pkg/user-management/pwhash"
	userTypes "github.com/zacki-div/resto-backend/pkg/user-management/types"
)

const testSignKey = "test-sign-key"

func init() {
	// cheap argon2 params to keep the test suite fast
	pwhash.InitArgonParams(8*1024, 1, 1)
}

func newTestService() (*UserManagementService, *InMemoryUserStore) {
	store := NewInMemoryUserStore()
	return NewUserManagementService(store, testSignKey, time.Hour), store
}

func registerTestUser(t *testing.T, s *UserManagementService) userTypes.User {
	t.Helper()
	user, _, err := s.Register("Test", "User", "test@example.com", "Str0ng!Pass", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return user
}

func TestRegister(t *testing.T) {
	s, _ := newTestService()

	t.Run("creates account with defaults and token", func(t *testing.T) {
		user, token, err := s.Register("Test", "User", "  Test@Example.COM ", "Str0ng!Pass", "0612345678")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token == "" {
			t.Error("expected a session token")
		}
		if user.Email != "test@example.com" {
			t.Errorf("unexpected email: %s", user.Email)
		}
		if user.Role != userTypes.ROLE_USER {
			t.Errorf("unexpected role: %s", user.Role)
		}
		if !user.IsActive || user.EmailVerified {
			t.Error("unexpected account state defaults")
		}
		if user.Password == "Str0ng!Pass" || user.Password == "" {
			t.Error("password must be stored as a hash")
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		_, _, err := s.Register("Other", "User", "test@example.com", "Str0ng!Pass", "")
		if !errors.Is(err, ErrEmailTaken) {
			t.Errorf("expected ErrEmailTaken, got: %v", err)
		}
	})

	t.Run("rejects duplicate email regardless of case", func(t *testing.T) {
		_, _, err := s.Register("Other", "User", "TEST@example.com", "Str0ng!Pass", "")
		if !errors.Is(err, ErrEmailTaken) {
			t.Errorf("expected ErrEmailTaken, got: %v", err)
		}
	})
}

func TestLogin(t *testing.T) {
	s, _ := newTestService()
	registerTestUser(t, s)

	t.Run("with unknown email", func(t *testing.T) {
		_, _, err := s.Login("unknown@example.com", "Str0ng!Pass")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got: %v", err)
		}
	})

	t.Run("with wrong password", func(t *testing.T) {
		_, _, err := s.Login("test@example.com", "Wr0ng!Pass")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got: %v", err)
		}
	})

	t.Run("with correct credentials", func(t *testing.T) {
		user, token, err := s.Login("test@example.com", "Str0ng!Pass")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token == "" {
			t.Error("expected a session token")
		}
		if user.LastLoginAt == 0 {
			t.Error("lastLoginAt should be set")
		}
		if user.FailedLoginAttempts != 0 {
			t.Errorf("failed attempts should be reset, got: %d", user.FailedLoginAttempts)
		}
	})
}

func TestLoginLockout(t *testing.T) {
	s, store := newTestService()
	user := registerTestUser(t, s)

	t.Run("first four failures leave the account unlocked", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			_, _, err := s.Login("test@example.com", "Wr0ng!Pass")
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got: %v", err)
			}
		}
		current, err := store.GetUserByID(user.ID.Hex())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if current.FailedLoginAttempts != 4 {
			t.Errorf("unexpected attempt count: %d", current.FailedLoginAttempts)
		}
		if IsLocked(current) {
			t.Error("account should not be locked yet")
		}
	})

	t.Run("fifth failure locks the account but still reports invalid credentials", func(t *testing.T) {
		_, _, err := s.Login("test@example.com", "Wr0ng!Pass")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got: %v", err)
		}
		current, _ := store.GetUserByID(user.ID.Hex())
		if !IsLocked(current) {
			t.Fatal("account should be locked")
		}
		lockWindow := current.LockedUntil - time.Now().Unix()
		if lockWindow < int64((2*time.Hour).Seconds())-5 || lockWindow > int64((2*time.Hour).Seconds()) {
			t.Errorf("unexpected lock window: %d seconds", lockWindow)
		}
	})

	t.Run("attempts during the lock are rejected even with the correct password", func(t *testing.T) {
		_, _, err := s.Login("test@example.com", "Str0ng!Pass")
		if !errors.Is(err, ErrAccountLocked) {
			t.Fatalf("expected ErrAccountLocked, got: %v", err)
		}
		current, _ := store.GetUserByID(user.ID.Hex())
		if current.FailedLoginAttempts != 6 {
			t.Errorf("locked attempt should still be counted, got: %d", current.FailedLoginAttempts)
		}
	})

	t.Run("expired lock with wrong password restarts the counter at 1", func(t *testing.T) {
		_, err := store.UpdateUserFields(user.ID.Hex(), map[string]interface{}{
			"lockedUntil": time.Now().Unix() - 10,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, _, err = s.Login("test@example.com", "Wr0ng!Pass")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got: %v", err)
		}
		current, _ := store.GetUserByID(user.ID.Hex())
		if current.FailedLoginAttempts != 1 {
			t.Errorf("counter should restart at 1, got: %d", current.FailedLoginAttempts)
		}
		if current.LockedUntil != 0 {
			t.Errorf("lock should be cleared, got: %d", current.LockedUntil)
		}
	})

	t.Run("after the lock expired a correct password succeeds and resets the counter", func(t *testing.T) {
		_, _, err := s.Login("test@example.com", "Str0ng!Pass")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		current, _ := store.GetUserByID(user.ID.Hex())
		if current.FailedLoginAttempts != 0 {
			t.Errorf("counter should be reset, got: %d", current.FailedLoginAttempts)
		}
		if current.LockedUntil != 0 {
			t.Errorf("lock should be cleared, got: %d", current.LockedUntil)
		}
	})
}

func TestChangePassword(t *testing.T) {
	s, _ := newTestService()
	user := registerTestUser(t, s)

	t.Run("with wrong current password", func(t *testing.T) {
		_, _, err := s.ChangePassword(user.ID.Hex(), "Wr0ng!Pass", "N3w!Password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got: %v", err)
		}
	})

	t.Run("with correct current password", func(t *testing.T) {
		oldHash := user.Password
		updated, token, err := s.ChangePassword(user.ID.Hex(), "Str0ng!Pass", "N3w!Password")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token == "" {
			t.Error("expected a fresh token")
		}
		if updated.Password == oldHash {
			t.Error("password hash should have changed")
		}

		if _, _, err := s.Login("test@example.com", "N3w!Password"); err != nil {
			t.Errorf("login with new password should succeed: %v", err)
		}
		if _, _, err := s.Login("test@example.com", "Str0ng!Pass"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("login with old password should fail, got: %v", err)
		}
	})

	t.Run("with unknown user", func(t *testing.T) {
		_, _, err := s.ChangePassword("ffffffffffffffffffffffff", "Str0ng!Pass", "N3w!Password")
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got: %v", err)
		}
	})
}

func TestDeleteOwnAccount(t *testing.T) {
	s, store := newTestService()
	user := registerTestUser(t, s)

	t.Run("with wrong password", func(t *testing.T) {
		err := s.DeleteOwnAccount(user.ID.Hex(), "Wr0ng!Pass")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got: %v", err)
		}
		if _, err := store.GetUserByID(user.ID.Hex()); err != nil {
			t.Error("account should still exist")
		}
	})

	t.Run("with correct password", func(t *testing.T) {
		if err := s.DeleteOwnAccount(user.ID.Hex(), "Str0ng!Pass"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := store.GetUserByID(user.ID.Hex()); !errors.Is(err, ErrUserNotFound) {
			t.Error("account should be gone")
		}
	})
}

func TestUpdateProfile(t *testing.T) {
	s, store := newTestService()
	user := registerTestUser(t, s)

	t.Run("with empty field set leaves the account unchanged", func(t *testing.T) {
		before, _ := store.GetUserByID(user.ID.Hex())
		after, err := s.UpdateProfile(user.ID.Hex(), map[string]interface{}{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if before != after {
			t.Error("account should be unchanged")
		}
	})

	t.Run("ignores non whitelisted fields", func(t *testing.T) {
		updated, err := s.UpdateProfile(user.ID.Hex(), map[string]interface{}{
			"bio":      "food lover",
			"role":     "admin",
			"password": "injected",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Bio != "food lover" {
			t.Errorf("unexpected bio: %s", updated.Bio)
		}
		if updated.Role != userTypes.ROLE_USER {
			t.Error("role must not be changeable through profile update")
		}
		if updated.Password == "injected" {
			t.Error("password must not be changeable through profile update")
		}
	})
}

func TestAdminUpdateUser(t *testing.T) {
	s, _ := newTestService()
	user := registerTestUser(t, s)

	updated, err := s.AdminUpdateUser(user.ID.Hex(), map[string]interface{}{
		"role":     "manager",
		"isActive": false,
		"password": "injected",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Role != userTypes.ROLE_MANAGER {
		t.Errorf("unexpected role: %s", updated.Role)
	}
	if updated.IsActive {
		t.Error("isActive should be updatable by admins")
	}
	if updated.Password == "injected" {
		t.Error("password must not be changeable through admin update")
	}
}

func TestListUsersAndStats(t *testing.T) {
	s, store := newTestService()
	registerTestUser(t, s)
	if _, _, err := s.Register("Amal", "Manager", "amal@example.com", "Str0ng!Pass", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	managerUser, err := store.GetUserByEmail("amal@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.AdminUpdateUser(managerUser.ID.Hex(), map[string]interface{}{"role": "manager", "isActive": false}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("filter by search", func(t *testing.T) {
		page, err := s.ListUsers(UserListFilter{Search: "amal"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.Total != 1 || len(page.Users) != 1 {
			t.Fatalf("unexpected page: total=%d len=%d", page.Total, len(page.Users))
		}
		if page.Users[0].Email != "amal@example.com" {
			t.Errorf("unexpected user: %s", page.Users[0].Email)
		}
	})

	t.Run("filter by role", func(t *testing.T) {
		page, err := s.ListUsers(UserListFilter{Role: userTypes.ROLE_MANAGER})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.Total != 1 {
			t.Errorf("unexpected total: %d", page.Total)
		}
	})

	t.Run("filter by active flag", func(t *testing.T) {
		active := true
		page, err := s.ListUsers(UserListFilter{IsActive: &active})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.Total != 1 {
			t.Errorf("unexpected total: %d", page.Total)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := s.ListUsers(UserListFilter{Page: 2, Limit: 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.Total != 2 || page.Pages != 2 || len(page.Users) != 1 {
			t.Errorf("unexpected page: total=%d pages=%d len=%d", page.Total, page.Pages, len(page.Users))
		}
	})

	t.Run("pagination with oversized page", func(t *testing.T) {
		page, err := s.ListUsers(UserListFilter{Page: math.MaxInt64, Limit: 100})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(page.Users) != 0 || page.Total != 2 {
			t.Errorf("expected an empty page beyond the last one, got: total=%d len=%d", page.Total, len(page.Users))
		}
	})

	t.Run("stats", func(t *testing.T) {
		stats, err := s.GetUserStats()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats.TotalUsers != 2 || stats.ActiveUsers != 1 || stats.InactiveUsers != 1 {
			t.Errorf("unexpected stats: %+v", stats)
		}
		if stats.RoleCounts["user"] != 1 || stats.RoleCounts["manager"] != 1 {
			t.Errorf("unexpected role counts: %+v", stats.RoleCounts)
		}
		if stats.NewUsersThisMonth != 2 {
			t.Errorf("unexpected new users this month: %d", stats.NewUsersThisMonth)
		}
	})
}
