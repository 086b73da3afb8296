package usermanagement

import (
	"log/slog"
	"time"

	userTypes "github.com/zacki-div/resto-backend/pkg/user-management/types"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 2 * time.Hour
)

// IsLocked reports whether the account currently rejects login attempts.
func IsLocked(user userTypes.User) bool {
	return user.LockedUntil > 0 && user.LockedUntil > time.Now().Unix()
}

// registerFailedLoginAttempt persists the lockout bookkeeping for one failed
// credential check. An expired lock is cleared and the counter restarts at 1
// for the current attempt, in the same update. The counter read-modify-write
// is not atomic against concurrent logins for the same account, a lost
// increment is accepted.
func (s *UserManagementService) registerFailedLoginAttempt(user userTypes.User) {
	now := time.Now().Unix()

	fields := map[string]interface{}{}
	if user.LockedUntil > 0 && user.LockedUntil <= now {
		fields["failedLoginAttempts"] = int64(1)
		fields["lockedUntil"] = int64(0)
	} else {
		attempts := user.FailedLoginAttempts + 1
		fields["failedLoginAttempts"] = attempts
		if attempts >= maxFailedLoginAttempts && !IsLocked(user) {
			fields["lockedUntil"] = now + int64(lockoutDuration.Seconds())
			slog.Warn("account locked after too many failed login attempts", slog.String("userID", user.ID.Hex()))
		}
	}

	if _, err := s.store.UpdateUserFields(user.ID.Hex(), fields); err != nil {
		slog.Error("failed to save failed login attempt", slog.String("userID", user.ID.Hex()), slog.String("error", err.Error()))
	}
}
