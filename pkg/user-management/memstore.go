package usermanagement

import (
	"sort"
	"strings"
	"sync"
	"time"

	userTypes "github.com/zacki-div/resto-backend/pkg/user-management/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InMemoryUserStore keeps accounts in process memory. It mirrors the
// duplicate-key and not-found semantics of the MongoDB store and is used as
// the test double and for running the API without a database.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]userTypes.User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		users: map[string]userTypes.User{},
	}
}

func (s *InMemoryUserStore) CreateUser(user userTypes.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return "", ErrEmailTaken
		}
	}

	user.ID = primitive.NewObjectID()
	s.users[user.ID.Hex()] = user
	return user.ID.Hex(), nil
}

func (s *InMemoryUserStore) GetUserByEmail(email string) (userTypes.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return userTypes.User{}, ErrUserNotFound
}

func (s *InMemoryUserStore) GetUserByID(id string) (userTypes.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return userTypes.User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *InMemoryUserStore) UpdateUserFields(id string, fields map[string]interface{}) (userTypes.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return userTypes.User{}, ErrUserNotFound
	}

	if email, ok := fields["email"].(string); ok {
		for otherID, other := range s.users {
			if otherID != id && strings.EqualFold(other.Email, email) {
				return userTypes.User{}, ErrEmailTaken
			}
		}
	}

	for key, value := range fields {
		applyUserField(&user, key, value)
	}
	s.users[id] = user
	return user, nil
}

func (s *InMemoryUserStore) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *InMemoryUserStore) ListUsers(filter UserListFilter) (UserListPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := []userTypes.User{}
	for _, user := range s.users {
		if !matchesFilter(user, filter) {
			continue
		}
		matches = append(matches, user)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt > matches[j].CreatedAt
	})

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	total := int64(len(matches))
	// computed without (page-1)*limit so an oversized page value cannot
	// overflow into a negative slice offset
	start := total
	if page-1 <= total/limit {
		start = (page - 1) * limit
	}
	end := start + limit
	if end > total {
		end = total
	}

	return UserListPage{
		Users: matches[start:end],
		Total: total,
		Page:  page,
		Pages: (total + limit - 1) / limit,
		Limit: limit,
	}, nil
}

func (s *InMemoryUserStore) GetUserStats() (UserStatsSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Unix()

	summary := UserStatsSummary{
		RoleCounts: map[string]int64{},
	}
	for _, user := range s.users {
		summary.TotalUsers += 1
		if user.IsActive {
			summary.ActiveUsers += 1
		} else {
			summary.InactiveUsers += 1
		}
		if user.EmailVerified {
			summary.VerifiedUsers += 1
		}
		if user.CreatedAt >= startOfMonth {
			summary.NewUsersThisMonth += 1
		}
		summary.RoleCounts[string(user.Role)] += 1
	}
	return summary, nil
}

func matchesFilter(user userTypes.User, filter UserListFilter) bool {
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(user.FirstName), needle) &&
			!strings.Contains(strings.ToLower(user.LastName), needle) &&
			!strings.Contains(strings.ToLower(user.Email), needle) {
			return false
		}
	}
	if filter.Role != "" && user.Role != filter.Role {
		return false
	}
	if filter.IsActive != nil && user.IsActive != *filter.IsActive {
		return false
	}
	return true
}

func applyUserField(user *userTypes.User, key string, value interface{}) {
	switch key {
	case "firstName":
		user.FirstName = asString(value)
	case "lastName":
		user.LastName = asString(value)
	case "email":
		user.Email = asString(value)
	case "password":
		user.Password = asString(value)
	case "phone":
		user.Phone = asString(value)
	case "address":
		user.Address = asString(value)
	case "birthDate":
		user.BirthDate = asString(value)
	case "bio":
		user.Bio = asString(value)
	case "avatar":
		user.Avatar = asString(value)
	case "role":
		user.Role = userTypes.Role(asString(value))
	case "isActive":
		if v, ok := value.(bool); ok {
			user.IsActive = v
		}
	case "emailVerified":
		if v, ok := value.(bool); ok {
			user.EmailVerified = v
		}
	case "failedLoginAttempts":
		user.FailedLoginAttempts = asInt64(value)
	case "lockedUntil":
		user.LockedUntil = asInt64(value)
	case "lastLoginAt":
		user.LastLoginAt = asInt64(value)
	case "updatedAt":
		user.UpdatedAt = asInt64(value)
	}
}

func asString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case userTypes.Role:
		return string(v)
	}
	return ""
}

func asInt64(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
