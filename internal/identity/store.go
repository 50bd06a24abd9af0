// Package identity is the global (non-tenant-scoped) account registry.
// Two uniqueness regimes apply at once and never cross-check each
// other: tenant users are unique on (username, site, company), while
// manager and admin usernames are unique over the global subset of
// accounts holding those roles. A manager named like some tenant's user
// is permitted by design.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Psychotichub/panel/internal/apperr"
	"github.com/Psychotichub/panel/internal/model"
	"github.com/Psychotichub/panel/internal/tenant"
	"github.com/Psychotichub/panel/pkg/hash"
	"github.com/Psychotichub/panel/prometheus"
)

// Store enforces the dual uniqueness regime and authenticates
// credentials. Hashing is delegated to the hash collaborator; plaintext
// is never persisted or compared directly.
type Store struct {
	db     *gorm.DB
	hasher hash.Hasher
	log    *zap.Logger
}

// NewStore creates an identity store.
func NewStore(db *gorm.DB, hasher hash.Hasher, log *zap.Logger) *Store {
	return &Store{db: db, hasher: hasher, log: log}
}

// Create registers an account under the regime matching its role. The
// tenant key is required exactly when role is "user" and must be absent
// for manager/admin accounts.
func (s *Store) Create(ctx context.Context, username, plaintext, role string, key *tenant.Key, createdBy string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperr.Validation("username", "must not be empty")
	}
	if plaintext == "" {
		return nil, apperr.Validation("password", "must not be empty")
	}

	switch role {
	case model.RoleUser:
		if key == nil || key.Site == "" || key.Company == "" {
			return nil, apperr.Validation("tenant", "site and company are required for user accounts")
		}
	case model.RoleManager, model.RoleAdmin:
		if key != nil {
			return nil, apperr.Validation("tenant", "manager and admin accounts are not tenant-scoped")
		}
	default:
		return nil, apperr.Validation("role", "must be admin, manager or user")
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	// Explicit per-regime pre-check; the partial unique indexes remain
	// the backstop under concurrent creates.
	dup, dupKey, err := s.usernameTaken(ctx, username, role, key)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, apperr.Duplicate("account", dupKey)
	}

	hashed, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		Username:  username,
		Password:  hashed,
		Role:      role,
		IsActive:  true,
		CreatedBy: createdBy,
	}
	if key != nil {
		user.Site = key.Site
		user.Company = key.Company
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Duplicate("account", username)
		}
		return nil, fmt.Errorf("create account %s: %w", username, err)
	}

	s.log.Info("account created",
		zap.String("username", username),
		zap.String("role", role))
	return &user, nil
}

// usernameTaken evaluates the uniqueness regime implied by role. The
// two regimes are checked independently and never against each other.
func (s *Store) usernameTaken(ctx context.Context, username, role string, key *tenant.Key) (bool, string, error) {
	q := s.db.WithContext(ctx).Model(&model.User{})
	var dupKey string
	if role == model.RoleUser {
		q = q.Where("username = ? AND role = ? AND site = ? AND company = ?",
			username, model.RoleUser, key.Site, key.Company)
		dupKey = username + "@" + key.String()
	} else {
		q = q.Where("username = ? AND role IN ?",
			username, []string{model.RoleManager, model.RoleAdmin})
		dupKey = username
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, "", fmt.Errorf("check account %s: %w", username, err)
	}
	return count > 0, dupKey, nil
}

// Authenticate verifies credentials under the regime implied by the
// supplied context: with a tenant key it looks up a tenant user, without
// one a manager/admin. Lookup miss and wrong password are
// indistinguishable to the caller.
func (s *Store) Authenticate(ctx context.Context, username, plaintext string, key *tenant.Key) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || plaintext == "" {
		return nil, apperr.ErrInvalidCredentials
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	q := s.db.WithContext(ctx)
	if key != nil {
		q = q.Where("username = ? AND role = ? AND site = ? AND company = ?",
			username, model.RoleUser, key.Site, key.Company)
	} else {
		q = q.Where("username = ? AND role IN ?",
			username, []string{model.RoleManager, model.RoleAdmin})
	}

	var user model.User
	if err := q.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("authentication failed: unknown account",
				zap.String("username", username))
			prometheus.RecordAuthError("user_not_found")
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account %s: %w", username, err)
	}

	if !user.IsActive {
		s.log.Warn("authentication failed: account disabled",
			zap.String("username", username))
		prometheus.RecordAuthError("account_disabled")
		return nil, apperr.ErrInvalidCredentials
	}

	if !s.hasher.Verify(plaintext, user.Password) {
		s.log.Warn("authentication failed: wrong password",
			zap.String("username", username))
		prometheus.RecordAuthError("invalid_password")
		return nil, apperr.ErrInvalidCredentials
	}

	return &user, nil
}

// ChangePassword recomputes the stored hash for a new plaintext
// credential. The role is never touched; accounts do not migrate
// between regimes.
func (s *Store) ChangePassword(ctx context.Context, userID uint, plaintext string) error {
	if plaintext == "" {
		return apperr.Validation("password", "must not be empty")
	}

	hashed, err := s.hasher.Hash(plaintext)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	res := s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("password", hashed)
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("account", fmt.Sprintf("id=%d", userID))
	}
	return nil
}
