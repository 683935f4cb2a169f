package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/consulting-service/internal/auth"
	"github.com/spec-kit/consulting-service/internal/config"
	"github.com/spec-kit/consulting-service/internal/domain"
	"github.com/spec-kit/consulting-service/internal/events"
	"github.com/spec-kit/consulting-service/internal/observability"
	"github.com/spec-kit/consulting-service/internal/policy"
	"github.com/spec-kit/consulting-service/internal/repository"
	apperrors "github.com/spec-kit/consulting-service/pkg/util/errorutil"
)

const userNoun = "user"

var errBadCredentials = apperrors.NewUnauthorized("no active account found with the given credentials")

// AccountService coordinates registration, login and account management.
type AccountService struct {
	users      repository.UserRepository
	sessions   repository.SessionStore
	tokens     *auth.TokenManager
	hasher     *auth.PasswordHasher
	policy     *policy.Engine
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	refreshTTL time.Duration
}

// AccountDependencies encapsulates collaborators of the account service.
type AccountDependencies struct {
	UserRepo   repository.UserRepository
	Sessions   repository.SessionStore
	Tokens     *auth.TokenManager
	Policy     *policy.Engine
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(cfg config.AuthConfig, deps AccountDependencies) *AccountService {
	tokens := deps.Tokens
	if tokens == nil {
		tokens = auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL())
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		users:      deps.UserRepo,
		sessions:   deps.Sessions,
		tokens:     tokens,
		hasher:     auth.NewPasswordHasher(cfg.BcryptCost),
		policy:     deps.Policy,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		refreshTTL: cfg.RefreshTokenTTL(),
	}
}

// TokenManager exposes the access token manager for middleware wiring.
func (s *AccountService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// NewUserInput describes an account to create.
type NewUserInput struct {
	Email       string
	Password    string
	FullName    *string
	PhoneNumber *string
	Role        domain.Role
	IsStaff     bool
	IsSuperuser bool
}

// UserPatch lists account changes; nil fields are left untouched.
type UserPatch struct {
	Email       *string
	FullName    *string
	PhoneNumber *string
	Role        *domain.Role
	IsStaff     *bool
	IsSuperuser *bool
	IsActive    *bool
}

// Register creates a student account for an anonymous caller. Any requested
// role is ignored.
func (s *AccountService) Register(ctx context.Context, input NewUserInput) (*domain.User, error) {
	if err := s.policy.CanCreate(nil, domain.ResourceUsers); err != nil {
		return nil, err
	}
	input.Role = domain.RoleStudent
	input.IsStaff, input.IsSuperuser = false, false

	user, err := s.CreateUser(ctx, input)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.EventUserRegistered, domain.ResourceUsers, user.ID, nil,
		events.UserRegisteredPayload{Email: user.Email, Role: user.Role}))
	return user, nil
}

// CreateUser stores a new active account. Email and password are required.
func (s *AccountService) CreateUser(ctx context.Context, input NewUserInput) (*domain.User, error) {
	email := strings.TrimSpace(input.Email)
	details := map[string]any{}
	if email == "" {
		details["email"] = "this field is required"
	}
	if input.Password == "" {
		details["password"] = "this field is required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid account data", details)
	}
	role := input.Role
	if role == "" {
		role = domain.RoleStudent
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid account data", map[string]any{"role": domain.ErrUnknownRole.Error()})
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     input.FullName,
		PhoneNumber:  input.PhoneNumber,
		Role:         role,
		IsActive:     true,
		IsStaff:      input.IsStaff,
		IsSuperuser:  input.IsSuperuser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if verr := duplicateAsValidation(err, "email", "a user with this email already exists"); verr != nil {
			return nil, verr
		}
		return nil, storageError(err, userNoun)
	}
	return user, nil
}

// CreateSuperuser creates an administrator with staff and superuser flags.
func (s *AccountService) CreateSuperuser(ctx context.Context, email, password string) (*domain.User, error) {
	return s.CreateUser(ctx, NewUserInput{
		Email:       email,
		Password:    password,
		Role:        domain.RoleAdmin,
		IsStaff:     true,
		IsSuperuser: true,
	})
}

// Login verifies credentials and issues a token pair.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, errBadCredentials
		}
		return nil, nil, storageError(err, userNoun)
	}
	if !s.hasher.Matches(user.PasswordHash, password) || !user.IsActive {
		return nil, nil, errBadCredentials
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// consumed, so each refresh token works once.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	invalid := apperrors.NewUnauthorized("token is invalid or expired")
	if strings.TrimSpace(refreshToken) == "" {
		return nil, invalid
	}

	session, err := s.sessions.Consume(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalid
		}
		return nil, apperrors.MapError(err)
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalid
		}
		return nil, storageError(err, userNoun)
	}
	if !user.IsActive {
		return nil, invalid
	}
	return s.issue(ctx, user)
}

// ChangePassword replaces the requester's password and revokes their
// outstanding refresh tokens.
func (s *AccountService) ChangePassword(ctx context.Context, requester *domain.User, current, next string) error {
	if requester == nil {
		return apperrors.NewUnauthorized("authentication credentials were not provided")
	}
	if next == "" {
		return apperrors.NewValidationError("invalid password change", map[string]any{"new_password": "this field is required"})
	}

	user, err := s.users.GetByID(ctx, requester.ID)
	if err != nil {
		return storageError(err, userNoun)
	}
	if !s.hasher.Matches(user.PasswordHash, current) {
		return apperrors.NewValidationError("invalid password change", map[string]any{"current_password": "password is incorrect"})
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return apperrors.MapError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return storageError(err, userNoun)
	}

	if err := s.sessions.RevokeUser(ctx, user.ID); err != nil {
		s.logger.Warn("revoke refresh sessions", zap.String("user_id", user.ID), zap.Error(err))
	}
	return nil
}

// ListUsers lists the accounts visible to the requester.
func (s *AccountService) ListUsers(ctx context.Context, requester *domain.User, params ListParams[repository.UserFilter]) (Page[domain.User], error) {
	scope, err := s.policy.CanList(requester, domain.ResourceUsers)
	if err != nil {
		return Page[domain.User]{}, s.denied(policy.ActionList, err)
	}
	if scope.Empty() {
		return Page[domain.User]{Items: []domain.User{}}, nil
	}

	users, total, err := s.users.List(ctx, repository.ListQuery[repository.UserFilter]{
		OwnerID: scope.Owner(),
		Filter:  params.Filter,
		Limit:   params.Limit,
		Offset:  params.Offset,
	})
	if err != nil {
		return Page[domain.User]{}, storageError(err, userNoun)
	}
	return Page[domain.User]{Items: users, Total: total}, nil
}

// GetUser loads an account visible to the requester.
func (s *AccountService) GetUser(ctx context.Context, requester *domain.User, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err, userNoun)
	}
	if err := s.policy.CanRetrieve(requester, domain.ResourceUsers, user); err != nil {
		return nil, s.denied(policy.ActionRetrieve, err)
	}
	return user, nil
}

// UpdateUser applies patch. Privileged fields are checked separately from
// the record rule, so an owner editing themselves still cannot promote.
func (s *AccountService) UpdateUser(ctx context.Context, requester *domain.User, id string, patch UserPatch) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err, userNoun)
	}
	if err := s.policy.CanUpdate(requester, domain.ResourceUsers, user); err != nil {
		return nil, s.denied(policy.ActionUpdate, err)
	}
	if err := s.policy.CheckUserFields(requester, user, policy.UserChanges{
		Role:        patch.Role,
		IsStaff:     patch.IsStaff,
		IsSuperuser: patch.IsSuperuser,
		IsActive:    patch.IsActive,
	}); err != nil {
		return nil, s.denied(policy.ActionUpdate, err)
	}

	if patch.Email != nil {
		user.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.FullName != nil {
		user.FullName = patch.FullName
	}
	if patch.PhoneNumber != nil {
		user.PhoneNumber = patch.PhoneNumber
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if patch.IsStaff != nil {
		user.IsStaff = *patch.IsStaff
	}
	if patch.IsSuperuser != nil {
		user.IsSuperuser = *patch.IsSuperuser
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		if verr := duplicateAsValidation(err, "email", "a user with this email already exists"); verr != nil {
			return nil, verr
		}
		return nil, storageError(err, userNoun)
	}
	s.publish(ctx, events.New(events.EventResourceUpdated, domain.ResourceUsers, user.ID, requester, nil))
	return user, nil
}

// DeleteUser removes an account along with the records it owns.
func (s *AccountService) DeleteUser(ctx context.Context, requester *domain.User, id string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return storageError(err, userNoun)
	}
	if err := s.policy.CanDelete(requester, domain.ResourceUsers, user); err != nil {
		return s.denied(policy.ActionDelete, err)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return storageError(err, userNoun)
	}
	if err := s.sessions.RevokeUser(ctx, id); err != nil {
		s.logger.Warn("revoke refresh sessions", zap.String("user_id", id), zap.Error(err))
	}
	s.publish(ctx, events.New(events.EventResourceDeleted, domain.ResourceUsers, id, requester, nil))
	return nil
}

func (s *AccountService) issue(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	access, accessExp, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	refresh, hash, err := auth.NewRefreshToken()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	refreshExp := time.Now().Add(s.refreshTTL)
	if err := s.sessions.Save(ctx, domain.RefreshSession{UserID: user.ID, TokenHash: hash, ExpiresAt: refreshExp}); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &domain.TokenPair{
		Access:           access,
		AccessExpiresAt:  accessExp,
		Refresh:          refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *AccountService) denied(action policy.Action, err error) error {
	if de := apperrors.ToDomainError(err); de != nil {
		s.metrics.RecordPolicyDenial(string(domain.ResourceUsers), string(action), de.Code)
	}
	return err
}

func (s *AccountService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
