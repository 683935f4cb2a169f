package dto

import (
	"time"

	"github.com/spec-kit/consulting-service/internal/domain"
)

// RegisterRequest is the self sign-up payload. Any role sent is ignored.
type RegisterRequest struct {
	Email       string  `json:"email" validate:"required,email,max=255"`
	Password    string  `json:"password" validate:"required,notblank,max=128"`
	FullName    *string `json:"full_name" validate:"omitempty,max=255"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=32"`
}

// LoginRequest obtains a token pair.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest exchanges a refresh token.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// ChangePasswordRequest replaces the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,notblank,max=128"`
}

// UserUpdateRequest is the PUT payload for an account.
type UserUpdateRequest struct {
	Email       string  `json:"email" validate:"required,email,max=255"`
	FullName    *string `json:"full_name" validate:"omitempty,max=255"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=32"`
	Role        *string `json:"role" validate:"omitnil,role"`
	IsStaff     *bool   `json:"is_staff"`
	IsSuperuser *bool   `json:"is_superuser"`
	IsActive    *bool   `json:"is_active"`
}

// UserPatchRequest is the PATCH payload for an account.
type UserPatchRequest struct {
	Email       *string `json:"email" validate:"omitnil,email,max=255"`
	FullName    *string `json:"full_name" validate:"omitempty,max=255"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=32"`
	Role        *string `json:"role" validate:"omitnil,role"`
	IsStaff     *bool   `json:"is_staff"`
	IsSuperuser *bool   `json:"is_superuser"`
	IsActive    *bool   `json:"is_active"`
}

// AsPatch turns a full update into a patch; every field it carries is set.
func (r UserUpdateRequest) AsPatch() UserPatchRequest {
	email := r.Email
	return UserPatchRequest{
		Email:       &email,
		FullName:    r.FullName,
		PhoneNumber: r.PhoneNumber,
		Role:        r.Role,
		IsStaff:     r.IsStaff,
		IsSuperuser: r.IsSuperuser,
		IsActive:    r.IsActive,
	}
}

// RoleValue returns the requested role, already checked by the validator.
func (r UserPatchRequest) RoleValue() *domain.Role {
	if r.Role == nil {
		return nil
	}
	role := domain.Role(*r.Role)
	return &role
}

// UserResponse renders an account without its password hash.
type UserResponse struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	FullName    *string     `json:"full_name"`
	PhoneNumber *string     `json:"phone_number"`
	Role        domain.Role `json:"role"`
	IsActive    bool        `json:"is_active"`
	IsStaff     bool        `json:"is_staff"`
	IsSuperuser bool        `json:"is_superuser"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		IsActive:    u.IsActive,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
	}
}

// TokenPairResponse is returned by the token endpoints.
type TokenPairResponse struct {
	Access           string    `json:"access"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	Refresh          string    `json:"refresh"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// NewTokenPairResponse maps a token pair.
func NewTokenPairResponse(p *domain.TokenPair) TokenPairResponse {
	return TokenPairResponse{
		Access:           p.Access,
		AccessExpiresAt:  p.AccessExpiresAt,
		Refresh:          p.Refresh,
		RefreshExpiresAt: p.RefreshExpiresAt,
	}
}
