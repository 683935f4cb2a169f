package domain

import (
	"errors"
	"strings"
	"time"
)

// Role is the closed set of account categories.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
	RolePartner Role = "partner"
)

// ErrUnknownRole is returned when a role string is outside the enumeration.
var ErrUnknownRole = errors.New("unknown role")

// Roles lists every valid role.
var Roles = []Role{RoleStudent, RoleAdmin, RolePartner}

// ParseRole converts raw input into a Role.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", ErrUnknownRole
	}
	return role, nil
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin, RolePartner:
		return true
	}
	return false
}

// User is an account holder. Email is the login key and is stored as given.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     *string
	PhoneNumber  *string
	Role         Role
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	CreatedAt    time.Time
}

// ResourceID implements Owned.
func (u *User) ResourceID() string { return u.ID }

// OwnerRef implements Owned; an account is owned by itself.
func (u *User) OwnerRef() *string {
	if u.ID == "" {
		return nil
	}
	id := u.ID
	return &id
}
