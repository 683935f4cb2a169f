package domain

import "time"

// TokenPair is issued on login and on refresh.
type TokenPair struct {
	Access           string
	AccessExpiresAt  time.Time
	Refresh          string
	RefreshExpiresAt time.Time
}

// RefreshSession records an outstanding refresh token by its hash.
type RefreshSession struct {
	UserID    string
	TokenHash string
	ExpiresAt time.Time
}
