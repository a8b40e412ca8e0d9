package domain

import "time"

// TokenPair is the result of issuing or rotating credentials.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AccessClaims is the verified content of an access credential.
type AccessClaims struct {
	UserID    string
	Username  string
	Email     string
	FullName  string
	TokenID   string
	ExpiresAt time.Time
}

// RefreshClaims is the verified content of a refresh credential.
type RefreshClaims struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}
