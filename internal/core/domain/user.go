package domain

import "time"

// User is the identity record. PasswordHash and RefreshToken never leave the
// process: both are excluded from JSON.
type User struct {
	ID           string    `json:"_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	Avatar       string    `json:"avatar"`
	CoverImage   string    `json:"coverImage"`
	WatchHistory []string  `json:"watchHistory"`
	PasswordHash string    `json:"-"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Sanitized returns a copy without credential material.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	clone.RefreshToken = ""
	if clone.WatchHistory == nil {
		clone.WatchHistory = []string{}
	}
	return &clone
}

// NewUser carries the fields needed to create a user. Password is plaintext and
// is hashed by the store before it is persisted.
type NewUser struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	Avatar     string
	CoverImage string
}

// MediaField names a user field that holds a media host URL.
type MediaField string

const (
	MediaAvatar     MediaField = "avatar"
	MediaCoverImage MediaField = "coverImage"
)

// Media is an object stored on the media host.
type Media struct {
	URL         string
	Key         string
	ContentType string
	Size        int64
}
