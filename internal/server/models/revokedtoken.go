package models

import "time"

// RevokedToken marks a session token as logged out. The entry is only
// meaningful until ExpiresAt; after that the token is rejected anyway.
type RevokedToken struct {
	TokenID   string
	UserID    string
	ExpiresAt time.Time
	RevokedAt time.Time
}
