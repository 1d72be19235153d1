package models

import "time"

// User is a registered account. Email is stored normalized (trimmed and
// lowercased). PasswordHash never leaves the server.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	CreatedAt    time.Time
}
