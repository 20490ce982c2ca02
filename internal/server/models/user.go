package models

import "time"

// User is a stored credential: username plus password hash/salt and the
// admin flag.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	PasswordSalt []byte
	IsAdmin      bool
	FullName     string
	CreatedAt    time.Time
}
