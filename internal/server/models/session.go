package models

import "time"

// Session backs an issued session token; deleting it revokes the token.
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
