package models

import "time"

// User is a registered author. ID is assigned by the store. Credentials
// never leave the store: they are dropped when a user is cached.
type User struct {
	ID           int64     `msgpack:"id"`
	UserName     string    `msgpack:"username"`
	Salt         []byte    `msgpack:"-"`
	PasswordHash []byte    `msgpack:"-"`
	Email        string    `msgpack:"email,omitempty"`
	CreatedAt    time.Time `msgpack:"created_at"`
}
