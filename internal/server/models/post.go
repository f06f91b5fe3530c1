// Package models defines records persisted by the content store.
package models

import "time"

// Post is a blog entry. Subject and content never change after creation.
type Post struct {
	ID        int64     `msgpack:"id"`
	Subject   string    `msgpack:"subject"`
	Content   string    `msgpack:"content"`
	CreatedAt time.Time `msgpack:"created_at"`
}
