package models

import "time"

// Revision is one immutable version of the wiki document at Path.
// Versions start at 1 and grow by one per edit.
type Revision struct {
	Path      string    `msgpack:"path"`
	Version   int       `msgpack:"version"`
	Content   string    `msgpack:"content"`
	Author    string    `msgpack:"author"`
	CreatedAt time.Time `msgpack:"created_at"`
}
