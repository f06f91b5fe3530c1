// Package common contains shared constants and sentinel errors used across
// the scribe sites.
package common

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// DateLayout is the human-readable creation date used in pages and JSON.
const DateLayout = "Jan 02, 2006 - 03:04 PM"
