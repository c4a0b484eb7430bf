package model

import "time"

// Session is the client-held login state. User is a snapshot taken when the
// session was issued; later profile edits show up only after a new login.
type Session struct {
	User    User      `json:"user"`
	Created time.Time `json:"created"`
	Expires time.Time `json:"expires"`
}

// ValidAt reports whether the session has not yet expired at now.
func (s Session) ValidAt(now time.Time) bool {
	return now.Before(s.Expires)
}
