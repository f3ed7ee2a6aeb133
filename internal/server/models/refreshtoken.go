package models

import "time"

// RefreshToken is one row of the rotating refresh-token table. Tokens are
// random hex strings; a successful refresh deletes the row and issues a new
// one.
type RefreshToken struct {
	UserID  string
	Token   string
	Expires time.Time
}
