// Package models holds the server-side persistence structs. Rows coming off
// the datastore are mapped into these explicitly typed records at the
// repository boundary; untyped data never travels further in.
package models

import "time"

type Profile struct {
	ID           string
	FullName     string
	Email        string
	Role         string // common.RoleAdmin / common.RoleInstaller
	PasswordHash []byte
	CreatedAt    time.Time
}
