package model

import "time"

// Captain represents a player account stored in the database.
type Captain struct {
	Login        string
	PasswordHash string
	AccessLevel  int
	LastIP       string
	LastActive   time.Time
}
