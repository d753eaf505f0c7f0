// Package model defines the data structures used throughout the application.
package model

import "time"

// User is a registered board member.
//
// Nickname is unique and never changes after registration. PasswordHash
// holds a bcrypt hash and is never serialized.
type User struct {
	ID           string    `json:"userId"    db:"id"`
	Nickname     string    `json:"nickname"  db:"nickname"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
