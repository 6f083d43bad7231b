// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered account.
// Usernames are case-sensitive and stored as given.
type User struct {
	// ID is an opaque unique identifier assigned at creation.
	ID string `gorm:"primaryKey;size:36" json:"id"`

	// Username is the login name and the owner key of every entry.
	Username string `gorm:"uniqueIndex;size:255;not null" json:"username"`

	// PasswordHash is the bcrypt hash of the password; plaintext is never stored.
	PasswordHash string `gorm:"column:password_hash;size:255;not null" json:"password_hash"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "app_users"
}
