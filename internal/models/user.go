package models

import "fmt"

// User is one row of the "user" table. Identity is the ID alone.
//
// Password is persisted exactly as given; nothing in this package hashes it.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"-" validate:"required,max=255"`
}

// NewUser returns a user that has not been stored yet (ID 0).
func NewUser(username, email, password string) User {
	return User{Username: username, Email: email, Password: password}
}

// Equal reports whether u and other refer to the same stored user.
func (u User) Equal(other User) bool {
	return u.ID == other.ID
}

func (u User) String() string {
	return fmt.Sprintf("User{id=%d, username=%q, email=%q}", u.ID, u.Username, u.Email)
}
