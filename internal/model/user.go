package model

import "time"

// Role represents a user's role in the platform.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// User represents a local account. The password hash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated view of a user produced by a successful
// credential check. RemoteAccessToken is best-effort and may be empty.
type Identity struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	FullName          string `json:"full_name"`
	Role              Role   `json:"role"`
	RemoteAccessToken string `json:"-"`
}

// LoginRequest is the payload for credential authentication. Emptiness is
// checked by the authenticator itself so that missing credentials are
// reported distinctly from invalid ones.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the payload for creating a new local account.
// Role is always student; teacher accounts are provisioned via CLI.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	FullName string `json:"full_name" binding:"required,min=2,max=100"`
}
