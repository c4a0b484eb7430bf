package model

import "time"

// User is a GreenVerse member. Email and Username are always stored lowercase.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Location    string    `json:"location,omitempty"`
	GrowingZone string    `json:"growing_zone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Profile holds the optional, user-editable profile fields.
type Profile struct {
	AvatarURL   string
	Bio         string
	Location    string
	GrowingZone string
}

// Credential maps a lowercase email to its encoded password hash.
type Credential struct {
	Email      string
	SecretHash string
}

// NewUser is the input to the credential store when creating an account.
type NewUser struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
	Profile   Profile
}

// SignupRequest represents a registration form submission.
type SignupRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest represents a login form submission.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
