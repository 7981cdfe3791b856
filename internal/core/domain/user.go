package domain

import "time"

// User models an account. Roles is the role bit-string (see pkg/roles).
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        string    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserMetadata is the view of a user carried through authenticated requests.
type UserMetadata struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Roles string `json:"roles"`
}

// Metadata strips the credentials from u.
func (u *User) Metadata() UserMetadata {
	return UserMetadata{ID: u.ID, Email: u.Email, Roles: u.Roles}
}

// UserUpdate carries the optional fields of a profile update. Nil fields are
// left untouched.
type UserUpdate struct {
	Email        *string
	PasswordHash *string
	Roles        *string
}
