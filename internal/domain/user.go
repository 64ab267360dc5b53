package domain

import "time"

// DefaultProfilePic is the storage key used when no picture was uploaded.
const DefaultProfilePic = "profile/profile-user.svg"

// Column widths of the users table.
const (
	MaxUsernameLength   = 20
	MaxNameLength       = 200
	MaxEmailLength      = 180
	MaxProfilePicLength = 200
)

// User represents a registered account and its cached balance.
type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Email        string    `db:"email"`
	Phone        string    `db:"phone"`
	ProfilePic   string    `db:"profile_pic"`
	PasswordHash string    `db:"password_hash"`
	Balance      int64     `db:"balance"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// HasCustomPicture reports whether the user uploaded their own picture.
func (u User) HasCustomPicture() bool {
	return u.ProfilePic != "" && u.ProfilePic != DefaultProfilePic
}
