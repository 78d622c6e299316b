// Package models defines the session data shared by the session service,
// the storage layer and the CLI.
package models

import "time"

// Role is the kind of account a user holds.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAttorney Role = "attorney"
)

// User is the sanitized view of an account. It never carries a password and
// is what gets returned to callers and persisted under the current_user key.
type User struct {
	ID        string  `json:"id" yaml:"id"`
	Username  string  `json:"username" yaml:"username"`
	Email     string  `json:"email" yaml:"email"`
	FirstName string  `json:"firstName" yaml:"firstName"`
	LastName  string  `json:"lastName" yaml:"lastName"`
	Role      Role    `json:"role" yaml:"role"`
	Avatar    *string `json:"avatar" yaml:"avatar"`

	// LicenseNumber is only set for attorneys.
	LicenseNumber string `json:"licenseNumber,omitempty" yaml:"licenseNumber,omitempty"`

	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// FullName joins first and last name for display.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Account is a roster record: a user plus the mock plaintext password.
type Account struct {
	User     `yaml:",inline"`
	Password string `json:"-" yaml:"password"`
}

// Sanitized returns a copy of the account's user view, detached from the
// roster so callers cannot mutate it.
func (a Account) Sanitized() *User {
	u := a.User
	if a.Avatar != nil {
		avatar := *a.Avatar
		u.Avatar = &avatar
	}
	return &u
}

// SignupRequest carries the fields a new customer provides. Role, avatar and
// creation time are decided by the service.
type SignupRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuthResult is returned by a successful login or signup.
type AuthResult struct {
	User  *User
	Token string
}

// Clone returns a deep copy of u, or nil for a nil user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Avatar != nil {
		avatar := *u.Avatar
		c.Avatar = &avatar
	}
	return &c
}
