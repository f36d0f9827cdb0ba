// Package users is the credential store of the application: user records with their
// bcrypt password hashes and roles, the Postgres and in-memory backends that persist
// them, and the service that creates and authenticates users.
package users

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of roles a user can hold. Authorization compares Role values,
// never raw strings, so a typo in a route declaration fails at compile time.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// AllRoles lists every role, in a stable order.
var AllRoles = []Role{RoleAdmin, RoleEmployee}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// ParseRole converts user input (CLI flags, stored values) into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// User represents a user in the system.
// The `json:"-"` tag on PasswordHash keeps the hash out of every API response;
// lookups by id don't even load it.
type User struct {
	ID           string    `json:"_id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	EmployeeID   *string   `json:"employee_id,omitempty" db:"employee_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Public returns a copy of u without the password hash.
func (u *User) Public() *User {
	cp := *u
	cp.PasswordHash = ""
	return &cp
}
