package domain

import "time"

type UserRole string

const (
	UserRoleOwner  UserRole = "owner"
	UserRoleTenant UserRole = "tenant"
	UserRoleAdmin  UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleOwner, UserRoleTenant, UserRoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int32     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	PhoneNumber  string    `json:"phone_number"`
	Role         UserRole  `json:"role"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}
