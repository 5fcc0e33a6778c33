package models

import (
	"time"
)

// Roles assignable to a user. New accounts always start as CLIENTE.
const (
	RoleCliente     = "CLIENTE"
	RoleFuncionario = "FUNCIONARIO"
	RoleAdmin       = "ADMIN"
)

type User struct {
	ID           string
	Nome         string
	Email        string     // unique, stored lowercase
	BI           string     // national identity number, unique
	Role         string     // CLIENTE, FUNCIONARIO or ADMIN
	GoogleID     *string    // Google subject, unique when present
	PasswordHash *string    // NULL until a password reset sets one
	ResetCode    *string    // pending 6-digit reset code, unique while pending
	ResetCodeExp *time.Time // non-NULL whenever ResetCode is non-NULL
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPendingResetCode reports whether the user holds a reset code that has
// not yet been consumed. Expiry is checked at consumption time, not here.
func (u *User) HasPendingResetCode() bool {
	return u.ResetCode != nil && u.ResetCodeExp != nil
}

// ValidRole reports whether role is one of the enumerated user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleCliente, RoleFuncionario, RoleAdmin:
		return true
	}
	return false
}
