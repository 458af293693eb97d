package users

import (
	"errors"
	"time"
)

// Role define el tipo de cuenta.
// @Enum pet_owner, vet
type Role string

const (
	RolePetOwner Role = "pet_owner"
	RoleVet      Role = "vet"
)

var ErrIllegalRoleTransition = errors.New("illegal role transition")

func (r Role) Valid() bool {
	return r == RolePetOwner || r == RoleVet
}

// NextRole aplica la única transición legal: pet_owner -> vet (irreversible).
// Pedir el rol actual es un no-op.
func NextRole(from, to Role) (Role, error) {
	if !from.Valid() || !to.Valid() {
		return from, ErrIllegalRoleTransition
	}
	if from == to {
		return from, nil
	}
	if from == RolePetOwner && to == RoleVet {
		return RoleVet, nil
	}
	return from, ErrIllegalRoleTransition
}

// User es la identidad de una cuenta. PasswordHash vacío => cuenta solo federada.
type User struct {
	ID           string
	Email        string
	PasswordHash string

	Name    string
	Picture *string
	Role    Role

	CreatedAt time.Time
}

func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}
