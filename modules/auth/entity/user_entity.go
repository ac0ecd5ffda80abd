package entity

import (
	coreentity "studio-api/core/entity"
)

// User is a studio staff account. Clients never log in; client records live
// in the client module.
type User struct {
	coreentity.BaseEntity
	Email        string `db:"email" json:"email"`
	Name         string `db:"name" json:"name"`
	PasswordHash string `db:"password_hash" json:"-"`
	IsActive     bool   `db:"is_active" json:"is_active"`
}

func (User) TableName() string { return "users" }
