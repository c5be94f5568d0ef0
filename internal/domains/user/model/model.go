package model

import (
	"time"

	"smartmeet/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID               = "id"
	FieldEmail            = "email"
	FieldPassword         = "password"
	FieldFullName         = "full_name"
	FieldRole             = "role"
	FieldActive           = "active"
	FieldFirstLogin       = "first_login"
	FieldLoginAttempts    = "login_attempts"
	FieldLastLoginAttempt = "last_login_attempt"
	FieldLastLogin        = "last_login"
)

type User struct {
	ID               string     `db:"id"`
	Email            string     `db:"email"`
	Password         string     `db:"password"`
	FullName         string     `db:"full_name"`
	Role             string     `db:"role"`
	Active           bool       `db:"active"`
	FirstLogin       bool       `db:"first_login"`
	LoginAttempts    int        `db:"login_attempts"`
	LastLoginAttempt *time.Time `db:"last_login_attempt"`
	LastLogin        *time.Time `db:"last_login"`
	model.Metadata
}
