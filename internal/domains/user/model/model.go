package model

import (
	"eventdesk/shared/model"
	"time"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID       = "id"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldRole     = "role"
	FieldActive   = "active"
)

// User is an account of the booking panel. Role decides what the session may do.
type User struct {
	ID        string     `db:"id"`
	Email     string     `db:"email"`
	Password  string     `db:"password"`
	Role      string     `db:"role"`
	FullName  string     `db:"full_name"`
	ContactNo string     `db:"contact_no"`
	Active    bool       `db:"active"`
	LastLogin *time.Time `db:"last_login"`
	model.Metadata
}
