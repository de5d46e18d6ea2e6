// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

// Package schema declares the table and column names of the Onelink
// database so queries reference them as typed constants instead of
// scattered string literals.
package schema

// UsersTable represents the 'users' table
type UsersTable struct {
	Table     string
	ID        string
	Username  string
	Email     string
	CreatedAt string
	UpdatedAt string
}

// Users is the schema definition for users
var Users = UsersTable{
	Table:     "users",
	ID:        "id",
	Username:  "username",
	Email:     "email",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

// Columns returns all standard column names
func (t UsersTable) Columns() []string {
	return []string{t.ID, t.Username, t.Email, t.CreatedAt, t.UpdatedAt}
}
