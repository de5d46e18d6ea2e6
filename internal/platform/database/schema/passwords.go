// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

package schema

// PasswordsTable represents the 'passwords' table
type PasswordsTable struct {
	Table  string
	UserID string
	Hash   string
}

// Passwords is the schema definition for passwords
var Passwords = PasswordsTable{
	Table:  "passwords",
	UserID: "user_id",
	Hash:   "hash",
}

// Columns returns all standard column names
func (t PasswordsTable) Columns() []string {
	return []string{t.UserID, t.Hash}
}
