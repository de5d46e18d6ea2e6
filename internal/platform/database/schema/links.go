// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

package schema

// LinksTable represents the 'links' table
type LinksTable struct {
	Table     string
	ID        string
	URL       string
	Title     string
	Published string
	UserID    string
	CreatedAt string
}

// Links is the schema definition for links
var Links = LinksTable{
	Table:     "links",
	ID:        "id",
	URL:       "url",
	Title:     "title",
	Published: "published",
	UserID:    "user_id",
	CreatedAt: "created_at",
}

// Columns returns all standard column names
func (t LinksTable) Columns() []string {
	return []string{t.ID, t.URL, t.Title, t.Published, t.UserID, t.CreatedAt}
}
