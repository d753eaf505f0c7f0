package model

import "time"

// Post is a board entry owned by exactly one user.
//
// Nickname is a snapshot of the author's nickname taken when the post was
// written. It is not a live reference and is never re-synced.
//
// Likes is computed at read time from the likes table.
type Post struct {
	ID        string    `json:"postId"`
	UserID    string    `json:"userId"`
	Nickname  string    `json:"nickname"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
