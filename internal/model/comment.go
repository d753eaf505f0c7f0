package model

import "time"

// Comment belongs to one post and one user. Nickname is a point-in-time
// copy, like Post.Nickname.
type Comment struct {
	ID        string    `json:"commentId"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Nickname  string    `json:"nickname"`
	Body      string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
