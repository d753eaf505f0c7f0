package model

// Like records that a user likes a post. The pair is the whole payload:
// there is no separate id, and at most one row exists per pair.
type Like struct {
	PostID string `json:"postId"`
	UserID string `json:"userId"`
}
