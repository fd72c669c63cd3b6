package domain

import "time"

// Comment is one node of a post's reply forest. ParentID is nil for
// top-level comments; otherwise it references another comment of the same
// post. The ancestor chain always terminates at a nil parent.
type Comment struct {
	ID             string
	PostID         string
	AuthorID       string
	AuthorUsername string
	Content        string
	ParentID       *string
	CreatedAt      time.Time
}

// IsRoot reports whether the comment is a top-level comment.
func (c Comment) IsRoot() bool {
	return c.ParentID == nil
}
