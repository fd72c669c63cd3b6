package domain

import "time"

// Subscription links a delivery chat to a story author it follows.
type Subscription struct {
	ID             int
	ChatID         int64
	AuthorUsername string
	CreatedAt      time.Time
}
