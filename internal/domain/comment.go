package domain

import "time"

// CommentAuthorType identifies who wrote a comment.
type CommentAuthorType string

const (
	AuthorTypeAgent  CommentAuthorType = "agent"
	AuthorTypeClient CommentAuthorType = "client"
	AuthorTypeSystem CommentAuthorType = "system"
	AuthorTypeBot    CommentAuthorType = "bot"
)

// Valid reports vocabulary membership.
func (a CommentAuthorType) Valid() bool {
	switch a {
	case AuthorTypeAgent, AuthorTypeClient, AuthorTypeSystem, AuthorTypeBot:
		return true
	}
	return false
}

// TicketComment is a thread entry owned by a ticket. Internal comments
// are visible to agents only.
type TicketComment struct {
	ID         string
	TicketID   string
	AuthorID   string
	AuthorType CommentAuthorType
	Content    string
	IsInternal bool
	CreatedAt  time.Time
}
