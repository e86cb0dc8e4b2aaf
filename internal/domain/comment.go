package domain

import "time"

// Comment is an immutable note on a ticket; there is no update path.
type Comment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Body      string
	CreatedAt time.Time
}
