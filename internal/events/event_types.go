package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketAssigned EventType = "ticket_assigned"
	EventTicketClosed   EventType = "ticket_closed"
	EventCommentAdded   EventType = "comment_added"
	EventMemberAdded    EventType = "member_added"
	EventMemberRemoved  EventType = "member_removed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID             string      `json:"id"`
	Type           EventType   `json:"type"`
	OrganizationID string      `json:"organization_id"`
	ActorID        string      `json:"actor_id"`
	Timestamp      time.Time   `json:"timestamp"`
	Payload        interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID string                `json:"ticket_id"`
	GroupID  string                `json:"group_id"`
	Priority domain.TicketPriority `json:"priority"`
	Subject  string                `json:"subject"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TicketID   string  `json:"ticket_id"`
	GroupID    string  `json:"group_id"`
	AssigneeID *string `json:"assignee_id,omitempty"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	TicketID  string              `json:"ticket_id"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	CommentID string              `json:"comment_id"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	TicketID  string `json:"ticket_id"`
	CommentID string `json:"comment_id"`
	AuthorID  string `json:"author_id"`
}

// MembershipPayload payload for member add/remove.
type MembershipPayload struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
}
