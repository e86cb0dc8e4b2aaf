package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketStatuses is the ordered status enumeration. Terminal status
// selection for the close operation scans this list.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// ValidStatus reports whether the value is a known ticket status.
func ValidStatus(status TicketStatus) bool {
	for _, s := range TicketStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ValidPriority reports whether the value is a known ticket priority.
func ValidPriority(priority TicketPriority) bool {
	switch priority {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// Ticket is the aggregate for helpdesk requests. Invariants: the group
// belongs to the same organization as the ticket; the assignee, when
// set, is a member of the ticket's group.
type Ticket struct {
	ID             string
	OrganizationID string
	GroupID        string
	CustomerName   string
	Subject        string
	Description    string
	Status         TicketStatus
	Priority       TicketPriority
	AssigneeID     *string
	CreatedByID    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
