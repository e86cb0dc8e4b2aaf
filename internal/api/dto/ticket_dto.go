package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	GroupID      string                `json:"group_id"`
	CustomerName string                `json:"customer_name"`
	Subject      string                `json:"subject"`
	Description  string                `json:"description"`
	Priority     domain.TicketPriority `json:"priority"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	Assignee string `json:"assignee"`
}

// CloseTicketRequest payload; the comment is mandatory.
type CloseTicketRequest struct {
	Comment string `json:"comment"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// CreateAttachmentRequest registers attachment metadata.
type CreateAttachmentRequest struct {
	FileKey  string `json:"file_key"`
	FileName string `json:"file_name"`
}

// TicketResponse represents a ticket.
type TicketResponse struct {
	ID             string                `json:"id"`
	OrganizationID string                `json:"organization_id"`
	GroupID        string                `json:"group_id"`
	CustomerName   string                `json:"customer_name"`
	Subject        string                `json:"subject"`
	Description    string                `json:"description"`
	Status         domain.TicketStatus   `json:"status"`
	Priority       domain.TicketPriority `json:"priority"`
	AssigneeID     *string               `json:"assignee_id"`
	CreatedByID    string                `json:"created_by_id"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides the full ticket thread.
type TicketDetailResponse struct {
	TicketResponse
	Comments    []CommentResponse    `json:"comments"`
	Attachments []AttachmentResponse `json:"attachments"`
}

// CommentResponse represents a ticket comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// AttachmentResponse represents attachment metadata.
type AttachmentResponse struct {
	ID           string    `json:"id"`
	TicketID     string    `json:"ticket_id"`
	FileKey      string    `json:"file_key"`
	FileName     string    `json:"file_name"`
	UploadedByID string    `json:"uploaded_by_id"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// TicketFromDomain maps a domain ticket to its response form.
func TicketFromDomain(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:             ticket.ID,
		OrganizationID: ticket.OrganizationID,
		GroupID:        ticket.GroupID,
		CustomerName:   ticket.CustomerName,
		Subject:        ticket.Subject,
		Description:    ticket.Description,
		Status:         ticket.Status,
		Priority:       ticket.Priority,
		AssigneeID:     ticket.AssigneeID,
		CreatedByID:    ticket.CreatedByID,
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
	}
}

// CommentFromDomain maps a domain comment to its response form.
func CommentFromDomain(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		TicketID:  comment.TicketID,
		AuthorID:  comment.AuthorID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	}
}

// AttachmentFromDomain maps domain attachment metadata.
func AttachmentFromDomain(attachment *domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:           attachment.ID,
		TicketID:     attachment.TicketID,
		FileKey:      attachment.FileKey,
		FileName:     attachment.FileName,
		UploadedByID: attachment.UploadedByID,
		UploadedAt:   attachment.UploadedAt,
	}
}
