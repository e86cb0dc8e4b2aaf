package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/policy"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows: creation, visibility-
// scoped reads, and the assignment/closing transitions.
type TicketService struct {
	tickets     repository.TicketRepository
	groups      repository.GroupRepository
	memberships repository.MembershipRepository
	comments    repository.CommentRepository
	attachments repository.AttachmentRepository
	dispatcher  events.Dispatcher
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	GroupRepo      repository.GroupRepository
	MembershipRepo repository.MembershipRepository
	CommentRepo    repository.CommentRepository
	AttachmentRepo repository.AttachmentRepository
	Dispatcher     events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	GroupID      string
	CustomerName string
	Subject      string
	Description  string
	Priority     domain.TicketPriority
}

// TicketListFilter describes listing refinements on top of the
// actor-derived visibility scope.
type TicketListFilter struct {
	GroupID    *string
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	SearchTerm *string
	Limit      int
	Offset     int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		groups:      deps.GroupRepo,
		memberships: deps.MembershipRepo,
		comments:    deps.CommentRepo,
		attachments: deps.AttachmentRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// CreateTicket files a ticket against a group in the actor's organization.
func (s *TicketService) CreateTicket(ctx context.Context, actor policy.Actor, input TicketCreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Subject) == "" || strings.TrimSpace(input.CustomerName) == "" {
		return nil, apperrors.NewValidationError("customer_name and subject required", nil)
	}
	if input.GroupID == "" {
		return nil, apperrors.NewValidationError("group_id required", nil)
	}

	group, err := s.groups.GetByID(ctx, input.GroupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("group does not exist", map[string]any{"group_id": input.GroupID})
		}
		return nil, apperrors.MapError(err)
	}
	if group.OrganizationID != actor.OrganizationID {
		return nil, apperrors.NewValidationError("group does not belong to your organization", map[string]any{"group_id": input.GroupID})
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	ticket := &domain.Ticket{
		OrganizationID: actor.OrganizationID,
		GroupID:        group.ID,
		CustomerName:   strings.TrimSpace(input.CustomerName),
		Subject:        strings.TrimSpace(input.Subject),
		Description:    strings.TrimSpace(input.Description),
		Status:         domain.TicketStatusOpen,
		Priority:       priority,
		CreatedByID:    actor.ID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, actor, events.Event{
		Type: events.EventTicketCreated,
		Payload: events.TicketCreatedPayload{
			TicketID: ticket.ID,
			GroupID:  ticket.GroupID,
			Priority: ticket.Priority,
			Subject:  ticket.Subject,
		},
	})
	return ticket, nil
}

// ListTickets returns tickets visible to the actor, optionally refined.
func (s *TicketService) ListTickets(ctx context.Context, actor policy.Actor, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		Scope:      policy.ScopeFor(actor),
		GroupID:    filter.GroupID,
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
		SearchTerm: filter.SearchTerm,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	tickets, err := s.tickets.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetTicket fetches one ticket with its thread, enforcing visibility.
func (s *TicketService) GetTicket(ctx context.Context, actor policy.Actor, ticketID string) (*domain.Ticket, []domain.Comment, []domain.Attachment, error) {
	ticket, _, err := s.loadVisible(ctx, actor, ticketID)
	if err != nil {
		return nil, nil, nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, nil, apperrors.MapError(err)
	}
	attachments, err := s.attachments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, nil, apperrors.MapError(err)
	}
	return ticket, comments, attachments, nil
}

// Assign sets the ticket's assignee. Only org admins/supervisors or the
// ticket group's manager may assign; the assignee must be a member of
// the ticket's group. Re-assigning the same user is a no-op write.
func (s *TicketService) Assign(ctx context.Context, actor policy.Actor, ticketID, assigneeID string) (*domain.Ticket, error) {
	ticket, group, err := s.loadVisible(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAssign(actor, group) {
		return nil, apperrors.NewForbidden("you are not allowed to assign this ticket")
	}
	if strings.TrimSpace(assigneeID) == "" {
		return nil, apperrors.NewValidationError("provide an assignee user id", nil)
	}
	if ticket.GroupID == "" {
		return nil, apperrors.NewValidationError("ticket has no group; set a group first", nil)
	}

	member, err := s.memberships.Exists(ctx, ticket.GroupID, assigneeID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !member {
		return nil, apperrors.NewValidationError("assignee must be a member of the ticket's group", map[string]any{"assignee_id": assigneeID})
	}

	if err := s.tickets.UpdateAssignee(ctx, ticket.ID, &assigneeID); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.AssigneeID = &assigneeID
	ticket.UpdatedAt = time.Now()

	s.publishEvent(ctx, actor, events.Event{
		Type: events.EventTicketAssigned,
		Payload: events.TicketAssignedPayload{
			TicketID:   ticket.ID,
			GroupID:    ticket.GroupID,
			AssigneeID: ticket.AssigneeID,
		},
	})
	return ticket, nil
}

// Close drives the ticket to the terminal status with a mandatory
// closing comment. The comment insert and status write happen in one
// transaction; calling close again appends another comment.
func (s *TicketService) Close(ctx context.Context, actor policy.Actor, ticketID, commentText string) (*domain.Ticket, error) {
	ticket, _, err := s.loadVisible(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanClose(actor, ticket) {
		return nil, apperrors.NewForbidden("you are not allowed to close this ticket")
	}
	commentText = strings.TrimSpace(commentText)
	if commentText == "" {
		return nil, apperrors.NewValidationError("a comment is required when closing a ticket", nil)
	}

	target, err := policy.TerminalStatus()
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	updated, comment, err := s.tickets.Close(ctx, ticket.ID, actor.ID, commentText, target)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, actor, events.Event{
		Type: events.EventTicketClosed,
		Payload: events.TicketClosedPayload{
			TicketID:  updated.ID,
			OldStatus: oldStatus,
			NewStatus: updated.Status,
			CommentID: comment.ID,
		},
	})
	return updated, nil
}

// AddComment appends a comment to a ticket the actor can view.
func (s *TicketService) AddComment(ctx context.Context, actor policy.Actor, ticketID, body string) (*domain.Comment, error) {
	ticket, _, err := s.loadVisible(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("body required", nil)
	}

	comment := &domain.Comment{
		TicketID: ticket.ID,
		AuthorID: actor.ID,
		Body:     body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, actor, events.Event{
		Type: events.EventCommentAdded,
		Payload: events.CommentAddedPayload{
			TicketID:  ticket.ID,
			CommentID: comment.ID,
			AuthorID:  comment.AuthorID,
		},
	})
	return comment, nil
}

// AddAttachment records attachment metadata on a visible ticket.
func (s *TicketService) AddAttachment(ctx context.Context, actor policy.Actor, ticketID, fileKey, fileName string) (*domain.Attachment, error) {
	ticket, _, err := s.loadVisible(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(fileKey) == "" || strings.TrimSpace(fileName) == "" {
		return nil, apperrors.NewValidationError("file_key and file_name required", nil)
	}

	attachment := &domain.Attachment{
		TicketID:     ticket.ID,
		FileKey:      fileKey,
		FileName:     fileName,
		UploadedByID: actor.ID,
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return attachment, nil
}

// loadVisible fetches the ticket and its group and applies the
// object-level visibility check. Invisible tickets surface as not
// found so their existence is not leaked across scopes.
func (s *TicketService) loadVisible(ctx context.Context, actor policy.Actor, ticketID string) (*domain.Ticket, *domain.Group, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, nil, apperrors.MapError(err)
	}

	group, err := s.groups.GetByID(ctx, ticket.GroupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			group = nil
		} else {
			return nil, nil, apperrors.MapError(err)
		}
	}

	memberGroups := map[string]struct{}{}
	if !policy.CanManageOrg(actor) {
		ids, err := s.memberships.ListGroupIDsByUser(ctx, actor.ID)
		if err != nil {
			return nil, nil, apperrors.MapError(err)
		}
		for _, id := range ids {
			memberGroups[id] = struct{}{}
		}
	}

	if !policy.CanView(actor, ticket, group, memberGroups) {
		return nil, nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return ticket, group, nil
}

func (s *TicketService) publishEvent(ctx context.Context, actor policy.Actor, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.OrganizationID = actor.OrganizationID
	event.ActorID = actor.ID
	_ = s.dispatcher.Publish(ctx, event)
}
