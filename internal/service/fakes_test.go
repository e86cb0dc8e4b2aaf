package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// In-memory repository fakes honoring the pgx.ErrNoRows contract of the
// real implementations.

type fakeTicketRepo struct {
	tickets    map[string]*domain.Ticket
	seq        int
	lastFilter repository.TicketFilter
	closeCalls int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}}
}

func (f *fakeTicketRepo) nextID() string {
	f.seq++
	return fmt.Sprintf("ticket-%d", f.seq)
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	ticket.ID = f.nextID()
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	cp := *ticket
	f.tickets[ticket.ID] = &cp
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *ticket
	return &cp, nil
}

func (f *fakeTicketRepo) UpdateAssignee(_ context.Context, ticketID string, assigneeID *string) error {
	ticket, ok := f.tickets[ticketID]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.AssigneeID = assigneeID
	ticket.UpdatedAt = time.Now()
	return nil
}

func (f *fakeTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	f.lastFilter = filter
	out := []domain.Ticket{}
	for _, ticket := range f.tickets {
		if ticket.OrganizationID == filter.Scope.OrganizationID {
			out = append(out, *ticket)
		}
	}
	return out, nil
}

func (f *fakeTicketRepo) Close(_ context.Context, ticketID, authorID, commentBody string, target domain.TicketStatus) (*domain.Ticket, *domain.Comment, error) {
	ticket, ok := f.tickets[ticketID]
	if !ok {
		return nil, nil, pgx.ErrNoRows
	}
	f.closeCalls++
	ticket.Status = target
	ticket.UpdatedAt = time.Now()
	comment := &domain.Comment{
		ID:        fmt.Sprintf("comment-close-%d", f.closeCalls),
		TicketID:  ticketID,
		AuthorID:  authorID,
		Body:      commentBody,
		CreatedAt: time.Now(),
	}
	cp := *ticket
	return &cp, comment, nil
}

type fakeGroupRepo struct {
	groups map[string]*domain.Group
	seq    int
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: map[string]*domain.Group{}}
}

func (f *fakeGroupRepo) add(group domain.Group) *domain.Group {
	if group.ID == "" {
		f.seq++
		group.ID = fmt.Sprintf("group-%d", f.seq)
	}
	f.groups[group.ID] = &group
	return &group
}

func (f *fakeGroupRepo) Create(_ context.Context, group *domain.Group) error {
	created := f.add(*group)
	group.ID = created.ID
	return nil
}

func (f *fakeGroupRepo) GetByID(_ context.Context, id string) (*domain.Group, error) {
	group, ok := f.groups[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *group
	return &cp, nil
}

func (f *fakeGroupRepo) GetByName(_ context.Context, organizationID, name string) (*domain.Group, error) {
	for _, group := range f.groups {
		if group.OrganizationID == organizationID && strings.EqualFold(group.Name, name) {
			cp := *group
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeGroupRepo) ListByOrganization(_ context.Context, organizationID string) ([]domain.Group, error) {
	out := []domain.Group{}
	for _, group := range f.groups {
		if group.OrganizationID == organizationID {
			out = append(out, *group)
		}
	}
	return out, nil
}

func (f *fakeGroupRepo) SetManager(_ context.Context, groupID string, managerID *string) error {
	group, ok := f.groups[groupID]
	if !ok {
		return pgx.ErrNoRows
	}
	group.ManagerID = managerID
	return nil
}

func (f *fakeGroupRepo) Delete(_ context.Context, id string) error {
	delete(f.groups, id)
	return nil
}

type fakeMembershipRepo struct {
	members map[string]map[string]struct{}
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{members: map[string]map[string]struct{}{}}
}

func (f *fakeMembershipRepo) Add(_ context.Context, groupID, userID string) error {
	if f.members[groupID] == nil {
		f.members[groupID] = map[string]struct{}{}
	}
	f.members[groupID][userID] = struct{}{}
	return nil
}

func (f *fakeMembershipRepo) Remove(_ context.Context, groupID, userID string) error {
	delete(f.members[groupID], userID)
	return nil
}

func (f *fakeMembershipRepo) Exists(_ context.Context, groupID, userID string) (bool, error) {
	_, ok := f.members[groupID][userID]
	return ok, nil
}

func (f *fakeMembershipRepo) ListGroupIDsByUser(_ context.Context, userID string) ([]string, error) {
	out := []string{}
	for groupID, users := range f.members {
		if _, ok := users[userID]; ok {
			out = append(out, groupID)
		}
	}
	return out, nil
}

func (f *fakeMembershipRepo) ListMembers(_ context.Context, groupID string) ([]domain.GroupMember, error) {
	out := []domain.GroupMember{}
	for userID := range f.members[groupID] {
		out = append(out, domain.GroupMember{ID: userID, Username: userID, Name: userID, Role: domain.RoleAgent, IsActive: true})
	}
	return out, nil
}

type fakeCommentRepo struct {
	comments []domain.Comment
	seq      int
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	f.seq++
	comment.ID = fmt.Sprintf("comment-%d", f.seq)
	comment.CreatedAt = time.Now()
	f.comments = append(f.comments, *comment)
	return nil
}

func (f *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	out := []domain.Comment{}
	for _, comment := range f.comments {
		if comment.TicketID == ticketID {
			out = append(out, comment)
		}
	}
	return out, nil
}

type fakeAttachmentRepo struct {
	attachments []domain.Attachment
	seq         int
}

func (f *fakeAttachmentRepo) Create(_ context.Context, attachment *domain.Attachment) error {
	f.seq++
	attachment.ID = fmt.Sprintf("attachment-%d", f.seq)
	attachment.UploadedAt = time.Now()
	f.attachments = append(f.attachments, *attachment)
	return nil
}

func (f *fakeAttachmentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Attachment, error) {
	out := []domain.Attachment{}
	for _, attachment := range f.attachments {
		if attachment.TicketID == ticketID {
			out = append(out, attachment)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) add(user domain.User) *domain.User {
	if user.ID == "" {
		f.seq++
		user.ID = fmt.Sprintf("user-%d", f.seq)
	}
	f.users[user.ID] = &user
	return &user
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	created := f.add(*user)
	user.ID = created.ID
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByIDInOrganization(_ context.Context, id, organizationID string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok || user.OrganizationID == nil || *user.OrganizationID != organizationID {
		return nil, pgx.ErrNoRows
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserRepo) ListByOrganization(_ context.Context, organizationID string, _, _ int) ([]domain.User, error) {
	out := []domain.User{}
	for _, user := range f.users {
		if user.OrganizationID != nil && *user.OrganizationID == organizationID {
			out = append(out, *user)
		}
	}
	return out, nil
}

type fakeOrgRepo struct {
	orgs map[string]*domain.Organization
	seq  int
}

func newFakeOrgRepo() *fakeOrgRepo {
	return &fakeOrgRepo{orgs: map[string]*domain.Organization{}}
}

func (f *fakeOrgRepo) Create(_ context.Context, org *domain.Organization) error {
	f.seq++
	org.ID = fmt.Sprintf("org-%d", f.seq)
	cp := *org
	f.orgs[org.ID] = &cp
	return nil
}

func (f *fakeOrgRepo) GetByID(_ context.Context, id string) (*domain.Organization, error) {
	org, ok := f.orgs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *org
	return &cp, nil
}

func (f *fakeOrgRepo) GetByName(_ context.Context, name string) (*domain.Organization, error) {
	for _, org := range f.orgs {
		if strings.EqualFold(org.Name, name) {
			cp := *org
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeOrgRepo) GetByInviteCode(_ context.Context, code string) (*domain.Organization, error) {
	for _, org := range f.orgs {
		if org.InviteCode == code {
			cp := *org
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeOrgRepo) UpdateInviteCode(_ context.Context, id, code string) error {
	org, ok := f.orgs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	org.InviteCode = code
	return nil
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) typesSeen() []events.EventType {
	out := make([]events.EventType, 0, len(d.published))
	for _, event := range d.published {
		out = append(out, event.Type)
	}
	return out
}
