package tickets

import (
	"context"
	"fmt"
	"strconv"

	"github.com/atlas-itsm/atlas/internal/platform/httpx"
	"github.com/atlas-itsm/atlas/internal/rbac"
	"github.com/atlas-itsm/atlas/internal/shared"
)

// RepositoryPort defines data access methods for tickets.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (Ticket, error)
	List(ctx context.Context) ([]Ticket, error)
	Create(ctx context.Context, req CreateTicketRequest, submittedByID int64, managerID *int64) (Ticket, error)
	Update(ctx context.Context, id int64, req UpdateTicketRequest) (Ticket, error)
	SetAssignee(ctx context.Context, id, userID int64) (Ticket, error)
	Close(ctx context.Context, id int64) (Ticket, error)
}

// AuditRecorder persists audit trail entries.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Notifier delivers a message to a user account, typically out of band.
type Notifier interface {
	Dispatch(ctx context.Context, userID int64, subject, body string) error
}

// Service handles ticketing business logic.
type Service struct {
	repo     RepositoryPort
	audit    AuditRecorder
	notifier Notifier
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit AuditRecorder, notifier Notifier) *Service {
	return &Service{repo: repo, audit: audit, notifier: notifier}
}

// Get returns one ticket.
func (s *Service) Get(ctx context.Context, id int64) (Ticket, error) {
	return s.repo.Get(ctx, id)
}

// List returns all tickets. Visibility narrowing is the caller's job.
func (s *Service) List(ctx context.Context) ([]Ticket, error) {
	return s.repo.List(ctx)
}

// Create opens a ticket on behalf of the actor. The submitter and their
// manager come from the principal, not the request body.
func (s *Service) Create(ctx context.Context, actor *rbac.Principal, req CreateTicketRequest) (Ticket, error) {
	if actor == nil {
		return Ticket{}, httpx.ErrUnauthorized
	}
	if !ValidPriority(req.Priority) {
		return Ticket{}, fmt.Errorf("priority %q: %w", req.Priority, httpx.ErrValidation)
	}
	t, err := s.repo.Create(ctx, req, actor.ID, actor.ManagerID)
	if err != nil {
		return Ticket{}, err
	}
	s.recordAudit(ctx, actor, "ticket.create", t.ID)
	return t, nil
}

// Update edits a ticket. Status changes must follow the transition table.
func (s *Service) Update(ctx context.Context, actor *rbac.Principal, id int64, req UpdateTicketRequest) (Ticket, error) {
	if !ValidPriority(req.Priority) {
		return Ticket{}, fmt.Errorf("priority %q: %w", req.Priority, httpx.ErrValidation)
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Ticket{}, err
	}
	if req.Status != current.Status && !CanTransition(current.Status, req.Status) {
		return Ticket{}, fmt.Errorf("cannot move ticket from %s to %s: %w", current.Status, req.Status, httpx.ErrValidation)
	}
	t, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return Ticket{}, err
	}
	s.recordAudit(ctx, actor, "ticket.update", t.ID)
	return t, nil
}

// Assign hands the ticket to an agent and notifies them. Assignment moves
// the ticket to in_progress, so closed tickets cannot be assigned.
func (s *Service) Assign(ctx context.Context, actor *rbac.Principal, id, userID int64) (Ticket, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Ticket{}, err
	}
	if current.Status != StatusInProgress && !CanTransition(current.Status, StatusInProgress) {
		return Ticket{}, fmt.Errorf("cannot assign %s ticket: %w", current.Status, httpx.ErrValidation)
	}
	t, err := s.repo.SetAssignee(ctx, id, userID)
	if err != nil {
		return Ticket{}, err
	}
	s.recordAudit(ctx, actor, "ticket.assign", t.ID)
	if s.notifier != nil {
		_ = s.notifier.Dispatch(ctx, userID, "Ticket assigned to you",
			fmt.Sprintf("Ticket #%d (%s) has been assigned to you.", t.ID, t.Subject))
	}
	return t, nil
}

// Close finishes a ticket and notifies the submitter.
func (s *Service) Close(ctx context.Context, actor *rbac.Principal, id int64) (Ticket, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Ticket{}, err
	}
	if !CanTransition(current.Status, StatusClosed) {
		return Ticket{}, fmt.Errorf("cannot close %s ticket: %w", current.Status, httpx.ErrValidation)
	}
	t, err := s.repo.Close(ctx, id)
	if err != nil {
		return Ticket{}, err
	}
	s.recordAudit(ctx, actor, "ticket.close", t.ID)
	if s.notifier != nil {
		_ = s.notifier.Dispatch(ctx, t.SubmittedByID, "Your ticket was closed",
			fmt.Sprintf("Ticket #%d (%s) has been closed.", t.ID, t.Subject))
	}
	return t, nil
}

func (s *Service) recordAudit(ctx context.Context, actor *rbac.Principal, action string, entityID int64) {
	if s.audit == nil {
		return
	}
	var actorID int64
	if actor != nil {
		actorID = actor.ID
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "ticket",
		EntityID: strconv.FormatInt(entityID, 10),
	})
}
