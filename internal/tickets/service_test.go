package tickets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-itsm/atlas/internal/platform/httpx"
	"github.com/atlas-itsm/atlas/internal/rbac"
	"github.com/atlas-itsm/atlas/internal/shared"
)

type stubRepo struct {
	tickets map[int64]Ticket
	nextID  int64
}

func newStubRepo(seed ...Ticket) *stubRepo {
	r := &stubRepo{tickets: map[int64]Ticket{}, nextID: 1}
	for _, t := range seed {
		r.tickets[t.ID] = t
		if t.ID >= r.nextID {
			r.nextID = t.ID + 1
		}
	}
	return r
}

func (r *stubRepo) Get(_ context.Context, id int64) (Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return Ticket{}, httpx.ErrNotFound
	}
	return t, nil
}

func (r *stubRepo) List(context.Context) ([]Ticket, error) {
	out := make([]Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		out = append(out, t)
	}
	return out, nil
}

func (r *stubRepo) Create(_ context.Context, req CreateTicketRequest, submittedByID int64, managerID *int64) (Ticket, error) {
	t := Ticket{
		ID:            r.nextID,
		Subject:       req.Subject,
		Description:   req.Description,
		Status:        StatusOpen,
		Priority:      req.Priority,
		SubmittedByID: submittedByID,
		ManagerID:     managerID,
	}
	r.nextID++
	r.tickets[t.ID] = t
	return t, nil
}

func (r *stubRepo) Update(_ context.Context, id int64, req UpdateTicketRequest) (Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return Ticket{}, httpx.ErrNotFound
	}
	t.Subject = req.Subject
	t.Description = req.Description
	t.Priority = req.Priority
	t.Status = req.Status
	r.tickets[id] = t
	return t, nil
}

func (r *stubRepo) SetAssignee(_ context.Context, id, userID int64) (Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return Ticket{}, httpx.ErrNotFound
	}
	t.AssignedToID = &userID
	t.Status = StatusInProgress
	r.tickets[id] = t
	return t, nil
}

func (r *stubRepo) Close(_ context.Context, id int64) (Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return Ticket{}, httpx.ErrNotFound
	}
	t.Status = StatusClosed
	r.tickets[id] = t
	return t, nil
}

type recordingAudit struct {
	logs []shared.AuditLog
}

func (a *recordingAudit) Record(_ context.Context, log shared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

type recordingNotifier struct {
	sent []struct {
		UserID  int64
		Subject string
	}
}

func (n *recordingNotifier) Dispatch(_ context.Context, userID int64, subject, _ string) error {
	n.sent = append(n.sent, struct {
		UserID  int64
		Subject string
	}{userID, subject})
	return nil
}

func employeePrincipal(id int64) *rbac.Principal {
	manager := id + 100
	return &rbac.Principal{ID: id, Username: "worker", Role: rbac.RoleEmployee, ManagerID: &manager}
}

func TestCreateStampsSubmitterAndManager(t *testing.T) {
	repo := newStubRepo()
	audit := &recordingAudit{}
	svc := NewService(repo, audit, nil)

	actor := employeePrincipal(7)
	ticket, err := svc.Create(context.Background(), actor, CreateTicketRequest{
		Subject:     "Laptop will not boot",
		Description: "Black screen since this morning.",
		Priority:    PriorityHigh,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusOpen, ticket.Status)
	assert.Equal(t, int64(7), ticket.SubmittedByID)
	require.NotNil(t, ticket.ManagerID)
	assert.Equal(t, int64(107), *ticket.ManagerID)

	require.Len(t, audit.logs, 1)
	assert.Equal(t, "ticket.create", audit.logs[0].Action)
	assert.Equal(t, int64(7), audit.logs[0].ActorID)
}

func TestCreateRejectsAnonymousAndBadPriority(t *testing.T) {
	svc := NewService(newStubRepo(), nil, nil)

	_, err := svc.Create(context.Background(), nil, CreateTicketRequest{
		Subject: "x", Description: "y", Priority: PriorityLow,
	})
	assert.ErrorIs(t, err, httpx.ErrUnauthorized)

	_, err = svc.Create(context.Background(), employeePrincipal(1), CreateTicketRequest{
		Subject: "x", Description: "y", Priority: "whenever",
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateEnforcesStatusTransitions(t *testing.T) {
	repo := newStubRepo(Ticket{ID: 4, Subject: "a", Description: "b", Status: StatusClosed, Priority: PriorityLow, SubmittedByID: 1})
	svc := NewService(repo, nil, nil)

	_, err := svc.Update(context.Background(), employeePrincipal(1), 4, UpdateTicketRequest{
		Subject: "a", Description: "b", Priority: PriorityLow, Status: StatusOpen,
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	repo.tickets[4] = Ticket{ID: 4, Subject: "a", Description: "b", Status: StatusOpen, Priority: PriorityLow, SubmittedByID: 1}
	got, err := svc.Update(context.Background(), employeePrincipal(1), 4, UpdateTicketRequest{
		Subject: "a", Description: "b", Priority: PriorityLow, Status: StatusResolved,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, got.Status)
}

func TestAssignMovesToInProgressAndNotifies(t *testing.T) {
	repo := newStubRepo(Ticket{ID: 9, Subject: "vpn", Description: "d", Status: StatusOpen, Priority: PriorityMedium, SubmittedByID: 2})
	audit := &recordingAudit{}
	notifier := &recordingNotifier{}
	svc := NewService(repo, audit, notifier)

	got, err := svc.Assign(context.Background(), &rbac.Principal{ID: 3, Role: rbac.RoleAgent}, 9, 42)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got.Status)
	require.NotNil(t, got.AssignedToID)
	assert.Equal(t, int64(42), *got.AssignedToID)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, int64(42), notifier.sent[0].UserID)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, "ticket.assign", audit.logs[0].Action)
}

func TestAssignRejectsClosedTicket(t *testing.T) {
	repo := newStubRepo(Ticket{ID: 9, Status: StatusClosed, Priority: PriorityLow, SubmittedByID: 2})
	svc := NewService(repo, nil, nil)

	_, err := svc.Assign(context.Background(), &rbac.Principal{ID: 3, Role: rbac.RoleAgent}, 9, 42)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCloseNotifiesSubmitterOnce(t *testing.T) {
	repo := newStubRepo(Ticket{ID: 5, Subject: "printer", Status: StatusResolved, Priority: PriorityLow, SubmittedByID: 11})
	notifier := &recordingNotifier{}
	svc := NewService(repo, nil, notifier)

	got, err := svc.Close(context.Background(), &rbac.Principal{ID: 3, Role: rbac.RoleAgent}, 5)
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, got.Status)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, int64(11), notifier.sent[0].UserID)

	_, err = svc.Close(context.Background(), &rbac.Principal{ID: 3, Role: rbac.RoleAgent}, 5)
	assert.ErrorIs(t, err, httpx.ErrValidation)
	assert.Len(t, notifier.sent, 1)
}

func TestCloseNotFound(t *testing.T) {
	svc := NewService(newStubRepo(), nil, nil)
	_, err := svc.Close(context.Background(), &rbac.Principal{ID: 1, Role: rbac.RoleAdmin}, 77)
	assert.True(t, errors.Is(err, httpx.ErrNotFound))
}
