package employees

import (
	"context"
	"strconv"

	"github.com/atlas-itsm/atlas/internal/rbac"
	"github.com/atlas-itsm/atlas/internal/shared"
)

// RepositoryPort defines data access methods for employees.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (Employee, error)
	List(ctx context.Context) ([]Employee, error)
	Create(ctx context.Context, req CreateEmployeeRequest) (Employee, error)
	Update(ctx context.Context, id int64, req UpdateEmployeeRequest) (Employee, error)
	Delete(ctx context.Context, id int64) error
}

// AuditRecorder persists audit trail entries.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles employee directory business logic.
type Service struct {
	repo  RepositoryPort
	audit AuditRecorder
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit AuditRecorder) *Service {
	return &Service{repo: repo, audit: audit}
}

// Get returns one employee record.
func (s *Service) Get(ctx context.Context, id int64) (Employee, error) {
	return s.repo.Get(ctx, id)
}

// List returns all employee records.
func (s *Service) List(ctx context.Context) ([]Employee, error) {
	return s.repo.List(ctx)
}

// Create adds a directory record.
func (s *Service) Create(ctx context.Context, actor *rbac.Principal, req CreateEmployeeRequest) (Employee, error) {
	e, err := s.repo.Create(ctx, req)
	if err != nil {
		return Employee{}, err
	}
	s.recordAudit(ctx, actor, "employee.create", e.ID)
	return e, nil
}

// Update rewrites a directory record.
func (s *Service) Update(ctx context.Context, actor *rbac.Principal, id int64, req UpdateEmployeeRequest) (Employee, error) {
	e, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return Employee{}, err
	}
	s.recordAudit(ctx, actor, "employee.update", e.ID)
	return e, nil
}

// Delete removes a directory record.
func (s *Service) Delete(ctx context.Context, actor *rbac.Principal, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, actor, "employee.delete", id)
	return nil
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
		Entity:   "employee",
		EntityID: strconv.FormatInt(entityID, 10),
	})
}
