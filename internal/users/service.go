package users

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/atlas-itsm/atlas/internal/platform/httpx"
	"github.com/atlas-itsm/atlas/internal/rbac"
	"github.com/atlas-itsm/atlas/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	FindByID(ctx context.Context, id int64) (User, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, username, email, passwordHash, role string, employeeID, managerID *int64) (User, error)
	UpdateRole(ctx context.Context, id int64, role string) (User, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

// AuditRecorder persists audit trail entries.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles user management business logic.
type Service struct {
	repo  RepositoryPort
	audit AuditRecorder
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit AuditRecorder) *Service {
	return &Service{repo: repo, audit: audit}
}

// GetUser fetches one user.
func (s *Service) GetUser(ctx context.Context, id int64) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// CreateUser registers an account with a hashed password.
func (s *Service) CreateUser(ctx context.Context, actor *rbac.Principal, username, email, password, role string, employeeID, managerID *int64) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return User{}, fmt.Errorf("username required: %w", httpx.ErrValidation)
	}
	if !rbac.IsValidRole(role) {
		return User{}, fmt.Errorf("unknown role %q: %w", role, httpx.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	user, err := s.repo.Create(ctx, username, strings.TrimSpace(email), string(hash), role, employeeID, managerID)
	if err != nil {
		return User{}, err
	}
	s.recordAudit(ctx, actor, "user.create", user.ID, map[string]any{"role": role})
	return user, nil
}

// AssignRole changes a user's role.
func (s *Service) AssignRole(ctx context.Context, actor *rbac.Principal, id int64, role string) (User, error) {
	if !rbac.IsValidRole(role) {
		return User{}, fmt.Errorf("unknown role %q: %w", role, httpx.ErrValidation)
	}
	user, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return User{}, err
	}
	s.recordAudit(ctx, actor, "user.assign_role", user.ID, map[string]any{"role": role})
	return user, nil
}

// Deactivate disables an account; its sessions stop resolving on the next
// request.
func (s *Service) Deactivate(ctx context.Context, actor *rbac.Principal, id int64) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.recordAudit(ctx, actor, "user.deactivate", id, nil)
	return nil
}

func (s *Service) recordAudit(ctx context.Context, actor *rbac.Principal, action string, entityID int64, meta map[string]any) {
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
		Entity:   "user",
		EntityID: strconv.FormatInt(entityID, 10),
		Meta:     meta,
	})
}
