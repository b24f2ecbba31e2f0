package assets

import (
	"context"
	"fmt"
	"strconv"

	"github.com/atlas-itsm/atlas/internal/platform/httpx"
	"github.com/atlas-itsm/atlas/internal/rbac"
	"github.com/atlas-itsm/atlas/internal/shared"
)

// RepositoryPort defines data access methods for assets.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (Asset, error)
	List(ctx context.Context) ([]Asset, error)
	Create(ctx context.Context, req CreateAssetRequest) (Asset, error)
	Update(ctx context.Context, id int64, req UpdateAssetRequest) (Asset, error)
	Assign(ctx context.Context, id, userID int64) (Asset, error)
	SetAssignment(ctx context.Context, id int64, userID *int64, status string) (Asset, error)
}

// AuditRecorder persists audit trail entries.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Notifier delivers a message to a user account, typically out of band.
type Notifier interface {
	Dispatch(ctx context.Context, userID int64, subject, body string) error
}

// Service handles asset inventory business logic.
type Service struct {
	repo     RepositoryPort
	audit    AuditRecorder
	notifier Notifier
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit AuditRecorder, notifier Notifier) *Service {
	return &Service{repo: repo, audit: audit, notifier: notifier}
}

// Get returns one asset.
func (s *Service) Get(ctx context.Context, id int64) (Asset, error) {
	return s.repo.Get(ctx, id)
}

// List returns the full inventory.
func (s *Service) List(ctx context.Context) ([]Asset, error) {
	return s.repo.List(ctx)
}

// Create registers a new asset.
func (s *Service) Create(ctx context.Context, actor *rbac.Principal, req CreateAssetRequest) (Asset, error) {
	a, err := s.repo.Create(ctx, req)
	if err != nil {
		return Asset{}, err
	}
	s.recordAudit(ctx, actor, "asset.create", a.ID)
	return a, nil
}

// Update edits asset metadata. Status transitions through Update cannot
// touch the assignment; use Assign/Unassign for that.
func (s *Service) Update(ctx context.Context, actor *rbac.Principal, id int64, req UpdateAssetRequest) (Asset, error) {
	if !ValidStatus(req.Status) {
		return Asset{}, fmt.Errorf("status %q: %w", req.Status, httpx.ErrValidation)
	}
	a, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return Asset{}, err
	}
	s.recordAudit(ctx, actor, "asset.update", a.ID)
	return a, nil
}

// Assign hands the asset to a user account and notifies them.
func (s *Service) Assign(ctx context.Context, actor *rbac.Principal, id, userID int64) (Asset, error) {
	a, err := s.repo.Assign(ctx, id, userID)
	if err != nil {
		return Asset{}, err
	}
	s.recordAudit(ctx, actor, "asset.assign", a.ID)
	if s.notifier != nil {
		_ = s.notifier.Dispatch(ctx, userID, "Asset assigned to you",
			fmt.Sprintf("Asset %s (%s) has been assigned to you.", a.Tag, a.Name))
	}
	return a, nil
}

// Unassign returns the asset to the available pool.
func (s *Service) Unassign(ctx context.Context, actor *rbac.Principal, id int64) (Asset, error) {
	a, err := s.repo.SetAssignment(ctx, id, nil, StatusAvailable)
	if err != nil {
		return Asset{}, err
	}
	s.recordAudit(ctx, actor, "asset.unassign", a.ID)
	return a, nil
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
		Entity:   "asset",
		EntityID: strconv.FormatInt(entityID, 10),
	})
}
