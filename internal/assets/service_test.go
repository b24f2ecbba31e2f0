package assets

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-itsm/atlas/internal/platform/httpx"
	"github.com/atlas-itsm/atlas/internal/rbac"
	"github.com/atlas-itsm/atlas/internal/shared"
)

type stubRepo struct {
	assets map[int64]Asset
}

func (r *stubRepo) Get(_ context.Context, id int64) (Asset, error) {
	a, ok := r.assets[id]
	if !ok {
		return Asset{}, httpx.ErrNotFound
	}
	return a, nil
}

func (r *stubRepo) List(context.Context) ([]Asset, error) {
	out := make([]Asset, 0, len(r.assets))
	for _, a := range r.assets {
		out = append(out, a)
	}
	return out, nil
}

func (r *stubRepo) Create(_ context.Context, req CreateAssetRequest) (Asset, error) {
	a := Asset{ID: int64(len(r.assets) + 1), Tag: req.Tag, Name: req.Name, Category: req.Category, Status: StatusAvailable}
	r.assets[a.ID] = a
	return a, nil
}

func (r *stubRepo) Update(_ context.Context, id int64, req UpdateAssetRequest) (Asset, error) {
	a, ok := r.assets[id]
	if !ok {
		return Asset{}, httpx.ErrNotFound
	}
	a.Name = req.Name
	a.Category = req.Category
	a.Status = req.Status
	r.assets[id] = a
	return a, nil
}

func (r *stubRepo) Assign(_ context.Context, id, userID int64) (Asset, error) {
	a, ok := r.assets[id]
	if !ok {
		return Asset{}, httpx.ErrNotFound
	}
	if a.Status == StatusRetired {
		return Asset{}, fmt.Errorf("asset %d is retired: %w", id, httpx.ErrValidation)
	}
	a.AssignedToID = &userID
	a.Status = StatusAssigned
	r.assets[id] = a
	return a, nil
}

func (r *stubRepo) SetAssignment(_ context.Context, id int64, userID *int64, status string) (Asset, error) {
	a, ok := r.assets[id]
	if !ok {
		return Asset{}, httpx.ErrNotFound
	}
	a.AssignedToID = userID
	a.Status = status
	r.assets[id] = a
	return a, nil
}

type recordingAudit struct {
	logs []shared.AuditLog
}

func (a *recordingAudit) Record(_ context.Context, log shared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

type recordingNotifier struct {
	userIDs []int64
}

func (n *recordingNotifier) Dispatch(_ context.Context, userID int64, _, _ string) error {
	n.userIDs = append(n.userIDs, userID)
	return nil
}

func adminPrincipal() *rbac.Principal {
	return &rbac.Principal{ID: 1, Username: "root", Role: rbac.RoleAdmin}
}

func TestAssignNotifiesHolderAndAudits(t *testing.T) {
	repo := &stubRepo{assets: map[int64]Asset{
		3: {ID: 3, Tag: "AT-0003", Name: "MacBook", Status: StatusAvailable},
	}}
	audit := &recordingAudit{}
	notifier := &recordingNotifier{}
	svc := NewService(repo, audit, notifier)

	a, err := svc.Assign(context.Background(), adminPrincipal(), 3, 42)
	require.NoError(t, err)
	assert.Equal(t, StatusAssigned, a.Status)
	require.NotNil(t, a.AssignedToID)
	assert.Equal(t, int64(42), *a.AssignedToID)

	assert.Equal(t, []int64{42}, notifier.userIDs)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, "asset.assign", audit.logs[0].Action)
	assert.Equal(t, "asset", audit.logs[0].Entity)
}

func TestAssignRetiredAssetFails(t *testing.T) {
	repo := &stubRepo{assets: map[int64]Asset{
		3: {ID: 3, Tag: "AT-0003", Status: StatusRetired},
	}}
	notifier := &recordingNotifier{}
	svc := NewService(repo, nil, notifier)

	_, err := svc.Assign(context.Background(), adminPrincipal(), 3, 42)
	assert.ErrorIs(t, err, httpx.ErrValidation)
	assert.Empty(t, notifier.userIDs)
}

func TestUnassignReturnsAssetToPool(t *testing.T) {
	holder := int64(42)
	repo := &stubRepo{assets: map[int64]Asset{
		3: {ID: 3, Tag: "AT-0003", Status: StatusAssigned, AssignedToID: &holder},
	}}
	audit := &recordingAudit{}
	svc := NewService(repo, audit, nil)

	a, err := svc.Unassign(context.Background(), adminPrincipal(), 3)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, a.Status)
	assert.Nil(t, a.AssignedToID)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, "asset.unassign", audit.logs[0].Action)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	repo := &stubRepo{assets: map[int64]Asset{3: {ID: 3, Status: StatusAvailable}}}
	svc := NewService(repo, nil, nil)

	_, err := svc.Update(context.Background(), adminPrincipal(), 3, UpdateAssetRequest{
		Name: "Dock", Category: "peripheral", Status: "lost-forever",
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}
