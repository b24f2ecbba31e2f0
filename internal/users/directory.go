package users

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/atlas-itsm/atlas/internal/platform/httpx"
	"github.com/atlas-itsm/atlas/internal/rbac"
	"github.com/atlas-itsm/atlas/internal/shared"
)

// LookupPort is the slice of the repository the directory needs.
type LookupPort interface {
	FindByID(ctx context.Context, id int64) (User, error)
}

// Directory adapts the user store for the auth middleware. Concurrent
// lookups for the same id are collapsed with singleflight since every
// request from a user resolves the same record.
type Directory struct {
	repo  LookupPort
	group singleflight.Group
}

// NewDirectory constructs a Directory.
func NewDirectory(repo LookupPort) *Directory {
	return &Directory{repo: repo}
}

// FindByID resolves an account for the rbac middleware. Inactive users are
// reported as not found so their sessions stop authenticating.
func (d *Directory) FindByID(ctx context.Context, id int64) (rbac.Account, error) {
	v, err, _ := d.group.Do(fmt.Sprintf("user:%d", id), func() (any, error) {
		return d.repo.FindByID(ctx, id)
	})
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return rbac.Account{}, shared.ErrNotFound
		}
		return rbac.Account{}, err
	}
	u := v.(User)
	if !u.IsActive {
		return rbac.Account{}, shared.ErrNotFound
	}
	return rbac.Account{
		ID:         u.ID,
		Username:   u.Username,
		Role:       u.Role,
		EmployeeID: u.EmployeeID,
		ManagerID:  u.ManagerID,
	}, nil
}
