package repositories

import (
	"context"
	"errors"

	"github.com/vsinha/bidengine/pkg/domain/entities"
)

// ErrNotFound is wrapped by repositories when a record does not exist
var ErrNotFound = errors.New("not found")

// RFPRepository persists the RFP collection.
//
// UpdateRFP and UpdateAll are read-modify-write boundaries: the callback sees
// a private copy of the current state and its changes are written only when
// it returns nil. Implementations serialize these calls so concurrent stages
// never lose each other's updates.
type RFPRepository interface {
	GetRFP(ctx context.Context, id string) (*entities.RFP, error)
	ListRFPs(ctx context.Context) ([]*entities.RFP, error)
	SaveRFP(ctx context.Context, rfp *entities.RFP) error
	UpdateRFP(ctx context.Context, id string, fn func(rfp *entities.RFP) error) error
	UpdateAll(ctx context.Context, fn func(rfps []*entities.RFP) error) error
}

// Locker serializes writers across processes sharing one RFP store
type Locker interface {
	// Acquire blocks until the named lock is held or ctx is done
	Acquire(ctx context.Context, name string) (release func(), err error)
}
