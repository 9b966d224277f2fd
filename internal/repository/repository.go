// Package repository declares the storage interfaces the services depend on.
// Implementations live in sub-packages (sqlite).
package repository

import (
	"context"

	"github.com/Atharva7126/community-dashboard/internal/model"
)

// Page size bounds shared by every List implementation.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type ListOptions struct {
	Limit  int
	Offset int
}

// Normalize clamps the options into the supported range.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Limit > MaxListLimit {
		o.Limit = MaxListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *model.Snapshot) error
	GetByID(ctx context.Context, id string) (*model.Snapshot, error)
	// Latest returns the most recently created snapshot, or ErrNotFound.
	Latest(ctx context.Context) (*model.Snapshot, error)
	List(ctx context.Context, opts ListOptions) ([]model.SnapshotInfo, error)
	Delete(ctx context.Context, id string) error
}

type MaintainerRepository interface {
	// Upsert inserts the maintainer or refreshes the profile of the existing
	// row with the same login. The internal ID never changes once assigned.
	Upsert(ctx context.Context, m *model.Maintainer) error
	GetByID(ctx context.Context, id string) (*model.Maintainer, error)
	GetByLogin(ctx context.Context, login string) (*model.Maintainer, error)
}
