package project

import "context"

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	Update(ctx context.Context, proj *Project, expectedRevision int64) error
	List(ctx context.Context) ([]ProjectSummary, error)
	Delete(ctx context.Context, id string) error
}
