package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/timestudy/internal/repository"
)

// Service handles saved project operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// SaveRequest defines project save inputs. An empty ID creates a new
// project; otherwise ExpectedRevision must match the stored revision.
type SaveRequest struct {
	ID               string
	Name             string
	ExpectedRevision int64
	Document         *Document
}

// Save creates or updates a project.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*Project, error) {
	if strings.TrimSpace(req.Name) == "" || req.Document == nil {
		return nil, ErrInvalidInput
	}

	now := time.Now()
	proj := &Project{
		ID:            req.ID,
		Name:          strings.TrimSpace(req.Name),
		PrimaryVideo:  req.Document.PrimaryVideo(),
		EntryCount:    len(req.Document.TimeStudyEntries),
		TotalDuration: totalDuration(req.Document),
		UpdatedAt:     now,
		Document:      req.Document,
	}

	if strings.TrimSpace(proj.ID) == "" {
		proj.ID = uuid.NewString()
		proj.Revision = 1
		proj.CreatedAt = now
		if err := s.repo.Create(ctx, proj); err != nil {
			return nil, fmt.Errorf("creating project: %w", err)
		}
		s.logger.Info("project created", "project_id", proj.ID, "entries", proj.EntryCount)
		return proj, nil
	}

	proj.Revision = req.ExpectedRevision + 1
	if err := s.repo.Update(ctx, proj, req.ExpectedRevision); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrProjectNotFound
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}
	s.logger.Info("project saved", "project_id", proj.ID, "revision", proj.Revision, "entries", proj.EntryCount)
	return proj, nil
}

// Get fetches a project with its document.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns project summaries, most recently updated first.
func (s *Service) List(ctx context.Context) ([]ProjectSummary, error) {
	return s.repo.List(ctx)
}

// Delete removes a project.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

func totalDuration(doc *Document) float64 {
	total := 0.0
	for _, s := range doc.VideoSegments {
		total += s.Duration
	}
	return total
}
