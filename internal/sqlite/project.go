package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/timestudy/internal/domain/project"
	"github.com/rpggio/timestudy/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project with its document
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	doc, err := encodeDocument(proj.Document)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO projects (
			id, name, primary_video, entry_count, total_duration,
			revision, document, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		proj.ID,
		proj.Name,
		proj.PrimaryVideo,
		proj.EntryCount,
		proj.TotalDuration,
		proj.Revision,
		doc,
		proj.CreatedAt,
		proj.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Get retrieves a project and decodes its document
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := `
		SELECT id, name, primary_video, entry_count, total_duration,
		       revision, document, created_at, updated_at
		FROM projects
		WHERE id = ?
	`

	var (
		proj project.Project
		doc  string
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&proj.ID,
		&proj.Name,
		&proj.PrimaryVideo,
		&proj.EntryCount,
		&proj.TotalDuration,
		&proj.Revision,
		&doc,
		&proj.CreatedAt,
		&proj.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	proj.Document, err = project.Unmarshal([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to decode project %s: %w", id, err)
	}

	return &proj, nil
}

// Update replaces a project's document if the stored revision matches
func (r *ProjectRepository) Update(ctx context.Context, proj *project.Project, expectedRevision int64) error {
	doc, err := encodeDocument(proj.Document)
	if err != nil {
		return err
	}

	query := `
		UPDATE projects
		SET name = ?, primary_video = ?, entry_count = ?, total_duration = ?,
		    revision = ?, document = ?, updated_at = ?
		WHERE id = ? AND revision = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		proj.Name,
		proj.PrimaryVideo,
		proj.EntryCount,
		proj.TotalDuration,
		proj.Revision,
		doc,
		proj.UpdatedAt,
		proj.ID,
		expectedRevision,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS(SELECT 1 FROM projects WHERE id = ?)`
		if err := r.db.QueryRowContext(ctx, checkQuery, proj.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check project existence: %w", err)
		}

		if !exists {
			return repository.ErrNotFound
		}

		// Saved elsewhere since it was loaded.
		return repository.ErrConflict
	}

	return nil
}

// List returns project summaries, most recently updated first
func (r *ProjectRepository) List(ctx context.Context) ([]project.ProjectSummary, error) {
	query := `
		SELECT id, name, primary_video, entry_count, total_duration, revision, updated_at
		FROM projects
		ORDER BY updated_at DESC, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	summaries := []project.ProjectSummary{}
	for rows.Next() {
		var s project.ProjectSummary
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.PrimaryVideo,
			&s.EntryCount,
			&s.TotalDuration,
			&s.Revision,
			&s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return summaries, nil
}

// Delete removes a project and its activity
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func encodeDocument(doc *project.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("%w: missing document", project.ErrInvalidDocument)
	}
	data, err := doc.Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to encode project document: %w", err)
	}
	return string(data), nil
}
