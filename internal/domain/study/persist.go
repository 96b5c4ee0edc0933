package study

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rpggio/timestudy/internal/domain/activity"
	"github.com/rpggio/timestudy/internal/domain/project"
	"github.com/rpggio/timestudy/internal/domain/timeline"
)

// SaveProject stores the study in the project store. The first save
// creates the project; later saves must match the stored revision. The
// dirty flag is cleared only if nothing changed while saving.
func (s *Service) SaveProject(ctx context.Context, name string) (*project.Project, error) {
	if s.projects == nil {
		return nil, fmt.Errorf("%w: project store", ErrNotConfigured)
	}
	var (
		req project.SaveRequest
		gen uint64
	)
	err := s.loop.Call(ctx, func() error {
		id := s.session.project
		if strings.TrimSpace(name) == "" {
			name = id.Name
		}
		req = project.SaveRequest{
			ID:               id.ID,
			Name:             name,
			ExpectedRevision: id.Revision,
			Document:         s.session.document(),
		}
		gen = s.session.generation
		return nil
	})
	if err != nil {
		return nil, err
	}

	proj, err := s.projects.Save(ctx, req)
	if err != nil {
		return nil, err
	}

	err = s.loop.Call(ctx, func() error {
		s.session.project.ID = proj.ID
		s.session.project.Name = proj.Name
		s.session.project.Revision = proj.Revision
		if s.session.generation == gen {
			s.session.dirty = false
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, activity.TypeProjectSaved, "", fmt.Sprintf("Saved %q revision %d", proj.Name, proj.Revision))
	return proj, nil
}

// LoadProject replaces the study with a stored project.
func (s *Service) LoadProject(ctx context.Context, id string) (*LoadResult, error) {
	if s.projects == nil {
		return nil, fmt.Errorf("%w: project store", ErrNotConfigured)
	}
	proj, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if proj.Document == nil {
		return nil, fmt.Errorf("%w: project %s has no document", project.ErrInvalidDocument, id)
	}

	var result LoadResult
	err = s.loop.Call(ctx, func() error {
		r, err := s.session.apply(proj.Document)
		if err != nil {
			return err
		}
		s.session.project = Identity{ID: proj.ID, Name: proj.Name, Revision: proj.Revision}
		r.Project = s.session.project
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("project loaded", "project_id", proj.ID, "entries", result.Entries, "skipped", result.Skipped)
	s.record(ctx, activity.TypeProjectLoaded, "", fmt.Sprintf("Loaded %q with %d entries", proj.Name, result.Entries))
	return &result, nil
}

func (s *Service) ListProjects(ctx context.Context) ([]project.ProjectSummary, error) {
	if s.projects == nil {
		return nil, fmt.Errorf("%w: project store", ErrNotConfigured)
	}
	return s.projects.List(ctx)
}

// SaveProjectFile writes the study to a project file. A path without an
// extension gets project.FileExtension.
func (s *Service) SaveProjectFile(ctx context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%w: path is required", ErrInvalidInput)
	}
	if filepath.Ext(path) == "" {
		path += project.FileExtension
	}

	var (
		doc *project.Document
		gen uint64
	)
	if err := s.loop.Call(ctx, func() error {
		doc = s.session.document()
		gen = s.session.generation
		return nil
	}); err != nil {
		return "", err
	}

	if err := project.WriteFile(path, doc); err != nil {
		return "", err
	}

	err := s.loop.Call(ctx, func() error {
		s.session.project.FilePath = path
		if s.session.generation == gen {
			s.session.dirty = false
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	s.record(ctx, activity.TypeProjectSaved, "", fmt.Sprintf("Saved project file %s", path))
	return path, nil
}

// OpenProjectFile replaces the study with the contents of a project file.
func (s *Service) OpenProjectFile(ctx context.Context, path string) (*LoadResult, error) {
	doc, err := project.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var result LoadResult
	err = s.loop.Call(ctx, func() error {
		r, err := s.session.apply(doc)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		s.session.project = Identity{Name: name, FilePath: path}
		r.Project = s.session.project
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("project file opened", "path", path, "entries", result.Entries, "skipped", result.Skipped)
	s.record(ctx, activity.TypeProjectLoaded, "", fmt.Sprintf("Opened project file %s", path))
	return &result, nil
}

type thumbnailTarget struct {
	entryID string
	path    string
	offset  float64
}

// RegenerateThumbnails captures a frame for every entry that has none.
// Captures run one at a time; each result is applied as it arrives.
func (s *Service) RegenerateThumbnails(ctx context.Context) (*ThumbnailResult, error) {
	if s.capture == nil {
		return nil, fmt.Errorf("%w: frame capture", ErrNotConfigured)
	}
	var targets []thumbnailTarget
	err := s.loop.Call(ctx, func() error {
		if !s.session.loaded() {
			return ErrNoMedia
		}
		for _, e := range s.session.log.Entries() {
			if e.HasThumbnail() {
				continue
			}
			res := s.session.index.Resolve(e.Seconds())
			if !res.HasMedia() {
				continue
			}
			seg, err := s.session.index.Segment(res.Index)
			if err != nil {
				continue
			}
			targets = append(targets, thumbnailTarget{entryID: e.ID, path: seg.FilePath, offset: clampOffset(res.Offset, seg)})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &ThumbnailResult{}
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		data, err := s.capture.Capture(ctx, target.path, target.offset)
		if err != nil {
			s.logger.Warn("thumbnail regeneration failed", "entry_id", target.entryID, "error", err)
			result.Failed++
			continue
		}
		var applied bool
		if err := s.loop.Call(ctx, func() error {
			applied = s.session.log.SetThumbnail(target.entryID, data)
			if applied {
				s.session.touch()
			}
			return nil
		}); err != nil {
			return result, err
		}
		if applied {
			result.Regenerated++
		} else {
			result.Failed++
		}
	}
	s.logger.Info("thumbnails regenerated", "regenerated", result.Regenerated, "failed", result.Failed)
	return result, nil
}

// clampOffset keeps a capture point inside the file; the end of a
// segment has no frame.
func clampOffset(offset float64, seg timeline.Segment) float64 {
	if last := seg.Duration - timeline.FrameStep; offset > last && last > 0 {
		return last
	}
	return offset
}
