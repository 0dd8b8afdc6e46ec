package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/folioworks/folio/internal/domain/project"
	apperrors "github.com/folioworks/folio/internal/errors"
	"github.com/folioworks/folio/internal/ports"
)

const msgTitleRequired = "Please enter a project title"

// ProjectServiceOptions groups dependencies for ProjectService.
type ProjectServiceOptions struct {
	API    ports.ProjectAPI // Required: backend project endpoints
	Logger *slog.Logger     // Optional: structured logger
}

// ProjectService reads and mutates backend project records on behalf of a
// client, using whatever Credential Token the client holds.
type ProjectService struct {
	api       ports.ProjectAPI
	logger    *slog.Logger
	sanitizer *textSanitizer
}

// NewProjectService constructs a new ProjectService.
func NewProjectService(opts ProjectServiceOptions) (*ProjectService, error) {
	if opts.API == nil {
		return nil, errors.New("ProjectAPI is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectService{
		api:       opts.API,
		logger:    logger.With("component", "project_service"),
		sanitizer: newTextSanitizer(),
	}, nil
}

// List returns all projects. Anonymous clients are served without a bearer.
func (s *ProjectService) List(ctx context.Context, store *SessionStore) ([]project.Project, error) {
	bearer, err := s.bearer(ctx, store)
	if err != nil {
		return nil, err
	}
	projects, err := s.api.List(ctx, bearer)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []project.Project{}
	}
	return projects, nil
}

// Get returns a single project.
func (s *ProjectService) Get(ctx context.Context, store *SessionStore, id string) (project.Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return project.Project{}, apperrors.NotFound("Project not found")
	}
	bearer, err := s.bearer(ctx, store)
	if err != nil {
		return project.Project{}, err
	}
	return s.api.Get(ctx, bearer, id)
}

// Create validates req and submits it. Nothing is recorded locally when the
// backend rejects the request.
func (s *ProjectService) Create(ctx context.Context, store *SessionStore, req project.CreateRequest) (project.Project, error) {
	req.Title = s.sanitizer.Clean(req.Title)
	req.Description = s.sanitizer.Clean(req.Description)
	req.Technologies = s.sanitizer.CleanAll(req.Technologies)
	req.Normalize()

	if err := req.Validate(); err != nil {
		if errors.Is(err, project.ErrTitleRequired) {
			return project.Project{}, apperrors.ValidationField("title", msgTitleRequired)
		}
		return project.Project{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, capitalize(err.Error()))
	}

	bearer, err := s.bearer(ctx, store)
	if err != nil {
		return project.Project{}, err
	}
	created, err := s.api.Create(ctx, bearer, req)
	if err != nil {
		s.logger.WarnContext(ctx, "create project failed", "title", req.Title, "error", err)
		return project.Project{}, err
	}
	s.logger.InfoContext(ctx, "project created", "project_id", created.ID)
	return created, nil
}

// Delete removes a project and returns the backend's confirmation message.
func (s *ProjectService) Delete(ctx context.Context, store *SessionStore, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", apperrors.NotFound("Project not found")
	}
	bearer, err := s.bearer(ctx, store)
	if err != nil {
		return "", err
	}
	msg, err := s.api.Delete(ctx, bearer, id)
	if err != nil {
		s.logger.WarnContext(ctx, "delete project failed", "project_id", id, "error", err)
		return "", err
	}
	s.logger.InfoContext(ctx, "project deleted", "project_id", id)
	return msg, nil
}

func (s *ProjectService) bearer(ctx context.Context, store *SessionStore) (string, error) {
	if store == nil {
		return "", nil
	}
	raw, err := store.Token(ctx)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "Could not read your session")
	}
	return raw, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
