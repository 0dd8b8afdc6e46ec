package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/folioworks/folio/internal/domain/project"
	"github.com/folioworks/folio/internal/ports"
)

var _ ports.ProjectAPI = (*Projects)(nil)

// Projects implements ports.ProjectAPI against /projects.
type Projects struct {
	client *Client
}

// NewProjects returns the project endpoints of client.
func NewProjects(client *Client) *Projects {
	return &Projects{client: client}
}

type projectEnvelope struct {
	Project project.Project `json:"project"`
}

// List fetches GET /projects.
func (p *Projects) List(ctx context.Context, bearer string) ([]project.Project, error) {
	var out struct {
		Projects []project.Project `json:"projects"`
	}
	err := p.client.do(ctx, request{
		op:     "projects.list",
		method: http.MethodGet,
		path:   "/projects",
		bearer: bearer,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Projects == nil {
		out.Projects = []project.Project{}
	}
	return out.Projects, nil
}

// Get fetches GET /projects/{id}.
func (p *Projects) Get(ctx context.Context, bearer, id string) (project.Project, error) {
	var out projectEnvelope
	err := p.client.do(ctx, request{
		op:     "projects.get",
		method: http.MethodGet,
		path:   "/projects/" + url.PathEscape(id),
		bearer: bearer,
	}, &out)
	if err != nil {
		return project.Project{}, err
	}
	return out.Project, nil
}

// Create posts req to /projects.
func (p *Projects) Create(ctx context.Context, bearer string, req project.CreateRequest) (project.Project, error) {
	var out projectEnvelope
	err := p.client.do(ctx, request{
		op:     "projects.create",
		method: http.MethodPost,
		path:   "/projects",
		bearer: bearer,
		body:   req,
	}, &out)
	if err != nil {
		return project.Project{}, err
	}
	return out.Project, nil
}

// Delete sends DELETE /projects/{id} and returns the confirmation message.
func (p *Projects) Delete(ctx context.Context, bearer, id string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := p.client.do(ctx, request{
		op:     "projects.delete",
		method: http.MethodDelete,
		path:   "/projects/" + url.PathEscape(id),
		bearer: bearer,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}
