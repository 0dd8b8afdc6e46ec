package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/folioworks/folio/internal/domain/project"
	apperrors "github.com/folioworks/folio/internal/errors"
)

const adminProjectsPath = "/admin/projects"

// AdminDashboard renders the admin landing view.
func (h *UIHandlers) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	store := sessionStore(r)
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Dashboard", PageTitle: "Welcome to Admin Panel", CurrentPage: PageAdminDashboard},
		Fetch: func(ctx context.Context, data map[string]any) error {
			projects, err := h.Projects.List(ctx, store)
			if err != nil {
				data["ErrorMessage"] = apperrors.UserMessage(err, msgProjectsLoad)
				return err
			}
			data["ProjectCount"] = len(projects)
			return nil
		},
	})
}

func adminProjectsMeta() PageMeta {
	return PageMeta{Title: "Manage Projects", PageTitle: "Manage Projects", CurrentPage: PageAdminProjects}
}

type projectForm struct {
	Title        string
	Description  string
	Technologies string
}

// AdminProjects renders the project list with the create form.
// GET /admin/projects.
func (h *UIHandlers) AdminProjects(w http.ResponseWriter, r *http.Request) {
	b := NewTemplateData(r, adminProjectsMeta()).With("Form", projectForm{})
	switch {
	case r.URL.Query().Get("created") == "1":
		b.WithSuccess("Project added.")
	case r.URL.Query().Get("deleted") == "1":
		b.WithSuccess("Project deleted.")
	}
	h.renderAdminProjects(w, r, http.StatusOK, b)
}

// AdminProjectCreate submits a new project. On failure the form keeps what
// was typed and the list is unchanged.
// POST /admin/projects.
func (h *UIHandlers) AdminProjectCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderAdminProjects(w, r, http.StatusBadRequest,
			NewTemplateData(r, adminProjectsMeta()).WithError("Invalid form submission").With("ShowForm", true))
		return
	}
	form := projectForm{
		Title:        r.PostFormValue("title"),
		Description:  r.PostFormValue("description"),
		Technologies: r.PostFormValue("technologies"),
	}
	req := project.CreateRequest{
		Title:        form.Title,
		Description:  form.Description,
		Technologies: project.ParseTechnologies(form.Technologies),
	}

	if _, err := h.Projects.Create(r.Context(), sessionStore(r), req); err != nil {
		b := NewTemplateData(r, adminProjectsMeta()).
			WithAppError(err, "Could not add project.").
			With("Form", form).
			With("ShowForm", true)
		h.renderAdminProjects(w, r, apperrors.HTTPStatus(err), b)
		return
	}
	redirect(w, r, adminProjectsPath+"?created=1")
}

// AdminProjectDelete removes a project.
// POST /admin/projects/{id}/delete.
func (h *UIHandlers) AdminProjectDelete(w http.ResponseWriter, r *http.Request) {
	msg, err := h.Projects.Delete(r.Context(), sessionStore(r), r.PathValue("id"))
	if err != nil {
		b := NewTemplateData(r, adminProjectsMeta()).
			WithError(apperrors.UserMessage(err, msgProjectDelete)).
			With("Form", projectForm{})
		h.renderAdminProjects(w, r, apperrors.HTTPStatus(err), b)
		return
	}
	h.logger().InfoContext(r.Context(), "project deleted", "message", msg)
	redirect(w, r, adminProjectsPath+"?deleted=1")
}

// renderAdminProjects loads the list into b and renders the page. A list
// failure is shown next to any message already on b.
func (h *UIHandlers) renderAdminProjects(w http.ResponseWriter, r *http.Request, status int, b *TemplateDataBuilder) {
	projects, err := h.Projects.List(r.Context(), sessionStore(r))
	if err != nil {
		h.logger().WarnContext(r.Context(), "admin project list failed", "error", err)
		b.With("ListError", apperrors.UserMessage(err, msgProjectsLoad))
		projects = []project.Project{}
	}
	h.renderPageStatus(w, r, status, b.With("Projects", projects).Build())
}

// AdminProject renders a single project.
// GET /admin/projects/{id}.
func (h *UIHandlers) AdminProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, err := h.Projects.Get(r.Context(), sessionStore(r), id)
	if err != nil {
		if apperrors.IsNotFound(err) || upstreamStatus(err) == http.StatusNotFound {
			h.NotFound(w, r)
			return
		}
		data := NewTemplateData(r, PageMeta{Title: "Project", PageTitle: "Project", CurrentPage: PageAdminProject}).
			WithError(apperrors.UserMessage(err, "Could not load project.")).
			Build()
		h.renderPageStatus(w, r, apperrors.HTTPStatus(err), data)
		return
	}
	data := NewTemplateData(r, PageMeta{Title: p.Title, PageTitle: p.Title, CurrentPage: PageAdminProject}).
		With("Project", p).
		Build()
	h.renderPage(w, r, data)
}

// upstreamStatus returns the backend status carried by err, or 0.
func upstreamStatus(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeUpstream {
		return appErr.Status
	}
	return 0
}
