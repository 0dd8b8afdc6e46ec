package httpx

import (
	"context"
	"html"
	"log/slog"
	"net/http"

	"github.com/folioworks/folio/internal/domain/project"
	"github.com/folioworks/folio/internal/http/ui/viewmodel"
	"github.com/folioworks/folio/internal/service"
)

// ProjectsService is the project surface the UI needs.
type ProjectsService interface {
	List(ctx context.Context, store *service.SessionStore) ([]project.Project, error)
	Get(ctx context.Context, store *service.SessionStore, id string) (project.Project, error)
	Create(ctx context.Context, store *service.SessionStore, req project.CreateRequest) (project.Project, error)
	Delete(ctx context.Context, store *service.SessionStore, id string) (string, error)
}

// ContactService records contact form submissions.
type ContactService interface {
	Submit(ctx context.Context, msg service.ContactMessage) error
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ ProjectsService = (*service.ProjectService)(nil)
	_ ContactService  = (*service.ContactService)(nil)
	_ LoginService    = (*service.LoginService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T        *TemplateRenderer
	Projects ProjectsService
	Contact  ContactService
	IsDev    bool // Development mode flag for enhanced error reporting
	Logger   *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request's client session.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       pageTitle(meta.Title),
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
	}

	store, ok := SessionStoreFrom(r.Context())
	if !ok {
		return layout
	}
	if id, authed := store.Identity(); authed {
		layout.IsAuthenticated = true
		layout.IsAdmin = id.IsAdmin()
		layout.User = &viewmodel.User{
			ID:    id.ID,
			Email: id.Email,
			Name:  id.Name,
			Role:  string(id.Role),
		}
	}
	return layout
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"CSRFToken":       layout.CSRFToken,
		"IsAuthenticated": layout.IsAuthenticated,
		"IsAdmin":         layout.IsAdmin,
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	return data
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, optionally fetches content data, and renders.
// A failed fetch still renders the page with an error banner.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			h.logger().WarnContext(r.Context(), "page data fetch failed",
				"page", spec.Meta.CurrentPage,
				"error", err,
			)
			markPageError(data)
		}
	}
	h.renderPage(w, r, data)
}

// renderPage renders a page with htmx partial support. Partial responses
// carry a <title> and an out-of-band header so the chrome stays in sync.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	title, _ := data["Title"].(string)
	header, _ := data["PageTitle"].(string)
	page, _ := data["CurrentPage"].(string)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})
	prefix := `<title>` + html.EscapeString(title) + `</title>` +
		`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` + html.EscapeString(header) + `</h1>`
	if _, err := w.Write([]byte(prefix)); err != nil {
		h.logger().Error("failed to write partial header", "error", err)
		return
	}
	if err := h.T.RenderContent(w, page, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

func markPageError(data map[string]any) {
	data["Error"] = true
	if _, ok := data["ErrorMessage"]; ok {
		return
	}
	data["ErrorMessage"] = msgGenericError
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		body := `<div class="dev-error"><h2>Template Rendering Error</h2>` +
			`<p><strong>Context:</strong> ` + html.EscapeString(context) + `</p>` +
			`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
			`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`
		if _, writeErr := w.Write([]byte(body)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// sessionStore returns the request's store, or nil for a request that never
// passed through ClientSession.
func sessionStore(r *http.Request) *service.SessionStore {
	store, _ := SessionStoreFrom(r.Context())
	return store
}

// renderPageStatus renders a page with a non-200 status. htmx only swaps
// 2xx responses, so partial requests keep 200.
func (h *UIHandlers) renderPageStatus(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	if status != http.StatusOK && !WantsPartial(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
	}
	h.renderPage(w, r, data)
}
