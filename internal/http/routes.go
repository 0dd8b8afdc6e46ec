package httpx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	folio "github.com/folioworks/folio"
	"github.com/folioworks/folio/internal/observability/metrics"
	"github.com/folioworks/folio/internal/service"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Sessions *service.SessionRegistry
	Login    LoginService
	Projects ProjectsService
	Contact  ContactService

	Client      ClientSessionConfig
	CSRF        CSRFConfig
	Compression *CompressionConfig // nil disables gzip

	Metrics        metrics.Recorder
	MetricsHandler http.Handler // optional scrape endpoint
	MetricsPath    string

	// TemplateFS and StaticFS override where pages and assets are read from.
	// By default they come from the embedded build, or from disk when IsDev.
	TemplateFS fs.FS
	StaticFS   fs.FS

	IsDev  bool
	Logger *slog.Logger
}

// NewRouter creates the HTTP handler serving every route.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Sessions == nil {
		return nil, errors.New("session registry is required")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	templateFS, staticFS, err := resolveAssetFS(services)
	if err != nil {
		return nil, err
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("create template renderer: %w", err)
	}

	ui := &UIHandlers{
		T:        tr,
		Projects: services.Projects,
		Contact:  services.Contact,
		IsDev:    services.IsDev,
		Logger:   logger,
	}
	auth := &AuthHandlers{Svc: services.Login, UI: ui, Logger: logger}

	app := http.NewServeMux()
	registerPublicRoutes(app, ui)
	registerAuthRoutes(app, auth)
	registerGuardedRoutes(app, ui, GuardConfig{Metrics: services.Metrics, Logger: logger})
	app.HandleFunc("/", ui.NotFound)

	clientCfg := services.Client
	if clientCfg.Logger == nil {
		clientCfg.Logger = logger
	}
	csrfCfg := services.CSRF
	if csrfCfg.Logger == nil {
		csrfCfg.Logger = logger
	}
	var appHandler http.Handler = app
	appHandler = CSRFProtection(csrfCfg)(appHandler)
	appHandler = ClientSession(services.Sessions, clientCfg)(appHandler)

	root := http.NewServeMux()
	root.Handle("GET /healthz", healthHandler(services.Sessions.Len))
	root.Handle("HEAD /healthz", healthHandler(nil))
	root.Handle("GET /static/", staticHandler(staticFS, services.IsDev))
	if services.MetricsHandler != nil && services.MetricsPath != "" {
		root.Handle("GET "+services.MetricsPath, services.MetricsHandler)
	}
	root.Handle("/", appHandler)

	var handler http.Handler = root
	if services.Compression != nil {
		cc := *services.Compression
		if cc.Logger == nil {
			cc.Logger = logger
		}
		handler = Compression(cc)(handler)
	}
	handler = SecurityHeaders()(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler, nil
}

func registerPublicRoutes(mux *http.ServeMux, h *UIHandlers) {
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /about", h.About)
	mux.HandleFunc("GET /projects", h.ProjectsPage)
	mux.HandleFunc("GET /contact", h.ContactForm)
	mux.HandleFunc("POST /contact", h.ContactSubmit)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /login", h.LoginForm)
	mux.HandleFunc("POST /login", h.LoginSubmit)
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

func registerGuardedRoutes(mux *http.ServeMux, h *UIHandlers, cfg GuardConfig) {
	visitor := RequireSession(cfg)
	adminCfg := cfg
	adminCfg.RequireAdmin = true
	admin := RequireSession(adminCfg)

	mux.Handle("GET /visitor", visitor(http.HandlerFunc(h.VisitorHome)))
	mux.Handle("GET /visitor/home", visitor(http.HandlerFunc(h.VisitorHome)))

	mux.Handle("GET /admin", admin(http.HandlerFunc(h.AdminDashboard)))
	mux.Handle("GET /admin/dashboard", admin(http.HandlerFunc(h.AdminDashboard)))
	mux.Handle("GET /admin/projects", admin(http.HandlerFunc(h.AdminProjects)))
	mux.Handle("POST /admin/projects", admin(http.HandlerFunc(h.AdminProjectCreate)))
	mux.Handle("GET /admin/projects/{id}", admin(http.HandlerFunc(h.AdminProject)))
	mux.Handle("POST /admin/projects/{id}/delete", admin(http.HandlerFunc(h.AdminProjectDelete)))
}

// resolveAssetFS picks the template and static filesystems.
func resolveAssetFS(services RouterServices) (fs.FS, fs.FS, error) {
	templateFS, staticFS := services.TemplateFS, services.StaticFS
	if services.IsDev {
		if templateFS == nil {
			templateFS = os.DirFS(TemplatePathFromRoot)
		}
		if staticFS == nil {
			staticFS = os.DirFS("frontend/static")
		}
		return templateFS, staticFS, nil
	}

	var err error
	if templateFS == nil {
		if templateFS, err = fs.Sub(folio.TemplateFS, "frontend/templates"); err != nil {
			return nil, nil, fmt.Errorf("embedded templates: %w", err)
		}
	}
	if staticFS == nil {
		if staticFS, err = fs.Sub(folio.StaticFS, "frontend/static"); err != nil {
			return nil, nil, fmt.Errorf("embedded static assets: %w", err)
		}
	}
	return templateFS, staticFS, nil
}

// staticHandler serves /static/* with cache headers. Assets are not
// content-hashed, so production caching is kept short.
func staticHandler(staticFS fs.FS, isDev bool) http.Handler {
	files := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isDev {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		}
		files.ServeHTTP(w, r)
	})
}
