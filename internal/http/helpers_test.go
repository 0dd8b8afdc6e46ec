package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/folioworks/folio/internal/adapters/memorykv"
	"github.com/folioworks/folio/internal/domain/project"
	apperrors "github.com/folioworks/folio/internal/errors"
	mockauth "github.com/folioworks/folio/internal/mocks/auth"
	"github.com/folioworks/folio/internal/ports"
	"github.com/folioworks/folio/internal/service"
	"github.com/folioworks/folio/internal/testutil"
)

// requireTemplateRenderer loads the real templates, skipping when they are absent.
func requireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); os.IsNotExist(err) {
		t.Skip("Templates not available, skipping")
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: os.DirFS(TemplatePathFromTest)})
	require.NoError(t, err)
	return tr
}

// fakeProjects is an in-memory ProjectsService. It records the bearer of
// every call to show which client made it.
type fakeProjects struct {
	mu       sync.Mutex
	items    []project.Project
	nextID   int
	listErr  error
	createFn func(project.CreateRequest) (project.Project, error)
	deleteFn func(id string) (string, error)
	bearers  []string
}

func (f *fakeProjects) record(ctx context.Context, store *service.SessionStore) {
	bearer := ""
	if store != nil {
		bearer, _ = store.Token(ctx)
	}
	f.bearers = append(f.bearers, bearer)
}

func (f *fakeProjects) List(ctx context.Context, store *service.SessionStore) ([]project.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, store)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]project.Project{}, f.items...), nil
}

func (f *fakeProjects) Get(ctx context.Context, store *service.SessionStore, id string) (project.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, store)
	for _, p := range f.items {
		if p.ID == id {
			return p, nil
		}
	}
	return project.Project{}, apperrors.Upstream(http.StatusNotFound, "Project not found")
}

func (f *fakeProjects) Create(ctx context.Context, store *service.SessionStore, req project.CreateRequest) (project.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, store)
	if f.createFn != nil {
		return f.createFn(req)
	}
	if strings.TrimSpace(req.Title) == "" {
		return project.Project{}, apperrors.ValidationField("title", "Please enter a project title")
	}
	f.nextID++
	p := project.Project{ID: fmt.Sprintf("p%d", f.nextID), Title: req.Title, Description: req.Description, Technologies: req.Technologies}
	f.items = append(f.items, p)
	return p, nil
}

func (f *fakeProjects) Delete(ctx context.Context, store *service.SessionStore, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, store)
	if f.deleteFn != nil {
		return f.deleteFn(id)
	}
	for i, p := range f.items {
		if p.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return "Project deleted", nil
		}
	}
	return "", apperrors.Upstream(http.StatusNotFound, "Project not found")
}

func (f *fakeProjects) Items() []project.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]project.Project{}, f.items...)
}

// fakeContact records submitted contact messages.
type fakeContact struct {
	mu   sync.Mutex
	msgs []service.ContactMessage
	err  error
}

func (f *fakeContact) Submit(_ context.Context, msg service.ContactMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

type testApp struct {
	kv       ports.KVStore
	registry *service.SessionRegistry
	auth     *mockauth.FakeAuthAPI
	projects *fakeProjects
	contact  *fakeContact
	handler  http.Handler
}

type testAppOptions struct {
	token   string
	limiter *service.LoginLimiter
	kv      ports.KVStore
}

func newTestApp(t *testing.T, opts testAppOptions) *testApp {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); os.IsNotExist(err) {
		t.Skip("Templates not available, skipping")
	}

	var kv ports.KVStore = memorykv.New()
	if opts.kv != nil {
		kv = opts.kv
	}
	registry, err := service.NewSessionRegistry(service.SessionRegistryOptions{KV: kv})
	require.NoError(t, err)

	authAPI := mockauth.NewFakeAuthAPI(opts.token)
	login, err := service.NewLoginService(service.LoginServiceOptions{Auth: authAPI, Limiter: opts.limiter})
	require.NoError(t, err)

	app := &testApp{
		kv:       kv,
		registry: registry,
		auth:     authAPI,
		projects: &fakeProjects{},
		contact:  &fakeContact{},
	}
	app.handler, err = NewRouter(RouterServices{
		Sessions:   registry,
		Login:      login,
		Projects:   app.projects,
		Contact:    app.contact,
		TemplateFS: os.DirFS(TemplatePathFromTest),
		StaticFS:   os.DirFS("../../frontend/static"),
	})
	require.NoError(t, err)
	return app
}

// browser drives the router like a real browser: it keeps cookies, sends the
// CSRF token with forms and does not follow redirects.
type browser struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client
}

func newBrowser(t *testing.T, h http.Handler) *browser {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:   t,
		srv: srv,
		client: &http.Client{
			Jar:     jar,
			Timeout: 5 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type page struct {
	Status int
	Header http.Header
	Body   string
}

func (b *browser) do(req *http.Request) page {
	b.t.Helper()
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return page{Status: resp.StatusCode, Header: resp.Header, Body: string(body)}
}

func (b *browser) get(path string, headers ...string) page {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.srv.URL+path, nil)
	require.NoError(b.t, err)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return b.do(req)
}

// post submits a form, fetching the home page first when no CSRF cookie exists yet.
func (b *browser) post(path string, form url.Values) page {
	b.t.Helper()
	if b.cookie(DefaultCSRFCookieName) == "" {
		b.get("/about")
	}
	if form == nil {
		form = url.Values{}
	}
	form.Set(CSRFFormField, b.cookie(DefaultCSRFCookieName))
	req, err := http.NewRequest(http.MethodPost, b.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) cookie(name string) string {
	u, err := url.Parse(b.srv.URL)
	require.NoError(b.t, err)
	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// login signs the browser in through the login form.
func (b *browser) login(email string) page {
	b.t.Helper()
	return b.post("/login", url.Values{"email": {email}, "password": {"secret"}})
}

func futureExp() time.Time { return time.Now().Add(time.Hour) }

func adminToken(t *testing.T) string   { return testutil.AdminToken(t, futureExp()) }
func visitorToken(t *testing.T) string { return testutil.VisitorToken(t, futureExp()) }
