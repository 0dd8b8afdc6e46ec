package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplateRenderer_RequiresFS(t *testing.T) {
	_, err := NewTemplateRenderer(TemplateRendererConfig{})
	require.Error(t, err)
}

func TestTemplateRenderer_ParsesAllPages(t *testing.T) {
	tr := requireTemplateRenderer(t)
	for page, name := range contentTemplates {
		assert.NotNil(t, tr.t.Lookup(name), "page %s", page)
	}
	assert.NotNil(t, tr.t.Lookup("layout"))
	assert.NotNil(t, tr.t.Lookup("error-layout"))
}

func TestTemplateRenderer_FailedRenderWritesNothing(t *testing.T) {
	fsys := fstest.MapFS{
		"layout.tmpl": {Data: []byte(`{{define "layout"}}start {{.Missing.Field}}{{end}}`)},
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fsys})
	require.Error(t, err, "pages and partials globs match nothing")
	assert.Nil(t, tr)

	fsys["pages/p.tmpl"] = &fstest.MapFile{Data: []byte(`{{define "home-content"}}home{{end}}`)}
	fsys["partials/x.tmpl"] = &fstest.MapFile{Data: []byte(`{{define "x"}}{{end}}`)}
	tr, err = NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fsys})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = tr.RenderFull(rec, nil, map[string]any{"Missing": 42})
	require.Error(t, err)
	assert.Empty(t, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Content-Type"))
}

func TestTemplateRenderer_RenderContent(t *testing.T) {
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: fstest.MapFS{
			"layout.tmpl":     {Data: []byte(`{{define "layout"}}<footer>{{year}}</footer>{{end}}`)},
			"pages/p.tmpl":    {Data: []byte(`{{define "home-content"}}<p>{{.Greeting}}</p>{{end}}`)},
			"partials/x.tmpl": {Data: []byte(`{{define "x"}}{{end}}`)},
		},
		Now: func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, tr.RenderContent(rec, PageHome, map[string]any{"Greeting": "<hi>"}))
	assert.Equal(t, "<p>&lt;hi&gt;</p>", rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	require.NoError(t, tr.RenderFull(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil))
	assert.Equal(t, "<footer>2030</footer>", rec.Body.String())
}
