package httpx

import (
	"net/http"
	"strings"

	apperrors "github.com/folioworks/folio/internal/errors"
)

// NotFound renders the 404 page. JSON clients get a JSON body.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		WriteAppError(w, apperrors.NotFound("not found"))
		return
	}

	data := NewTemplateData(r, PageMeta{Title: "Page Not Found", PageTitle: "Page Not Found", CurrentPage: PageNotFound}).
		With("Code", "404").
		With("Message", "The page you're looking for doesn't exist.").
		Build()

	if IsHTMX(r) {
		h.renderPage(w, r, data)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := h.T.RenderError(w, r, data); err != nil {
		h.logger().Error("failed to render not found page", "error", err)
	}
}

// wantsJSON reports whether the client prefers JSON over HTML.
func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
