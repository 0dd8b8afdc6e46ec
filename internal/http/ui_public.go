package httpx

import (
	"context"
	"net/http"

	apperrors "github.com/folioworks/folio/internal/errors"
	"github.com/folioworks/folio/internal/service"
)

// Home renders the landing page.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{Meta: PageMeta{Title: "", PageTitle: "Welcome", CurrentPage: PageHome}})
}

// About renders the about page.
func (h *UIHandlers) About(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{Meta: PageMeta{Title: "About", PageTitle: "About Me", CurrentPage: PageAbout}})
}

// Projects renders the public project list.
func (h *UIHandlers) ProjectsPage(w http.ResponseWriter, r *http.Request) {
	store := sessionStore(r)
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Projects", PageTitle: "My Projects", CurrentPage: PageProjects},
		Fetch: func(ctx context.Context, data map[string]any) error {
			projects, err := h.Projects.List(ctx, store)
			if err != nil {
				data["ErrorMessage"] = apperrors.UserMessage(err, msgProjectsLoad)
				return err
			}
			data["Projects"] = projects
			return nil
		},
	})
}

func contactMeta() PageMeta {
	return PageMeta{Title: "Contact", PageTitle: "Get in Touch", CurrentPage: PageContact}
}

// ContactForm renders the contact form, with a confirmation after a send.
// GET /contact.
func (h *UIHandlers) ContactForm(w http.ResponseWriter, r *http.Request) {
	b := NewTemplateData(r, contactMeta()).With("Form", service.ContactMessage{})
	if r.URL.Query().Get("sent") == "1" {
		b.WithSuccess(msgContactSent)
	}
	h.renderPage(w, r, b.Build())
}

// ContactSubmit records a contact message. Nothing is sent over the network.
// POST /contact.
func (h *UIHandlers) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderPageStatus(w, r, http.StatusBadRequest,
			NewTemplateData(r, contactMeta()).WithError("Invalid form submission").Build())
		return
	}
	msg := service.ContactMessage{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Message: r.PostFormValue("message"),
	}
	if err := h.Contact.Submit(r.Context(), msg); err != nil {
		data := NewTemplateData(r, contactMeta()).
			WithAppError(err, msgGenericError).
			With("Form", msg).
			Build()
		h.renderPageStatus(w, r, apperrors.HTTPStatus(err), data)
		return
	}
	redirect(w, r, "/contact?sent=1")
}
